package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"
	"strings"

	"github.com/promptkeep/promptkeep-server/internal/domain"
	"github.com/promptkeep/promptkeep-server/internal/store"
)

// maxBodySize bounds request bodies; prompt bodies are text, nothing should
// come close to this.
const maxBodySize = 1 << 20 // 1 MiB

// decodeJSON reads a JSON request body into dst using json/v2.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodySize)
	return json.UnmarshalRead(r.Body, dst)
}

// parsePromptQuery builds a prompt listing query from URL parameters.
// Out-of-range values are clamped by the store, not rejected.
func parsePromptQuery(r *http.Request, userID string) store.PromptQuery {
	q := r.URL.Query()

	query := store.PromptQuery{
		UserID:        userID,
		FolderID:      q.Get("folderId"),
		SearchQuery:   q.Get("searchQuery"),
		SortBy:        domain.PromptSort(q.Get("sortBy")),
		SortDirection: q.Get("sortDirection"),
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		query.Page = page
	}
	if pageSize, err := strconv.Atoi(q.Get("pageSize")); err == nil {
		query.PageSize = pageSize
	}

	// tagIds is a comma-separated list.
	if raw := q.Get("tagIds"); raw != "" {
		for _, tagID := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(tagID); trimmed != "" {
				query.TagIDs = append(query.TagIDs, trimmed)
			}
		}
	}

	return query
}
