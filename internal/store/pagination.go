package store

import "github.com/promptkeep/promptkeep-server/internal/domain"

// Pagination bounds. Page sizes above the maximum are clamped rather than
// rejected, so a misbehaving client cannot request unbounded result sets.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PromptQuery describes a prompt listing request. UserID is the implicit
// owner scope; everything else is optional.
type PromptQuery struct {
	UserID        string
	FolderID      string            // Exact match if set
	TagIDs        []string          // Matches prompts with ANY of these tags
	SearchQuery   string            // Case-insensitive substring match on title or body
	SortBy        domain.PromptSort // createdAt (default) or copyCount
	SortDirection string            // "asc" or "desc" (default)
	Page          int               // 1-based
	PageSize      int
}

// Normalize clamps pagination and sort parameters to valid values.
func (q *PromptQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.SortBy != domain.SortByCopyCount {
		q.SortBy = domain.SortByCreatedAt
	}
	if q.SortDirection != "asc" {
		q.SortDirection = "desc"
	}
}

// Offset returns the number of rows to skip for the requested page.
func (q *PromptQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Page is one page of results plus pagination metadata.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// NewPage assembles a result page, computing TotalPages from the count.
func NewPage[T any](items []T, total, page, pageSize int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
