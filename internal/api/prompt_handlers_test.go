package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptkeep/promptkeep-server/internal/domain"
	"github.com/promptkeep/promptkeep-server/internal/store"
)

func (ts *testServer) createPrompt(token string, body map[string]any) *domain.PromptWithRelations {
	ts.t.Helper()

	resp := ts.do(http.MethodPost, "/api/v1/prompts/", token, body)
	require.Equal(ts.t, http.StatusCreated, resp.Code, "create prompt failed: %s", resp.Body.String())
	return decodeEnvelope[*domain.PromptWithRelations](ts.t, resp).Data
}

func (ts *testServer) createTag(token, name string, color int) *domain.Tag {
	ts.t.Helper()

	resp := ts.do(http.MethodPost, "/api/v1/tags/", token, map[string]any{"name": name, "color": color})
	require.Contains(ts.t, []int{http.StatusOK, http.StatusCreated}, resp.Code, resp.Body.String())
	return decodeEnvelope[*domain.Tag](ts.t, resp).Data
}

func TestCreatePrompt_DefaultsToGeneral(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup("alice@example.com")

	prompt := ts.createPrompt(user.AccessToken, map[string]any{
		"title": "Daily summary",
		"body":  "Summarize my notes.",
	})

	require.NotNil(t, prompt.Folder)
	assert.Equal(t, domain.GeneralFolderName, prompt.Folder.Name)
	assert.Equal(t, 0, prompt.CopyCount)
}

func TestCreatePrompt_WithTagsAndPhotos(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup("alice@example.com")
	tag := ts.createTag(user.AccessToken, "writing", 3)

	prompt := ts.createPrompt(user.AccessToken, map[string]any{
		"title":     "Blog outline",
		"body":      "Outline a blog post about Go.",
		"tagIds":    []string{tag.ID},
		"photoUrls": []string{"https://example.com/shot.png"},
	})

	require.Len(t, prompt.Tags, 1)
	assert.Equal(t, "writing", prompt.Tags[0].Name)
	assert.Equal(t, []string{"https://example.com/shot.png"}, prompt.PhotoURLs)
}

func TestCreatePrompt_Validation(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup("alice@example.com")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"body": "text"}},
		{"missing body", map[string]any{"title": "t"}},
		{"bad photo url", map[string]any{"title": "t", "body": "b", "photoUrls": []string{"not-a-url"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.do(http.MethodPost, "/api/v1/prompts/", user.AccessToken, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func TestGetPrompt_NotFound(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup("alice@example.com")

	resp := ts.do(http.MethodGet, "/api/v1/prompts/prompt_missing", user.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdatePrompt_ReplacesTags(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup("alice@example.com")
	tagA := ts.createTag(user.AccessToken, "alpha", 0)
	tagB := ts.createTag(user.AccessToken, "beta", 1)

	prompt := ts.createPrompt(user.AccessToken, map[string]any{
		"title":  "Original",
		"body":   "body",
		"tagIds": []string{tagA.ID},
	})

	resp := ts.do(http.MethodPut, "/api/v1/prompts/"+prompt.ID, user.AccessToken, map[string]any{
		"title":  "Updated",
		"body":   "new body",
		"tagIds": []string{tagB.ID},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decodeEnvelope[*domain.PromptWithRelations](t, resp).Data
	assert.Equal(t, "Updated", updated.Title)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "beta", updated.Tags[0].Name)
}

func TestDeletePrompt(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup("alice@example.com")
	prompt := ts.createPrompt(user.AccessToken, map[string]any{"title": "t", "body": "b"})

	resp := ts.do(http.MethodDelete, "/api/v1/prompts/"+prompt.ID, user.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, decodeEnvelope[any](t, resp).Success)

	resp = ts.do(http.MethodGet, "/api/v1/prompts/"+prompt.ID, user.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestIncrementCopyCount(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup("alice@example.com")
	prompt := ts.createPrompt(user.AccessToken, map[string]any{"title": "t", "body": "b"})

	for range 3 {
		resp := ts.do(http.MethodPost, "/api/v1/prompts/increment-copy", user.AccessToken, map[string]any{
			"promptId": prompt.ID,
		})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	}

	resp := ts.do(http.MethodGet, "/api/v1/prompts/"+prompt.ID, user.AccessToken, nil)
	fetched := decodeEnvelope[*domain.PromptWithRelations](t, resp).Data
	assert.Equal(t, 3, fetched.CopyCount)
}

func TestListPrompts_Pagination(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup("alice@example.com")

	for i := range 5 {
		ts.createPrompt(user.AccessToken, map[string]any{
			"title": fmt.Sprintf("Prompt %d", i),
			"body":  "body",
		})
	}

	resp := ts.do(http.MethodGet, "/api/v1/prompts/?page=2&pageSize=2", user.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	page := decodeEnvelope[store.Page[*domain.PromptWithRelations]](t, resp).Data
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.PageSize)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 2)
}

func TestListPrompts_FilterByFolderAndTags(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup("alice@example.com")

	resp := ts.do(http.MethodPost, "/api/v1/folders/", user.AccessToken, map[string]any{"name": "Work"})
	folder := decodeEnvelope[*domain.Folder](t, resp).Data
	tag := ts.createTag(user.AccessToken, "urgent", 5)

	ts.createPrompt(user.AccessToken, map[string]any{"title": "In General", "body": "b"})
	ts.createPrompt(user.AccessToken, map[string]any{
		"title": "In Work", "body": "b", "folderId": folder.ID, "tagIds": []string{tag.ID},
	})

	resp = ts.do(http.MethodGet, "/api/v1/prompts/?folderId="+folder.ID, user.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	page := decodeEnvelope[store.Page[*domain.PromptWithRelations]](t, resp).Data
	require.Len(t, page.Items, 1)
	assert.Equal(t, "In Work", page.Items[0].Title)

	resp = ts.do(http.MethodGet, "/api/v1/prompts/?tagIds="+tag.ID, user.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	page = decodeEnvelope[store.Page[*domain.PromptWithRelations]](t, resp).Data
	require.Len(t, page.Items, 1)
	assert.Equal(t, "In Work", page.Items[0].Title)

	// Filtering on a folder that does not exist is an error, not an empty page.
	resp = ts.do(http.MethodGet, "/api/v1/prompts/?folderId=fldr_missing", user.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListPrompts_SearchAndSort(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup("alice@example.com")

	ts.createPrompt(user.AccessToken, map[string]any{"title": "Recipe ideas", "body": "dinner"})
	popular := ts.createPrompt(user.AccessToken, map[string]any{"title": "Recipe cleanup", "body": "lunch"})
	ts.createPrompt(user.AccessToken, map[string]any{"title": "Unrelated", "body": "other"})

	resp := ts.do(http.MethodPost, "/api/v1/prompts/increment-copy", user.AccessToken, map[string]any{
		"promptId": popular.ID,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.do(http.MethodGet, "/api/v1/prompts/?searchQuery=recipe&sortBy=copyCount&sortDirection=desc", user.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	page := decodeEnvelope[store.Page[*domain.PromptWithRelations]](t, resp).Data
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Recipe cleanup", page.Items[0].Title)
}

func TestPromptTagSubresource(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup("alice@example.com")
	prompt := ts.createPrompt(user.AccessToken, map[string]any{"title": "t", "body": "b"})
	tag := ts.createTag(user.AccessToken, "pinned", 2)

	// Attach.
	resp := ts.do(http.MethodPost, "/api/v1/prompts/"+prompt.ID+"/tags", user.AccessToken, map[string]any{"tagId": tag.ID})
	assert.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	// Attaching again is idempotent and reports the existing link.
	resp = ts.do(http.MethodPost, "/api/v1/prompts/"+prompt.ID+"/tags", user.AccessToken, map[string]any{"tagId": tag.ID})
	assert.Equal(t, http.StatusOK, resp.Code)

	// List.
	resp = ts.do(http.MethodGet, "/api/v1/prompts/"+prompt.ID+"/tags", user.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	tags := decodeEnvelope[[]*domain.Tag](t, resp).Data
	require.Len(t, tags, 1)
	assert.Equal(t, "pinned", tags[0].Name)

	// Detach.
	resp = ts.do(http.MethodDelete, "/api/v1/prompts/"+prompt.ID+"/tags/"+tag.ID, user.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, decodeEnvelope[any](t, resp).Success)

	resp = ts.do(http.MethodDelete, "/api/v1/prompts/"+prompt.ID+"/tags/"+tag.ID, user.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestPrompts_CrossUserIsolation(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.signup("alice@example.com")
	bob := ts.signup("bob@example.com")

	prompt := ts.createPrompt(alice.AccessToken, map[string]any{"title": "secret", "body": "b"})

	resp := ts.do(http.MethodGet, "/api/v1/prompts/"+prompt.ID, bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.do(http.MethodDelete, "/api/v1/prompts/"+prompt.ID, bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.do(http.MethodPost, "/api/v1/prompts/increment-copy", bob.AccessToken, map[string]any{
		"promptId": prompt.ID,
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
