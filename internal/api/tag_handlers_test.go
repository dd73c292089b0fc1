package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptkeep/promptkeep-server/internal/domain"
)

func TestCreateTag_FindOrCreate(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup("alice@example.com")

	resp := ts.do(http.MethodPost, "/api/v1/tags/", user.AccessToken, map[string]any{
		"name":  "writing",
		"color": 4,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decodeEnvelope[*domain.Tag](t, resp).Data
	assert.Equal(t, 4, created.Color)

	// Same name again returns the existing tag with 200, ignoring the new color.
	resp = ts.do(http.MethodPost, "/api/v1/tags/", user.AccessToken, map[string]any{
		"name":  "writing",
		"color": 9,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	existing := decodeEnvelope[*domain.Tag](t, resp).Data
	assert.Equal(t, created.ID, existing.ID)
	assert.Equal(t, 4, existing.Color)
}

func TestCreateTag_ColorClamped(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup("alice@example.com")

	resp := ts.do(http.MethodPost, "/api/v1/tags/", user.AccessToken, map[string]any{
		"name":  "loud",
		"color": 99,
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	tag := decodeEnvelope[*domain.Tag](t, resp).Data
	assert.Equal(t, 0, tag.Color)
}

func TestCreateTag_BlankName(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup("alice@example.com")

	resp := ts.do(http.MethodPost, "/api/v1/tags/", user.AccessToken, map[string]any{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListTags(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup("alice@example.com")
	ts.createTag(user.AccessToken, "one", 0)
	ts.createTag(user.AccessToken, "two", 1)

	resp := ts.do(http.MethodGet, "/api/v1/tags/", user.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	tags := decodeEnvelope[[]*domain.Tag](t, resp).Data
	assert.Len(t, tags, 2)
}

func TestDeleteTag_DetachesFromPrompts(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup("alice@example.com")
	tag := ts.createTag(user.AccessToken, "doomed", 1)
	prompt := ts.createPrompt(user.AccessToken, map[string]any{
		"title": "t", "body": "b", "tagIds": []string{tag.ID},
	})

	resp := ts.do(http.MethodDelete, "/api/v1/tags/"+tag.ID, user.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, decodeEnvelope[any](t, resp).Success)

	resp = ts.do(http.MethodGet, "/api/v1/prompts/"+prompt.ID, user.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	fetched := decodeEnvelope[*domain.PromptWithRelations](t, resp).Data
	assert.Empty(t, fetched.Tags)
}

func TestTags_PerUserNamespace(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.signup("alice@example.com")
	bob := ts.signup("bob@example.com")

	aliceTag := ts.createTag(alice.AccessToken, "shared-name", 0)
	bobTag := ts.createTag(bob.AccessToken, "shared-name", 5)

	assert.NotEqual(t, aliceTag.ID, bobTag.ID)

	// Bob cannot delete Alice's tag.
	resp := ts.do(http.MethodDelete, "/api/v1/tags/"+aliceTag.ID, bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
