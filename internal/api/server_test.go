package api

import (
	"bytes"
	"encoding/hex"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptkeep/promptkeep-server/internal/auth"
	"github.com/promptkeep/promptkeep-server/internal/service"
	"github.com/promptkeep/promptkeep-server/internal/store/sqlite"
	"github.com/promptkeep/promptkeep-server/internal/validation"
)

// testEnvelope mirrors response.Envelope with typed data for assertions.
type testEnvelope[T any] struct {
	Data    T              `json:"data"`
	Error   string         `json:"error"`
	Details map[string]any `json:"details"`
	Success bool           `json:"success"`
}

// testServer wires a full server against a temporary SQLite database.
type testServer struct {
	server *Server
	t      *testing.T
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	authKey, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(hex.EncodeToString(authKey), 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	v := validation.New()
	sessions := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessions, v, logger)

	server := NewServer(
		authService,
		service.NewUserService(st, v, logger),
		service.NewFolderService(st, v, logger),
		service.NewPromptService(st, v, logger),
		service.NewTagService(st, v, logger),
		sessions,
		logger,
		Options{}, // no rate limiting in tests
	)

	return &testServer{server: server, t: t}
}

// do performs a request with an optional JSON body and bearer token.
func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.server.ServeHTTP(w, req)
	return w
}

// signup registers a user and returns the auth envelope data.
func (ts *testServer) signup(email string) service.AuthResponse {
	ts.t.Helper()

	resp := ts.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]any{
		"email":    email,
		"password": "password123",
		"name":     "Test User",
	})
	require.Equal(ts.t, http.StatusCreated, resp.Code, "signup failed: %s", resp.Body.String())

	var envelope testEnvelope[service.AuthResponse]
	require.NoError(ts.t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func decodeEnvelope[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()

	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[map[string]string](t, resp)
	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data["status"])
}

func TestUnknownRoute_EnvelopedNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	envelope := decodeEnvelope[any](t, resp)
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.Error)
}

func TestMethodNotAllowed_Enveloped(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodDelete, "/health", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)

	envelope := decodeEnvelope[any](t, resp)
	assert.False(t, envelope.Success)
}

func TestProtectedRoutes_RequireAuth(t *testing.T) {
	ts := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodGet, "/api/v1/folders/"},
		{http.MethodGet, "/api/v1/prompts/"},
		{http.MethodGet, "/api/v1/tags/"},
	}

	for _, p := range paths {
		t.Run(p.path, func(t *testing.T) {
			// No header at all.
			resp := ts.do(p.method, p.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, resp.Code)

			// Garbage token.
			resp = ts.do(p.method, p.path, "v4.local.garbage", nil)
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
		})
	}
}

func TestAuthRateLimit(t *testing.T) {
	ts := newTestServer(t)

	// Rebuild routing with a tiny limiter: 1 request burst.
	limiter := NewRateLimiter(1, time.Minute, 1)
	defer limiter.Stop()

	srv := NewServer(
		ts.server.authService,
		ts.server.userService,
		ts.server.folderService,
		ts.server.promptService,
		ts.server.tagService,
		ts.server.sessionService,
		ts.server.logger,
		Options{AuthRateLimiter: limiter},
	)

	body := map[string]any{"email": "x@example.com", "password": "password123"}

	req := func() int {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(raw))
		r.RemoteAddr = "10.1.2.3:4444"
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, r)
		return w.Code
	}

	first := req()
	assert.NotEqual(t, http.StatusTooManyRequests, first)

	second := req()
	assert.Equal(t, http.StatusTooManyRequests, second)
}
