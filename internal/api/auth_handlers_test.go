package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptkeep/promptkeep-server/internal/service"
)

func TestSignup(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]any{
		"email":    "alice@example.com",
		"password": "password123",
		"name":     "Alice",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[service.AuthResponse](t, resp)
	assert.True(t, envelope.Success)
	assert.Equal(t, "alice@example.com", envelope.Data.User.Email)
	assert.Equal(t, "Alice", envelope.Data.User.Name)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.Equal(t, "Bearer", envelope.Data.TokenType)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.signup("alice@example.com")

	resp := ts.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]any{
		"email":    "Alice@Example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	envelope := decodeEnvelope[any](t, resp)
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.Error)
}

func TestSignup_Validation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing email", map[string]any{"password": "password123"}},
		{"bad email", map[string]any{"email": "not-an-email", "password": "password123"}},
		{"short password", map[string]any{"email": "a@b.com", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.do(http.MethodPost, "/api/v1/auth/signup", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)

			envelope := decodeEnvelope[any](t, resp)
			assert.False(t, envelope.Success)
		})
	}
}

func TestSignup_InvalidJSON(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodPost, "/api/v1/auth/signup", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.signup("alice@example.com")

	resp := ts.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[service.AuthResponse](t, resp)
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.signup("alice@example.com")

	resp := ts.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	envelope := decodeEnvelope[any](t, resp)
	assert.False(t, envelope.Success)
}

func TestLogin_UnknownEmail(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	// Same status as a wrong password, no account enumeration.
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRefresh(t *testing.T) {
	ts := newTestServer(t)
	signup := ts.signup("alice@example.com")

	resp := ts.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{
		"refresh_token": signup.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[service.SessionResponse](t, resp)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.NotEqual(t, signup.RefreshToken, envelope.Data.RefreshToken)

	// The old refresh token is dead after rotation.
	resp = ts.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{
		"refresh_token": signup.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	signup := ts.signup("alice@example.com")

	resp := ts.do(http.MethodPost, "/api/v1/auth/logout", signup.AccessToken, map[string]any{
		"session_id": signup.SessionID,
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	// Refresh token no longer works after logout.
	resp = ts.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{
		"refresh_token": signup.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogout_RequiresAuth(t *testing.T) {
	ts := newTestServer(t)
	signup := ts.signup("alice@example.com")

	// No bearer token: the session must stay alive.
	resp := ts.do(http.MethodPost, "/api/v1/auth/logout", "", map[string]any{
		"session_id": signup.SessionID,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{
		"refresh_token": signup.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestLogout_OtherUsersSession(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.signup("alice@example.com")
	bob := ts.signup("bob@example.com")

	// Bob cannot revoke Alice's session even knowing its ID.
	resp := ts.do(http.MethodPost, "/api/v1/auth/logout", bob.AccessToken, map[string]any{
		"session_id": alice.SessionID,
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{
		"refresh_token": alice.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestLogout_MissingSessionID(t *testing.T) {
	ts := newTestServer(t)
	signup := ts.signup("alice@example.com")

	resp := ts.do(http.MethodPost, "/api/v1/auth/logout", signup.AccessToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAccessToken_AuthorizesRequests(t *testing.T) {
	ts := newTestServer(t)
	signup := ts.signup("alice@example.com")

	resp := ts.do(http.MethodGet, "/api/v1/users/me", signup.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[map[string]any]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "alice@example.com", envelope.Data["email"])
}
