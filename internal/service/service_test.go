package service

import (
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/promptkeep/promptkeep-server/internal/auth"
	"github.com/promptkeep/promptkeep-server/internal/store"
	"github.com/promptkeep/promptkeep-server/internal/store/sqlite"
	"github.com/promptkeep/promptkeep-server/internal/validation"
)

// testEnv bundles the services under test, all backed by one temporary
// SQLite database.
type testEnv struct {
	store    store.Store
	auth     *AuthService
	sessions *SessionService
	users    *UserService
	folders  *FolderService
	prompts  *PromptService
	tags     *TagService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	authKey, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(
		hex.EncodeToString(authKey),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	v := validation.New()
	sessions := NewSessionService(s, tokenService, logger)

	return &testEnv{
		store:    s,
		auth:     NewAuthService(s, tokenService, sessions, v, logger),
		sessions: sessions,
		users:    NewUserService(s, v, logger),
		folders:  NewFolderService(s, v, logger),
		prompts:  NewPromptService(s, v, logger),
		tags:     NewTagService(s, v, logger),
	}
}

// signupUser registers a user and returns the auth response.
func (e *testEnv) signupUser(t *testing.T, email string) *AuthResponse {
	t.Helper()

	resp, err := e.auth.Signup(context.Background(), SignupRequest{
		Email:    email,
		Password: "password123",
		Name:     "Test User",
	})
	require.NoError(t, err)
	return resp
}
