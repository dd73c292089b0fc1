package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/promptkeep/promptkeep-server/internal/domain"
	"github.com/promptkeep/promptkeep-server/internal/id"
	"github.com/promptkeep/promptkeep-server/internal/store"
)

func createTestSession(t *testing.T, s *Store, userID, tokenHash string, expiresAt time.Time) *domain.Session {
	t.Helper()
	now := time.Now()
	sess := &domain.Session{
		ID:               id.MustGenerate(id.PrefixSession),
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		ExpiresAt:        expiresAt,
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.CreateSession(context.Background(), sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return sess
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s, "alice@example.com")
	sess := createTestSession(t, s, u.ID, "hash-1", time.Now().Add(time.Hour))

	got, err := s.GetSessionByTokenHash(ctx, "hash-1")
	if err != nil {
		t.Fatalf("GetSessionByTokenHash: %v", err)
	}
	if got.ID != sess.ID || got.UserID != u.ID {
		t.Errorf("got session %q for user %q", got.ID, got.UserID)
	}

	byID, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if byID.UserID != u.ID {
		t.Errorf("GetSession user: got %q, want %q", byID.UserID, u.ID)
	}
	if _, err := s.GetSession(ctx, "sess_missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetSession on unknown ID: got %v, want ErrNotFound", err)
	}

	// Rotation invalidates the old hash.
	newExpiry := time.Now().Add(2 * time.Hour)
	if err := s.RotateSession(ctx, sess.ID, "hash-2", newExpiry); err != nil {
		t.Fatalf("RotateSession: %v", err)
	}

	if _, err := s.GetSessionByTokenHash(ctx, "hash-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("old hash should be gone, got %v", err)
	}
	rotated, err := s.GetSessionByTokenHash(ctx, "hash-2")
	if err != nil {
		t.Fatalf("GetSessionByTokenHash after rotate: %v", err)
	}
	if rotated.ID != sess.ID {
		t.Errorf("rotation changed session identity: %q", rotated.ID)
	}

	if err := s.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := s.GetSessionByTokenHash(ctx, "hash-2"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected session gone after delete, got %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, s, "alice@example.com")
	createTestSession(t, s, u.ID, "live", time.Now().Add(time.Hour))
	createTestSession(t, s, u.ID, "stale", time.Now().Add(-time.Hour))

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted: got %d, want 1", n)
	}

	if _, err := s.GetSessionByTokenHash(ctx, "live"); err != nil {
		t.Errorf("live session should survive: %v", err)
	}
	if _, err := s.GetSessionByTokenHash(ctx, "stale"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("stale session should be gone, got %v", err)
	}
}
