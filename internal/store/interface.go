package store

import (
	"context"
	"time"

	"github.com/promptkeep/promptkeep-server/internal/domain"
)

// Store is the persistence contract the services depend on.
// The SQLite implementation lives in store/sqlite.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUserProfile(ctx context.Context, user *domain.User) error
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error

	// Folders
	ListFolders(ctx context.Context, userID string) ([]*domain.Folder, error)
	GetFolder(ctx context.Context, userID, folderID string) (*domain.Folder, error)
	GetGeneralFolder(ctx context.Context, userID string) (*domain.Folder, error)
	CreateFolder(ctx context.Context, folder *domain.Folder) error
	UpdateFolder(ctx context.Context, folder *domain.Folder) error
	DeleteFolder(ctx context.Context, userID, folderID string) error

	// Prompts
	ListPrompts(ctx context.Context, query PromptQuery) (*Page[*domain.PromptWithRelations], error)
	GetPrompt(ctx context.Context, userID, promptID string) (*domain.PromptWithRelations, error)
	ListFolderPrompts(ctx context.Context, userID, folderID string) ([]*domain.PromptWithRelations, error)
	CreatePrompt(ctx context.Context, prompt *domain.Prompt, tagIDs []string) error
	UpdatePrompt(ctx context.Context, prompt *domain.Prompt, tagIDs []string) error
	DeletePrompt(ctx context.Context, userID, promptID string) error
	IncrementCopyCount(ctx context.Context, userID, promptID string) (*domain.Prompt, error)

	// Tags
	ListTags(ctx context.Context, userID string) ([]*domain.Tag, error)
	GetTag(ctx context.Context, userID, tagID string) (*domain.Tag, error)
	FindOrCreateTag(ctx context.Context, userID, name string, color int) (*domain.Tag, bool, error)
	DeleteTag(ctx context.Context, userID, tagID string) error

	// Prompt-tag links
	ListTagsForPrompt(ctx context.Context, promptID string) ([]*domain.Tag, error)
	AddTagToPrompt(ctx context.Context, promptID, tagID string) (*domain.PromptTag, bool, error)
	RemoveTagFromPrompt(ctx context.Context, promptID, tagID string) error

	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	RotateSession(ctx context.Context, sessionID, newTokenHash string, expiresAt time.Time) error
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)
}
