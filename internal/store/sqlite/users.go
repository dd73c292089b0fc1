package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/promptkeep/promptkeep-server/internal/color"
	"github.com/promptkeep/promptkeep-server/internal/domain"
	"github.com/promptkeep/promptkeep-server/internal/id"
	"github.com/promptkeep/promptkeep-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, name, email, password_hash, avatar_url, created_at, updated_at`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.AvatarURL,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	// Derived display color, never persisted.
	u.AvatarColor = color.ForUser(u.ID)

	return &u, nil
}

// CreateUser inserts a new user together with their General folder.
// Both inserts run in one transaction: an account without its General folder
// would break folder deletion later.
// Returns store.ErrEmailExists on a duplicate email.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, avatar_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.AvatarURL,
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailExists
		}
		return err
	}

	folderID, err := id.Generate(id.PrefixFolder)
	if err != nil {
		return fmt.Errorf("generate folder id: %w", err)
	}

	now := formatTime(time.Now())
	_, err = tx.ExecContext(ctx, `
		INSERT INTO folders (id, name, description, user_id, created_at, updated_at)
		VALUES (?, ?, '', ?, ?, ?)`,
		folderID,
		domain.GeneralFolderName,
		u.ID,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("create general folder: %w", err)
	}

	return tx.Commit()
}

// GetUser retrieves a user by ID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, userID)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, compared case-insensitively.
// Returns store.ErrNotFound if no such user exists.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns all users ordered by creation time.
// Used by inspection tooling, not by the API surface.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserProfile updates a user's name and avatar.
func (s *Store) UpdateUserProfile(ctx context.Context, u *domain.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = ?, avatar_url = ?, updated_at = ?
		WHERE id = ?`,
		u.Name,
		u.AvatarURL,
		formatTime(u.UpdatedAt),
		u.ID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// UpdateUserPassword replaces a user's password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, updated_at = ?
		WHERE id = ?`,
		passwordHash,
		formatTime(time.Now()),
		userID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// requireRowAffected maps a zero-row UPDATE/DELETE to store.ErrNotFound.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
