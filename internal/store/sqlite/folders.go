package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/promptkeep/promptkeep-server/internal/domain"
	"github.com/promptkeep/promptkeep-server/internal/store"
)

// folderColumns is the ordered list of columns selected in folder queries.
// Must match the scan order in scanFolder.
const folderColumns = `id, name, description, user_id, created_at, updated_at`

// scanFolder scans a sql.Row (or sql.Rows via its Scan method) into a domain.Folder.
func scanFolder(scanner interface{ Scan(dest ...any) error }) (*domain.Folder, error) {
	var f domain.Folder

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&f.ID,
		&f.Name,
		&f.Description,
		&f.UserID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	f.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	f.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &f, nil
}

// ListFolders returns all of a user's folders ordered by name.
func (s *Store) ListFolders(ctx context.Context, userID string) ([]*domain.Folder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+folderColumns+` FROM folders WHERE user_id = ? ORDER BY name COLLATE NOCASE ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []*domain.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if folders == nil {
		folders = []*domain.Folder{}
	}

	return folders, nil
}

// GetFolder retrieves one folder scoped to its owner.
// Returns store.ErrNotFound if it does not exist or belongs to another user.
func (s *Store) GetFolder(ctx context.Context, userID, folderID string) (*domain.Folder, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+folderColumns+` FROM folders WHERE id = ? AND user_id = ?`,
		folderID, userID)

	f, err := scanFolder(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// GetGeneralFolder retrieves the user's protected General folder.
func (s *Store) GetGeneralFolder(ctx context.Context, userID string) (*domain.Folder, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+folderColumns+` FROM folders WHERE user_id = ? AND name = ?`,
		userID, domain.GeneralFolderName)

	f, err := scanFolder(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CreateFolder inserts a new folder.
// Returns store.ErrDuplicateName on a case-insensitive name collision.
func (s *Store) CreateFolder(ctx context.Context, f *domain.Folder) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO folders (id, name, description, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID,
		f.Name,
		f.Description,
		f.UserID,
		formatTime(f.CreatedAt),
		formatTime(f.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateName
		}
		return err
	}
	return nil
}

// UpdateFolder renames a folder and updates its description.
// Returns store.ErrNotFound if the folder is missing or not owned by f.UserID,
// store.ErrImmutable when attempting to rename the General folder, and
// store.ErrDuplicateName on a name collision with another folder.
func (s *Store) UpdateFolder(ctx context.Context, f *domain.Folder) error {
	existing, err := s.GetFolder(ctx, f.UserID, f.ID)
	if err != nil {
		return err
	}

	if existing.IsGeneral() && f.Name != domain.GeneralFolderName {
		return store.ErrImmutable.WithMessage("the General folder cannot be renamed")
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE folders SET name = ?, description = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		f.Name,
		f.Description,
		formatTime(f.UpdatedAt),
		f.ID,
		f.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateName
		}
		return err
	}
	return nil
}

// DeleteFolder deletes a folder, first reassigning its prompts to the user's
// General folder. Reassignment and deletion run in one transaction so a
// failure cannot strand prompts in a deleted folder.
// Returns store.ErrImmutable for the General folder itself.
func (s *Store) DeleteFolder(ctx context.Context, userID, folderID string) error {
	folder, err := s.GetFolder(ctx, userID, folderID)
	if err != nil {
		return err
	}
	if folder.IsGeneral() {
		return store.ErrImmutable.WithMessage("the General folder cannot be deleted")
	}

	general, err := s.GetGeneralFolder(ctx, userID)
	if err != nil {
		return fmt.Errorf("find general folder: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE prompts SET folder_id = ? WHERE folder_id = ? AND user_id = ?`,
		general.ID, folderID, userID); err != nil {
		return fmt.Errorf("reassign prompts: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM folders WHERE id = ? AND user_id = ?`,
		folderID, userID); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	return tx.Commit()
}
