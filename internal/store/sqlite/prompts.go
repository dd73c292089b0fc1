package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"
	"strings"
	"time"

	"github.com/promptkeep/promptkeep-server/internal/domain"
	"github.com/promptkeep/promptkeep-server/internal/id"
	"github.com/promptkeep/promptkeep-server/internal/store"
)

// promptColumns is the ordered list of columns selected in prompt queries.
// Must match the scan order in scanPrompt.
const promptColumns = `id, title, body, copy_count, photo_urls, folder_id, user_id, created_at, updated_at`

// scanPrompt scans a sql.Row (or sql.Rows via its Scan method) into a domain.Prompt.
func scanPrompt(scanner interface{ Scan(dest ...any) error }) (*domain.Prompt, error) {
	var p domain.Prompt

	var (
		photoURLs string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&p.ID,
		&p.Title,
		&p.Body,
		&p.CopyCount,
		&photoURLs,
		&p.FolderID,
		&p.UserID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(photoURLs), &p.PhotoURLs); err != nil {
		return nil, fmt.Errorf("parse photo_urls: %w", err)
	}
	if p.PhotoURLs == nil {
		p.PhotoURLs = []string{}
	}

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// marshalPhotoURLs serializes attachment references for storage.
func marshalPhotoURLs(urls []string) (string, error) {
	if urls == nil {
		urls = []string{}
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "", fmt.Errorf("marshal photo_urls: %w", err)
	}
	return string(b), nil
}

// promptSortColumn maps the sort allow-list to real column names. Anything
// else has already been normalized away by PromptQuery.Normalize.
func promptSortColumn(sortBy domain.PromptSort) string {
	if sortBy == domain.SortByCopyCount {
		return "copy_count"
	}
	return "created_at"
}

// buildPromptFilter composes the WHERE conjunction for a prompt listing.
// The same clause feeds both the COUNT and the page query so the two reads
// agree on the predicate.
func buildPromptFilter(q store.PromptQuery) (string, []any) {
	clauses := []string{"user_id = ?"}
	args := []any{q.UserID}

	if q.FolderID != "" {
		clauses = append(clauses, "folder_id = ?")
		args = append(args, q.FolderID)
	}

	if q.SearchQuery != "" {
		pattern := "%" + escapeLike(q.SearchQuery) + "%"
		clauses = append(clauses, `(title LIKE ? ESCAPE '\' OR body LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	if len(q.TagIDs) > 0 {
		placeholders := strings.Repeat("?,", len(q.TagIDs))
		placeholders = placeholders[:len(placeholders)-1]
		clauses = append(clauses, fmt.Sprintf(
			"id IN (SELECT prompt_id FROM prompt_tags WHERE tag_id IN (%s))", placeholders))
		for _, tagID := range q.TagIDs {
			args = append(args, tagID)
		}
	}

	return strings.Join(clauses, " AND "), args
}

// ListPrompts returns one page of a user's prompts matching the query,
// with folder and tags attached to each item.
func (s *Store) ListPrompts(ctx context.Context, q store.PromptQuery) (*store.Page[*domain.PromptWithRelations], error) {
	q.Normalize()

	where, args := buildPromptFilter(q)

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM prompts WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count prompts: %w", err)
	}

	direction := "DESC"
	if q.SortDirection == "asc" {
		direction = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM prompts WHERE %s ORDER BY %s %s LIMIT ? OFFSET ?`,
		promptColumns, where, promptSortColumn(q.SortBy), direction)
	pageArgs := append(args, q.PageSize, q.Offset())

	rows, err := s.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}
	defer rows.Close()

	var prompts []*domain.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := s.attachRelations(ctx, q.UserID, prompts)
	if err != nil {
		return nil, err
	}

	return store.NewPage(items, total, q.Page, q.PageSize), nil
}

// GetPrompt retrieves one prompt with its folder and tags, scoped to its owner.
// Returns store.ErrNotFound if it does not exist or belongs to another user.
func (s *Store) GetPrompt(ctx context.Context, userID, promptID string) (*domain.PromptWithRelations, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE id = ? AND user_id = ?`,
		promptID, userID)

	p, err := scanPrompt(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := s.attachRelations(ctx, userID, []*domain.Prompt{p})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

// ListFolderPrompts returns all prompts in one folder, newest first,
// with tags attached. Used by the folder detail endpoint.
func (s *Store) ListFolderPrompts(ctx context.Context, userID, folderID string) ([]*domain.PromptWithRelations, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+promptColumns+` FROM prompts
		 WHERE user_id = ? AND folder_id = ?
		 ORDER BY created_at DESC`,
		userID, folderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prompts []*domain.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return s.attachRelations(ctx, userID, prompts)
}

// CreatePrompt inserts a new prompt and its tag links in one transaction.
// The folder must belong to the prompt's owner; callers verify that first.
func (s *Store) CreatePrompt(ctx context.Context, p *domain.Prompt, tagIDs []string) error {
	photoURLs, err := marshalPhotoURLs(p.PhotoURLs)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO prompts (id, title, body, copy_count, photo_urls, folder_id, user_id, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Title,
		p.Body,
		photoURLs,
		p.FolderID,
		p.UserID,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert prompt: %w", err)
	}

	if err := insertPromptTags(ctx, tx, p.ID, tagIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdatePrompt rewrites a prompt's fields and replaces its tag links
// entirely (delete-all-then-recreate), all in one transaction.
func (s *Store) UpdatePrompt(ctx context.Context, p *domain.Prompt, tagIDs []string) error {
	photoURLs, err := marshalPhotoURLs(p.PhotoURLs)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE prompts SET title = ?, body = ?, photo_urls = ?, folder_id = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		p.Title,
		p.Body,
		photoURLs,
		p.FolderID,
		formatTime(p.UpdatedAt),
		p.ID,
		p.UserID,
	)
	if err != nil {
		return fmt.Errorf("update prompt: %w", err)
	}
	if err := requireRowAffected(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM prompt_tags WHERE prompt_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clear prompt tags: %w", err)
	}

	if err := insertPromptTags(ctx, tx, p.ID, tagIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// DeletePrompt removes a prompt; its tag links go with it via ON DELETE CASCADE.
// Returns store.ErrNotFound if it does not exist or belongs to another user.
func (s *Store) DeletePrompt(ctx context.Context, userID, promptID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM prompts WHERE id = ? AND user_id = ?`,
		promptID, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// IncrementCopyCount bumps a prompt's copy counter by one and returns the
// updated prompt. The increment happens in SQL, not read-modify-write, so
// concurrent copies never lose updates.
func (s *Store) IncrementCopyCount(ctx context.Context, userID, promptID string) (*domain.Prompt, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE prompts SET copy_count = copy_count + 1, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		formatTime(time.Now()),
		promptID,
		userID,
	)
	if err != nil {
		return nil, err
	}
	if err := requireRowAffected(res); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE id = ? AND user_id = ?`,
		promptID, userID)
	return scanPrompt(row)
}

// insertPromptTags creates link rows for each tag ID within tx.
func insertPromptTags(ctx context.Context, tx *sql.Tx, promptID string, tagIDs []string) error {
	now := formatTime(time.Now())
	for _, tagID := range tagIDs {
		linkID, err := id.Generate(id.PrefixPromptTag)
		if err != nil {
			return fmt.Errorf("generate link id: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO prompt_tags (id, prompt_id, tag_id, created_at)
			VALUES (?, ?, ?, ?)`,
			linkID,
			promptID,
			tagID,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert prompt_tag: %w", err)
		}
	}
	return nil
}

// attachRelations loads the folder and tags for each prompt.
// One query for folders, one for tags, regardless of page size.
func (s *Store) attachRelations(ctx context.Context, userID string, prompts []*domain.Prompt) ([]*domain.PromptWithRelations, error) {
	if len(prompts) == 0 {
		return []*domain.PromptWithRelations{}, nil
	}

	folders, err := s.ListFolders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load folders: %w", err)
	}
	folderByID := make(map[string]*domain.Folder, len(folders))
	for _, f := range folders {
		folderByID[f.ID] = f
	}

	promptIDs := make([]string, len(prompts))
	for i, p := range prompts {
		promptIDs[i] = p.ID
	}

	tagsByPrompt, err := s.tagsByPromptID(ctx, promptIDs)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.PromptWithRelations, len(prompts))
	for i, p := range prompts {
		tags := tagsByPrompt[p.ID]
		if tags == nil {
			tags = []*domain.Tag{}
		}
		items[i] = &domain.PromptWithRelations{
			Prompt: *p,
			Folder: folderByID[p.FolderID],
			Tags:   tags,
		}
	}

	return items, nil
}

// tagsByPromptID loads tags for a set of prompts in one query.
func (s *Store) tagsByPromptID(ctx context.Context, promptIDs []string) (map[string][]*domain.Tag, error) {
	placeholders := strings.Repeat("?,", len(promptIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(promptIDs))
	for i, pid := range promptIDs {
		args[i] = pid
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT pt.prompt_id, t.id, t.name, t.color, t.user_id, t.created_at, t.updated_at
		FROM prompt_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.prompt_id IN (%s)
		ORDER BY t.name COLLATE NOCASE ASC`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("query prompt tags: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]*domain.Tag)
	for rows.Next() {
		var promptID string
		var t domain.Tag
		var createdAt, updatedAt string

		err := rows.Scan(&promptID, &t.ID, &t.Name, &t.Color, &t.UserID, &createdAt, &updatedAt)
		if err != nil {
			return nil, err
		}
		t.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		t.UpdatedAt, err = parseTime(updatedAt)
		if err != nil {
			return nil, err
		}

		result[promptID] = append(result[promptID], &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
