package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/promptkeep/promptkeep-server/internal/domain"
	"github.com/promptkeep/promptkeep-server/internal/id"
	"github.com/promptkeep/promptkeep-server/internal/store"
)

// scanPromptTag scans a sql.Row (or sql.Rows) into a domain.PromptTag.
func scanPromptTag(scanner interface{ Scan(dest ...any) error }) (*domain.PromptTag, error) {
	var pt domain.PromptTag
	var createdAt string

	err := scanner.Scan(&pt.ID, &pt.PromptID, &pt.TagID, &createdAt)
	if err != nil {
		return nil, err
	}

	pt.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &pt, nil
}

// ListTagsForPrompt returns all tags linked to a prompt, ordered by name.
// Ownership of the prompt is checked by callers.
func (s *Store) ListTagsForPrompt(ctx context.Context, promptID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.color, t.user_id, t.created_at, t.updated_at
		FROM prompt_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.prompt_id = ?
		ORDER BY t.name COLLATE NOCASE ASC`,
		promptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// AddTagToPrompt links a tag to a prompt. Idempotent: if the link already
// exists it is returned unchanged.
// Returns (link, created, error) where created is true if a new link was made.
func (s *Store) AddTagToPrompt(ctx context.Context, promptID, tagID string) (*domain.PromptTag, bool, error) {
	existing, err := s.getPromptTag(ctx, promptID, tagID)
	if err == nil {
		return existing, false, nil
	}
	if err != store.ErrNotFound {
		return nil, false, err
	}

	linkID, err := id.Generate(id.PrefixPromptTag)
	if err != nil {
		return nil, false, fmt.Errorf("generate link id: %w", err)
	}

	now := time.Now().UTC()
	pt := &domain.PromptTag{
		ID:        linkID,
		PromptID:  promptID,
		TagID:     tagID,
		CreatedAt: now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO prompt_tags (id, prompt_id, tag_id, created_at)
		VALUES (?, ?, ?, ?)`,
		pt.ID,
		pt.PromptID,
		pt.TagID,
		formatTime(pt.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Race: the link appeared between our lookup and insert.
			existing, err := s.getPromptTag(ctx, promptID, tagID)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	return pt, true, nil
}

// RemoveTagFromPrompt deletes the link between a prompt and a tag.
// Returns store.ErrNotFound if no such link exists.
func (s *Store) RemoveTagFromPrompt(ctx context.Context, promptID, tagID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM prompt_tags WHERE prompt_id = ? AND tag_id = ?`,
		promptID, tagID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// getPromptTag fetches a single link row.
func (s *Store) getPromptTag(ctx context.Context, promptID, tagID string) (*domain.PromptTag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, prompt_id, tag_id, created_at FROM prompt_tags
		 WHERE prompt_id = ? AND tag_id = ?`,
		promptID, tagID)

	pt, err := scanPromptTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return pt, nil
}
