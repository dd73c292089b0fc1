package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/promptkeep/promptkeep-server/internal/domain"
	"github.com/promptkeep/promptkeep-server/internal/store"
	"github.com/promptkeep/promptkeep-server/internal/util"
	"github.com/promptkeep/promptkeep-server/internal/validation"
)

// TagService orchestrates tag operations and the prompt-tag links.
// Tag creation is idempotent: asking for an existing name (compared
// case-insensitively) returns the existing tag.
type TagService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, validator *validation.Validator, logger *slog.Logger) *TagService {
	return &TagService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateTagRequest contains new tag data.
// Color is an index into the client's palette; out-of-range values clamp to 0.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color int    `json:"color"`
}

// ListTags returns all of the user's tags ordered by name.
func (s *TagService) ListTags(ctx context.Context, userID string) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// FindOrCreateTag returns the user's tag with the given name, creating it
// if absent. The created flag tells the handler whether to answer 200 or 201.
func (s *TagService) FindOrCreateTag(ctx context.Context, userID string, req CreateTagRequest) (*domain.Tag, bool, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, false, err
	}

	name := util.NormalizeTagName(req.Name)
	if name == "" {
		return nil, false, store.ErrInvalidInput.WithMessage("tag name cannot be blank")
	}

	tag, created, err := s.store.FindOrCreateTag(ctx, userID, name, req.Color)
	if err != nil {
		return nil, false, err
	}

	if created && s.logger != nil {
		s.logger.Info("Tag created", "tag_id", tag.ID, "user_id", userID)
	}

	return tag, created, nil
}

// DeleteTag removes a tag and detaches it from all prompts.
func (s *TagService) DeleteTag(ctx context.Context, userID, tagID string) error {
	if err := s.store.DeleteTag(ctx, userID, tagID); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("Tag deleted", "tag_id", tagID, "user_id", userID)
	}

	return nil
}

// ListTagsForPrompt returns the tags attached to a prompt.
func (s *TagService) ListTagsForPrompt(ctx context.Context, userID, promptID string) ([]*domain.Tag, error) {
	// Ownership check; also yields 404 for foreign prompts.
	if _, err := s.store.GetPrompt(ctx, userID, promptID); err != nil {
		return nil, err
	}

	return s.store.ListTagsForPrompt(ctx, promptID)
}

// AddTagToPrompt attaches a tag to a prompt. Attaching an already-attached
// tag is a no-op; the created flag reports which case occurred.
func (s *TagService) AddTagToPrompt(ctx context.Context, userID, promptID, tagID string) (*domain.PromptTag, bool, error) {
	if _, err := s.store.GetPrompt(ctx, userID, promptID); err != nil {
		return nil, false, err
	}
	if _, err := s.store.GetTag(ctx, userID, tagID); err != nil {
		return nil, false, err
	}

	return s.store.AddTagToPrompt(ctx, promptID, tagID)
}

// RemoveTagFromPrompt detaches a tag from a prompt.
// Removing a tag that isn't attached is a 404.
func (s *TagService) RemoveTagFromPrompt(ctx context.Context, userID, promptID, tagID string) error {
	if _, err := s.store.GetPrompt(ctx, userID, promptID); err != nil {
		return err
	}
	if _, err := s.store.GetTag(ctx, userID, tagID); err != nil {
		return err
	}

	return s.store.RemoveTagFromPrompt(ctx, promptID, tagID)
}
