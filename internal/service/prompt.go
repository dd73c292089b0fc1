package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/promptkeep/promptkeep-server/internal/domain"
	"github.com/promptkeep/promptkeep-server/internal/id"
	"github.com/promptkeep/promptkeep-server/internal/store"
	"github.com/promptkeep/promptkeep-server/internal/validation"
)

// PromptService orchestrates prompt operations: CRUD, filtered listing,
// and the copy counter.
type PromptService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewPromptService creates a new prompt service.
func NewPromptService(store store.Store, validator *validation.Validator, logger *slog.Logger) *PromptService {
	return &PromptService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreatePromptRequest contains new prompt data.
// FolderID is optional; an empty value files the prompt under General.
type CreatePromptRequest struct {
	Title     string   `json:"title" validate:"required,max=200"`
	Body      string   `json:"body" validate:"required"`
	FolderID  string   `json:"folderId"`
	TagIDs    []string `json:"tagIds"`
	PhotoURLs []string `json:"photoUrls" validate:"omitempty,dive,url"`
}

// UpdatePromptRequest contains replacement prompt data.
// The tag set is replaced wholesale with TagIDs.
type UpdatePromptRequest struct {
	Title     string   `json:"title" validate:"required,max=200"`
	Body      string   `json:"body" validate:"required"`
	FolderID  string   `json:"folderId"`
	TagIDs    []string `json:"tagIds"`
	PhotoURLs []string `json:"photoUrls" validate:"omitempty,dive,url"`
}

// ListPrompts returns a page of the user's prompts matching the query.
func (s *PromptService) ListPrompts(ctx context.Context, query store.PromptQuery) (*store.Page[*domain.PromptWithRelations], error) {
	if query.FolderID != "" {
		// Reject unknown or foreign folder filters up front.
		if _, err := s.store.GetFolder(ctx, query.UserID, query.FolderID); err != nil {
			return nil, err
		}
	}

	page, err := s.store.ListPrompts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return page, nil
}

// GetPrompt returns a prompt with its folder and tags.
func (s *PromptService) GetPrompt(ctx context.Context, userID, promptID string) (*domain.PromptWithRelations, error) {
	return s.store.GetPrompt(ctx, userID, promptID)
}

// CreatePrompt creates a prompt, filing it under General when no folder is given.
func (s *PromptService) CreatePrompt(ctx context.Context, userID string, req CreatePromptRequest) (*domain.PromptWithRelations, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	folderID, err := s.resolveFolder(ctx, userID, req.FolderID)
	if err != nil {
		return nil, err
	}

	tagIDs, err := s.resolveTags(ctx, userID, req.TagIDs)
	if err != nil {
		return nil, err
	}

	promptID, err := id.Generate(id.PrefixPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate prompt ID: %w", err)
	}

	now := time.Now().UTC()
	prompt := &domain.Prompt{
		ID:        promptID,
		Title:     req.Title,
		Body:      req.Body,
		PhotoURLs: req.PhotoURLs,
		FolderID:  folderID,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreatePrompt(ctx, prompt, tagIDs); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Prompt created", "prompt_id", promptID, "user_id", userID)
	}

	return s.store.GetPrompt(ctx, userID, promptID)
}

// UpdatePrompt replaces a prompt's content, folder, and tag set.
func (s *PromptService) UpdatePrompt(ctx context.Context, userID, promptID string, req UpdatePromptRequest) (*domain.PromptWithRelations, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.store.GetPrompt(ctx, userID, promptID)
	if err != nil {
		return nil, err
	}

	folderID, err := s.resolveFolder(ctx, userID, req.FolderID)
	if err != nil {
		return nil, err
	}

	tagIDs, err := s.resolveTags(ctx, userID, req.TagIDs)
	if err != nil {
		return nil, err
	}

	prompt := existing.Prompt
	prompt.Title = req.Title
	prompt.Body = req.Body
	prompt.PhotoURLs = req.PhotoURLs
	prompt.FolderID = folderID
	prompt.Touch()

	if err := s.store.UpdatePrompt(ctx, &prompt, tagIDs); err != nil {
		return nil, err
	}

	return s.store.GetPrompt(ctx, userID, promptID)
}

// DeletePrompt removes a prompt and its tag links.
func (s *PromptService) DeletePrompt(ctx context.Context, userID, promptID string) error {
	if err := s.store.DeletePrompt(ctx, userID, promptID); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("Prompt deleted", "prompt_id", promptID, "user_id", userID)
	}

	return nil
}

// IncrementCopyCount atomically bumps a prompt's copy counter and returns
// the updated prompt.
func (s *PromptService) IncrementCopyCount(ctx context.Context, userID, promptID string) (*domain.Prompt, error) {
	return s.store.IncrementCopyCount(ctx, userID, promptID)
}

// resolveFolder maps an empty folder ID to the user's General folder and
// verifies ownership of an explicit one.
func (s *PromptService) resolveFolder(ctx context.Context, userID, folderID string) (string, error) {
	if folderID == "" {
		general, err := s.store.GetGeneralFolder(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("get general folder: %w", err)
		}
		return general.ID, nil
	}

	folder, err := s.store.GetFolder(ctx, userID, folderID)
	if err != nil {
		return "", err
	}
	return folder.ID, nil
}

// resolveTags verifies every tag belongs to the user and drops duplicates,
// preserving first-seen order.
func (s *PromptService) resolveTags(ctx context.Context, userID string, tagIDs []string) ([]string, error) {
	seen := make(map[string]struct{}, len(tagIDs))
	resolved := make([]string, 0, len(tagIDs))

	for _, tagID := range tagIDs {
		if _, dup := seen[tagID]; dup {
			continue
		}
		if _, err := s.store.GetTag(ctx, userID, tagID); err != nil {
			return nil, err
		}
		seen[tagID] = struct{}{}
		resolved = append(resolved, tagID)
	}

	return resolved, nil
}
