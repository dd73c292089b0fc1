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

// FolderService orchestrates folder operations for a user.
// The General folder is protected: it cannot be renamed or deleted, and it
// receives the prompts of any folder that is deleted.
type FolderService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewFolderService creates a new folder service.
func NewFolderService(store store.Store, validator *validation.Validator, logger *slog.Logger) *FolderService {
	return &FolderService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateFolderRequest contains new folder data.
type CreateFolderRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateFolderRequest contains replacement folder data.
type UpdateFolderRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// ListFolders returns all of the user's folders ordered by name.
func (s *FolderService) ListFolders(ctx context.Context, userID string) ([]*domain.Folder, error) {
	folders, err := s.store.ListFolders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}

// GetFolder returns a folder together with its prompts.
func (s *FolderService) GetFolder(ctx context.Context, userID, folderID string) (*domain.FolderWithPrompts, error) {
	folder, err := s.store.GetFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	prompts, err := s.store.ListFolderPrompts(ctx, userID, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder prompts: %w", err)
	}

	return &domain.FolderWithPrompts{
		Folder:  *folder,
		Prompts: prompts,
	}, nil
}

// CreateFolder creates a new folder for the user.
func (s *FolderService) CreateFolder(ctx context.Context, userID string, req CreateFolderRequest) (*domain.Folder, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	folderID, err := id.Generate(id.PrefixFolder)
	if err != nil {
		return nil, fmt.Errorf("generate folder ID: %w", err)
	}

	now := time.Now().UTC()
	folder := &domain.Folder{
		ID:          folderID,
		Name:        req.Name,
		Description: req.Description,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateFolder(ctx, folder); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Folder created", "folder_id", folderID, "user_id", userID)
	}

	return folder, nil
}

// UpdateFolder renames a folder or changes its description.
// Renaming the General folder is rejected by the store.
func (s *FolderService) UpdateFolder(ctx context.Context, userID, folderID string, req UpdateFolderRequest) (*domain.Folder, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	folder, err := s.store.GetFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	folder.Name = req.Name
	folder.Description = req.Description
	folder.Touch()

	if err := s.store.UpdateFolder(ctx, folder); err != nil {
		return nil, err
	}

	return folder, nil
}

// DeleteFolder removes a folder, reassigning its prompts to General.
// The General folder itself cannot be deleted.
func (s *FolderService) DeleteFolder(ctx context.Context, userID, folderID string) error {
	if err := s.store.DeleteFolder(ctx, userID, folderID); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("Folder deleted", "folder_id", folderID, "user_id", userID)
	}

	return nil
}
