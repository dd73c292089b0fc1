package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptkeep/promptkeep-server/internal/http/response"
	"github.com/promptkeep/promptkeep-server/internal/service"
)

// addTagRequest identifies the tag to attach to a prompt.
type addTagRequest struct {
	TagID string `json:"tagId"`
}

// handleListPrompts returns a filtered, paginated list of the user's prompts.
//
// Supported query parameters: page, pageSize, folderId, tagIds (comma-separated,
// matches ANY), searchQuery (case-insensitive substring on title or body),
// sortBy (createdAt|copyCount), sortDirection (asc|desc).
func (s *Server) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	query := parsePromptQuery(r, userID)

	page, err := s.promptService.ListPrompts(ctx, query)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, page, s.logger)
}

// handleGetPrompt returns one prompt with its folder and tags.
func (s *Server) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	promptID := chi.URLParam(r, "id")

	prompt, err := s.promptService.GetPrompt(ctx, userID, promptID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, prompt, s.logger)
}

// handleCreatePrompt creates a new prompt.
func (s *Server) handleCreatePrompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	var req service.CreatePromptRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}

	prompt, err := s.promptService.CreatePrompt(ctx, userID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, prompt, s.logger)
}

// handleUpdatePrompt replaces a prompt's content, folder, and tag set.
func (s *Server) handleUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	promptID := chi.URLParam(r, "id")

	var req service.UpdatePromptRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}

	prompt, err := s.promptService.UpdatePrompt(ctx, userID, promptID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, prompt, s.logger)
}

// handleDeletePrompt removes a prompt.
func (s *Server) handleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	promptID := chi.URLParam(r, "id")

	if err := s.promptService.DeletePrompt(ctx, userID, promptID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, nil, s.logger)
}

// incrementCopyRequest names the prompt whose counter to bump.
type incrementCopyRequest struct {
	PromptID string `json:"promptId"`
}

// handleIncrementCopyCount bumps the prompt's copy counter.
func (s *Server) handleIncrementCopyCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	var req incrementCopyRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}
	if req.PromptID == "" {
		response.BadRequest(w, "promptId is required", s.logger)
		return
	}

	prompt, err := s.promptService.IncrementCopyCount(ctx, userID, req.PromptID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, prompt, s.logger)
}

// handleListPromptTags returns the tags attached to a prompt.
func (s *Server) handleListPromptTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	promptID := chi.URLParam(r, "id")

	tags, err := s.tagService.ListTagsForPrompt(ctx, userID, promptID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, tags, s.logger)
}

// handleAddTagToPrompt attaches a tag to a prompt.
// Answers 201 for a new link and 200 when it already existed.
func (s *Server) handleAddTagToPrompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	promptID := chi.URLParam(r, "id")

	var req addTagRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}
	if req.TagID == "" {
		response.BadRequest(w, "tagId is required", s.logger)
		return
	}

	link, created, err := s.tagService.AddTagToPrompt(ctx, userID, promptID, req.TagID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if created {
		response.Created(w, link, s.logger)
		return
	}
	response.Success(w, link, s.logger)
}

// handleRemoveTagFromPrompt detaches a tag from a prompt.
func (s *Server) handleRemoveTagFromPrompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	promptID := chi.URLParam(r, "id")
	tagID := chi.URLParam(r, "tagID")

	if err := s.tagService.RemoveTagFromPrompt(ctx, userID, promptID, tagID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, nil, s.logger)
}
