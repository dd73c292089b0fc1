package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptkeep/promptkeep-server/internal/http/response"
	"github.com/promptkeep/promptkeep-server/internal/service"
)

// handleListTags returns all of the user's tags.
func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	tags, err := s.tagService.ListTags(ctx, userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, tags, s.logger)
}

// handleCreateTag finds or creates a tag by name.
// Answers 201 when the tag was created and 200 when it already existed.
func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	var req service.CreateTagRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}

	tag, created, err := s.tagService.FindOrCreateTag(ctx, userID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if created {
		response.Created(w, tag, s.logger)
		return
	}
	response.Success(w, tag, s.logger)
}

// handleDeleteTag removes a tag, detaching it from all prompts.
func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	tagID := chi.URLParam(r, "id")

	if err := s.tagService.DeleteTag(ctx, userID, tagID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, nil, s.logger)
}
