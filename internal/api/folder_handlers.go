package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptkeep/promptkeep-server/internal/http/response"
	"github.com/promptkeep/promptkeep-server/internal/service"
)

// handleListFolders returns all of the user's folders.
func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	folders, err := s.folderService.ListFolders(ctx, userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, folders, s.logger)
}

// handleGetFolder returns one folder with its prompts.
func (s *Server) handleGetFolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	folderID := chi.URLParam(r, "id")

	folder, err := s.folderService.GetFolder(ctx, userID, folderID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, folder, s.logger)
}

// handleCreateFolder creates a new folder.
func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	var req service.CreateFolderRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}

	folder, err := s.folderService.CreateFolder(ctx, userID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, folder, s.logger)
}

// handleUpdateFolder renames a folder or changes its description.
func (s *Server) handleUpdateFolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	folderID := chi.URLParam(r, "id")

	var req service.UpdateFolderRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}

	folder, err := s.folderService.UpdateFolder(ctx, userID, folderID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, folder, s.logger)
}

// handleDeleteFolder deletes a folder, moving its prompts to General.
func (s *Server) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)
	folderID := chi.URLParam(r, "id")

	if err := s.folderService.DeleteFolder(ctx, userID, folderID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, nil, s.logger)
}
