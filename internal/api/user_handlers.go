package api

import (
	"net/http"

	"github.com/promptkeep/promptkeep-server/internal/http/response"
	"github.com/promptkeep/promptkeep-server/internal/service"
)

// handleGetCurrentUser returns the authenticated user's profile.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	user, err := s.userService.GetUser(ctx, userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// handleUpdateProfile updates the authenticated user's name and avatar.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	var req service.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}

	user, err := s.userService.UpdateProfile(ctx, userID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// handleChangePassword replaces the authenticated user's password.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	var req service.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}

	if err := s.authService.ChangePassword(ctx, userID, req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{"message": "password changed"}, s.logger)
}
