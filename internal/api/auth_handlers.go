package api

import (
	"net/http"

	"github.com/promptkeep/promptkeep-server/internal/http/response"
	"github.com/promptkeep/promptkeep-server/internal/service"
)

// logoutRequest identifies the session to revoke.
type logoutRequest struct {
	SessionID string `json:"session_id"`
}

// handleSignup creates a new account and returns tokens.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}
	req.IPAddress = getClientIP(r)

	resp, err := s.authService.Signup(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, resp, s.logger)
}

// handleLogin authenticates a user and returns tokens.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}
	req.IPAddress = getClientIP(r)

	resp, err := s.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resp, s.logger)
}

// handleRefresh exchanges a refresh token for new tokens.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req service.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}

	resp, err := s.authService.RefreshTokens(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resp, s.logger)
}

// handleLogout revokes one of the caller's sessions. The session must
// belong to the authenticated user.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "invalid JSON body", s.logger)
		return
	}
	if req.SessionID == "" {
		response.BadRequest(w, "session_id is required", s.logger)
		return
	}

	if err := s.authService.Logout(r.Context(), getUserID(r.Context()), req.SessionID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{"message": "logged out"}, s.logger)
}
