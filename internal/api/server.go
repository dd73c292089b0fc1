// Package api provides the HTTP API server and handlers for the PromptKeep application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/promptkeep/promptkeep-server/internal/http/response"
	"github.com/promptkeep/promptkeep-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService    *service.AuthService
	userService    *service.UserService
	folderService  *service.FolderService
	promptService  *service.PromptService
	tagService     *service.TagService
	sessionService *service.SessionService
	router         *chi.Mux
	logger         *slog.Logger
}

// Options configures optional server behavior.
type Options struct {
	// CORSOrigins lists allowed origins; defaults to "*" when empty.
	CORSOrigins []string
	// AuthRateLimiter throttles login/signup attempts per client IP.
	// Nil disables throttling (used by tests).
	AuthRateLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	authService *service.AuthService,
	userService *service.UserService,
	folderService *service.FolderService,
	promptService *service.PromptService,
	tagService *service.TagService,
	sessionService *service.SessionService,
	logger *slog.Logger,
	opts Options,
) *Server {
	s := &Server{
		authService:    authService,
		userService:    userService,
		folderService:  folderService,
		promptService:  promptService,
		tagService:     tagService,
		sessionService: sessionService,
		router:         chi.NewRouter(),
		logger:         logger,
	}

	s.setupMiddleware(opts)
	s.setupRoutes(opts)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Unknown routes and wrong methods still answer in the envelope shape.
	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "method not allowed", s.logger)
	})
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(opts Options) {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public, throttled per IP).
		r.Route("/auth", func(r chi.Router) {
			if opts.AuthRateLimiter != nil {
				r.Use(RateLimitMiddleware(opts.AuthRateLimiter, s.logger))
			}
			r.Post("/signup", s.handleSignup)
			r.Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.With(s.requireAuth).Post("/logout", s.handleLogout)
		})

		// Protected user endpoints.
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleGetCurrentUser)
			r.Patch("/me", s.handleUpdateProfile)
			r.Post("/me/password", s.handleChangePassword)
		})

		// Folders (require auth).
		r.Route("/folders", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListFolders)
			r.Post("/", s.handleCreateFolder)
			r.Get("/{id}", s.handleGetFolder)
			r.Put("/{id}", s.handleUpdateFolder)
			r.Delete("/{id}", s.handleDeleteFolder)
		})

		// Prompts (require auth).
		r.Route("/prompts", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListPrompts)
			r.Post("/", s.handleCreatePrompt)
			r.Get("/{id}", s.handleGetPrompt)
			r.Put("/{id}", s.handleUpdatePrompt)
			r.Delete("/{id}", s.handleDeletePrompt)
			r.Post("/increment-copy", s.handleIncrementCopyCount)

			// Tag links as a subresource.
			r.Get("/{id}/tags", s.handleListPromptTags)
			r.Post("/{id}/tags", s.handleAddTagToPrompt)
			r.Delete("/{id}/tags/{tagID}", s.handleRemoveTagFromPrompt)
		})

		// Tags (require auth).
		r.Route("/tags", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListTags)
			r.Post("/", s.handleCreateTag)
			r.Delete("/{id}", s.handleDeleteTag)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}, s.logger)
}
