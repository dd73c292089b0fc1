package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/promptkeep/promptkeep-server/internal/api"
	"github.com/promptkeep/promptkeep-server/internal/config"
	"github.com/promptkeep/promptkeep-server/internal/logger"
	"github.com/promptkeep/promptkeep-server/internal/service"
)

// AuthRateLimiterHandle wraps the auth endpoint rate limiter with shutdown capability.
type AuthRateLimiterHandle struct {
	*api.RateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *AuthRateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideAuthRateLimiter provides the per-IP limiter for login and signup attempts.
func ProvideAuthRateLimiter(i do.Injector) (*AuthRateLimiterHandle, error) {
	// 10 attempts per minute with a burst of 5 per client IP.
	return &AuthRateLimiterHandle{RateLimiter: api.NewRateLimiter(10, time.Minute, 5)}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	limiterHandle := do.MustInvoke[*AuthRateLimiterHandle](i)

	authService := do.MustInvoke[*service.AuthService](i)
	userService := do.MustInvoke[*service.UserService](i)
	folderService := do.MustInvoke[*service.FolderService](i)
	promptService := do.MustInvoke[*service.PromptService](i)
	tagService := do.MustInvoke[*service.TagService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)

	handler := api.NewServer(
		authService,
		userService,
		folderService,
		promptService,
		tagService,
		sessionService,
		log.Logger,
		api.Options{
			CORSOrigins:     cfg.Server.CORSOrigins,
			AuthRateLimiter: limiterHandle.RateLimiter,
		},
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
