// Package api exposes the tracker over a JSON REST API.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jcallahan/plank/internal/config"
	"github.com/jcallahan/plank/internal/notify"
)

// StartOpts holds configuration for the API server.
type StartOpts struct {
	DB  *gorm.DB
	Cfg *config.Config
	Out io.Writer
}

// Start launches the HTTP server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("api: db is required")
	}
	if opts.Cfg == nil {
		return fmt.Errorf("api: config is required")
	}

	notifier, err := notify.New(opts.Cfg.Notify)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := NewRouter(opts.DB, opts.Cfg, notifier)

	addr := fmt.Sprintf(":%d", opts.Cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Plank API listening at http://localhost:%d\n", opts.Cfg.Server.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

// NewRouter builds the gin engine with all routes registered. Split from
// Start so tests can drive it with httptest.
func NewRouter(db *gorm.DB, cfg *config.Config, notifier *notify.Notifier) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, db, cfg, notifier)
	return router
}
