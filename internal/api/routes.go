package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jcallahan/plank/internal/auth"
	"github.com/jcallahan/plank/internal/config"
	"github.com/jcallahan/plank/internal/errs"
	"github.com/jcallahan/plank/internal/notify"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, notifier *notify.Notifier) {
	router.POST("/api/auth/guest", handleGuest(db, cfg))

	authed := router.Group("/api", auth.Middleware(db, cfg.Auth.Secret))
	{
		authed.GET("/me", handleMe(db))

		authed.GET("/project", handleGetProject(db))
		authed.PUT("/project", handleUpdateProject(db))

		authed.GET("/issues", handleListIssues(db))
		authed.POST("/issues", handleCreateIssue(db, notifier))
		authed.GET("/issues/:id", handleGetIssue(db))
		authed.PUT("/issues/:id", handleUpdateIssue(db))
		authed.DELETE("/issues/:id", handleDeleteIssue(db, notifier))
		authed.POST("/issues/:id/reorder", handleReorderIssue(db, notifier))

		authed.POST("/comments", handleCreateComment(db))
		authed.PUT("/comments/:id", handleUpdateComment(db))
		authed.DELETE("/comments/:id", handleDeleteComment(db))
	}
}

// fail maps a service error onto the transport. NotFound and InvalidInput
// are the client's problem; everything else, including a post-retry
// position conflict, is ours.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// badRequest rejects a request that failed JSON binding.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
