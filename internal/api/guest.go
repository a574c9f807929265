package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jcallahan/plank/internal/auth"
	"github.com/jcallahan/plank/internal/config"
	"github.com/jcallahan/plank/internal/user"
)

// handleGuest provisions a fresh guest identity with a seeded demo project
// and returns a session token. This is the only unauthenticated route.
func handleGuest(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		guest, err := user.ProvisionGuest(db)
		if err != nil {
			fail(c, err)
			return
		}

		ttl := time.Duration(cfg.Auth.TokenTTLDays) * 24 * time.Hour
		token, err := auth.IssueToken(cfg.Auth.Secret, ttl, guest.ID)
		if err != nil {
			fail(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"authToken": token,
			"user":      guest,
		})
	}
}

// handleMe returns the authenticated user.
func handleMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := user.Get(db, auth.UserID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"currentUser": u})
	}
}
