package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jcallahan/plank/internal/auth"
	"github.com/jcallahan/plank/internal/project"
)

// handleGetProject returns the caller's project with members and the full
// board in render order.
func handleGetProject(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := project.Get(db, auth.ProjectID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"project": p})
	}
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	URL         *string `json:"url"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

func handleUpdateProject(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		p, err := project.Update(db, auth.ProjectID(c), project.UpdateOpts{
			Name:        req.Name,
			URL:         req.URL,
			Category:    req.Category,
			Description: req.Description,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"project": p})
	}
}
