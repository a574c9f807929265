package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jcallahan/plank/internal/auth"
	"github.com/jcallahan/plank/internal/comment"
	"github.com/jcallahan/plank/internal/errs"
	"github.com/jcallahan/plank/internal/models"
)

type createCommentRequest struct {
	IssueID string `json:"issueId" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

func handleCreateComment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if _, err := issueInProject(db, req.IssueID, auth.ProjectID(c)); err != nil {
			fail(c, err)
			return
		}
		cmt, err := comment.Create(db, req.IssueID, auth.UserID(c), req.Body)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"comment": cmt})
	}
}

type updateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// commentInProject resolves a comment path param and hides comments whose
// issue lives in another project.
func commentInProject(db *gorm.DB, c *gin.Context) (*models.Comment, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return nil, errs.InvalidInput("comment id %q is not numeric", c.Param("id"))
	}
	cmt, err := comment.Get(db, uint(id))
	if err != nil {
		return nil, err
	}
	if _, err := issueInProject(db, cmt.IssueID, auth.ProjectID(c)); err != nil {
		return nil, errs.NotFound("comment %d", id)
	}
	return cmt, nil
}

func handleUpdateComment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		cmt, err := commentInProject(db, c)
		if err != nil {
			fail(c, err)
			return
		}
		updated, err := comment.Update(db, cmt.ID, auth.UserID(c), req.Body)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"comment": updated})
	}
}

func handleDeleteComment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmt, err := commentInProject(db, c)
		if err != nil {
			fail(c, err)
			return
		}
		if err := comment.Delete(db, cmt.ID, auth.UserID(c)); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
