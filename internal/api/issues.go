package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jcallahan/plank/internal/auth"
	"github.com/jcallahan/plank/internal/errs"
	"github.com/jcallahan/plank/internal/issue"
	"github.com/jcallahan/plank/internal/models"
	"github.com/jcallahan/plank/internal/notify"
)

// issueInProject fetches an issue and hides it from callers outside its
// project: a foreign issue ID looks exactly like a missing one.
func issueInProject(db *gorm.DB, id, projectID string) (*models.Issue, error) {
	iss, err := issue.Get(db, id)
	if err != nil {
		return nil, err
	}
	if iss.ProjectID != projectID {
		return nil, errs.NotFound("issue %s", id)
	}
	return iss, nil
}

func handleListIssues(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		issues, err := issue.List(db, auth.ProjectID(c), c.Query("searchTerm"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"issues": issues})
	}
}

type createIssueRequest struct {
	Title       string   `json:"title" binding:"required"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	Priority    int      `json:"priority"`
	Description string   `json:"description"`
	Estimate    int      `json:"estimate"`
	AssigneeIDs []string `json:"assigneeIds"`
}

func handleCreateIssue(db *gorm.DB, notifier *notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createIssueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		iss, err := issue.Create(db, issue.CreateOpts{
			ProjectID:   auth.ProjectID(c),
			Title:       req.Title,
			Type:        req.Type,
			Status:      req.Status,
			Priority:    req.Priority,
			Description: req.Description,
			Estimate:    req.Estimate,
			ReporterID:  auth.UserID(c),
			AssigneeIDs: req.AssigneeIDs,
		})
		if err != nil {
			fail(c, err)
			return
		}
		notifier.IssueEvent(notify.ActionCreated, iss)
		c.JSON(http.StatusCreated, gin.H{"issue": iss})
	}
}

func handleGetIssue(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		iss, err := issueInProject(db, c.Param("id"), auth.ProjectID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"issue": iss})
	}
}

type updateIssueRequest struct {
	Title         *string   `json:"title"`
	Type          *string   `json:"type"`
	Status        *string   `json:"status"`
	Priority      *int      `json:"priority"`
	Description   *string   `json:"description"`
	Estimate      *int      `json:"estimate"`
	TimeSpent     *int      `json:"timeSpent"`
	TimeRemaining *int      `json:"timeRemaining"`
	AssigneeIDs   *[]string `json:"assigneeIds"`
}

// updates flattens the set fields into the column-keyed map the issue
// service validates.
func (r *updateIssueRequest) updates() map[string]interface{} {
	u := map[string]interface{}{}
	if r.Title != nil {
		u["title"] = *r.Title
	}
	if r.Type != nil {
		u["type"] = *r.Type
	}
	if r.Status != nil {
		u["status"] = *r.Status
	}
	if r.Priority != nil {
		u["priority"] = *r.Priority
	}
	if r.Description != nil {
		u["description"] = *r.Description
	}
	if r.Estimate != nil {
		u["estimate"] = *r.Estimate
	}
	if r.TimeSpent != nil {
		u["time_spent"] = *r.TimeSpent
	}
	if r.TimeRemaining != nil {
		u["time_remaining"] = *r.TimeRemaining
	}
	return u
}

func handleUpdateIssue(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateIssueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		iss, err := issueInProject(db, c.Param("id"), auth.ProjectID(c))
		if err != nil {
			fail(c, err)
			return
		}

		if u := req.updates(); len(u) > 0 {
			if iss, err = issue.Update(db, iss.ID, auth.UserID(c), u); err != nil {
				fail(c, err)
				return
			}
		}
		if req.AssigneeIDs != nil {
			if iss, err = issue.SetAssignees(db, iss.ID, auth.UserID(c), *req.AssigneeIDs); err != nil {
				fail(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"issue": iss})
	}
}

func handleDeleteIssue(db *gorm.DB, notifier *notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		iss, err := issueInProject(db, c.Param("id"), auth.ProjectID(c))
		if err != nil {
			fail(c, err)
			return
		}
		if err := issue.Delete(db, iss.ID, auth.UserID(c)); err != nil {
			fail(c, err)
			return
		}
		notifier.IssueEvent(notify.ActionDeleted, iss)
		c.Status(http.StatusNoContent)
	}
}

type reorderRequest struct {
	Status string `json:"status" binding:"required"`
	Index  *int   `json:"index" binding:"required"`
}

func handleReorderIssue(db *gorm.DB, notifier *notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reorderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if _, err := issueInProject(db, c.Param("id"), auth.ProjectID(c)); err != nil {
			fail(c, err)
			return
		}
		iss, err := issue.Reorder(db, c.Param("id"), req.Status, *req.Index)
		if err != nil {
			fail(c, err)
			return
		}
		notifier.IssueEvent(notify.ActionMoved, iss)
		c.JSON(http.StatusOK, gin.H{"issue": iss})
	}
}
