// Package issue provides issue lifecycle operations: create, query with
// free-text search, validated update, delete, and Kanban reordering.
package issue

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jcallahan/plank/internal/errs"
	"github.com/jcallahan/plank/internal/models"
	"github.com/jcallahan/plank/internal/position"
)

// CreateOpts holds parameters for creating a new issue.
type CreateOpts struct {
	ProjectID   string
	Title       string
	Type        string // task, bug, story
	Status      string // defaults to backlog
	Priority    int    // 1 (highest) .. 5, defaults to 3
	Description string // rich-text markup
	Estimate    int
	ReporterID  string
	AssigneeIDs []string
}

// validators maps updatable columns to their field-level checks. Entity
// rules live here so every write path (create, update) applies the same
// checks before persistence.
var validators = map[string]func(v interface{}) error{
	"title": func(v interface{}) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("must be a string")
		}
		if s == "" {
			return fmt.Errorf("is required")
		}
		if len(s) > 200 {
			return fmt.Errorf("exceeds 200 characters")
		}
		return nil
	},
	"type": func(v interface{}) error {
		s, ok := v.(string)
		if !ok || !models.ValidType(s) {
			return fmt.Errorf("must be one of %v", models.Types)
		}
		return nil
	},
	"status": func(v interface{}) error {
		s, ok := v.(string)
		if !ok || !models.ValidStatus(s) {
			return fmt.Errorf("must be one of %v", models.Statuses)
		}
		return nil
	},
	"priority": func(v interface{}) error {
		n, ok := v.(int)
		if !ok || n < 1 || n > 5 {
			return fmt.Errorf("must be between 1 and 5")
		}
		return nil
	},
	"description":    acceptString,
	"estimate":       acceptNonNegativeInt,
	"time_spent":     acceptNonNegativeInt,
	"time_remaining": acceptNonNegativeInt,
}

func acceptString(v interface{}) error {
	if _, ok := v.(string); !ok {
		return fmt.Errorf("must be a string")
	}
	return nil
}

func acceptNonNegativeInt(v interface{}) error {
	n, ok := v.(int)
	if !ok || n < 0 {
		return fmt.Errorf("must be a non-negative integer")
	}
	return nil
}

// Create creates a new issue at the top of its status column.
func Create(db *gorm.DB, opts CreateOpts) (*models.Issue, error) {
	if opts.Status == "" {
		opts.Status = models.StatusBacklog
	}
	if opts.Type == "" {
		opts.Type = models.TypeTask
	}
	if opts.Priority == 0 {
		opts.Priority = 3
	}
	fields := map[string]interface{}{
		"title":    opts.Title,
		"type":     opts.Type,
		"status":   opts.Status,
		"priority": opts.Priority,
	}
	for col, v := range fields {
		if err := validators[col](v); err != nil {
			return nil, errs.InvalidInput("%s %s", col, err)
		}
	}

	var reporter models.User
	if err := db.Where("id = ? AND project_id = ?", opts.ReporterID, opts.ProjectID).First(&reporter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("reporter %s in project %s", opts.ReporterID, opts.ProjectID)
		}
		return nil, fmt.Errorf("issue: check reporter %s: %w", opts.ReporterID, err)
	}

	id, err := models.NewID("iss")
	if err != nil {
		return nil, err
	}

	iss := models.Issue{
		ID:              id,
		ProjectID:       opts.ProjectID,
		Title:           opts.Title,
		Type:            opts.Type,
		Status:          opts.Status,
		Priority:        opts.Priority,
		Description:     opts.Description,
		DescriptionText: StripHTML(opts.Description),
		Estimate:        opts.Estimate,
		ReporterID:      opts.ReporterID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		key, err := headKey(tx, opts.ProjectID, opts.Status)
		if err != nil {
			return err
		}
		iss.ListPosition = key
		if err := tx.Create(&iss).Error; err != nil {
			return fmt.Errorf("issue: create: %w", err)
		}
		if len(opts.AssigneeIDs) > 0 {
			return setAssignees(tx, &iss, opts.ProjectID, opts.AssigneeIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Get(db, iss.ID)
}

// headKey computes the listPosition for a new issue surfacing at the top
// of the (project, status) column.
func headKey(tx *gorm.DB, projectID, status string) (float64, error) {
	var min struct {
		V float64
		N int64
	}
	row := tx.Model(&models.Issue{}).
		Select("COALESCE(MIN(list_position), 0) AS v, COUNT(*) AS n").
		Where("project_id = ? AND status = ?", projectID, status)
	if err := row.Scan(&min).Error; err != nil {
		return 0, fmt.Errorf("issue: read column head: %w", err)
	}
	if min.N == 0 {
		return position.Allocate(nil, nil)
	}
	return position.Allocate(nil, &min.V)
}

// Get retrieves an issue with its assignees and comments.
func Get(db *gorm.DB, id string) (*models.Issue, error) {
	var iss models.Issue
	err := db.Preload("Assignees").
		Preload("Comments", func(q *gorm.DB) *gorm.DB { return q.Order("created_at ASC") }).
		Preload("Comments.User").
		Where("id = ?", id).First(&iss).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("issue %s", id)
		}
		return nil, fmt.Errorf("issue: get %s: %w", id, err)
	}
	return &iss, nil
}

// List returns a project's issues ordered by (status, listPosition), ties
// broken by id. A non-empty searchTerm filters to issues whose title or
// stored plain-text description contains it, case-insensitively.
func List(db *gorm.DB, projectID, searchTerm string) ([]models.Issue, error) {
	q := db.Model(&models.Issue{}).Where("project_id = ?", projectID)
	if searchTerm != "" {
		like := "%" + strings.ToLower(searchTerm) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description_text) LIKE ?", like, like)
	}
	var issues []models.Issue
	if err := q.Order("status ASC, list_position ASC, id ASC").Preload("Assignees").Find(&issues).Error; err != nil {
		return nil, fmt.Errorf("issue: list project %s: %w", projectID, err)
	}
	return issues, nil
}

// Update modifies issue fields from a column-keyed map after running the
// field validators. Only the reporter or an assignee may modify an issue.
// A description write recomputes the stored plain-text projection.
func Update(db *gorm.DB, id, userID string, updates map[string]interface{}) (*models.Issue, error) {
	iss, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(iss, userID); err != nil {
		return nil, err
	}

	for col, v := range updates {
		check, ok := validators[col]
		if !ok {
			return nil, errs.InvalidInput("unknown field %q", col)
		}
		if err := check(v); err != nil {
			return nil, errs.InvalidInput("%s %s", col, err)
		}
	}

	// Status changes through Update go to the top of the new column; index
	// placement is Reorder's job.
	err = db.Transaction(func(tx *gorm.DB) error {
		if desc, ok := updates["description"].(string); ok {
			updates["description_text"] = StripHTML(desc)
		}
		if status, ok := updates["status"].(string); ok && status != iss.Status {
			key, err := headKey(tx, iss.ProjectID, status)
			if err != nil {
				return err
			}
			updates["list_position"] = key
		}
		if err := tx.Model(&models.Issue{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("issue: update %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Get(db, id)
}

// SetAssignees replaces the assignee set of an issue.
func SetAssignees(db *gorm.DB, id, userID string, assigneeIDs []string) (*models.Issue, error) {
	iss, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(iss, userID); err != nil {
		return nil, err
	}
	if err := setAssignees(db, iss, iss.ProjectID, assigneeIDs); err != nil {
		return nil, err
	}
	return Get(db, id)
}

func setAssignees(tx *gorm.DB, iss *models.Issue, projectID string, assigneeIDs []string) error {
	var users []models.User
	if len(assigneeIDs) > 0 {
		if err := tx.Where("id IN ? AND project_id = ?", assigneeIDs, projectID).Find(&users).Error; err != nil {
			return fmt.Errorf("issue: load assignees: %w", err)
		}
		if len(users) != len(assigneeIDs) {
			return errs.NotFound("one or more assignees in project %s", projectID)
		}
	}
	if err := tx.Model(iss).Association("Assignees").Replace(users); err != nil {
		return fmt.Errorf("issue: set assignees on %s: %w", iss.ID, err)
	}
	return nil
}

// Delete removes an issue and cascades its comments and assignee links.
func Delete(db *gorm.DB, id, userID string) error {
	iss, err := Get(db, id)
	if err != nil {
		return err
	}
	if err := authorize(iss, userID); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("issue_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("issue: delete comments of %s: %w", id, err)
		}
		if err := tx.Model(iss).Association("Assignees").Clear(); err != nil {
			return fmt.Errorf("issue: clear assignees of %s: %w", id, err)
		}
		if err := tx.Delete(&models.Issue{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("issue: delete %s: %w", id, err)
		}
		return nil
	})
}

// authorize checks that userID is the reporter or an assignee.
func authorize(iss *models.Issue, userID string) error {
	if iss.ReporterID == userID {
		return nil
	}
	for _, u := range iss.Assignees {
		if u.ID == userID {
			return nil
		}
	}
	return errs.InvalidInput("user %s may not modify issue %s", userID, iss.ID)
}
