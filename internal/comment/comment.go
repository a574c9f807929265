// Package comment provides comment operations. Comments belong to one
// issue and one user; only the author may modify or remove them.
package comment

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jcallahan/plank/internal/errs"
	"github.com/jcallahan/plank/internal/models"
)

// Create adds a comment to an issue, authored by userID.
func Create(db *gorm.DB, issueID, userID, body string) (*models.Comment, error) {
	if body == "" {
		return nil, errs.InvalidInput("body is required")
	}

	var n int64
	if err := db.Model(&models.Issue{}).Where("id = ?", issueID).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("comment: check issue %s: %w", issueID, err)
	}
	if n == 0 {
		return nil, errs.NotFound("issue %s", issueID)
	}

	c := models.Comment{Body: body, IssueID: issueID, UserID: userID}
	if err := db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("comment: create: %w", err)
	}
	return Get(db, c.ID)
}

// Get retrieves a comment with its author.
func Get(db *gorm.DB, id uint) (*models.Comment, error) {
	var c models.Comment
	if err := db.Preload("User").Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("comment %d", id)
		}
		return nil, fmt.Errorf("comment: get %d: %w", id, err)
	}
	return &c, nil
}

// Update changes a comment's body. Author only.
func Update(db *gorm.DB, id uint, userID, body string) (*models.Comment, error) {
	if body == "" {
		return nil, errs.InvalidInput("body is required")
	}
	c, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, errs.InvalidInput("user %s is not the author of comment %d", userID, id)
	}
	if err := db.Model(&models.Comment{}).Where("id = ?", id).Update("body", body).Error; err != nil {
		return nil, fmt.Errorf("comment: update %d: %w", id, err)
	}
	return Get(db, id)
}

// Delete removes a comment. Author only.
func Delete(db *gorm.DB, id uint, userID string) error {
	c, err := Get(db, id)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return errs.InvalidInput("user %s is not the author of comment %d", userID, id)
	}
	if err := db.Delete(&models.Comment{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("comment: delete %d: %w", id, err)
	}
	return nil
}
