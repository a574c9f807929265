// Package project provides project metadata operations.
package project

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jcallahan/plank/internal/errs"
	"github.com/jcallahan/plank/internal/models"
)

// Get retrieves a project with its members and issues preloaded. Issues
// come back in board render order.
func Get(db *gorm.DB, id string) (*models.Project, error) {
	var p models.Project
	err := db.Preload("Users").
		Preload("Issues", func(q *gorm.DB) *gorm.DB {
			return q.Order("status ASC, list_position ASC, id ASC")
		}).
		Preload("Issues.Assignees").
		Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("project %s", id)
		}
		return nil, fmt.Errorf("project: get %s: %w", id, err)
	}
	return &p, nil
}

// UpdateOpts holds the mutable project fields. Nil pointers leave the
// field unchanged.
type UpdateOpts struct {
	Name        *string
	URL         *string
	Category    *string
	Description *string
}

// Update modifies project metadata.
func Update(db *gorm.DB, id string, opts UpdateOpts) (*models.Project, error) {
	updates := map[string]interface{}{}
	if opts.Name != nil {
		if *opts.Name == "" {
			return nil, errs.InvalidInput("name is required")
		}
		updates["name"] = *opts.Name
	}
	if opts.URL != nil {
		updates["url"] = *opts.URL
	}
	if opts.Category != nil {
		updates["category"] = *opts.Category
	}
	if opts.Description != nil {
		updates["description"] = *opts.Description
	}
	if len(updates) == 0 {
		return Get(db, id)
	}

	res := db.Model(&models.Project{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("project: update %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NotFound("project %s", id)
	}
	return Get(db, id)
}
