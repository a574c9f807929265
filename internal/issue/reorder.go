package issue

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jcallahan/plank/internal/errs"
	"github.com/jcallahan/plank/internal/models"
	"github.com/jcallahan/plank/internal/position"
)

// Reorder moves an issue to destIndex within the newStatus column of its
// project. The destination column is read and the new key written in one
// transaction; on MySQL the read takes row locks so concurrent drags on
// the same column serialize. Only the moved issue's status and
// listPosition change — the source column is never renumbered.
func Reorder(db *gorm.DB, issueID, newStatus string, destIndex int) (*models.Issue, error) {
	if !models.ValidStatus(newStatus) {
		return nil, errs.InvalidInput("status %q must be one of %v", newStatus, models.Statuses)
	}
	if destIndex < 0 {
		return nil, errs.InvalidInput("destination index %d is negative", destIndex)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var iss models.Issue
		if err := tx.Where("id = ?", issueID).First(&iss).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound("issue %s", issueID)
			}
			return fmt.Errorf("issue: get %s: %w", issueID, err)
		}

		column, err := readColumn(tx, iss.ProjectID, newStatus, iss.ID)
		if err != nil {
			return err
		}
		if destIndex > len(column) {
			return errs.InvalidInput("destination index %d exceeds column length %d", destIndex, len(column))
		}

		keys := make([]float64, len(column))
		for i, c := range column {
			keys[i] = c.ListPosition
		}
		before, after := position.Neighbors(keys, destIndex)

		key, err := position.Allocate(before, after)
		if errors.Is(err, position.ErrDegenerate) {
			// Float precision exhausted at this slot: renumber the whole
			// destination column with the moved issue spliced in.
			return renumberWithMove(tx, &iss, column, newStatus, destIndex)
		}
		if err != nil {
			return fmt.Errorf("issue: reorder %s: %w", issueID, err)
		}

		if err := writeMove(tx, iss.ID, newStatus, key); err != nil {
			return err
		}

		// A concurrent writer that slipped past serialization can land on
		// the same key. Detect it post-write and retry once by renumbering.
		collided, err := keyCollision(tx, iss.ProjectID, newStatus, iss.ID, key)
		if err != nil {
			return err
		}
		if collided {
			if err := renumberWithMove(tx, &iss, column, newStatus, destIndex); err != nil {
				return errs.Conflict("issue %s: position collision persisted after renumbering", issueID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Get(db, issueID)
}

// readColumn returns the destination column in render order, excluding the
// moved issue. On MySQL the rows are locked for the transaction.
func readColumn(tx *gorm.DB, projectID, status, excludeID string) ([]models.Issue, error) {
	q := tx.Where("project_id = ? AND status = ? AND id <> ?", projectID, status, excludeID).
		Order("list_position ASC, id ASC")
	if tx.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var column []models.Issue
	if err := q.Find(&column).Error; err != nil {
		return nil, fmt.Errorf("issue: read column %s/%s: %w", projectID, status, err)
	}
	return column, nil
}

// renumberWithMove rewrites the destination column with consecutive integer
// keys, the moved issue occupying destIndex.
func renumberWithMove(tx *gorm.DB, iss *models.Issue, column []models.Issue, newStatus string, destIndex int) error {
	keys := position.Renumber(len(column) + 1)
	rest := 0
	for i, key := range keys {
		if i == destIndex {
			if err := writeMove(tx, iss.ID, newStatus, key); err != nil {
				return err
			}
			continue
		}
		other := column[rest]
		rest++
		if err := tx.Model(&models.Issue{}).Where("id = ?", other.ID).
			Update("list_position", key).Error; err != nil {
			return fmt.Errorf("issue: renumber %s: %w", other.ID, err)
		}
	}
	return nil
}

func writeMove(tx *gorm.DB, id, status string, key float64) error {
	updates := map[string]interface{}{
		"status":        status,
		"list_position": key,
	}
	if err := tx.Model(&models.Issue{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("issue: move %s: %w", id, err)
	}
	return nil
}

// keyCollision reports whether another issue in the column holds key.
func keyCollision(tx *gorm.DB, projectID, status, excludeID string, key float64) (bool, error) {
	var n int64
	err := tx.Model(&models.Issue{}).
		Where("project_id = ? AND status = ? AND id <> ? AND list_position = ?", projectID, status, excludeID, key).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("issue: collision check: %w", err)
	}
	return n > 0, nil
}
