// Package user provides user lookup and guest provisioning. There is no
// password flow: every visitor gets a throwaway identity with a seeded
// demo project, the way the tracker's guest scheme works.
package user

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jcallahan/plank/internal/errs"
	"github.com/jcallahan/plank/internal/issue"
	"github.com/jcallahan/plank/internal/models"
)

// Get retrieves a user by ID.
func Get(db *gorm.DB, id string) (*models.User, error) {
	var u models.User
	if err := db.Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("user %s", id)
		}
		return nil, fmt.Errorf("user: get %s: %w", id, err)
	}
	return &u, nil
}

// ProvisionGuest creates a fresh demo project with three members and a
// seeded board, and returns the guest user who owns the session.
func ProvisionGuest(db *gorm.DB) (*models.User, error) {
	pid, err := models.NewID("prj")
	if err != nil {
		return nil, err
	}

	var guest *models.User
	err = db.Transaction(func(tx *gorm.DB) error {
		p := models.Project{
			ID:          pid,
			Name:        "Harbor",
			Category:    "software",
			Description: "A demo board to click around in. Everything here is yours to rearrange.",
		}
		if err := tx.Create(&p).Error; err != nil {
			return fmt.Errorf("user: create guest project: %w", err)
		}

		members := []struct {
			name   string
			avatar string
		}{
			{"Guest", "/avatars/gull.png"},
			{"Rowan Mercer", "/avatars/heron.png"},
			{"Priya Nair", "/avatars/tern.png"},
		}
		users := make([]models.User, len(members))
		for i, m := range members {
			uid, err := models.NewID("usr")
			if err != nil {
				return err
			}
			users[i] = models.User{
				ID:        uid,
				Name:      m.name,
				Email:     uid + "@guest.plank.dev",
				AvatarURL: m.avatar,
				ProjectID: pid,
			}
		}
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("user: create guest members: %w", err)
		}
		guest = &users[0]

		return seedBoard(tx, pid, users)
	})
	if err != nil {
		return nil, err
	}
	return guest, nil
}

// seedBoard fills the demo project with issues across every column. Issues
// are created through the issue service so listPosition assignment and the
// description projection follow the normal write path.
func seedBoard(tx *gorm.DB, projectID string, users []models.User) error {
	guest, rowan, priya := users[0], users[1], users[2]

	seeds := []issue.CreateOpts{
		{
			Title:       "An old silent pond",
			Type:        models.TypeStory,
			Status:      models.StatusBacklog,
			Priority:    2,
			Description: "<p>A frog jumps into the pond, <em>splash</em>! Silence again.</p>",
			ReporterID:  rowan.ID,
			AssigneeIDs: []string{guest.ID},
		},
		{
			Title:       "Dragging a card computes its position server-side",
			Type:        models.TypeTask,
			Status:      models.StatusBacklog,
			Priority:    3,
			Description: "<p>Drop a card between two others and only that card is written.</p>",
			ReporterID:  guest.ID,
		},
		{
			Title:       "Search matches titles and descriptions",
			Type:        models.TypeTask,
			Status:      models.StatusSelected,
			Priority:    3,
			Description: "<p>Case-insensitive substring search over the plain-text rendering.</p>",
			ReporterID:  priya.ID,
			AssigneeIDs: []string{rowan.ID},
		},
		{
			Title:       "Columns renumber themselves before keys collide",
			Type:        models.TypeBug,
			Status:      models.StatusInProgress,
			Priority:    1,
			Description: "<p>Midpoint keys eventually exhaust float precision; the column rewrites itself with integer keys.</p>",
			ReporterID:  guest.ID,
			AssigneeIDs: []string{priya.ID},
			Estimate:    3,
		},
		{
			Title:       "Guests get their own seeded project",
			Type:        models.TypeStory,
			Status:      models.StatusDone,
			Priority:    4,
			Description: "<p>You are looking at it.</p>",
			ReporterID:  rowan.ID,
		},
	}

	for _, opts := range seeds {
		opts.ProjectID = projectID
		iss, err := issue.Create(tx, opts)
		if err != nil {
			return fmt.Errorf("user: seed issue %q: %w", opts.Title, err)
		}
		if opts.Title == "An old silent pond" {
			welcome := models.Comment{
				Body:    "Try dragging this card to another column.",
				IssueID: iss.ID,
				UserID:  priya.ID,
			}
			if err := tx.Create(&welcome).Error; err != nil {
				return fmt.Errorf("user: seed comment: %w", err)
			}
		}
	}
	return nil
}
