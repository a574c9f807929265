// Package rebalance compacts Kanban column keys on a schedule. Midpoint
// allocation shrinks the gap between neighbors with every drag; the sweep
// renumbers any column whose tightest gap falls under the configured
// threshold, restoring full precision headroom before reorders ever hit
// the degenerate fallback.
package rebalance

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/jcallahan/plank/internal/config"
	"github.com/jcallahan/plank/internal/models"
	"github.com/jcallahan/plank/internal/position"
)

// Sweeper runs the compaction sweep on a cron schedule.
type Sweeper struct {
	db   *gorm.DB
	cfg  config.RebalanceConfig
	cron *cron.Cron
}

// New builds a Sweeper. Call Start to begin scheduling.
func New(db *gorm.DB, cfg config.RebalanceConfig) *Sweeper {
	return &Sweeper{db: db, cfg: cfg}
}

// Start schedules the sweep. The schedule is a 5-field cron expression.
func (s *Sweeper) Start() error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		n, err := Sweep(s.db, s.cfg.MinGap)
		if err != nil {
			log.Printf("rebalance: sweep: %v", err)
			return
		}
		if n > 0 {
			log.Printf("rebalance: renumbered %d column(s)", n)
		}
	})
	if err != nil {
		return fmt.Errorf("rebalance: schedule %q: %w", s.cfg.Schedule, err)
	}
	s.cron.Start()
	return nil
}

// Stop halts scheduling. A sweep already in flight finishes.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// column identifies one (project, status) partition.
type column struct {
	ProjectID string
	Status    string
}

// Sweep renumbers every column whose minimum adjacent key gap is below
// minGap and returns how many columns were rewritten. Each column is
// compacted in its own transaction so a busy board is never locked whole.
func Sweep(db *gorm.DB, minGap float64) (int, error) {
	var columns []column
	err := db.Model(&models.Issue{}).
		Distinct("project_id", "status").
		Find(&columns).Error
	if err != nil {
		return 0, fmt.Errorf("rebalance: list columns: %w", err)
	}

	renumbered := 0
	for _, col := range columns {
		done, err := sweepColumn(db, col, minGap)
		if err != nil {
			return renumbered, err
		}
		if done {
			renumbered++
		}
	}
	return renumbered, nil
}

func sweepColumn(db *gorm.DB, col column, minGap float64) (bool, error) {
	renumbered := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var issues []models.Issue
		err := tx.Where("project_id = ? AND status = ?", col.ProjectID, col.Status).
			Order("list_position ASC, id ASC").Find(&issues).Error
		if err != nil {
			return fmt.Errorf("rebalance: read column %s/%s: %w", col.ProjectID, col.Status, err)
		}

		keys := make([]float64, len(issues))
		for i, iss := range issues {
			keys[i] = iss.ListPosition
		}
		if position.MinGap(keys) >= minGap {
			return nil
		}

		fresh := position.Renumber(len(issues))
		for i, iss := range issues {
			if err := tx.Model(&models.Issue{}).Where("id = ?", iss.ID).
				Update("list_position", fresh[i]).Error; err != nil {
				return fmt.Errorf("rebalance: renumber %s: %w", iss.ID, err)
			}
		}
		renumbered = true
		return nil
	})
	return renumbered, err
}
