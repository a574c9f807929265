package db

import (
	"errors"
	"fmt"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/jcallahan/plank/internal/models"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Project{},
		&models.User{},
		&models.Issue{},
		&models.Comment{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// Reset drops all tables (including the assignee join table) and recreates
// them empty.
func Reset(db *gorm.DB) error {
	tables := []interface{}{
		&models.Comment{},
		"issue_assignees",
		&models.Issue{},
		&models.User{},
		&models.Project{},
	}
	if err := db.Migrator().DropTable(tables...); err != nil {
		return fmt.Errorf("db: drop tables: %w", err)
	}
	return AutoMigrate(db)
}

// IsDuplicateKey reports whether err is a unique-constraint violation, for
// either backing driver.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
