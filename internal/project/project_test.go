package project

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jcallahan/plank/internal/errs"
	"github.com/jcallahan/plank/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Project{},
		&models.User{},
		&models.Issue{},
		&models.Comment{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	p := models.Project{ID: "prj-test1", Name: "Harbor", Category: "software"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatal(err)
	}
	u := models.User{ID: "usr-alice", Name: "Alice", Email: "alice@test.dev", ProjectID: p.ID}
	if err := db.Create(&u).Error; err != nil {
		t.Fatal(err)
	}
	issues := []models.Issue{
		{ID: "iss-00002", ProjectID: p.ID, Title: "second", Type: "task", Status: models.StatusBacklog, Priority: 3, ListPosition: 2, ReporterID: u.ID},
		{ID: "iss-00001", ProjectID: p.ID, Title: "first", Type: "task", Status: models.StatusBacklog, Priority: 3, ListPosition: 1, ReporterID: u.ID},
	}
	if err := db.Create(&issues).Error; err != nil {
		t.Fatal(err)
	}
}

func TestGet_PreloadsMembersAndOrderedIssues(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	p, err := Get(db, "prj-test1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(p.Users) != 1 {
		t.Errorf("len(Users) = %d, want 1", len(p.Users))
	}
	if len(p.Issues) != 2 {
		t.Fatalf("len(Issues) = %d, want 2", len(p.Issues))
	}
	if p.Issues[0].Title != "first" || p.Issues[1].Title != "second" {
		t.Errorf("issues not in listPosition order: %q, %q", p.Issues[0].Title, p.Issues[1].Title)
	}
}

func TestGet_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := Get(db, "prj-ghost"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func str(s string) *string { return &s }

func TestUpdate(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	p, err := Update(db, "prj-test1", UpdateOpts{Name: str("Harbor 2"), Description: str("refit")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.Name != "Harbor 2" {
		t.Errorf("Name = %q, want Harbor 2", p.Name)
	}
	if p.Description != "refit" {
		t.Errorf("Description = %q, want refit", p.Description)
	}
	// Category untouched.
	if p.Category != "software" {
		t.Errorf("Category = %q, want software unchanged", p.Category)
	}
}

func TestUpdate_EmptyNameRejected(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	if _, err := Update(db, "prj-test1", UpdateOpts{Name: str("")}); !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := Update(db, "prj-ghost", UpdateOpts{Name: str("x")}); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
