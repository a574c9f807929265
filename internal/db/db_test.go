package db

import (
	"errors"
	"path/filepath"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/jcallahan/plank/internal/config"
	"github.com/jcallahan/plank/internal/models"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{
			name: "default local",
			cfg:  config.DatabaseConfig{Host: "127.0.0.1", Port: 3306, Name: "plank", User: "root"},
			want: "root@tcp(127.0.0.1:3306)/plank?parseTime=true",
		},
		{
			name: "custom host and credentials",
			cfg:  config.DatabaseConfig{Host: "10.0.0.5", Port: 3307, Name: "plank_prod", User: "plank", Pass: "hunter2"},
			want: "plank:hunter2@tcp(10.0.0.5:3307)/plank_prod?parseTime=true",
		},
		{
			name: "production host",
			cfg:  config.DatabaseConfig{Host: "db.vpc.internal", Port: 3306, Name: "plank", User: "root"},
			want: "root@tcp(db.vpc.internal:3306)/plank?parseTime=true",
		},
	}
	for _, tt := range tests {
		if got := DSN(tt.cfg); got != tt.want {
			t.Errorf("%s: DSN = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestConnect_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plank.db")
	db, err := Connect(config.DatabaseConfig{Driver: "sqlite", Path: path})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	for _, table := range []string{"projects", "users", "issues", "comments", "issue_assignees"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("table %q missing after migrate", table)
		}
	}
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	if _, err := Connect(config.DatabaseConfig{Driver: "postgres"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func migratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Connect(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

func TestReset_EmptiesTables(t *testing.T) {
	db := migratedDB(t)

	p := models.Project{ID: "prj-test1", Name: "Test"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatal(err)
	}

	if err := Reset(db); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	var n int64
	if err := db.Model(&models.Project{}).Count(&n).Error; err != nil {
		t.Fatalf("count after reset: %v", err)
	}
	if n != 0 {
		t.Errorf("projects after reset = %d, want 0", n)
	}
	if !db.Migrator().HasTable("issues") {
		t.Error("issues table missing after reset")
	}
}

func TestIsDuplicateKey(t *testing.T) {
	db := migratedDB(t)
	p := models.Project{ID: "prj-test1", Name: "Test"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatal(err)
	}

	u := models.User{ID: "usr-00001", Name: "A", Email: "dup@test.dev", ProjectID: p.ID}
	if err := db.Create(&u).Error; err != nil {
		t.Fatal(err)
	}
	dup := models.User{ID: "usr-00002", Name: "B", Email: "dup@test.dev", ProjectID: p.ID}
	err := db.Create(&dup).Error
	if err == nil {
		t.Fatal("expected unique violation for duplicate email")
	}
	if !IsDuplicateKey(err) {
		t.Errorf("IsDuplicateKey(%v) = false, want true", err)
	}

	if !IsDuplicateKey(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"}) {
		t.Error("IsDuplicateKey should recognize MySQL errno 1062")
	}
	if IsDuplicateKey(&gomysql.MySQLError{Number: 1054, Message: "Unknown column"}) {
		t.Error("IsDuplicateKey should ignore other MySQL errors")
	}
	if IsDuplicateKey(nil) {
		t.Error("IsDuplicateKey(nil) should be false")
	}
	if IsDuplicateKey(errors.New("some other failure")) {
		t.Error("IsDuplicateKey should ignore unrelated errors")
	}
}
