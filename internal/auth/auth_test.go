package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jcallahan/plank/internal/models"
)

const testSecret = "test-signing-key"

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Project{}, &models.User{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	p := models.Project{ID: "prj-test1", Name: "Test"}
	u := models.User{ID: "usr-alice", Name: "Alice", Email: "alice@test.dev", ProjectID: p.ID}
	if err := db.Create(&p).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatal(err)
	}
	return db
}

func TestTokenRoundTrip(t *testing.T) {
	tok, err := IssueToken(testSecret, time.Hour, "usr-alice")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	uid, err := ParseToken(testSecret, tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if uid != "usr-alice" {
		t.Errorf("subject = %q, want usr-alice", uid)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	tok, err := IssueToken(testSecret, time.Hour, "usr-alice")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken("other-secret", tok); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	tok, err := IssueToken(testSecret, -time.Minute, "usr-alice")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken(testSecret, tok); err == nil {
		t.Error("expected error for expired token")
	}
}

// middlewareProbe runs one request through Middleware and the assertion
// handler, returning the recorded status.
func middlewareProbe(t *testing.T, db *gorm.DB, authHeader string, assert gin.HandlerFunc) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/probe", Middleware(db, testSecret), assert)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec.Code
}

func TestMiddleware_ResolvesUserAndProject(t *testing.T) {
	db := testDB(t)
	tok, err := IssueToken(testSecret, time.Hour, "usr-alice")
	if err != nil {
		t.Fatal(err)
	}

	code := middlewareProbe(t, db, "Bearer "+tok, func(c *gin.Context) {
		if UserID(c) != "usr-alice" {
			t.Errorf("UserID = %q, want usr-alice", UserID(c))
		}
		if ProjectID(c) != "prj-test1" {
			t.Errorf("ProjectID = %q, want prj-test1", ProjectID(c))
		}
		c.Status(http.StatusOK)
	})
	if code != http.StatusOK {
		t.Errorf("status = %d, want 200", code)
	}
}

func TestMiddleware_Rejections(t *testing.T) {
	db := testDB(t)
	ghostTok, err := IssueToken(testSecret, time.Hour, "usr-ghost")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"unknown user", "Bearer " + ghostTok},
	}
	for _, tt := range tests {
		code := middlewareProbe(t, db, tt.header, func(c *gin.Context) {
			t.Errorf("%s: handler reached, middleware should have aborted", tt.name)
		})
		if code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", tt.name, code)
		}
	}
}
