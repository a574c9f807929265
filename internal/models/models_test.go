package models

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// gormTag extracts the gorm tag from a struct field.
func gormTag(t *testing.T, typ reflect.Type, fieldName string) string {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	return f.Tag.Get("gorm")
}

// assertGormTag checks that a struct field's gorm tag contains the expected value.
func assertGormTag(t *testing.T, typ reflect.Type, fieldName, expected string) {
	t.Helper()
	tag := gormTag(t, typ, fieldName)
	if !strings.Contains(tag, expected) {
		t.Errorf("%s.%s gorm tag = %q, want to contain %q", typ.Name(), fieldName, tag, expected)
	}
}

// assertFieldType checks that a struct field has the expected Go type.
func assertFieldType(t *testing.T, typ reflect.Type, fieldName, expectedType string) {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	got := f.Type.String()
	if got != expectedType {
		t.Errorf("%s.%s type = %q, want %q", typ.Name(), fieldName, got, expectedType)
	}
}

func TestIssue_Fields(t *testing.T) {
	typ := reflect.TypeOf(Issue{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "size:32")
	assertGormTag(t, typ, "ProjectID", "not null")
	assertGormTag(t, typ, "ProjectID", "index")
	assertGormTag(t, typ, "Title", "size:200")
	assertGormTag(t, typ, "Title", "not null")
	assertGormTag(t, typ, "Type", "size:16")
	assertGormTag(t, typ, "Type", "default:task")
	assertGormTag(t, typ, "Status", "size:16")
	assertGormTag(t, typ, "Status", "default:backlog")
	assertGormTag(t, typ, "Status", "index")
	assertGormTag(t, typ, "Priority", "default:3")
	assertGormTag(t, typ, "ListPosition", "not null")
	assertGormTag(t, typ, "Description", "type:text")
	assertGormTag(t, typ, "DescriptionText", "type:text")
	assertGormTag(t, typ, "ReporterID", "not null")

	assertFieldType(t, typ, "ID", "string")
	assertFieldType(t, typ, "ListPosition", "float64")
	assertFieldType(t, typ, "Priority", "int")
	assertFieldType(t, typ, "CreatedAt", "time.Time")
	assertFieldType(t, typ, "UpdatedAt", "time.Time")
}

func TestIssue_Relations(t *testing.T) {
	typ := reflect.TypeOf(Issue{})

	assertGormTag(t, typ, "Reporter", "foreignKey:ReporterID")
	assertGormTag(t, typ, "Assignees", "many2many:issue_assignees")
	assertGormTag(t, typ, "Comments", "foreignKey:IssueID")
	assertGormTag(t, typ, "Comments", "OnDelete:CASCADE")

	assertFieldType(t, typ, "Reporter", "*models.User")
	assertFieldType(t, typ, "Assignees", "[]models.User")
	assertFieldType(t, typ, "Comments", "[]models.Comment")
}

func TestProject_Fields(t *testing.T) {
	typ := reflect.TypeOf(Project{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "size:32")
	assertGormTag(t, typ, "Name", "not null")
	assertGormTag(t, typ, "URL", "size:512")
	assertGormTag(t, typ, "Category", "default:software")
	assertGormTag(t, typ, "Description", "type:text")
	assertGormTag(t, typ, "Users", "foreignKey:ProjectID")
	assertGormTag(t, typ, "Issues", "foreignKey:ProjectID")

	assertFieldType(t, typ, "Users", "[]models.User")
	assertFieldType(t, typ, "Issues", "[]models.Issue")
}

func TestUser_Fields(t *testing.T) {
	typ := reflect.TypeOf(User{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "size:32")
	assertGormTag(t, typ, "Name", "size:100")
	assertGormTag(t, typ, "Name", "not null")
	assertGormTag(t, typ, "Email", "uniqueIndex")
	assertGormTag(t, typ, "AvatarURL", "size:512")
	assertGormTag(t, typ, "ProjectID", "not null")
	assertGormTag(t, typ, "ProjectID", "index")

	assertFieldType(t, typ, "ID", "string")
	assertFieldType(t, typ, "CreatedAt", "time.Time")
}

func TestComment_Fields(t *testing.T) {
	typ := reflect.TypeOf(Comment{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "autoIncrement")
	assertGormTag(t, typ, "Body", "type:text")
	assertGormTag(t, typ, "Body", "not null")
	assertGormTag(t, typ, "IssueID", "not null")
	assertGormTag(t, typ, "IssueID", "index")
	assertGormTag(t, typ, "UserID", "not null")
	assertGormTag(t, typ, "User", "foreignKey:UserID")

	assertFieldType(t, typ, "ID", "uint")
	assertFieldType(t, typ, "User", "*models.User")
}

func TestIssue_Instantiation(t *testing.T) {
	now := time.Now()
	iss := Issue{
		ID:              "iss-a3f91",
		ProjectID:       "prj-00001",
		Title:           "Fix board flicker on drop",
		Type:            TypeBug,
		Status:          StatusInProgress,
		Priority:        4,
		ListPosition:    1.5,
		Description:     "<p>Repro in <b>Safari</b></p>",
		DescriptionText: "Repro in Safari",
		ReporterID:      "usr-00001",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if iss.ID != "iss-a3f91" {
		t.Errorf("ID = %q, want %q", iss.ID, "iss-a3f91")
	}
	if iss.ListPosition != 1.5 {
		t.Errorf("ListPosition = %v, want 1.5", iss.ListPosition)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range Statuses {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "open", "BACKLOG", "archived"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true, want false", s)
		}
	}
}

func TestValidType(t *testing.T) {
	for _, v := range Types {
		if !ValidType(v) {
			t.Errorf("ValidType(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"", "epic", "Task"} {
		if ValidType(v) {
			t.Errorf("ValidType(%q) = true, want false", v)
		}
	}
}

func TestNewID(t *testing.T) {
	id, err := NewID("iss")
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	if !strings.HasPrefix(id, "iss-") {
		t.Errorf("id = %q, want iss- prefix", id)
	}
	if len(id) != len("iss-")+5 {
		t.Errorf("id = %q, want 5-char suffix", id)
	}

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := NewID("usr")
		if err != nil {
			t.Fatal(err)
		}
		seen[id] = true
	}
	if len(seen) < 40 {
		t.Errorf("generated %d distinct IDs out of 50, collisions too frequent", len(seen))
	}
}
