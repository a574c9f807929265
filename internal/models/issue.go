package models

import "time"

// Issue statuses double as Kanban column keys. ListPosition orders issues
// within a (project, status) column; it is a float so a drag-drop insert
// between two neighbors only writes one row.
const (
	StatusBacklog    = "backlog"
	StatusSelected   = "selected"
	StatusInProgress = "inprogress"
	StatusDone       = "done"
)

// Issue types.
const (
	TypeTask  = "task"
	TypeBug   = "bug"
	TypeStory = "story"
)

// Statuses lists all Kanban columns in board order.
var Statuses = []string{StatusBacklog, StatusSelected, StatusInProgress, StatusDone}

// Types lists all issue types.
var Types = []string{TypeTask, TypeBug, TypeStory}

// Issue is the core work item.
type Issue struct {
	ID           string  `gorm:"primaryKey;size:32" json:"id"`
	ProjectID    string  `gorm:"size:32;not null;index" json:"projectId"`
	Title        string  `gorm:"size:200;not null" json:"title"`
	Type         string  `gorm:"size:16;default:task" json:"type"`
	Status       string  `gorm:"size:16;default:backlog;index" json:"status"`
	Priority     int     `gorm:"default:3" json:"priority"`
	ListPosition float64 `gorm:"not null" json:"listPosition"`
	Description  string  `gorm:"type:text" json:"description"`
	// DescriptionText is the plain-text projection of Description,
	// recomputed on every description write. Search reads it, never
	// the markup.
	DescriptionText string    `gorm:"type:text" json:"descriptionText"`
	Estimate        int       `json:"estimate"`
	TimeSpent       int       `json:"timeSpent"`
	TimeRemaining   int       `json:"timeRemaining"`
	ReporterID      string    `gorm:"size:32;not null" json:"reporterId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	Reporter  *User     `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	Assignees []User    `gorm:"many2many:issue_assignees" json:"assignees"`
	Comments  []Comment `gorm:"foreignKey:IssueID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// ValidStatus reports whether s names a Kanban column.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidType reports whether t is a known issue type.
func ValidType(t string) bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}
