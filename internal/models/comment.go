package models

import "time"

// Comment belongs to exactly one issue and one user. Rows are removed
// when their issue is deleted.
type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	IssueID   string    `gorm:"size:32;not null;index" json:"issueId"`
	UserID    string    `gorm:"size:32;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
