package models

import "time"

// User is a project member. Membership is single-project; the assignee
// relationship to issues is many-to-many with no ownership semantics.
type User struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:200;uniqueIndex" json:"email"`
	AvatarURL string    `gorm:"size:512" json:"avatarUrl"`
	ProjectID string    `gorm:"size:32;not null;index" json:"projectId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
