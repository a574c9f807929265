package models

import "time"

// Project is the top-level container. Every user and issue belongs to
// exactly one project.
type Project struct {
	ID          string    `gorm:"primaryKey;size:32" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	URL         string    `gorm:"size:512" json:"url"`
	Category    string    `gorm:"size:32;default:software" json:"category"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Users  []User  `gorm:"foreignKey:ProjectID" json:"users,omitempty"`
	Issues []Issue `gorm:"foreignKey:ProjectID" json:"issues,omitempty"`
}
