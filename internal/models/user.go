// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered account in the Picstream application.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Posts  []Post  `gorm:"foreignKey:UserID" json:"posts,omitempty"`
	Images []Image `gorm:"foreignKey:UserID" json:"-"`
}
