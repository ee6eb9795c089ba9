package models

import (
	"time"
)

// Image represents one uploaded binary. An image is created owner-bound but
// post-unbound; PostID is set exactly once when the image is attached to a
// newly created post and is never reassigned.
type Image struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	PostID    *uint     `gorm:"index" json:"post_id,omitempty"`
	FileExt   string    `gorm:"size:8;not null" json:"file_ext"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
