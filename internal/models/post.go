package models

import (
	"time"
)

// Post represents one feed entry in the Picstream application.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Caption string `gorm:"size:1024;not null" json:"caption"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`

	// Dependent rows: likes and comments are removed with the post via
	// ON DELETE CASCADE; images are detached (post_id set to NULL) and
	// become orphans, which is accepted.
	Images   []Image   `gorm:"foreignKey:PostID;constraint:OnDelete:SET NULL" json:"images,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Likes    []Like    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`

	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"->;-:migration" json:"liked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
