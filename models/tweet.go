package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tweet represents a single post. Author holds the creator's profile as it
// looked at creation time, stored as a JSON column so feeds render without
// a join; it goes stale on purpose when the profile is later updated.
type Tweet struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Description string         `gorm:"not null" json:"description"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Author      datatypes.JSON `json:"author"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Likes    []Like    `gorm:"foreignKey:TweetID" json:"-"`
	Comments []Comment `gorm:"foreignKey:TweetID" json:"comments"`

	// LikedBy is the flattened list of liker user ids clients consume.
	LikedBy []uint `gorm:"-" json:"likes"`
}

// AfterFind flattens preloaded like rows into the liker id list.
func (t *Tweet) AfterFind(_ *gorm.DB) error {
	t.LikedBy = make([]uint, 0, len(t.Likes))
	for _, l := range t.Likes {
		t.LikedBy = append(t.LikedBy, l.UserID)
	}
	if t.Comments == nil {
		t.Comments = []Comment{}
	}
	return nil
}
