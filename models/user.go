// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the Chirp application.
// Follower, following and bookmark sets live in their own edge tables
// (Follow, Bookmark); the slices here are filled in by the repository
// when a full profile is loaded.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Bio       string         `json:"bio"`
	Avatar    string         `json:"avatar"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Followers []uint `gorm:"-" json:"followers"`
	Following []uint `gorm:"-" json:"following"`
	Bookmarks []uint `gorm:"-" json:"bookmarks"`
}

// AuthorSnapshot is the subset of a profile that gets copied into a tweet
// at creation time. The copy is never refreshed when the profile changes.
type AuthorSnapshot struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

// Snapshot returns the denormalized view of the user stored on tweets.
func (u *User) Snapshot() AuthorSnapshot {
	return AuthorSnapshot{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Bio:      u.Bio,
		Avatar:   u.Avatar,
	}
}
