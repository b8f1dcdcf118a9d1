package models

import "time"

// Comment is attached to a tweet and carries a denormalized snapshot of the
// commenting user (id, name, username) taken when the comment was written.
type Comment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TweetID      uint      `gorm:"not null;index" json:"tweet_id"`
	Body         string    `gorm:"not null" json:"comment"`
	UserID       uint      `gorm:"not null" json:"user_id"`
	UserName     string    `json:"user_name"`
	UserUsername string    `json:"user_username"`
	CreatedAt    time.Time `json:"created_at"`
}
