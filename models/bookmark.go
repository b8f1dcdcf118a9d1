package models

import "time"

// Bookmark records a tweet saved by a user. There is deliberately no
// foreign-key cleanup when the tweet is deleted: a bookmark pointing at a
// gone tweet is expected behavior, not an error.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_tweet" json:"user_id"`
	TweetID   uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_tweet" json:"tweet_id"`
	CreatedAt time.Time `json:"created_at"`
}
