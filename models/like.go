package models

import "time"

// Like records that a user likes a tweet.
// The combination of UserID and TweetID must be unique; rows are hard
// deleted so a toggle can re-insert without tripping the index.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_tweet" json:"user_id"`
	TweetID   uint      `gorm:"not null;uniqueIndex:idx_like_user_tweet" json:"tweet_id"`
	CreatedAt time.Time `json:"created_at"`
}
