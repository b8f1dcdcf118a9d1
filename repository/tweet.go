package repository

import (
	"context"
	"errors"

	"chirp/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TweetRepository defines the interface for tweet data operations
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id uint) (*models.Tweet, error)
	Delete(ctx context.Context, id uint) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Tweet, error)
	ListAll(ctx context.Context) ([]models.Tweet, error)
	ToggleLike(ctx context.Context, userID, tweetID uint) (bool, error)
	AddComment(ctx context.Context, comment *models.Comment) error
}

// tweetRepository implements TweetRepository
type tweetRepository struct {
	db *gorm.DB
}

// NewTweetRepository creates a new tweet repository
func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id uint) (*models.Tweet, error) {
	var tweet models.Tweet
	err := r.db.WithContext(ctx).
		Preload("Likes").
		Preload("Comments").
		First(&tweet, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Tweet")
		}
		return nil, models.NewInternalError(err)
	}
	return &tweet, nil
}

// Delete removes a tweet by id and reports whether a row existed. There is
// deliberately no cascade into bookmarks held by other users.
func (r *tweetRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Tweet{}, id)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListByUser returns one author's tweets in insertion order.
func (r *tweetRepository) ListByUser(ctx context.Context, userID uint) ([]models.Tweet, error) {
	var tweets []models.Tweet
	err := r.db.WithContext(ctx).
		Preload("Likes").
		Preload("Comments").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&tweets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tweets, nil
}

// ListAll returns every tweet, newest first (global feed).
func (r *tweetRepository) ListAll(ctx context.Context) ([]models.Tweet, error) {
	var tweets []models.Tweet
	err := r.db.WithContext(ctx).
		Preload("Likes").
		Preload("Comments").
		Order("created_at DESC").
		Find(&tweets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tweets, nil
}

// ToggleLike flips the user's membership in a tweet's like set. The delete
// and the conditional insert are each a single statement, and the composite
// unique index keeps the set duplicate-free under concurrent toggles.
// Returns true when the like was added, false when it was removed.
func (r *tweetRepository) ToggleLike(ctx context.Context, userID, tweetID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	like := models.Like{UserID: userID, TweetID: tweetID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return true, nil
}

func (r *tweetRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
