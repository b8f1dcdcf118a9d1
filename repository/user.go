// Package repository contains data-access interfaces and their GORM implementations.
package repository

import (
	"context"
	"errors"

	"chirp/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	ListOthers(ctx context.Context, excludeID uint) ([]models.User, error)

	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	Follow(ctx context.Context, followerID, followeeID uint) error
	Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error)
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)

	ToggleBookmark(ctx context.Context, userID, tweetID uint) (bool, error)
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID loads a user together with its derived follower/following/bookmark
// id sets. Every read re-queries the store; there is no in-process index.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User")
		}
		return nil, models.NewInternalError(err)
	}
	if err := r.loadEdgeSets(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Return nil for not found, not an error
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) ListOthers(ctx context.Context, excludeID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id <> ?", excludeID).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Follow inserts the edge row. ON CONFLICT DO NOTHING makes concurrent
// duplicate follows collapse into one edge instead of erroring.
func (r *userRepository) Follow(ctx context.Context, followerID, followeeID uint) error {
	edge := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edge).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Unfollow removes the edge row and reports whether one existed.
func (r *userRepository) Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Order("id ASC").
		Pluck("followee_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// ToggleBookmark flips the caller's bookmark for a tweet. Each leg is a
// single statement, so two racing togglers cannot leave a duplicate row.
// Returns true when the bookmark was added, false when it was removed.
func (r *userRepository) ToggleBookmark(ctx context.Context, userID, tweetID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Delete(&models.Bookmark{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	mark := models.Bookmark{UserID: userID, TweetID: tweetID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&mark).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return true, nil
}

// loadEdgeSets fills the derived id slices on a loaded user.
func (r *userRepository) loadEdgeSets(ctx context.Context, user *models.User) error {
	user.Followers = []uint{}
	user.Following = []uint{}
	user.Bookmarks = []uint{}

	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followee_id = ?", user.ID).
		Order("id ASC").
		Pluck("follower_id", &user.Followers).Error
	if err != nil {
		return models.NewInternalError(err)
	}

	err = r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", user.ID).
		Order("id ASC").
		Pluck("followee_id", &user.Following).Error
	if err != nil {
		return models.NewInternalError(err)
	}

	err = r.db.WithContext(ctx).Model(&models.Bookmark{}).
		Where("user_id = ?", user.ID).
		Order("id ASC").
		Pluck("tweet_id", &user.Bookmarks).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
