package server

import (
	"encoding/json"

	"chirp/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// CreateTweet handles POST /api/v1/tweet/create
// The caller's public profile is copied into the tweet as it looks right
// now; the snapshot stays frozen if the profile changes later.
func (s *Server) CreateTweet(c *fiber.Ctx) error {
	ctx := c.Context()
	author := currentUser(c)

	var req struct {
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Description == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Description is required."))
	}

	snapshot, err := json.Marshal(author.Snapshot())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	tweet := &models.Tweet{
		Description: req.Description,
		UserID:      author.ID,
		Author:      datatypes.JSON(snapshot),
	}

	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Tweet created successfully.",
		"tweet":   tweet,
	})
}

// DeleteTweet handles DELETE /api/v1/tweet/delete/:id
// Any authenticated caller may delete any tweet; bookmark references held
// by other users are left dangling on purpose.
func (s *Server) DeleteTweet(c *fiber.Ctx) error {
	ctx := c.Context()

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid tweet ID"))
	}

	deleted, err := s.tweetRepo.Delete(ctx, uint(id))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if !deleted {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Tweet"))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Tweet deleted successfully.",
	})
}

// ToggleLike handles PUT /api/v1/tweet/like/:id
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	tweetID, err := c.ParamsInt("id")
	if err != nil || tweetID <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid tweet ID"))
	}

	if _, err := s.tweetRepo.GetByID(ctx, uint(tweetID)); err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	liked, err := s.tweetRepo.ToggleLike(ctx, userID, uint(tweetID))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	message := "User disliked your tweet."
	if liked {
		message = "User liked your tweet."
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// CreateComment handles POST /api/v1/tweet/comment/:id
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	author := currentUser(c)

	tweetID, err := c.ParamsInt("id")
	if err != nil || tweetID <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid tweet ID"))
	}

	var req struct {
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Comment == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Comment is required."))
	}

	if _, err := s.tweetRepo.GetByID(ctx, uint(tweetID)); err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	comment := &models.Comment{
		TweetID:      uint(tweetID),
		Body:         req.Comment,
		UserID:       author.ID,
		UserName:     author.Name,
		UserUsername: author.Username,
	}

	if err := s.tweetRepo.AddComment(ctx, comment); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// GetFeed handles GET /api/v1/tweet/alltweets/:id
// Returns the user's own tweets followed by each followee's tweets. The
// groups are concatenated per source in insertion order; there is no global
// interleaving guarantee.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.Context()

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	if _, err := s.userRepo.GetByID(ctx, uint(id)); err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	tweets, err := s.tweetRepo.ListByUser(ctx, uint(id))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	followed, err := s.followedTweets(c, uint(id))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	tweets = append(tweets, followed...)

	return c.JSON(fiber.Map{
		"success": true,
		"tweets":  tweets,
	})
}

// GetFollowingFeed handles GET /api/v1/tweet/followingtweets/:id
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	ctx := c.Context()

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	if _, err := s.userRepo.GetByID(ctx, uint(id)); err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	tweets, err := s.followedTweets(c, uint(id))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"tweets":  tweets,
	})
}

// GetGlobalFeed handles GET /api/v1/tweet/all
func (s *Server) GetGlobalFeed(c *fiber.Ctx) error {
	tweets, err := s.tweetRepo.ListAll(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"tweets":  tweets,
	})
}

// followedTweets collects tweets from every user the given user follows,
// one followee group at a time.
func (s *Server) followedTweets(c *fiber.Ctx, userID uint) ([]models.Tweet, error) {
	ctx := c.Context()

	ids, err := s.userRepo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	tweets := []models.Tweet{}
	for _, fid := range ids {
		batch, err := s.tweetRepo.ListByUser(ctx, fid)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, batch...)
	}
	return tweets, nil
}
