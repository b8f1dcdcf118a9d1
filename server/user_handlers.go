package server

import (
	"fmt"
	"time"

	"chirp/cache"
	"chirp/middleware"
	"chirp/models"

	"github.com/gofiber/fiber/v2"
)

const profileCacheTTL = 5 * time.Minute

func profileCacheKey(id uint) string {
	return fmt.Sprintf("user:%d:profile", id)
}

// GetProfile handles GET /api/v1/user/profile/:id?
// Falls back to the authenticated caller when no id is given.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	ctx := c.Context()

	var id uint
	if raw := c.Params("id"); raw == "" {
		id = c.Locals("userID").(uint)
	} else {
		parsed, err := c.ParamsInt("id")
		if err != nil || parsed <= 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid user ID"))
		}
		id = uint(parsed)
	}

	var user models.User
	err := cache.CacheAside(ctx, profileCacheKey(id), &user, profileCacheTTL, func() error {
		loaded, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		user = *loaded
		return nil
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// GetOtherUsers handles GET /api/v1/user/other-users/:id
// With id "all" it lists every user except the caller; otherwise it returns
// the single user with that id.
func (s *Server) GetOtherUsers(c *fiber.Ctx) error {
	ctx := c.Context()
	raw := c.Params("id")

	if raw == "" || raw == "undefined" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid or missing user ID"))
	}

	if raw == "all" {
		callerID := c.Locals("userID").(uint)
		others, err := s.userRepo.ListOthers(ctx, callerID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		for i := range others {
			others[i].Password = ""
		}
		return c.JSON(fiber.Map{
			"success":    true,
			"otherUsers": others,
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid or missing user ID"))
	}

	user, err := s.userRepo.GetByID(ctx, uint(id))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// UpdateProfile handles PUT /api/v1/user/update-profile (multipart).
// Only the fields present in the request are persisted: an optional bio
// form value and an optional avatar stored by the upload middleware.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	if bio := c.FormValue("bio"); bio != "" {
		user.Bio = bio
	}
	if avatar, ok := c.Locals(middleware.LocalAvatarPath).(string); ok && avatar != "" {
		user.Avatar = avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	cache.Invalidate(ctx, profileCacheKey(userID))

	user.Password = ""
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// Follow handles POST /api/v1/user/follow/:id
func (s *Server) Follow(c *fiber.Ctx) error {
	ctx := c.Context()
	actor := currentUser(c)

	targetID, err := c.ParamsInt("id")
	if err != nil || targetID <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}
	if actor.ID == uint(targetID) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You cannot follow yourself"))
	}

	target, err := s.userRepo.GetByID(ctx, uint(targetID))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	following, err := s.userRepo.IsFollowing(ctx, actor.ID, target.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if following {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(fmt.Sprintf("You already follow %s", target.Name)))
	}

	if err := s.userRepo.Follow(ctx, actor.ID, target.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	cache.Invalidate(ctx, profileCacheKey(actor.ID), profileCacheKey(target.ID))

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("%s followed %s", actor.Name, target.Name),
	})
}

// Unfollow handles POST /api/v1/user/unfollow/:id
func (s *Server) Unfollow(c *fiber.Ctx) error {
	ctx := c.Context()
	actor := currentUser(c)

	targetID, err := c.ParamsInt("id")
	if err != nil || targetID <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	target, err := s.userRepo.GetByID(ctx, uint(targetID))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}

	removed, err := s.userRepo.Unfollow(ctx, actor.ID, target.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if !removed {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(fmt.Sprintf("You are not following %s", target.Name)))
	}

	cache.Invalidate(ctx, profileCacheKey(actor.ID), profileCacheKey(target.ID))

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("%s unfollowed %s", actor.Name, target.Name),
	})
}

// ToggleBookmark handles PUT /api/v1/user/bookmark/:id
// Bookmarks may reference tweets that have since been deleted; no existence
// check is made on the tweet id.
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	tweetID, err := c.ParamsInt("id")
	if err != nil || tweetID <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid tweet ID"))
	}

	added, err := s.userRepo.ToggleBookmark(ctx, userID, uint(tweetID))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	cache.Invalidate(ctx, profileCacheKey(userID))

	message := "Removed from bookmarks"
	if added {
		message = "Saved to bookmarks"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}
