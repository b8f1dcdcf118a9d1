package middleware

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"chirp/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MaxAvatarSize is the hard cap for uploaded avatars. Oversized files are
// rejected outright, never truncated.
const MaxAvatarSize = 5 * 1024 * 1024

// LocalAvatarPath is the Locals key under which the stored avatar's public
// path is made available to the next handler.
const LocalAvatarPath = "avatarPath"

var allowedAvatarExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// AvatarUpload returns a middleware that validates and persists an optional
// multipart file field named "avatar". The file is stored under uploadDir
// with a generated name and its public path is placed in c.Locals. Requests
// without a file pass through untouched.
func AvatarUpload(uploadDir string) fiber.Handler {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Printf("Failed to create upload directory %s: %v", uploadDir, err)
	}

	return func(c *fiber.Ctx) error {
		file, err := c.FormFile("avatar")
		if err != nil {
			// No file attached; bio-only updates are fine.
			return c.Next()
		}

		if file.Size > MaxAvatarSize {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Avatar must be 5MB or smaller"))
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		contentType := file.Header.Get("Content-Type")
		if !allowedAvatarExts[ext] || !strings.HasPrefix(contentType, "image/") {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Only image files (jpg, jpeg, png, gif) are allowed"))
		}

		name := fmt.Sprintf("%s%s", uuid.New().String(), ext)
		if err := c.SaveFile(file, filepath.Join(uploadDir, name)); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}

		c.Locals(LocalAvatarPath, "/uploads/"+name)
		return c.Next()
	}
}
