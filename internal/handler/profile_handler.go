package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"showoff/internal/middleware"
	"showoff/internal/models"
	"showoff/internal/profile"
)

// GetProfile returns a user's profile with avatar URL and review count.
func (h *Handler) GetProfile(c fiber.Ctx) error {
	p, err := h.Profiles.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, "user")
	}
	return c.JSON(p)
}

// UserReviews returns the reviews a user has written.
func (h *Handler) UserReviews(c fiber.Ctx) error {
	id := c.Params("id")
	reviews, err := h.Profiles.UserReviews(c.Context(), id)
	if err != nil {
		return h.fail(c, err, "reviews")
	}
	return c.JSON(fiber.Map{
		"user_id": id,
		"reviews": reviews,
	})
}

// UpdateProfile edits the caller's username and avatar path. The avatar path
// may only point at the caller's own uploaded avatar.
func (h *Handler) UpdateProfile(c fiber.Ctx) error {
	var req models.UpdateProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	user, err := h.Profiles.Update(c.Context(), middleware.Session(c), req.Username, req.AvatarPath)
	if errors.Is(err, profile.ErrInvalidUsername) || errors.Is(err, profile.ErrInvalidAvatarPath) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
	if err != nil {
		return h.fail(c, err, "user")
	}
	return c.JSON(user)
}

// UploadAvatar stores the multipart "avatar" file as the caller's avatar.
func (h *Handler) UploadAvatar(c fiber.Ctx) error {
	fh, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "missing avatar file"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "unreadable avatar file"})
	}
	defer f.Close()

	path, err := h.Profiles.UploadAvatar(c.Context(), middleware.Session(c), f)
	if err != nil {
		return h.fail(c, err, "avatar")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"avatar_path": path})
}
