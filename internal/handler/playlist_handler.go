package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"showoff/internal/middleware"
	"showoff/internal/models"
	"showoff/internal/playlist"
)

// UserPlaylists returns a user's playlists.
func (h *Handler) UserPlaylists(c fiber.Ctx) error {
	id := c.Params("id")
	store := playlist.NewStore(middleware.Session(c), h.Playlists, h.Logger)

	return c.JSON(fiber.Map{
		"user_id":   id,
		"playlists": store.Load(c.Context(), id),
	})
}

// CreatePlaylist creates a playlist owned by the caller.
func (h *Handler) CreatePlaylist(c fiber.Ctx) error {
	var req models.CreatePlaylistRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	store := playlist.NewStore(middleware.Session(c), h.Playlists, h.Logger)
	p, err := store.Create(c.Context(), req.Title, req.Type, req.ItemIDs, req.CoverURL)
	if errors.Is(err, playlist.ErrInvalidPlaylist) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
	if err != nil {
		return h.fail(c, err, "playlist")
	}
	if p == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "sign in required"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"playlist":  p,
		"playlists": store.Playlists(),
	})
}

// GetPlaylist returns one playlist.
func (h *Handler) GetPlaylist(c fiber.Ctx) error {
	store := playlist.NewStore(middleware.Session(c), h.Playlists, h.Logger)
	p, err := store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, "playlist")
	}
	return c.JSON(p)
}
