package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v3"
)

// SearchShows returns shows whose title starts with ?q=, or every show.
func (h *Handler) SearchShows(c fiber.Ctx) error {
	q := fiber.Query(c, "q", "")
	shows := h.Catalog.Search(q)

	return c.JSON(fiber.Map{
		"query": q,
		"shows": shows,
		"total": len(shows),
	})
}

// EpisodesForShow returns a show's episodes ordered by episode number.
func (h *Handler) EpisodesForShow(c fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid show name"})
	}

	episodes := h.Catalog.EpisodesForShow(c.Context(), name)
	return c.JSON(fiber.Map{
		"show":     name,
		"episodes": episodes,
	})
}

// GetEpisode returns one episode.
func (h *Handler) GetEpisode(c fiber.Ctx) error {
	episode, err := h.Catalog.Episode(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, "episode")
	}
	return c.JSON(episode)
}
