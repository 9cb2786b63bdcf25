package handler

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"showoff/internal/middleware"
	"showoff/internal/models"
	"showoff/internal/review"
)

// ReviewResponse carries a saved review. Warning is set when the review was
// saved but the target's average could not be updated.
type ReviewResponse struct {
	Review  *models.Review `json:"review"`
	Warning string         `json:"warning,omitempty"`
}

// ReviewEpisode posts a review of an episode.
func (h *Handler) ReviewEpisode(c fiber.Ctx) error {
	flow, err := h.draftFromBody(c)
	if err != nil {
		return err
	}

	episode, err := h.Catalog.Episode(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, "episode")
	}

	rv, err := flow.Submit(c.Context(), episode)
	return h.reviewResult(c, rv, err)
}

// ReviewShow posts a review of a whole show.
func (h *Handler) ReviewShow(c fiber.Ctx) error {
	flow, err := h.draftFromBody(c)
	if err != nil {
		return err
	}

	show, err := h.Shows.GetShow(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, "show")
	}

	rv, err := flow.SubmitShow(c.Context(), show)
	return h.reviewResult(c, rv, err)
}

// Explore returns reviews by other users, newest first.
func (h *Handler) Explore(c fiber.Ctx) error {
	feed, err := h.Profiles.Explore(c.Context(), middleware.Session(c))
	if err != nil {
		return h.fail(c, err, "reviews")
	}
	return c.JSON(fiber.Map{"reviews": feed})
}

// draftFromBody builds a review flow for the caller with the request body
// applied to its draft.
func (h *Handler) draftFromBody(c fiber.Ctx) (*review.Flow, error) {
	var req models.SubmitReviewRequest
	if err := c.Bind().JSON(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Rating < models.MinRating || req.Rating > models.MaxRating {
		return nil, fiber.NewError(fiber.StatusBadRequest, "rating must be between 0 and 5")
	}

	flow := review.NewFlow(middleware.Session(c), h.Reviews, h.Averages, h.Metrics, h.Logger)
	flow.SetRating(req.Rating)
	flow.SetText(req.Comment)
	if req.ContainsSpoiler {
		flow.ToggleSpoiler()
	}
	if req.IsPrivate {
		flow.ToggleVisibility()
	}
	return flow, nil
}

func (h *Handler) reviewResult(c fiber.Ctx, rv *models.Review, err error) error {
	switch {
	case rv == nil && err == nil:
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "sign in required"})
	case rv == nil:
		return h.fail(c, err, "review")
	case err != nil:
		h.logger.Warn("review saved with stale average", zap.String("review_id", rv.ID), zap.Error(err))
		return c.Status(fiber.StatusCreated).JSON(ReviewResponse{Review: rv, Warning: "average rating not updated"})
	}
	return c.Status(fiber.StatusCreated).JSON(ReviewResponse{Review: rv})
}
