package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"showoff/internal/auth"
	"showoff/internal/catalog"
	"showoff/internal/metrics"
	"showoff/internal/models"
	"showoff/internal/playlist"
	"showoff/internal/profile"
	"showoff/internal/repository"
	"showoff/internal/review"
	"showoff/internal/session"
)

// Tokens issues and revokes bearer tokens.
type Tokens interface {
	Issue(ctx context.Context, userID, accessToken string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// ShowLookup loads one show.
type ShowLookup interface {
	GetShow(ctx context.Context, id string) (*models.Show, error)
}

// Deps is everything the handlers call into.
type Deps struct {
	Auth      *auth.Flows
	Tokens    Tokens
	Catalog   *catalog.Store
	Shows     ShowLookup
	Reviews   review.Creator
	Averages  review.Averager
	Playlists playlist.Repository
	Profiles  *profile.Service
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// Handler serves the showoff HTTP API.
type Handler struct {
	Deps
	logger *zap.Logger
}

func New(deps Deps) *Handler {
	return &Handler{Deps: deps, logger: deps.Logger.With(zap.String("component", "http"))}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler renders errors returned from handlers as ErrorResponse.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		} else {
			logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
	}
}

// Health returns service health status.
func (h *Handler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "showoff",
	})
}

// Register mounts every route under /api/v1.
func (h *Handler) Register(app fiber.Router) {
	api := app.Group("/api/v1")
	api.Get("/health", h.Health)

	// Auth
	api.Post("/auth/login", h.Login)
	api.Post("/auth/signup", h.Signup)
	api.Post("/auth/logout", h.Logout)

	// Catalog
	api.Get("/shows", h.SearchShows)
	api.Get("/shows/:name/episodes", h.EpisodesForShow)
	api.Get("/episodes/:id", h.GetEpisode)

	// Reviews
	api.Post("/episodes/:id/reviews", h.ReviewEpisode)
	api.Post("/shows/:id/reviews", h.ReviewShow)
	api.Get("/reviews/explore", h.Explore)

	// Profiles
	api.Get("/users/:id", h.GetProfile)
	api.Get("/users/:id/reviews", h.UserReviews)
	api.Patch("/me", h.UpdateProfile)
	api.Post("/me/avatar", h.UploadAvatar)

	// Playlists
	api.Get("/users/:id/playlists", h.UserPlaylists)
	api.Post("/playlists", h.CreatePlaylist)
	api.Get("/playlists/:id", h.GetPlaylist)
}

// fail maps a service error to a status and logs the ones that are ours.
func (h *Handler) fail(c fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: what + " not found"})
	case errors.Is(err, session.ErrNoUser):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "sign in required"})
	}
	h.logger.Error("request failed", zap.String("path", c.Path()), zap.String("resource", what), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
}
