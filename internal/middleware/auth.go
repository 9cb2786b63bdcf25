package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"showoff/internal/models"
	"showoff/internal/repository"
	"showoff/internal/session"
)

const (
	localSession = "session"
	localToken   = "auth_token"
)

// TokenResolver maps a bearer token to a session entry.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*session.Entry, error)
}

// UserLookup loads the user behind a session entry.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuthMiddleware resolves the bearer token to a signed-in user and stores a
// per-request session in the context locals.
// Public paths (health, login, signup, swagger, metrics) bypass authentication.
func AuthMiddleware(tokens TokenResolver, users UserLookup, logger *zap.Logger) fiber.Handler {
	publicPrefixes := []string{
		"/api/v1/health",
		"/api/v1/auth/login",
		"/api/v1/auth/signup",
		"/swagger",
		"/metrics",
	}

	return func(c fiber.Ctx) error {
		path := c.Path()

		// Skip auth for public paths
		for _, prefix := range publicPrefixes {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing Authorization header",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid Authorization header format, expected 'Bearer <token>'",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "empty bearer token",
			})
		}

		entry, err := tokens.Resolve(c.Context(), token)
		if errors.Is(err, session.ErrUnknownToken) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}
		if err != nil {
			logger.Error("failed to resolve session token", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal error",
			})
		}

		user, err := users.GetByID(c.Context(), entry.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "user no longer exists",
			})
		}
		if err != nil {
			logger.Error("failed to load session user", zap.String("user_id", entry.UserID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal error",
			})
		}

		sess := session.New()
		sess.SetAccessToken(entry.AccessToken)
		sess.SetUser(user)
		c.Locals(localSession, sess)
		c.Locals(localToken, token)

		return c.Next()
	}
}

// Session returns the request's session. Requests that skipped
// authentication get an empty one.
func Session(c fiber.Ctx) *session.Session {
	if sess, ok := c.Locals(localSession).(*session.Session); ok {
		return sess
	}
	return session.New()
}

// Token returns the request's bearer token, if it was authenticated.
func Token(c fiber.Ctx) string {
	token, _ := c.Locals(localToken).(string)
	return token
}
