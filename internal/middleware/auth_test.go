package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"showoff/internal/models"
	"showoff/internal/repository"
	"showoff/internal/session"
)

type fakeTokens map[string]*session.Entry

func (f fakeTokens) Resolve(_ context.Context, token string) (*session.Entry, error) {
	if token == "broken" {
		return nil, errors.New("redis down")
	}
	e, ok := f[token]
	if !ok {
		return nil, session.ErrUnknownToken
	}
	return e, nil
}

type fakeUsers map[string]*models.User

func (f fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func newTestApp() *fiber.App {
	tokens := fakeTokens{
		"good":   {UserID: "u1", AccessToken: "access-1"},
		"orphan": {UserID: "gone"},
	}
	users := fakeUsers{"u1": models.NewUser("u1", "ana", "ana@example.com", "2026-01-01")}

	app := fiber.New()
	app.Use(AuthMiddleware(tokens, users, zap.NewNop()))
	app.Get("/api/v1/health", func(c fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/api/v1/me", func(c fiber.Ctx) error {
		sess := Session(c)
		return c.SendString(sess.Current().Username + "|" + sess.AccessToken() + "|" + Token(c))
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"public path", "/api/v1/health", "", fiber.StatusOK, "ok"},
		{"missing header", "/api/v1/me", "", fiber.StatusUnauthorized, ""},
		{"wrong scheme", "/api/v1/me", "Basic abc", fiber.StatusUnauthorized, ""},
		{"unknown token", "/api/v1/me", "Bearer nope", fiber.StatusUnauthorized, ""},
		{"deleted user", "/api/v1/me", "Bearer orphan", fiber.StatusUnauthorized, ""},
		{"registry failure", "/api/v1/me", "Bearer broken", fiber.StatusInternalServerError, ""},
		{"valid token", "/api/v1/me", "Bearer good", fiber.StatusOK, "ana|access-1|good"},
	}

	app := newTestApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.body != "" {
				b, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.body, string(b))
			}
		})
	}
}
