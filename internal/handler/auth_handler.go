package handler

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"showoff/internal/middleware"
	"showoff/internal/models"
	"showoff/internal/session"
)

// AuthResponse is the body returned by login and signup.
type AuthResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Token   string       `json:"token,omitempty"`
	User    *models.User `json:"user,omitempty"`
}

// Login signs a user in and issues a bearer token.
func (h *Handler) Login(c fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	sess := session.New()
	res := h.Auth.Login(c.Context(), sess, req.Email, req.Password)
	if !res.Success {
		return c.Status(fiber.StatusUnauthorized).JSON(AuthResponse{Error: res.Error})
	}
	return h.issue(c, sess, fiber.StatusOK)
}

// Signup creates an account, signs it in and issues a bearer token.
func (h *Handler) Signup(c fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	sess := session.New()
	res := h.Auth.CreateAccount(c.Context(), sess, req.Email, req.Username, req.Password, req.ConfirmPassword)
	if !res.Success {
		return c.Status(fiber.StatusBadRequest).JSON(AuthResponse{Error: res.Error})
	}
	return h.issue(c, sess, fiber.StatusCreated)
}

// Logout signs out at the identity provider and revokes the bearer token.
func (h *Handler) Logout(c fiber.Ctx) error {
	h.Auth.Logout(c.Context(), middleware.Session(c))
	if err := h.Tokens.Revoke(c.Context(), middleware.Token(c)); err != nil {
		return h.fail(c, err, "session")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) issue(c fiber.Ctx, sess *session.Session, status int) error {
	user := sess.Current()
	token, err := h.Tokens.Issue(c.Context(), user.ID, sess.AccessToken())
	if err != nil {
		h.logger.Error("failed to issue session token", zap.String("user_id", user.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to start session"})
	}
	return c.Status(status).JSON(AuthResponse{Success: true, Token: token, User: user})
}
