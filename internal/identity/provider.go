// Package identity wraps the external identity provider that owns credentials.
package identity

import (
	"context"
	"errors"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Error is a failure reported by the provider. Message is the provider's
// user-facing text.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Account is what the provider knows about an authenticated principal.
type Account struct {
	UID         string
	Email       string
	DisplayName string
	AccessToken string
}

// Provider checks and creates credentials.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Account, error)
	SignUp(ctx context.Context, email, password string) (*Account, error)
	SignOut(ctx context.Context, accessToken string) error
}
