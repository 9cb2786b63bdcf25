// Package auth implements the login, account creation and logout flows.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"showoff/internal/identity"
	"showoff/internal/metrics"
	"showoff/internal/models"
	"showoff/internal/repository"
	"showoff/internal/session"
)

// User-facing validation messages.
const (
	MsgFieldsRequired   = "All fields are required."
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgPasswordMismatch = "Passwords do not match."
	MsgUnknownFailure   = "Something went wrong."
)

// MinPasswordLength is the shortest password CreateAccount accepts.
const MinPasswordLength = 6

// Result is the outcome of one auth attempt. It is returned to the caller
// that started the attempt and is not kept anywhere else.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// UserStore is the user persistence the flows need.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
}

// Flows runs auth attempts against the identity provider and the user store.
type Flows struct {
	provider identity.Provider
	users    UserStore
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewFlows creates the auth flows.
func NewFlows(provider identity.Provider, users UserStore, m *metrics.Metrics, logger *zap.Logger) *Flows {
	return &Flows{
		provider: provider,
		users:    users,
		metrics:  m,
		logger:   logger.With(zap.String("component", "auth")),
		now:      time.Now,
	}
}

// Login checks credentials and signs the matching user into sess. A user
// record is created on first login if the provider knows the account but the
// store does not.
func (f *Flows) Login(ctx context.Context, sess *session.Session, email, password string) Result {
	if isBlank(email) || isBlank(password) {
		return f.fail("login", MsgFieldsRequired)
	}

	acct, err := f.provider.SignIn(ctx, email, password)
	if err != nil {
		f.logger.Info("sign in rejected", zap.String("email", email), zap.Error(err))
		return f.fail("login", message(err))
	}

	user, err := f.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		user = models.NewUser(acct.UID, acct.DisplayName, email, f.today())
		if err := f.users.Save(ctx, user); err != nil {
			f.logger.Error("failed to create user on login", zap.String("uid", acct.UID), zap.Error(err))
			return f.fail("login", message(err))
		}
	case err != nil:
		f.logger.Error("failed to look up user", zap.String("email", email), zap.Error(err))
		return f.fail("login", "failed to look up user: "+err.Error())
	}

	sess.SetAccessToken(acct.AccessToken)
	sess.SetUser(user)
	f.metrics.AuthResult("login", true)
	return Result{Success: true}
}

// CreateAccount registers a credential and a user record, then signs the new
// user into sess.
func (f *Flows) CreateAccount(ctx context.Context, sess *session.Session, email, username, password, confirm string) Result {
	if isBlank(email) || isBlank(username) || isBlank(password) || isBlank(confirm) {
		return f.fail("signup", MsgFieldsRequired)
	}
	if len(password) < MinPasswordLength {
		return f.fail("signup", MsgPasswordTooShort)
	}
	if password != confirm {
		return f.fail("signup", MsgPasswordMismatch)
	}

	acct, err := f.provider.SignUp(ctx, email, password)
	if err != nil {
		f.logger.Info("sign up rejected", zap.String("email", email), zap.Error(err))
		return f.fail("signup", message(err))
	}

	user := models.NewUser(acct.UID, username, email, f.today())
	if err := f.users.Save(ctx, user); err != nil {
		f.logger.Error("failed to save new user", zap.String("uid", acct.UID), zap.Error(err))
		return f.fail("signup", message(err))
	}

	sess.SetAccessToken(acct.AccessToken)
	sess.SetUser(user)
	f.metrics.AuthResult("signup", true)
	return Result{Success: true}
}

// Logout signs out at the provider when the session carries a token, then
// clears the session. Provider failures are logged; the session is cleared
// regardless.
func (f *Flows) Logout(ctx context.Context, sess *session.Session) {
	if token := sess.AccessToken(); token != "" {
		if err := f.provider.SignOut(ctx, token); err != nil {
			f.logger.Warn("provider sign out failed", zap.Error(err))
		}
	}
	sess.SetAccessToken("")
	sess.SetUser(nil)
}

func (f *Flows) fail(flow, msg string) Result {
	f.metrics.AuthResult(flow, false)
	return Result{Success: false, Error: msg}
}

func (f *Flows) today() string {
	return f.now().Format(models.DateLayout)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// message returns the text to show for a remote failure.
func message(err error) string {
	var pe *identity.Error
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgUnknownFailure
}
