// Package session tracks the signed-in user for one application scope and
// maps bearer tokens to users across requests.
package session

import (
	"errors"
	"sync"

	"showoff/internal/models"
	"showoff/internal/observe"
)

var ErrNoUser = errors.New("no user signed in")

// Session holds at most one signed-in user. It is created per application
// scope and passed to every component that needs the current identity.
type Session struct {
	user *observe.Value[*models.User]

	mu          sync.Mutex
	accessToken string
}

// New returns a session with no user.
func New() *Session {
	return &Session{user: observe.NewValue[*models.User](nil)}
}

// SetUser replaces the current user. nil signs the user out.
func (s *Session) SetUser(u *models.User) {
	s.user.Set(u)
}

// Current returns the signed-in user, or nil.
func (s *Session) Current() *models.User {
	return s.user.Get()
}

// RequireUser returns the signed-in user or ErrNoUser.
func (s *Session) RequireUser() (*models.User, error) {
	u := s.Current()
	if u == nil {
		return nil, ErrNoUser
	}
	return u, nil
}

// Subscribe watches the current user.
func (s *Session) Subscribe() (<-chan *models.User, func()) {
	return s.user.Subscribe()
}

// SetAccessToken records the identity provider token for this session.
func (s *Session) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

// AccessToken returns the identity provider token, if any.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}
