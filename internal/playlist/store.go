// Package playlist holds a user's playlists.
package playlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"showoff/internal/models"
	"showoff/internal/observe"
	"showoff/internal/session"
)

var ErrInvalidPlaylist = errors.New("invalid playlist")

// Repository persists playlists.
type Repository interface {
	NewID() string
	Create(ctx context.Context, p *models.Playlist) error
	ListByUser(ctx context.Context, userID string) ([]models.Playlist, error)
	Get(ctx context.Context, id string) (*models.Playlist, error)
}

// Store holds the playlists of the user last loaded.
type Store struct {
	sess   *session.Session
	repo   Repository
	logger *zap.Logger
	now    func() time.Time

	playlists *observe.Value[[]models.Playlist]
}

// NewStore creates an empty store for sess.
func NewStore(sess *session.Session, repo Repository, logger *zap.Logger) *Store {
	return &Store{
		sess:      sess,
		repo:      repo,
		logger:    logger.With(zap.String("component", "playlist")),
		now:       time.Now,
		playlists: observe.NewValue([]models.Playlist{}),
	}
}

// Playlists returns the held list.
func (s *Store) Playlists() []models.Playlist { return s.playlists.Get() }

// Subscribe watches the held list.
func (s *Store) Subscribe() (<-chan []models.Playlist, func()) { return s.playlists.Subscribe() }

// Load replaces the held list with userID's playlists. A failed fetch is
// logged and leaves an empty list.
func (s *Store) Load(ctx context.Context, userID string) []models.Playlist {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load playlists", zap.String("user_id", userID), zap.Error(err))
		list = []models.Playlist{}
	}
	s.playlists.Set(list)
	return list
}

// Create saves a new playlist for the signed-in user and reloads their
// list. With no signed-in user it does nothing and returns (nil, nil).
func (s *Store) Create(ctx context.Context, title, kind string, itemIDs []string, coverURL string) (*models.Playlist, error) {
	user := s.sess.Current()
	if user == nil {
		s.logger.Debug("playlist dropped, no user signed in")
		return nil, nil
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidPlaylist)
	}
	if !models.ValidPlaylistTypes[kind] {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidPlaylist, kind)
	}
	if itemIDs == nil {
		itemIDs = []string{}
	}

	p := &models.Playlist{
		ID:          s.repo.NewID(),
		UserID:      user.ID,
		Title:       title,
		Type:        kind,
		ItemIDs:     itemIDs,
		CoverURL:    coverURL,
		DateCreated: s.now().Format(models.DateLayout),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create playlist", zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	s.Load(ctx, user.ID)
	return p, nil
}

// Get returns one playlist, or repository.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*models.Playlist, error) {
	return s.repo.Get(ctx, id)
}
