// Package profile reads and edits user profiles and builds the explore feed.
package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"showoff/internal/models"
	"showoff/internal/session"
	"showoff/internal/storage"
)

var (
	ErrInvalidUsername   = errors.New("username is required")
	ErrInvalidAvatarPath = errors.New("avatar path must be the user's own avatar object")
)

// UserRepository is the user persistence the service needs.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, username string, avatarPath *string) error
	SetAvatarPath(ctx context.Context, id, path string) error
}

// ReviewRepository is the review persistence the service needs.
type ReviewRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Review, error)
	ListAll(ctx context.Context) ([]models.Review, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

// Service handles profile business logic.
type Service struct {
	users   UserRepository
	reviews ReviewRepository
	media   storage.ObjectStore
	logger  *zap.Logger
}

// NewService creates a new profile Service.
func NewService(users UserRepository, reviews ReviewRepository, media storage.ObjectStore, logger *zap.Logger) *Service {
	return &Service{
		users:   users,
		reviews: reviews,
		media:   media,
		logger:  logger.With(zap.String("component", "profile")),
	}
}

// Get returns a user's profile. Avatar URL and review count degrade to their
// zero values when they cannot be resolved.
func (s *Service) Get(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &models.Profile{User: *user}
	if user.AvatarPath != "" {
		url, err := s.media.URL(ctx, user.AvatarPath)
		if err != nil {
			s.logger.Warn("failed to resolve avatar url", zap.String("user_id", userID), zap.Error(err))
		} else {
			p.AvatarURL = url
		}
	}

	count, err := s.reviews.CountByUser(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to count reviews", zap.String("user_id", userID), zap.Error(err))
	} else {
		p.ReviewCount = count
	}
	return p, nil
}

// Update changes the signed-in user's username and, when avatarPath is not
// nil, their avatar path. The only accepted avatar path is the one UploadAvatar
// writes for this user. The session is refreshed with the stored record.
func (s *Service) Update(ctx context.Context, sess *session.Session, username string, avatarPath *string) (*models.User, error) {
	user, err := sess.RequireUser()
	if err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if avatarPath != nil && *avatarPath != models.AvatarObjectPath(user.ID) {
		return nil, ErrInvalidAvatarPath
	}

	if err := s.users.UpdateProfile(ctx, user.ID, username, avatarPath); err != nil {
		return nil, err
	}
	return s.refresh(ctx, sess, user.ID)
}

// UploadAvatar stores image as the signed-in user's avatar and returns its
// object path.
func (s *Service) UploadAvatar(ctx context.Context, sess *session.Session, image io.Reader) (string, error) {
	user, err := sess.RequireUser()
	if err != nil {
		return "", err
	}

	path := models.AvatarObjectPath(user.ID)
	if err := s.media.Upload(ctx, path, "image/jpeg", image); err != nil {
		return "", err
	}
	if err := s.users.SetAvatarPath(ctx, user.ID, path); err != nil {
		return "", fmt.Errorf("avatar uploaded but not saved: %w", err)
	}
	if _, err := s.refresh(ctx, sess, user.ID); err != nil {
		s.logger.Warn("failed to refresh session user", zap.String("user_id", user.ID), zap.Error(err))
	}
	s.logger.Info("avatar updated", zap.String("user_id", user.ID), zap.String("path", path))
	return path, nil
}

// Explore returns every review not written by the signed-in user, newest first.
func (s *Service) Explore(ctx context.Context, sess *session.Session) ([]models.Review, error) {
	user, err := sess.RequireUser()
	if err != nil {
		return nil, err
	}

	all, err := s.reviews.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	feed := make([]models.Review, 0, len(all))
	for _, r := range all {
		if r.UserID != user.ID {
			feed = append(feed, r)
		}
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].DatePosted > feed[j].DatePosted
	})
	return feed, nil
}

// UserReviews returns the reviews written by userID, newest first.
func (s *Service) UserReviews(ctx context.Context, userID string) ([]models.Review, error) {
	return s.reviews.ListByUser(ctx, userID)
}

func (s *Service) refresh(ctx context.Context, sess *session.Session, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.SetUser(user)
	return user, nil
}
