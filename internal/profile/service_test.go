package profile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showoff/internal/logging"
	"showoff/internal/models"
	"showoff/internal/repository"
	"showoff/internal/session"
	"showoff/internal/storage"
)

type fakeUsers struct {
	users map[string]*models.User
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id, username string, avatarPath *string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Username = username
	if avatarPath != nil {
		u.AvatarPath = *avatarPath
	}
	return nil
}

func (f *fakeUsers) SetAvatarPath(_ context.Context, id, path string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.AvatarPath = path
	return nil
}

type fakeReviews struct {
	reviews  []models.Review
	countErr error
}

func (f *fakeReviews) ListByUser(_ context.Context, userID string) ([]models.Review, error) {
	var out []models.Review
	for _, r := range f.reviews {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviews) ListAll(context.Context) ([]models.Review, error) {
	return f.reviews, nil
}

func (f *fakeReviews) CountByUser(_ context.Context, userID string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, r := range f.reviews {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func fixture() (*fakeUsers, *fakeReviews) {
	users := &fakeUsers{users: map[string]*models.User{
		"u1": models.NewUser("u1", "ana", "ana@example.com", "2026-01-01"),
		"u2": models.NewUser("u2", "bea", "bea@example.com", "2026-02-01"),
	}}
	reviews := &fakeReviews{reviews: []models.Review{
		{ID: "r1", UserID: "u1", DatePosted: "2026-03-01"},
		{ID: "r2", UserID: "u2", DatePosted: "2026-03-05"},
		{ID: "r3", UserID: "u2", DatePosted: "2026-04-10"},
		{ID: "r4", UserID: "u3", DatePosted: "2026-01-20"},
	}}
	return users, reviews
}

func signedIn(users *fakeUsers, id string) *session.Session {
	s := session.New()
	u, _ := users.GetByID(context.Background(), id)
	s.SetUser(u)
	return s
}

func TestGetResolvesAvatarAndCount(t *testing.T) {
	users, reviews := fixture()
	media := storage.NewMemoryStore("http://media.local")
	require.NoError(t, media.Upload(context.Background(), "avatars/u2.jpg", "image/jpeg", strings.NewReader("x")))
	users.users["u2"].AvatarPath = "avatars/u2.jpg"

	logger, _ := logging.NewObserved()
	svc := NewService(users, reviews, media, logger)

	p, err := svc.Get(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "bea", p.Username)
	assert.Equal(t, "http://media.local/avatars/u2.jpg", p.AvatarURL)
	assert.Equal(t, 2, p.ReviewCount)
}

func TestGetDegradesOnLookupFailures(t *testing.T) {
	users, reviews := fixture()
	users.users["u1"].AvatarPath = "avatars/u1.jpg"
	reviews.countErr = errors.New("timeout")

	logger, logs := logging.NewObserved()
	svc := NewService(users, reviews, storage.NewMemoryStore("http://media.local"), logger)

	p, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, p.AvatarURL)
	assert.Zero(t, p.ReviewCount)
	assert.Equal(t, 2, logs.Len())
}

func TestGetMissingUser(t *testing.T) {
	users, reviews := fixture()
	logger, _ := logging.NewObserved()
	svc := NewService(users, reviews, storage.NewMemoryStore(""), logger)

	_, err := svc.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateRefreshesSession(t *testing.T) {
	users, reviews := fixture()
	logger, _ := logging.NewObserved()
	svc := NewService(users, reviews, storage.NewMemoryStore(""), logger)
	sess := signedIn(users, "u1")

	u, err := svc.Update(context.Background(), sess, "  ana_v  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "ana_v", u.Username)
	assert.Equal(t, "ana_v", sess.Current().Username)

	path := models.AvatarObjectPath("u1")
	_, err = svc.Update(context.Background(), sess, "ana_v", &path)
	require.NoError(t, err)
	assert.Equal(t, path, sess.Current().AvatarPath)

	other := models.AvatarObjectPath("u2")
	_, err = svc.Update(context.Background(), sess, "ana_v", &other)
	assert.ErrorIs(t, err, ErrInvalidAvatarPath)
	assert.Equal(t, path, users.users["u1"].AvatarPath)

	_, err = svc.Update(context.Background(), sess, " ", nil)
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = svc.Update(context.Background(), session.New(), "x", nil)
	assert.ErrorIs(t, err, session.ErrNoUser)
}

func TestUploadAvatar(t *testing.T) {
	users, reviews := fixture()
	media := storage.NewMemoryStore("http://media.local")
	logger, _ := logging.NewObserved()
	svc := NewService(users, reviews, media, logger)
	sess := signedIn(users, "u1")

	path, err := svc.UploadAvatar(context.Background(), sess, strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "avatars/u1.jpg", path)

	b, ok := media.Object(path)
	require.True(t, ok)
	assert.Equal(t, "jpeg-bytes", string(b))
	assert.Equal(t, path, users.users["u1"].AvatarPath)
	assert.Equal(t, path, sess.Current().AvatarPath)
}

func TestExplore(t *testing.T) {
	users, reviews := fixture()
	logger, _ := logging.NewObserved()
	svc := NewService(users, reviews, storage.NewMemoryStore(""), logger)

	feed, err := svc.Explore(context.Background(), signedIn(users, "u1"))
	require.NoError(t, err)

	ids := make([]string, 0, len(feed))
	for _, r := range feed {
		assert.NotEqual(t, "u1", r.UserID)
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"r3", "r2", "r4"}, ids)

	_, err = svc.Explore(context.Background(), session.New())
	assert.ErrorIs(t, err, session.ErrNoUser)
}

func TestUserReviews(t *testing.T) {
	users, reviews := fixture()
	logger, _ := logging.NewObserved()
	svc := NewService(users, reviews, storage.NewMemoryStore(""), logger)

	got, err := svc.UserReviews(context.Background(), "u2")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
