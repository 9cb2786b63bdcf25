package handler

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"showoff/internal/identity"
	"showoff/internal/models"
	"showoff/internal/repository"
	"showoff/internal/session"
)

type fakeProvider struct {
	mu       sync.Mutex
	accounts map[string]string // email -> password
}

func (p *fakeProvider) SignIn(_ context.Context, email, password string) (*identity.Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pw, ok := p.accounts[email]; !ok || pw != password {
		return nil, &identity.Error{Code: "NotAuthorizedException", Message: "Incorrect username or password.", Err: identity.ErrInvalidCredentials}
	}
	return &identity.Account{UID: "uid-" + email, Email: email, DisplayName: "viewer", AccessToken: "access-" + email}, nil
}

func (p *fakeProvider) SignUp(_ context.Context, email, password string) (*identity.Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.accounts[email]; ok {
		return nil, &identity.Error{Code: "UsernameExistsException", Message: "An account with the given email already exists."}
	}
	p.accounts[email] = password
	return &identity.Account{UID: "uid-" + email, Email: email}, nil
}

func (p *fakeProvider) SignOut(context.Context, string) error { return nil }

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) Save(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) UpdateProfile(_ context.Context, id, username string, avatarPath *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Username = username
	if avatarPath != nil {
		u.AvatarPath = *avatarPath
	}
	return nil
}

func (m *memUsers) SetAvatarPath(_ context.Context, id, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.AvatarPath = path
	return nil
}

type memCatalog struct {
	mu       sync.Mutex
	shows    map[string]*models.Show
	episodes map[string]*models.Episode
}

func (m *memCatalog) ListShows(context.Context) ([]models.Show, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Show, 0, len(m.shows))
	for _, s := range m.shows {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memCatalog) ListEpisodes(context.Context) ([]models.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Episode, 0, len(m.episodes))
	for _, e := range m.episodes {
		out = append(out, *e)
	}
	return out, nil
}

func (m *memCatalog) EpisodesByShow(_ context.Context, showName string) ([]models.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Episode{}
	for _, e := range m.episodes {
		if e.ShowName == showName {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memCatalog) GetEpisode(_ context.Context, id string) (*models.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.episodes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memCatalog) GetShow(_ context.Context, id string) (*models.Show, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memCatalog) SetEpisodeRating(_ context.Context, id string, avg float64, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.episodes[id]
	if e.Version != version {
		return repository.ErrVersionConflict
	}
	e.AvgRating, e.Version = avg, e.Version+1
	return nil
}

func (m *memCatalog) SetShowRating(_ context.Context, id string, avg float64, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.shows[id]
	if s.Version != version {
		return repository.ErrVersionConflict
	}
	s.AvgRating, s.Version = avg, s.Version+1
	return nil
}

type memReviews struct {
	mu      sync.Mutex
	reviews []models.Review
}

func (m *memReviews) Create(_ context.Context, rv *models.Review) error {
	if err := rv.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews = append(m.reviews, *rv)
	return nil
}

func (m *memReviews) filter(keep func(models.Review) bool) []models.Review {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Review{}
	for _, r := range m.reviews {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (m *memReviews) ListByEpisode(_ context.Context, id string) ([]models.Review, error) {
	return m.filter(func(r models.Review) bool { return r.EpisodeID != nil && *r.EpisodeID == id }), nil
}

func (m *memReviews) ListByShow(_ context.Context, id string) ([]models.Review, error) {
	return m.filter(func(r models.Review) bool { return r.ShowID != nil && *r.ShowID == id }), nil
}

func (m *memReviews) ListByUser(_ context.Context, userID string) ([]models.Review, error) {
	out := m.filter(func(r models.Review) bool { return r.UserID == userID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].DatePosted > out[j].DatePosted })
	return out, nil
}

func (m *memReviews) ListAll(context.Context) ([]models.Review, error) {
	return m.filter(func(models.Review) bool { return true }), nil
}

func (m *memReviews) CountByUser(ctx context.Context, userID string) (int, error) {
	rs, _ := m.ListByUser(ctx, userID)
	return len(rs), nil
}

type memPlaylists struct {
	mu        sync.Mutex
	playlists []models.Playlist
}

func (m *memPlaylists) NewID() string { return uuid.NewString() }

func (m *memPlaylists) Create(_ context.Context, p *models.Playlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playlists = append(m.playlists, *p)
	return nil
}

func (m *memPlaylists) ListByUser(_ context.Context, userID string) ([]models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Playlist{}
	for _, p := range m.playlists {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPlaylists) Get(_ context.Context, id string) (*models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.playlists {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memTokens struct {
	mu      sync.Mutex
	entries map[string]session.Entry
	n       int
}

func (m *memTokens) Issue(_ context.Context, userID, accessToken string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	token := fmt.Sprintf("tok-%d", m.n)
	m.entries[token] = session.Entry{UserID: userID, AccessToken: accessToken}
	return token, nil
}

func (m *memTokens) Resolve(_ context.Context, token string) (*session.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[token]
	if !ok {
		return nil, session.ErrUnknownToken
	}
	return &e, nil
}

func (m *memTokens) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, token)
	return nil
}
