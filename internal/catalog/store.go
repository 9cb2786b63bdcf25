// Package catalog holds the show and episode catalog and the search and
// per-show views over it.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"showoff/internal/metrics"
	"showoff/internal/models"
	"showoff/internal/observe"
)

// Source is where the catalog is read from.
type Source interface {
	ListShows(ctx context.Context) ([]models.Show, error)
	ListEpisodes(ctx context.Context) ([]models.Episode, error)
	EpisodesByShow(ctx context.Context, showName string) ([]models.Episode, error)
	GetEpisode(ctx context.Context, id string) (*models.Episode, error)
}

// Store holds the loaded catalog. Fetch failures are logged and leave an
// empty list behind; they are never returned.
type Store struct {
	src     Source
	metrics *metrics.Metrics
	logger  *zap.Logger

	shows    *observe.Value[[]models.Show]
	episodes *observe.Value[[]models.Episode]
	results  *observe.Value[[]models.Show]
	filtered *observe.Value[[]models.Episode]

	// seq numbers EpisodesForShow requests; only the latest may store.
	seq      atomic.Uint64
	filterMu sync.Mutex
}

// NewStore creates an empty store. Call Load to fill it.
func NewStore(src Source, m *metrics.Metrics, logger *zap.Logger) *Store {
	return &Store{
		src:      src,
		metrics:  m,
		logger:   logger.With(zap.String("component", "catalog")),
		shows:    observe.NewValue([]models.Show{}),
		episodes: observe.NewValue([]models.Episode{}),
		results:  observe.NewValue([]models.Show{}),
		filtered: observe.NewValue([]models.Episode{}),
	}
}

// Load fetches all shows and all episodes concurrently and stores whatever
// comes back.
func (s *Store) Load(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		shows, err := s.src.ListShows(ctx)
		if err != nil {
			s.logger.Error("failed to fetch shows", zap.Error(err))
			s.metrics.CatalogFailure("shows")
			shows = []models.Show{}
		}
		s.shows.Set(shows)
	}()

	go func() {
		defer wg.Done()
		episodes, err := s.src.ListEpisodes(ctx)
		if err != nil {
			s.logger.Error("failed to fetch episodes", zap.Error(err))
			s.metrics.CatalogFailure("episodes")
			episodes = []models.Episode{}
		}
		s.episodes.Set(episodes)
	}()

	wg.Wait()
	s.logger.Info("catalog loaded",
		zap.Int("shows", len(s.shows.Get())),
		zap.Int("episodes", len(s.episodes.Get())),
	)
}

// Shows returns every loaded show.
func (s *Store) Shows() []models.Show { return s.shows.Get() }

// Episodes returns every loaded episode.
func (s *Store) Episodes() []models.Episode { return s.episodes.Get() }

// SearchResults returns the result of the last Search.
func (s *Store) SearchResults() []models.Show { return s.results.Get() }

// Filtered returns the episodes of the latest EpisodesForShow request.
func (s *Store) Filtered() []models.Episode { return s.filtered.Get() }

// SubscribeFiltered watches the per-show episode list.
func (s *Store) SubscribeFiltered() (<-chan []models.Episode, func()) {
	return s.filtered.Subscribe()
}

// Search returns the shows whose title starts with query, ignoring case,
// sorted by title. A blank query returns the whole catalog; any other query is
// matched as given, surrounding spaces included.
func (s *Store) Search(query string) []models.Show {
	all := s.shows.Get()
	if strings.TrimSpace(query) == "" {
		s.results.Set(all)
		return all
	}

	q := strings.ToLower(query)
	matches := make([]models.Show, 0, len(all))
	for _, show := range all {
		if strings.HasPrefix(strings.ToLower(show.Title), q) {
			matches = append(matches, show)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Title < matches[j].Title
	})
	s.results.Set(matches)
	return matches
}

// EpisodesForShow fetches the episodes of one show sorted by episode number.
// The result is always returned, but it replaces Filtered only if no newer
// request was issued while this one was in flight.
func (s *Store) EpisodesForShow(ctx context.Context, showName string) []models.Episode {
	mine := s.seq.Add(1)

	episodes, err := s.src.EpisodesByShow(ctx, showName)
	if err != nil {
		s.logger.Error("failed to fetch episodes for show", zap.String("show", showName), zap.Error(err))
		s.metrics.CatalogFailure("episodes_for_show")
		episodes = []models.Episode{}
	}
	sort.SliceStable(episodes, func(i, j int) bool {
		return episodes[i].EpisodeNumber < episodes[j].EpisodeNumber
	})

	s.filterMu.Lock()
	defer s.filterMu.Unlock()
	if mine == s.seq.Load() {
		s.filtered.Set(episodes)
	} else {
		s.logger.Debug("dropping stale episode list", zap.String("show", showName), zap.Uint64("seq", mine))
	}
	return episodes
}

// Episode fetches one episode fresh from the source, so its average rating
// reflects the latest recomputation.
func (s *Store) Episode(ctx context.Context, id string) (*models.Episode, error) {
	return s.src.GetEpisode(ctx, id)
}
