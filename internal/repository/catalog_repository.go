package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"showoff/internal/models"
)

const (
	showColumns    = `id, title, creator, description, cover_url, genres, avg_rating, air_date, version`
	episodeColumns = `id, show_name, title, description, duration_minutes, avg_rating, season,
	episode_number, cover_url, version`
)

// CatalogRepository handles database operations for shows and episodes.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListShows returns every show.
func (r *CatalogRepository) ListShows(ctx context.Context) ([]models.Show, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+showColumns+` FROM shows`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shows: %w", err)
	}
	defer rows.Close()

	shows := make([]models.Show, 0)
	for rows.Next() {
		s, err := scanShow(rows)
		if err != nil {
			return nil, err
		}
		shows = append(shows, *s)
	}
	return shows, rows.Err()
}

// GetShow returns a show by ID.
func (r *CatalogRepository) GetShow(ctx context.Context, id string) (*models.Show, error) {
	return scanShow(r.db.QueryRowContext(ctx, `SELECT `+showColumns+` FROM shows WHERE id = $1`, id))
}

// ListEpisodes returns every episode.
func (r *CatalogRepository) ListEpisodes(ctx context.Context) ([]models.Episode, error) {
	return r.queryEpisodes(ctx, `SELECT `+episodeColumns+` FROM episodes`)
}

// EpisodesByShow returns the episodes whose show name equals showName.
func (r *CatalogRepository) EpisodesByShow(ctx context.Context, showName string) ([]models.Episode, error) {
	return r.queryEpisodes(ctx, `SELECT `+episodeColumns+` FROM episodes WHERE show_name = $1`, showName)
}

// GetEpisode returns an episode by ID.
func (r *CatalogRepository) GetEpisode(ctx context.Context, id string) (*models.Episode, error) {
	return scanEpisode(r.db.QueryRowContext(ctx, `SELECT `+episodeColumns+` FROM episodes WHERE id = $1`, id))
}

// UpsertShow inserts or updates a show.
func (r *CatalogRepository) UpsertShow(ctx context.Context, s *models.Show) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shows (id, title, creator, description, cover_url, genres, avg_rating, air_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			creator = EXCLUDED.creator,
			description = EXCLUDED.description,
			cover_url = EXCLUDED.cover_url,
			genres = EXCLUDED.genres,
			avg_rating = EXCLUDED.avg_rating,
			air_date = EXCLUDED.air_date,
			version = shows.version + 1
	`, s.ID, s.Title, s.Creator, s.Description, s.CoverURL, pq.Array(s.Genres), s.AvgRating, s.AirDate)
	if err != nil {
		return fmt.Errorf("failed to upsert show: %w", err)
	}
	return nil
}

// UpsertEpisode inserts or updates an episode.
func (r *CatalogRepository) UpsertEpisode(ctx context.Context, e *models.Episode) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO episodes (id, show_name, title, description, duration_minutes, avg_rating,
			season, episode_number, cover_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			show_name = EXCLUDED.show_name,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			duration_minutes = EXCLUDED.duration_minutes,
			avg_rating = EXCLUDED.avg_rating,
			season = EXCLUDED.season,
			episode_number = EXCLUDED.episode_number,
			cover_url = EXCLUDED.cover_url,
			version = episodes.version + 1
	`, e.ID, e.ShowName, e.Title, e.Description, e.DurationMinutes, e.AvgRating,
		e.Season, e.EpisodeNumber, e.CoverURL)
	if err != nil {
		return fmt.Errorf("failed to upsert episode: %w", err)
	}
	return nil
}

// SetEpisodeRating writes avg only if the episode is still at version.
func (r *CatalogRepository) SetEpisodeRating(ctx context.Context, id string, avg float64, version int64) error {
	return r.casRating(ctx, "episodes", id, avg, version)
}

// SetShowRating writes avg only if the show is still at version.
func (r *CatalogRepository) SetShowRating(ctx context.Context, id string, avg float64, version int64) error {
	return r.casRating(ctx, "shows", id, avg, version)
}

// ResetRatings zeroes every show and episode average.
func (r *CatalogRepository) ResetRatings(ctx context.Context) (int64, error) {
	var total int64
	for _, table := range []string{"episodes", "shows"} {
		res, err := r.db.ExecContext(ctx,
			fmt.Sprintf(`UPDATE %s SET avg_rating = 0, version = version + 1`, table))
		if err != nil {
			return total, fmt.Errorf("failed to reset %s ratings: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

// casRating is only called with the fixed table names above.
func (r *CatalogRepository) casRating(ctx context.Context, table, id string, avg float64, version int64) error {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET avg_rating = $1, version = version + 1
		WHERE id = $2 AND version = $3
	`, table), avg, id, version)
	if err != nil {
		return fmt.Errorf("failed to update %s rating: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *CatalogRepository) queryEpisodes(ctx context.Context, query string, args ...any) ([]models.Episode, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query episodes: %w", err)
	}
	defer rows.Close()

	episodes := make([]models.Episode, 0)
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, *e)
	}
	return episodes, rows.Err()
}

func scanShow(row rowScanner) (*models.Show, error) {
	var s models.Show
	err := row.Scan(&s.ID, &s.Title, &s.Creator, &s.Description, &s.CoverURL,
		pq.Array(&s.Genres), &s.AvgRating, &s.AirDate, &s.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan show: %w", err)
	}
	if s.Genres == nil {
		s.Genres = []string{}
	}
	return &s, nil
}

func scanEpisode(row rowScanner) (*models.Episode, error) {
	var e models.Episode
	err := row.Scan(&e.ID, &e.ShowName, &e.Title, &e.Description, &e.DurationMinutes,
		&e.AvgRating, &e.Season, &e.EpisodeNumber, &e.CoverURL, &e.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan episode: %w", err)
	}
	return &e, nil
}
