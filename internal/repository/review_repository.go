package repository

import (
	"context"
	"database/sql"
	"fmt"

	"showoff/internal/models"
)

const reviewColumns = `id, user_id, show_id, episode_id, rating, comment, contains_spoiler,
	is_private, TO_CHAR(date_posted, 'YYYY-MM-DD'), cover_url, title`

// ReviewRepository handles database operations for reviews.
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review.
func (r *ReviewRepository) Create(ctx context.Context, rv *models.Review) error {
	if err := rv.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (id, user_id, show_id, episode_id, rating, comment,
			contains_spoiler, is_private, date_posted, cover_url, title)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::date, $10, $11)
	`, rv.ID, rv.UserID, rv.ShowID, rv.EpisodeID, rv.Rating, rv.Comment,
		rv.ContainsSpoiler, rv.IsPrivate, rv.DatePosted, rv.CoverURL, rv.Title)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// ListByEpisode returns every review targeting the episode.
func (r *ReviewRepository) ListByEpisode(ctx context.Context, episodeID string) ([]models.Review, error) {
	return r.query(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE episode_id = $1`, episodeID)
}

// ListByShow returns every review targeting the show.
func (r *ReviewRepository) ListByShow(ctx context.Context, showID string) ([]models.Review, error) {
	return r.query(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE show_id = $1`, showID)
}

// ListByUser returns every review written by the user, newest first.
func (r *ReviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	return r.query(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE user_id = $1
		ORDER BY date_posted DESC`, userID)
}

// ListAll returns every review.
func (r *ReviewRepository) ListAll(ctx context.Context) ([]models.Review, error) {
	return r.query(ctx, `SELECT `+reviewColumns+` FROM reviews`)
}

// CountByUser returns how many reviews the user has written.
func (r *ReviewRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	return n, nil
}

func (r *ReviewRepository) query(ctx context.Context, query string, args ...any) ([]models.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		var (
			rv        models.Review
			showID    sql.NullString
			episodeID sql.NullString
		)
		if err := rows.Scan(&rv.ID, &rv.UserID, &showID, &episodeID, &rv.Rating, &rv.Comment,
			&rv.ContainsSpoiler, &rv.IsPrivate, &rv.DatePosted, &rv.CoverURL, &rv.Title); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		if showID.Valid {
			rv.ShowID = &showID.String
		}
		if episodeID.Valid {
			rv.EpisodeID = &episodeID.String
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
