package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"showoff/internal/models"
)

const playlistColumns = `id, user_id, title, type, item_ids, cover_url, TO_CHAR(date_created, 'YYYY-MM-DD')`

// PlaylistRepository handles database operations for playlists.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository.
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// NewID allocates an identifier for a playlist that has not been written yet.
func (r *PlaylistRepository) NewID() string {
	return uuid.NewString()
}

// Create inserts a playlist.
func (r *PlaylistRepository) Create(ctx context.Context, p *models.Playlist) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO playlists (id, user_id, title, type, item_ids, cover_url, date_created)
		VALUES ($1, $2, $3, $4, $5, $6, $7::date)
	`, p.ID, p.UserID, p.Title, p.Type, pq.Array(p.ItemIDs), p.CoverURL, p.DateCreated)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return nil
}

// ListByUser returns the playlists owned by the user.
func (r *PlaylistRepository) ListByUser(ctx context.Context, userID string) ([]models.Playlist, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+playlistColumns+` FROM playlists WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]models.Playlist, 0)
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, *p)
	}
	return playlists, rows.Err()
}

// Get returns a playlist by ID.
func (r *PlaylistRepository) Get(ctx context.Context, id string) (*models.Playlist, error) {
	return scanPlaylist(r.db.QueryRowContext(ctx, `SELECT `+playlistColumns+` FROM playlists WHERE id = $1`, id))
}

func scanPlaylist(row rowScanner) (*models.Playlist, error) {
	var p models.Playlist
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Type, pq.Array(&p.ItemIDs), &p.CoverURL, &p.DateCreated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}
	if p.ItemIDs == nil {
		p.ItemIDs = []string{}
	}
	return &p, nil
}
