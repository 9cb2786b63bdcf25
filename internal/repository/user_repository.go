package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"showoff/internal/models"
)

const userColumns = `id, username, email, avatar_path, background_path, is_premium,
	friends, playlists, TO_CHAR(join_date, 'YYYY-MM-DD')`

// UserRepository handles database operations for users.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Save writes the full user record, replacing any existing one with the same ID.
func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, avatar_path, background_path, is_premium,
			friends, playlists, join_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::date)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			avatar_path = EXCLUDED.avatar_path,
			background_path = EXCLUDED.background_path,
			is_premium = EXCLUDED.is_premium,
			friends = EXCLUDED.friends,
			playlists = EXCLUDED.playlists,
			join_date = EXCLUDED.join_date
	`, u.ID, u.Username, u.Email, u.AvatarPath, u.BackgroundPath, u.IsPremium,
		pq.Array(u.Friends), pq.Array(u.Playlists), u.JoinDate)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// GetByID returns a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail returns the user registered with email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 LIMIT 1`, email)
	return scanUser(row)
}

// UpdateProfile sets the username and, when avatarPath is non-nil, the avatar path.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, username string, avatarPath *string) error {
	var (
		res sql.Result
		err error
	)
	if avatarPath != nil {
		res, err = r.db.ExecContext(ctx,
			`UPDATE users SET username = $1, avatar_path = $2 WHERE id = $3`, username, *avatarPath, id)
	} else {
		res, err = r.db.ExecContext(ctx, `UPDATE users SET username = $1 WHERE id = $2`, username, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return expectOneRow(res)
}

// SetAvatarPath stores the object storage path of the user's avatar.
func (r *UserRepository) SetAvatarPath(ctx context.Context, id, path string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET avatar_path = $1 WHERE id = $2`, path, id)
	if err != nil {
		return fmt.Errorf("failed to set avatar path: %w", err)
	}
	return expectOneRow(res)
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.AvatarPath, &u.BackgroundPath, &u.IsPremium,
		pq.Array(&u.Friends), pq.Array(&u.Playlists), &u.JoinDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	if u.Friends == nil {
		u.Friends = []string{}
	}
	if u.Playlists == nil {
		u.Playlists = []string{}
	}
	return &u, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
