package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"showoff/internal/config"
)

// NewPostgres creates a new PostgreSQL connection and runs migrations.
func NewPostgres(cfg config.DBConfig, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	logger.Info("connected to PostgreSQL", zap.String("db", cfg.DBName))

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	return db, nil
}

// migrations create one table per record kind. avg_rating is derived from
// reviews; version guards its read-modify-write.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(128) PRIMARY KEY,
		username VARCHAR(100) NOT NULL DEFAULT '',
		email VARCHAR(255) UNIQUE NOT NULL,
		avatar_path VARCHAR(500) NOT NULL DEFAULT '',
		background_path VARCHAR(500) NOT NULL DEFAULT '',
		is_premium BOOLEAN NOT NULL DEFAULT FALSE,
		friends TEXT[] NOT NULL DEFAULT '{}',
		playlists TEXT[] NOT NULL DEFAULT '{}',
		join_date DATE NOT NULL DEFAULT CURRENT_DATE
	)`,
	`CREATE TABLE IF NOT EXISTS shows (
		id VARCHAR(64) PRIMARY KEY,
		title VARCHAR(500) NOT NULL,
		creator VARCHAR(255) NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		cover_url VARCHAR(500) NOT NULL DEFAULT '',
		genres TEXT[] NOT NULL DEFAULT '{}',
		avg_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		air_date VARCHAR(10) NOT NULL DEFAULT '',
		version BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS episodes (
		id VARCHAR(64) PRIMARY KEY,
		show_name VARCHAR(500) NOT NULL,
		title VARCHAR(500) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		avg_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		season INTEGER NOT NULL DEFAULT 1,
		episode_number INTEGER NOT NULL DEFAULT 0,
		cover_url VARCHAR(500) NOT NULL DEFAULT '',
		version BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id VARCHAR(64) PRIMARY KEY,
		user_id VARCHAR(128) NOT NULL,
		show_id VARCHAR(64),
		episode_id VARCHAR(64),
		rating DOUBLE PRECISION NOT NULL CHECK (rating >= 0 AND rating <= 5),
		comment TEXT NOT NULL DEFAULT '',
		contains_spoiler BOOLEAN NOT NULL DEFAULT FALSE,
		is_private BOOLEAN NOT NULL DEFAULT FALSE,
		date_posted DATE NOT NULL DEFAULT CURRENT_DATE,
		cover_url VARCHAR(500) NOT NULL DEFAULT '',
		title VARCHAR(500) NOT NULL DEFAULT '',
		CHECK ((show_id IS NULL) <> (episode_id IS NULL))
	)`,
	`CREATE TABLE IF NOT EXISTS playlists (
		id VARCHAR(64) PRIMARY KEY,
		user_id VARCHAR(128) NOT NULL,
		title VARCHAR(255) NOT NULL,
		type VARCHAR(20) NOT NULL DEFAULT '',
		item_ids TEXT[] NOT NULL DEFAULT '{}',
		cover_url VARCHAR(500) NOT NULL DEFAULT '',
		date_created DATE NOT NULL DEFAULT CURRENT_DATE
	)`,
	// Indexes for the filters the stores issue
	`CREATE INDEX IF NOT EXISTS idx_episodes_show_name ON episodes(show_name)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_episode_id ON reviews(episode_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_show_id ON reviews(show_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_user_id ON reviews(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_playlists_user_id ON playlists(user_id)`,
}

// RunMigrations applies every schema statement in order.
func RunMigrations(db *sql.DB) error {
	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
