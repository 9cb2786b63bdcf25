package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrUnknownToken = errors.New("unknown or expired session token")

const keyPrefix = "session:"

type kv interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Entry is what a bearer token resolves to.
type Entry struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token,omitempty"`
}

// Registry maps opaque bearer tokens to signed-in users in redis.
type Registry struct {
	rdb kv
	ttl time.Duration
}

// NewRegistry creates a registry whose tokens expire after ttl.
func NewRegistry(rdb *redis.Client, ttl time.Duration) *Registry {
	return &Registry{rdb: rdb, ttl: ttl}
}

// Issue stores a new token for userID and returns it.
func (r *Registry) Issue(ctx context.Context, userID, accessToken string) (string, error) {
	if userID == "" {
		return "", ErrNoUser
	}
	data, err := json.Marshal(Entry{UserID: userID, AccessToken: accessToken})
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}

	token := uuid.NewString()
	if err := r.rdb.Set(ctx, keyPrefix+token, data, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Resolve returns the entry for token or ErrUnknownToken.
func (r *Registry) Resolve(ctx context.Context, token string) (*Entry, error) {
	if token == "" {
		return nil, ErrUnknownToken
	}
	raw, err := r.rdb.Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUnknownToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &e, nil
}

// Revoke deletes token. Unknown tokens are not an error.
func (r *Registry) Revoke(ctx context.Context, token string) error {
	if err := r.rdb.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
