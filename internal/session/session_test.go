package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showoff/internal/models"
)

type fakeKV struct {
	data map[string]string
	ttl  map[string]time.Duration
	err  error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeKV) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	default:
		f.data[key] = fmt.Sprint(v)
	}
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeKV) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeKV) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestSessionStartsEmpty(t *testing.T) {
	s := New()
	assert.Nil(t, s.Current())
	_, err := s.RequireUser()
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestSessionSetUserReplacesUnconditionally(t *testing.T) {
	s := New()
	ch, cancel := s.Subscribe()
	defer cancel()
	assert.Nil(t, <-ch)

	ana := models.NewUser("u1", "ana", "ana@example.com", "2026-10-19")
	s.SetUser(ana)
	assert.Same(t, ana, <-ch)

	bea := models.NewUser("u2", "bea", "bea@example.com", "2026-10-19")
	s.SetUser(bea)
	assert.Same(t, bea, s.Current())

	s.SetUser(nil)
	assert.Nil(t, <-ch)
	assert.Nil(t, s.Current())
}

func TestRegistryIssueResolveRevoke(t *testing.T) {
	store := newFakeKV()
	reg := &Registry{rdb: store, ttl: time.Hour}
	ctx := context.Background()

	token, err := reg.Issue(ctx, "u1", "access-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, time.Hour, store.ttl[keyPrefix+token])

	entry, err := reg.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", entry.UserID)
	assert.Equal(t, "access-1", entry.AccessToken)

	require.NoError(t, reg.Revoke(ctx, token))
	_, err = reg.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestRegistryErrors(t *testing.T) {
	store := newFakeKV()
	reg := &Registry{rdb: store, ttl: time.Hour}
	ctx := context.Background()

	_, err := reg.Issue(ctx, "", "")
	assert.ErrorIs(t, err, ErrNoUser)

	_, err = reg.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrUnknownToken)

	store.err = errors.New("connection refused")
	_, err = reg.Resolve(ctx, "abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownToken)
}
