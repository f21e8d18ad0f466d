package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aokihara/unitrack/utils/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache is an in-memory stand-in for the Redis cache, with switchable
// failures per operation.
type memoryCache struct {
	data        map[string][]byte
	failSetNX   bool
	failSetJSON bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) (bool, error) {
	if m.failSetNX {
		return false, errors.New("connection refused")
	}
	if _, exists := m.data[key]; exists {
		return false, nil
	}
	m.data[key] = []byte(value.(string))
	return true, nil
}

func (m *memoryCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	raw, exists := m.data[key]
	if !exists {
		return cache.ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if m.failSetJSON {
		return errors.New("connection refused")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func newTestIdempotencyStore() (*IdempotencyStore, *memoryCache) {
	mem := newMemoryCache()
	return &IdempotencyStore{cache: mem}, mem
}

func TestIdempotencyBeginReservesKey(t *testing.T) {
	store, _ := newTestIdempotencyStore()
	ctx := context.Background()

	proceed, err := store.Begin(ctx, 1, "key-1")
	require.NoError(t, err)
	assert.True(t, proceed)

	proceed, err = store.Begin(ctx, 1, "key-1")
	require.NoError(t, err)
	assert.False(t, proceed)

	// Different user or key is an independent reservation
	proceed, err = store.Begin(ctx, 2, "key-1")
	require.NoError(t, err)
	assert.True(t, proceed)
}

func TestIdempotencyResultBeforeCompleteIsInFlight(t *testing.T) {
	store, _ := newTestIdempotencyStore()
	ctx := context.Background()

	_, err := store.Begin(ctx, 1, "key-1")
	require.NoError(t, err)

	var dest map[string]string
	err = store.Result(ctx, 1, "key-1", &dest)
	assert.ErrorIs(t, err, ErrIdempotencyInFlight)
}

func TestIdempotencyCompleteThenResultReplays(t *testing.T) {
	store, _ := newTestIdempotencyStore()
	ctx := context.Background()

	_, err := store.Begin(ctx, 1, "key-1")
	require.NoError(t, err)

	require.NoError(t, store.Complete(ctx, 1, "key-1", map[string]string{"title": "Calculus"}))

	var replayed map[string]string
	require.NoError(t, store.Result(ctx, 1, "key-1", &replayed))
	assert.Equal(t, "Calculus", replayed["title"])
}

func TestIdempotencyCompleteFailureReleasesReservation(t *testing.T) {
	store, mem := newTestIdempotencyStore()
	ctx := context.Background()

	proceed, err := store.Begin(ctx, 1, "key-1")
	require.NoError(t, err)
	require.True(t, proceed)

	mem.failSetJSON = true
	require.Error(t, store.Complete(ctx, 1, "key-1", map[string]string{"title": "Calculus"}))
	mem.failSetJSON = false

	// A retry must be processed afresh, not stuck behind a dead reservation
	proceed, err = store.Begin(ctx, 1, "key-1")
	require.NoError(t, err)
	assert.True(t, proceed)
}

func TestIdempotencyAbortReleasesReservation(t *testing.T) {
	store, _ := newTestIdempotencyStore()
	ctx := context.Background()

	proceed, err := store.Begin(ctx, 1, "key-1")
	require.NoError(t, err)
	require.True(t, proceed)

	require.NoError(t, store.Abort(ctx, 1, "key-1"))

	proceed, err = store.Begin(ctx, 1, "key-1")
	require.NoError(t, err)
	assert.True(t, proceed)
}

func TestIdempotencyBeginDegradesWhenCacheDown(t *testing.T) {
	store, mem := newTestIdempotencyStore()
	mem.failSetNX = true

	proceed, err := store.Begin(context.Background(), 1, "key-1")
	require.NoError(t, err)
	assert.True(t, proceed)
}
