package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aokihara/unitrack/utils/cache"
)

// ErrIdempotencyInFlight means another request with the same key is still
// being processed and has not stored a result yet.
var ErrIdempotencyInFlight = errors.New("request with this idempotency key is still in flight")

// idempotencyTTL is the dedup window for caller-supplied idempotency keys.
const idempotencyTTL = 24 * time.Hour

// idempotencyCache is the slice of the cache API the store needs.
type idempotencyCache interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// IdempotencyStore deduplicates creation requests on (userID, key) using
// Redis, so a client retrying a timed-out POST does not create a duplicate
// row. When Redis is unavailable the store degrades to no dedup rather than
// failing requests.
type IdempotencyStore struct {
	cache idempotencyCache
}

// NewIdempotencyStore creates a new idempotency store
func NewIdempotencyStore(redisCache *cache.RedisCache) *IdempotencyStore {
	return &IdempotencyStore{cache: redisCache}
}

func idempotencyKeys(userID uint, key string) (reserve, result string) {
	return fmt.Sprintf("idempotency:reserve:%d:%s", userID, key),
		fmt.Sprintf("idempotency:result:%d:%s", userID, key)
}

// Begin reserves the key for this request. It reports true when the caller
// holds the reservation and should perform the operation, false when an
// earlier request already claimed the key.
func (s *IdempotencyStore) Begin(ctx context.Context, userID uint, key string) (bool, error) {
	reserve, _ := idempotencyKeys(userID, key)
	ok, err := s.cache.SetNX(ctx, reserve, "pending", idempotencyTTL)
	if err != nil {
		// Redis down: proceed without dedup
		return true, nil
	}
	return ok, nil
}

// Result loads the stored response for a previously completed request into
// dest. Returns ErrIdempotencyInFlight when the original request has not
// finished yet.
func (s *IdempotencyStore) Result(ctx context.Context, userID uint, key string, dest interface{}) error {
	_, result := idempotencyKeys(userID, key)
	err := s.cache.GetJSON(ctx, result, dest)
	if errors.Is(err, cache.ErrNotFound) {
		return ErrIdempotencyInFlight
	}
	return err
}

// Complete stores the response to replay for later requests with this key.
// If the result cannot be stored, the reservation is released so a retry is
// processed afresh instead of seeing a day-long in-flight conflict.
func (s *IdempotencyStore) Complete(ctx context.Context, userID uint, key string, result interface{}) error {
	reserve, resultKey := idempotencyKeys(userID, key)
	if err := s.cache.SetJSON(ctx, resultKey, result, idempotencyTTL); err != nil {
		s.cache.Delete(ctx, reserve)
		return err
	}
	return nil
}

// Abort releases the reservation after a failed operation so the caller can
// retry with the same key.
func (s *IdempotencyStore) Abort(ctx context.Context, userID uint, key string) error {
	reserve, _ := idempotencyKeys(userID, key)
	return s.cache.Delete(ctx, reserve)
}
