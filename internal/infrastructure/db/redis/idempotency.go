package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/microtasks/internal/core/domain"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// pendingTTL bounds how long a crashed request can hold a key.
	pendingTTL    = 30 * time.Second
	pendingMarker = "pending"
)

// claimScript sets the key to the pending marker unless it exists, returning
// "" on a fresh claim and the stored value otherwise.
var claimScript = redis.NewScript(`
if redis.call('SET', KEYS[1], ARGV[1], 'NX', 'PX', ARGV[2]) then
	return ''
end
return redis.call('GET', KEYS[1])
`)

// releaseScript deletes the key only while it still holds the pending marker.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// IdempotencyStore maps client-supplied Idempotency-Key values to the
// submission they produced.
// Key format: idem:submission:<user_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps the given client. Completed keys expire after
// ttl, or after 24h when ttl is not positive.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Claim reserves key for the caller before the submission is written.
// It returns claimed=true when the caller owns the key, the stored
// submission ID when an earlier request completed, and
// domain.ErrRequestInProgress while another request still holds it.
func (s *IdempotencyStore) Claim(ctx context.Context, userID int64, key string) (int64, bool, error) {
	v, err := claimScript.Run(ctx, s.client, []string{s.key(userID, key)}, pendingMarker, pendingTTL.Milliseconds()).Text()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, false, fmt.Errorf("idempotency claim: %w", err)
	}
	switch v {
	case "":
		return 0, true, nil
	case pendingMarker:
		return 0, false, domain.ErrRequestInProgress
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency claim: corrupt value %q", v)
	}
	return id, false, nil
}

// Complete stores the submission ID for a claimed key.
func (s *IdempotencyStore) Complete(ctx context.Context, userID int64, key string, submissionID int64) error {
	if err := s.client.Set(ctx, s.key(userID, key), submissionID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release drops a pending claim so the client can retry after a failed write.
func (s *IdempotencyStore) Release(ctx context.Context, userID int64, key string) error {
	if err := releaseScript.Run(ctx, s.client, []string{s.key(userID, key)}, pendingMarker).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(userID int64, key string) string {
	return fmt.Sprintf("idem:submission:%d:%s", userID, key)
}
