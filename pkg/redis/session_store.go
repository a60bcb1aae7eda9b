package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionKeyPrefix namespaces session cache entries
const SessionKeyPrefix = "session:"

// ErrCorruptEntry is returned when a cached value cannot be decoded
var ErrCorruptEntry = errors.New("corrupt session cache entry")

var marshalSessionJSON = json.Marshal

// SessionCache stores serialized session snapshots keyed by subject id
type SessionCache struct {
	client *redis.Client
}

// NewSessionCache creates a new session cache
func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

// SessionKey returns the cache key for a subject id
func SessionKey(subjectID string) string {
	return SessionKeyPrefix + subjectID
}

// Get loads the entry for subjectID into dst. The bool reports a hit.
func (s *SessionCache) Get(ctx context.Context, subjectID string, dst interface{}) (bool, error) {
	raw, err := s.client.Get(ctx, SessionKey(subjectID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, ErrCorruptEntry
	}
	return true, nil
}

// Set stores value for subjectID with the given TTL
func (s *SessionCache) Set(ctx context.Context, subjectID string, value interface{}, ttl time.Duration) error {
	data, err := marshalSessionJSON(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, SessionKey(subjectID), data, ttl).Err()
}

// Delete removes the entry for subjectID
func (s *SessionCache) Delete(ctx context.Context, subjectID string) error {
	return s.client.Del(ctx, SessionKey(subjectID)).Err()
}
