package redis

import (
	"context"
	"time"
)

// CooldownStore rate limits repeated actions (e.g. OTP resends) per key.
// A key is held for the configured window after a successful Acquire.
type CooldownStore struct {
	prefix string
	window time.Duration
}

var (
	setCooldownNX  = SetNX
	delCooldownKey = Del
	ttlCooldownKey = TTL
)

// NewCooldownStore creates a cooldown store namespaced by prefix
func NewCooldownStore(prefix string, window time.Duration) *CooldownStore {
	return &CooldownStore{prefix: prefix, window: window}
}

// Acquire returns false when the key is still cooling down
func (s *CooldownStore) Acquire(ctx context.Context, key string) (bool, error) {
	if s.window <= 0 {
		return true, nil
	}
	return setCooldownNX(ctx, s.key(key), time.Now().Unix(), s.window)
}

// Release drops the cooldown so the action can be retried immediately
func (s *CooldownStore) Release(ctx context.Context, key string) error {
	if s.window <= 0 {
		return nil
	}
	return delCooldownKey(ctx, s.key(key))
}

// Remaining reports how long the key stays locked
func (s *CooldownStore) Remaining(ctx context.Context, key string) (time.Duration, error) {
	if s.window <= 0 {
		return 0, nil
	}
	d, err := ttlCooldownKey(ctx, s.key(key))
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

func (s *CooldownStore) key(key string) string {
	return s.prefix + ":" + key
}
