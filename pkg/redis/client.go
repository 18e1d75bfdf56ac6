package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotInitialized is returned by every helper before Init or SetClient ran.
// Callers treat it like any other outage: OTP cooldowns and idempotency keys fail open.
var ErrNotInitialized = errors.New("redis client not initialized")

const (
	connectTimeout = 5 * time.Second
	opTimeout      = 2 * time.Second
)

var client *redis.Client

var pingClient = func(ctx context.Context, c *redis.Client) error {
	return c.Ping(ctx).Err()
}

// Init connects the shared client used for OTP cooldowns and payment idempotency keys.
// password overrides any credential embedded in url.
func Init(url, password string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = connectTimeout
	opts.ReadTimeout = opTimeout
	opts.WriteTimeout = opTimeout

	c := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := pingClient(ctx, c); err != nil {
		_ = c.Close()
		return fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}

	client = c
	return nil
}

// SetClient swaps the shared client, mostly for miniredis in tests
func SetClient(c *redis.Client) {
	client = c
}

func GetClient() *redis.Client {
	return client
}

func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}

func current() (*redis.Client, error) {
	if client == nil {
		return nil, ErrNotInitialized
	}
	return client, nil
}

func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c, err := current()
	if err != nil {
		return err
	}
	return c.Set(ctx, key, value, ttl).Err()
}

// Get returns redis.Nil when the key does not exist
func Get(ctx context.Context, key string) (string, error) {
	c, err := current()
	if err != nil {
		return "", err
	}
	return c.Get(ctx, key).Result()
}

func Del(ctx context.Context, key string) error {
	c, err := current()
	if err != nil {
		return err
	}
	return c.Del(ctx, key).Err()
}

// SetNX reports whether the key was created by this call
func SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	c, err := current()
	if err != nil {
		return false, err
	}
	return c.SetNX(ctx, key, value, ttl).Result()
}

// TTL is negative for a missing key or a key without expiry
func TTL(ctx context.Context, key string) (time.Duration, error) {
	c, err := current()
	if err != nil {
		return 0, err
	}
	return c.TTL(ctx, key).Result()
}
