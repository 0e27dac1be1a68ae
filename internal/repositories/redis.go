package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/kinox/internal/shared"
	"github.com/desertthunder/kinox/internal/watchlist"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces slot keys, e.g. "kinox:slot:kino-xplorer-watchlist".
const DefaultRedisPrefix = "kinox:slot:"

const redisTimeout = 5 * time.Second

var _ watchlist.Backend = (*RedisSlots)(nil)

// NewRedisClient connects to Redis and verifies the connection with PING.
func NewRedisClient(ctx context.Context, cfg shared.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// RedisSlots implements [watchlist.Backend] with one string key per slot. Values never expire.
type RedisSlots struct {
	client *redis.Client
	prefix string
}

// NewRedisSlots wraps client. An empty prefix uses [DefaultRedisPrefix].
func NewRedisSlots(client *redis.Client, prefix string) *RedisSlots {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisSlots{client: client, prefix: prefix}
}

// Key returns the Redis key for slot name.
func (r *RedisSlots) Key(name string) string {
	return r.prefix + name
}

func (r *RedisSlots) GetText(name string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	value, err := r.client.Get(ctx, r.Key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get slot %s: %w", name, err)
	}
	return value, true, nil
}

func (r *RedisSlots) SetText(name, text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.Key(name), text, 0).Err(); err != nil {
		return fmt.Errorf("failed to set slot %s: %w", name, err)
	}
	return nil
}
