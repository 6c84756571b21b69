package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "authclient"

var errRedisUnavailable = errors.New("storage: redis unavailable")

// Redis is a Driver over a shared redis instance. It suits durable
// state for deployments where the terminal's local disk is wiped
// between sessions (kiosks, thin clients) but a redis server is
// reachable. Keys carry no TTL; lifetime is managed by the flows
// through Remove.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps an existing client. The profile string keeps separate
// installs from sharing state on the same server; empty means a single
// shared profile.
func NewRedis(client *redis.Client, profile string) *Redis {
	prefix := redisKeyPrefix
	if profile != "" {
		prefix += ":" + profile
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(k string) string {
	return r.prefix + ":" + k
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", errRedisUnavailable, err)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", errRedisUnavailable, err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", errRedisUnavailable, err)
	}
	return nil
}
