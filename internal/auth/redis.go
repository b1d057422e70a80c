package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionKeyPrefix namespaces session keys so the same Redis instance can
// be shared with other consumers.
const sessionKeyPrefix = "session:"

// RedisStore is the production SessionStore. Expiry is delegated to Redis
// key TTLs, so sessions survive process restarts and expire without any
// sweeper goroutine.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis at addr and verifies the connection with
// a ping before returning. Startup fails fast if Redis is unreachable,
// matching how the database pool is bootstrapped.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("auth.NewRedisStore: ping %s: %w", addr, err)
	}

	return &RedisStore{client: client}, nil
}

// Close releases the underlying Redis client. Call on shutdown and in test
// teardown.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) Save(ctx context.Context, token string, id Identity, ttl time.Duration) error {
	payload, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("auth.RedisStore.Save: marshal: %w", err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("auth.RedisStore.Save: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, token string) (Identity, bool, error) {
	payload, err := r.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, fmt.Errorf("auth.RedisStore.Get: %w", err)
	}

	var id Identity
	if err := json.Unmarshal(payload, &id); err != nil {
		return Identity{}, false, fmt.Errorf("auth.RedisStore.Get: unmarshal: %w", err)
	}
	return id, true, nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("auth.RedisStore.Delete: %w", err)
	}
	return nil
}
