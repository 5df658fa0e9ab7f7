package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// redisCmd is the subset of redis commands the store issues.
// *redis.Client satisfies it.
type redisCmd interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisStore struct {
	client redisCmd
}

// NewRedisStore creates a Redis-backed session store. Keys live under
// the "session:" namespace and expire via the TTL passed to Save.
func NewRedisStore(client redisCmd) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) key(sessionID string) string {
	return keyPrefix + sessionID
}

func (r *RedisStore) Save(ctx context.Context, sessionID string, record []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(sessionID), record, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}
