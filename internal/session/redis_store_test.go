package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRedis captures the keys each command addresses and serves
// values from an in-memory map.
type recordingRedis struct {
	data map[string]string

	setKeys []string
	setTTLs []time.Duration
	getKeys []string
	delKeys []string

	err error
}

func newRecordingRedis() *recordingRedis {
	return &recordingRedis{data: make(map[string]string)}
}

func (r *recordingRedis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	r.setKeys = append(r.setKeys, key)
	r.setTTLs = append(r.setTTLs, ttl)
	if r.err != nil {
		return redis.NewStatusResult("", r.err)
	}
	r.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (r *recordingRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	r.getKeys = append(r.getKeys, key)
	if r.err != nil {
		return redis.NewStringResult("", r.err)
	}
	val, ok := r.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (r *recordingRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	r.delKeys = append(r.delKeys, keys...)
	if r.err != nil {
		return redis.NewIntResult(0, r.err)
	}
	var n int64
	for _, key := range keys {
		if _, ok := r.data[key]; ok {
			delete(r.data, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisStore_SaveNamespacesKey(t *testing.T) {
	rec := newRecordingRedis()
	store := NewRedisStore(rec)

	err := store.Save(context.Background(), "abc123", []byte(`{"email":"a@b.c"}`), time.Hour)
	require.NoError(t, err)

	require.Equal(t, []string{"session:abc123"}, rec.setKeys)
	assert.Equal(t, []time.Duration{time.Hour}, rec.setTTLs)
}

func TestRedisStore_GetNamespacesKey(t *testing.T) {
	rec := newRecordingRedis()
	rec.data["session:abc123"] = "userdata"
	store := NewRedisStore(rec)

	val, err := store.Get(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, []byte("userdata"), val)
	assert.Equal(t, []string{"session:abc123"}, rec.getKeys)
}

func TestRedisStore_GetMissReturnsNilNil(t *testing.T) {
	store := NewRedisStore(newRecordingRedis())

	val, err := store.Get(context.Background(), "never-written")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStore_GetPropagatesErrors(t *testing.T) {
	rec := newRecordingRedis()
	rec.err = errors.New("connection refused")
	store := NewRedisStore(rec)

	_, err := store.Get(context.Background(), "abc123")
	assert.Error(t, err)
}

func TestRedisStore_DeleteNamespacesKey(t *testing.T) {
	rec := newRecordingRedis()
	rec.data["session:abc123"] = "userdata"
	store := NewRedisStore(rec)

	require.NoError(t, store.Delete(context.Background(), "abc123"))
	assert.Equal(t, []string{"session:abc123"}, rec.delKeys)
	assert.Empty(t, rec.data)

	// deleting an absent key is still a success
	require.NoError(t, store.Delete(context.Background(), "abc123"))
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := NewRedisStore(newRecordingRedis())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid", []byte("record"), time.Minute))

	val, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, []byte("record"), val)

	require.NoError(t, store.Delete(ctx, "sid"))

	val, err = store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, val)
}
