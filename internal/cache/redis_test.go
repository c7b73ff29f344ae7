package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedis(client), srv
}

func TestRedis_SetGetRoundTrip(t *testing.T) {
	r, _ := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("value"), NoExpiry))

	got, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("value"), got)
}

func TestRedis_MissingKeyIsMiss(t *testing.T) {
	r, _ := newTestRedis(t)

	_, ok, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedis_TTLExpiry(t *testing.T) {
	r, srv := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("v"), time.Minute))

	srv.FastForward(time.Minute + time.Second)

	_, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok, "expired entry must read as a miss")
}

func TestRedis_Delete(t *testing.T) {
	r, _ := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("v"), NoExpiry))
	require.NoError(t, r.Delete(ctx, "k"))

	_, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedis_NewRedisFromURLInvalid(t *testing.T) {
	_, err := NewRedisFromURL("not-a-url")
	require.Error(t, err)
}

func TestRedis_DeletePrefix(t *testing.T) {
	r, _ := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "rec:user:42", []byte("a"), NoExpiry))
	require.NoError(t, r.Set(ctx, "rec:user:42:f1", []byte("b"), NoExpiry))
	require.NoError(t, r.Set(ctx, "rec:user:7", []byte("c"), NoExpiry))

	require.NoError(t, r.DeletePrefix(ctx, "rec:user:42"))

	_, ok, err := r.Get(ctx, "rec:user:42")
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = r.Get(ctx, "rec:user:42:f1")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = r.Get(ctx, "rec:user:7")
	require.NoError(t, err)
	require.True(t, ok)
}
