package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/podsave-web/session"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// An unreachable Redis must surface as errors from the storage and as a
// logged-out Store, never as a panic.
func TestRedisStorage_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	storage := session.NewRedisStorage(client, time.Hour)

	_, err := storage.Read(ctx, "podsave:session:x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read session record")

	err = storage.Write(ctx, "podsave:session:x", map[string]string{session.FieldToken: "tok"}, session.FieldStage)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to write session record")

	store := session.NewStore(storage, "podsave:session:x")
	store.SetToken(ctx, "tok", time.Now().Add(time.Hour))
	require.False(t, store.IsAuthenticated(ctx))
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := session.NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStorage_ReadWriteDelete(t *testing.T) {
	mr, client := setupRedis(t)
	ctx := context.Background()
	storage := session.NewRedisStorage(client, time.Hour)
	ns := "podsave:session:ctx-1"

	fields, err := storage.Read(ctx, ns)
	require.NoError(t, err)
	require.Empty(t, fields)

	err = storage.Write(ctx, ns, map[string]string{
		session.FieldToken:     "tok",
		session.FieldExpiresAt: "2026-03-01T12:00:00Z",
		session.FieldStage:     "registered",
	})
	require.NoError(t, err)
	require.Equal(t, time.Hour, mr.TTL(ns))

	err = storage.Write(ctx, ns, map[string]string{session.FieldToken: "tok2"}, session.FieldExpiresAt)
	require.NoError(t, err)

	fields, err = storage.Read(ctx, ns)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		session.FieldToken: "tok2",
		session.FieldStage: "registered",
	}, fields)

	require.NoError(t, storage.Delete(ctx, ns))
	require.False(t, mr.Exists(ns))
}

func TestRedisStorage_RetentionExpiresRecord(t *testing.T) {
	mr, client := setupRedis(t)
	ctx := context.Background()
	storage := session.NewRedisStorage(client, time.Minute)
	store := session.NewStore(storage, "podsave:session:ctx-2")

	store.SetToken(ctx, "tok", time.Time{})
	require.True(t, store.IsAuthenticated(ctx))

	mr.FastForward(2 * time.Minute)
	require.False(t, store.IsAuthenticated(ctx))
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := session.NewRedisClient(context.Background(), "not a url")
	require.Error(t, err)
}
