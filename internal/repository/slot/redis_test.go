package slot

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client), mr
}

func TestRedis_SetGetRemove(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, CurrentAccountKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, CurrentAccountKey, "amy"))
	stored, err := mr.Get("slot:" + CurrentAccountKey)
	require.NoError(t, err)
	assert.Equal(t, "amy", stored)
	assert.Zero(t, mr.TTL("slot:"+CurrentAccountKey))

	v, ok, err := store.Get(ctx, CurrentAccountKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "amy", v)

	require.NoError(t, store.Remove(ctx, CurrentAccountKey))
	assert.False(t, mr.Exists("slot:"+CurrentAccountKey))
	require.NoError(t, store.Remove(ctx, CurrentAccountKey))
}

func TestRedis_GetError(t *testing.T) {
	store, mr := setupTestRedis(t)
	mr.Close()

	_, _, err := store.Get(context.Background(), CurrentAccountKey)
	require.ErrorContains(t, err, "redis get failed")
}
