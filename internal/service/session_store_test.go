package service

import (
	"context"
	"testing"
	"time"

	"clinic-booking/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestSessionStoreLifecycle(t *testing.T) {
	client, mr := newTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Store(ctx, userID, "tid-1", jwt.AccessToken, time.Minute))
	assert.True(t, mr.Exists("access_token:"+userID.String()+":tid-1"))

	ok, err := store.Exists(ctx, userID, "tid-1", jwt.AccessToken)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, userID, "tid-1", jwt.RefreshToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Delete(ctx, userID, "tid-1", jwt.AccessToken))
	ok, err = store.Exists(ctx, userID, "tid-1", jwt.AccessToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStoreExpires(t *testing.T) {
	client, mr := newTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Store(ctx, userID, "tid", jwt.RefreshToken, time.Minute))
	mr.FastForward(2 * time.Minute)

	ok, err := store.Exists(ctx, userID, "tid", jwt.RefreshToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStoreRevokeAll(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	require.NoError(t, store.Store(ctx, alice, "a1", jwt.AccessToken, time.Hour))
	require.NoError(t, store.Store(ctx, alice, "r1", jwt.RefreshToken, time.Hour))
	require.NoError(t, store.Store(ctx, alice, "a2", jwt.AccessToken, time.Hour))
	require.NoError(t, store.Store(ctx, bob, "b1", jwt.AccessToken, time.Hour))

	n, err := store.RevokeAll(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	ok, err := store.Exists(ctx, bob, "b1", jwt.AccessToken)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err = store.RevokeAll(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, n)
}
