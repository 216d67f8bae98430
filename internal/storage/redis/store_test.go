package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishisakhi/sakhi-session/internal/model"
)

func newTestStore(t *testing.T, deviceID string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(rdb, deviceID), mr
}

func TestStore_GetMissing(t *testing.T) {
	s, _ := newTestStore(t, "dev1")

	v, ok, err := s.Get(context.Background(), model.KeyAuthToken)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, "dev1")

	require.NoError(t, s.Set(ctx, model.KeyAuthToken, "abc"))

	v, ok, err := s.Get(ctx, model.KeyAuthToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
	assert.Equal(t, []string{"sakhi:credentials:dev1:authToken"}, mr.Keys())
}

func TestStore_RemoveAll(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, "dev1")
	otherClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = otherClient.Close() })
	other := NewStore(otherClient, "dev2")

	require.NoError(t, s.Set(ctx, model.KeyAuthToken, "abc"))
	require.NoError(t, s.Set(ctx, model.KeyUserData, `{"id":1}`))
	require.NoError(t, other.Set(ctx, model.KeyAuthToken, "xyz"))

	require.NoError(t, s.RemoveAll(ctx, model.KeyAuthToken, model.KeyUserData))

	assert.False(t, mr.Exists("sakhi:credentials:dev1:authToken"))
	assert.False(t, mr.Exists("sakhi:credentials:dev1:userData"))
	assert.True(t, mr.Exists("sakhi:credentials:dev2:authToken"))
}

func TestStore_RemoveAll_NoKeys(t *testing.T) {
	s, _ := newTestStore(t, "dev1")

	require.NoError(t, s.RemoveAll(context.Background()))
}

func TestStore_ServerDown(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, "dev1")
	mr.Close()

	_, _, err := s.Get(ctx, model.KeyAuthToken)
	require.Error(t, err)
	require.Error(t, s.Set(ctx, model.KeyAuthToken, "abc"))
	require.Error(t, s.RemoveAll(ctx, model.KeyAuthToken, model.KeyUserData))
}
