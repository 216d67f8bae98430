package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetMissingKey(t *testing.T) {
	s := NewStore()

	v, ok, err := s.Get(context.Background(), "authToken")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Set(ctx, "authToken", "abc"))
	require.NoError(t, s.Set(ctx, "userData", `{"id":1}`))
	require.NoError(t, s.Set(ctx, "theme", "dark"))

	v, ok, err := s.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, s.RemoveAll(ctx, "authToken", "userData"))
	assert.Equal(t, 1, s.Len())

	_, ok, err = s.Get(ctx, "userData")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStore()

	assert.ErrorIs(t, s.Set(ctx, "k", "v"), context.Canceled)
	assert.ErrorIs(t, s.RemoveAll(ctx, "k"), context.Canceled)
	_, _, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
