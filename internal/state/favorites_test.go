// internal/state/favorites_test.go
package state_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-client/internal/state"
)

func TestFavoritesRequireLoginWithoutNetworkCall(t *testing.T) {
	f := newFixture(t)

	err := f.favorites.Add(context.Background(), 1)

	require.ErrorIs(t, err, state.ErrLoginRequired)
	assert.Equal(t, state.ErrLoginRequired.Error(), f.favorites.LastError())
	assert.Zero(t, f.backend.RequestCount("/wishlist"))
}

func TestFavoritesAddAndRemove(t *testing.T) {
	f := newFixture(t)
	f.seedAndSignIn(t)
	ctx := context.Background()

	require.NoError(t, f.favorites.Add(ctx, 1))
	assert.True(t, f.favorites.IsFavorite(1))
	assert.False(t, f.favorites.IsFavorite(2))
	assert.Len(t, f.favorites.Items(), 1)

	require.NoError(t, f.favorites.Remove(ctx, 1))
	assert.False(t, f.favorites.IsFavorite(1))
	assert.Empty(t, f.favorites.Items())
}

func TestFavoritesToggle(t *testing.T) {
	f := newFixture(t)
	f.seedAndSignIn(t)
	ctx := context.Background()

	require.NoError(t, f.favorites.Toggle(ctx, 2))
	assert.True(t, f.favorites.IsFavorite(2))

	require.NoError(t, f.favorites.Toggle(ctx, 2))
	assert.False(t, f.favorites.IsFavorite(2))
}

func TestFavoritesIsFavoriteIsPure(t *testing.T) {
	f := newFixture(t)
	f.seedAndSignIn(t)
	require.NoError(t, f.favorites.Add(context.Background(), 1))

	before := f.backend.RequestCount("/wishlist")
	f.favorites.IsFavorite(1)
	f.favorites.Items()
	assert.Equal(t, before, f.backend.RequestCount("/wishlist"))
}

func TestFavoritesRefreshWithoutSessionEmptiesSilently(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.favorites.Refresh(context.Background()))

	assert.Empty(t, f.favorites.Items())
	assert.Zero(t, f.backend.RequestCount("/wishlist"))
}
