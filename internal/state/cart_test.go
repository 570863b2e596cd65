// internal/state/cart_test.go
package state_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-client/internal/api"
	"github.com/your-org/storefront-client/internal/api/apitest"
	"github.com/your-org/storefront-client/internal/config"
	"github.com/your-org/storefront-client/internal/pkg/token"
	"github.com/your-org/storefront-client/internal/session"
	"github.com/your-org/storefront-client/internal/state"
)

type fixture struct {
	backend   *apitest.Server
	sessions  *session.Manager
	auth      *api.AuthAPI
	cart      *state.Cart
	favorites *state.Favorites
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := apitest.New()
	t.Cleanup(backend.Close)

	cfg := &config.Config{
		Storage: config.StorageConfig{
			Dir:         t.TempDir(),
			TokenKey:    "authToken",
			UserDataKey: "userData",
		},
	}
	sessions := session.NewManager(token.NewStore(cfg))

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	apiClient := api.NewClient(backend.APIURL(), sessions, logger, 5*time.Second)
	authClient := api.NewClient(backend.AuthURL(), sessions, logger, 5*time.Second)

	return &fixture{
		backend:   backend,
		sessions:  sessions,
		auth:      api.NewAuthAPI(authClient),
		cart:      state.NewCart(api.NewCartAPI(apiClient), sessions),
		favorites: state.NewFavorites(api.NewWishlistAPI(apiClient), sessions),
	}
}

func (f *fixture) seedAndSignIn(t *testing.T) {
	t.Helper()
	f.backend.SeedProduct(api.Product{ID: 1, Name: "Vitamin C Serum", Price: floatPtr(29.90)})
	f.backend.SeedProduct(api.Product{ID: 2, Name: "Hydrating Toner", Price: floatPtr(15.50)})
	f.backend.SeedUser("jane@example.com", "hunter2secret", "Jane")

	resp, err := f.auth.SignIn(context.Background(), "jane@example.com", "hunter2secret")
	require.NoError(t, err)
	f.sessions.Establish(resp.AccessToken, token.Identity{
		UserID:   resp.UserID,
		Email:    resp.Email,
		Username: resp.Username,
		Name:     resp.Name,
	})
}

func floatPtr(v float64) *float64 { return &v }

func TestCartRequiresLoginWithoutNetworkCall(t *testing.T) {
	f := newFixture(t)

	err := f.cart.Add(context.Background(), 1, 1)

	require.ErrorIs(t, err, state.ErrLoginRequired)
	assert.Equal(t, state.ErrLoginRequired.Error(), f.cart.LastError())
	assert.Zero(t, f.backend.RequestCount("/cart"))
}

func TestCartRefreshWithoutSessionEmptiesSilently(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.cart.Refresh(context.Background()))

	assert.Empty(t, f.cart.Items())
	assert.Zero(t, f.backend.RequestCount("/cart"))
}

func TestCartAddResynchronizesFromServer(t *testing.T) {
	f := newFixture(t)
	f.seedAndSignIn(t)
	ctx := context.Background()

	require.NoError(t, f.cart.Add(ctx, 1, 2))
	require.NoError(t, f.cart.Add(ctx, 2, 1))

	items := f.cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 3, f.cart.TotalItems())
	assert.InDelta(t, 2*29.90+15.50, f.cart.TotalPrice(), 0.001)
	assert.Empty(t, f.cart.LastError())
}

func TestCartAddSameProductMergesQuantity(t *testing.T) {
	f := newFixture(t)
	f.seedAndSignIn(t)
	ctx := context.Background()

	require.NoError(t, f.cart.Add(ctx, 1, 1))
	require.NoError(t, f.cart.Add(ctx, 1, 1))

	items := f.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartAddClampsQuantityToOne(t *testing.T) {
	f := newFixture(t)
	f.seedAndSignIn(t)

	require.NoError(t, f.cart.Add(context.Background(), 1, 0))

	items := f.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestCartUpdateQuantity(t *testing.T) {
	f := newFixture(t)
	f.seedAndSignIn(t)
	ctx := context.Background()

	require.NoError(t, f.cart.Add(ctx, 1, 2))
	itemID := f.cart.Items()[0].ID

	require.NoError(t, f.cart.UpdateQuantity(ctx, itemID, 5))

	items := f.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartUpdateQuantityZeroRemoves(t *testing.T) {
	f := newFixture(t)
	f.seedAndSignIn(t)
	ctx := context.Background()

	require.NoError(t, f.cart.Add(ctx, 1, 2))
	itemID := f.cart.Items()[0].ID

	require.NoError(t, f.cart.UpdateQuantity(ctx, itemID, 0))

	assert.Empty(t, f.cart.Items())
	assert.Zero(t, f.cart.TotalItems())
}

func TestCartRemove(t *testing.T) {
	f := newFixture(t)
	f.seedAndSignIn(t)
	ctx := context.Background()

	require.NoError(t, f.cart.Add(ctx, 1, 1))
	require.NoError(t, f.cart.Add(ctx, 2, 1))
	itemID := f.cart.Items()[0].ID

	require.NoError(t, f.cart.Remove(ctx, itemID))

	assert.Len(t, f.cart.Items(), 1)
}

func TestCartClearSkipsRefetch(t *testing.T) {
	f := newFixture(t)
	f.seedAndSignIn(t)
	ctx := context.Background()

	require.NoError(t, f.cart.Add(ctx, 1, 2))
	fetchesBefore := f.backend.RequestCount("GET /api/cart")

	require.NoError(t, f.cart.Clear(ctx))

	assert.Empty(t, f.cart.Items())
	assert.Equal(t, fetchesBefore, f.backend.RequestCount("GET /api/cart"))

	// idempotent
	require.NoError(t, f.cart.Clear(ctx))
	assert.Empty(t, f.cart.Items())
}

func TestCartFailureEmptiesCacheAndRecordsError(t *testing.T) {
	f := newFixture(t)
	f.seedAndSignIn(t)
	ctx := context.Background()

	require.NoError(t, f.cart.Add(ctx, 1, 1))
	require.Len(t, f.cart.Items(), 1)

	err := f.cart.Add(ctx, 404, 1)

	require.Error(t, err)
	assert.NotEmpty(t, f.cart.LastError())
}
