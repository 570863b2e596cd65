// internal/session/manager_test.go
package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-client/internal/config"
	"github.com/your-org/storefront-client/internal/pkg/token"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	cfg := &config.Config{
		Storage: config.StorageConfig{
			Dir:         t.TempDir(),
			TokenKey:    "authToken",
			UserDataKey: "userData",
		},
	}
	return NewManager(token.NewStore(cfg))
}

func signToken(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := &token.Claims{
		Email: "jane@example.com",
		Name:  "Jane",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return raw
}

func TestFreshManagerHasNoSession(t *testing.T) {
	m := newTestManager(t)

	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.Current())

	_, ok := m.Bearer()
	assert.False(t, ok)
	_, ok = m.UserID()
	assert.False(t, ok)
}

func TestEstablishAndSignOut(t *testing.T) {
	m := newTestManager(t)
	raw := signToken(t, "42", time.Now().Add(time.Hour))

	m.Establish(raw, token.Identity{UserID: 42, Email: "jane@example.com"})

	require.True(t, m.IsAuthenticated())
	bearer, ok := m.Bearer()
	require.True(t, ok)
	assert.Equal(t, raw, bearer)

	claims := m.Current()
	require.NotNil(t, claims)
	assert.Equal(t, "jane@example.com", claims.Email)

	id, ok := m.UserID()
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	m.SignOut()
	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.Current())
}

func TestExpiredTokenIsNoSession(t *testing.T) {
	m := newTestManager(t)

	m.Establish(signToken(t, "42", time.Now().Add(-time.Minute)), token.Identity{UserID: 42})

	assert.False(t, m.IsAuthenticated())
	_, ok := m.Bearer()
	assert.False(t, ok)
	_, ok = m.UserID()
	assert.False(t, ok)
}

func TestUserIDFallsBackToCachedIdentity(t *testing.T) {
	m := newTestManager(t)

	// subject is not numeric, so the cached identity decides
	m.Establish(signToken(t, "jane@example.com", time.Now().Add(time.Hour)), token.Identity{UserID: 77})

	id, ok := m.UserID()
	require.True(t, ok)
	assert.Equal(t, int64(77), id)
}
