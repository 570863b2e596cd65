// internal/pkg/token/store_test.go
package token

import (
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-client/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := &config.Config{
		Storage: config.StorageConfig{
			Dir:         t.TempDir(),
			TokenKey:    "authToken",
			UserDataKey: "userData",
		},
	}
	return NewStore(cfg)
}

func signToken(t *testing.T, claims *Claims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return raw
}

func TestSetGetClear(t *testing.T) {
	store := newTestStore(t)

	assert.Empty(t, store.Get())

	store.Set("some-token")
	assert.Equal(t, "some-token", store.Get())

	store.Clear()
	assert.Empty(t, store.Get())
}

func TestTokenSurvivesStoreRecreation(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{
			Dir:         t.TempDir(),
			TokenKey:    "authToken",
			UserDataKey: "userData",
		},
	}

	NewStore(cfg).Set("persisted")
	assert.Equal(t, "persisted", NewStore(cfg).Get())
}

func TestDecodeValidToken(t *testing.T) {
	store := newTestStore(t)
	store.Set(signToken(t, &Claims{
		Email:    "jane@example.com",
		Username: "jane",
		Name:     "Jane",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}))

	claims := store.Decode()
	require.NotNil(t, claims)
	assert.Equal(t, "jane@example.com", claims.Email)

	id, ok := claims.UserID()
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestDecodePrefixedSubject(t *testing.T) {
	claims := DecodeToken(signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user:7"},
	}))
	require.NotNil(t, claims)

	id, ok := claims.UserID()
	require.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestDecodeMalformedTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"one segment", "garbage"},
		{"two segments", "aaaa.bbbb"},
		{"bad base64", "a!a.b!b.c!c"},
		{"payload not json", "eyJhbGciOiJIUzI1NiJ9.bm90LWpzb24.sig"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, DecodeToken(tt.token))
		})
	}
}

func TestIsExpired(t *testing.T) {
	store := newTestStore(t)

	// no token at all
	assert.True(t, store.IsExpired())

	// malformed token
	store.Set("garbage")
	assert.True(t, store.IsExpired())

	// expired token
	store.Set(signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}))
	assert.True(t, store.IsExpired())

	// live token
	store.Set(signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}))
	assert.False(t, store.IsExpired())

	// no expiry claim means not expired
	store.Set(signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
	}))
	assert.False(t, store.IsExpired())
}

func TestIdentityRoundTrip(t *testing.T) {
	store := newTestStore(t)

	assert.Nil(t, store.Identity())

	store.SetIdentity(Identity{UserID: 42, Email: "jane@example.com", Name: "Jane"})
	cached := store.Identity()
	require.NotNil(t, cached)
	assert.Equal(t, int64(42), cached.UserID)
	assert.Equal(t, "jane@example.com", cached.Email)

	store.ClearIdentity()
	assert.Nil(t, store.Identity())
}

func TestCorruptStorageDegradesToEmpty(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{
			Dir:         t.TempDir(),
			TokenKey:    "authToken",
			UserDataKey: "userData",
		},
	}
	store := NewStore(cfg)
	store.Set("token")

	require.NoError(t, os.WriteFile(store.path, []byte("not json at all"), 0o600))

	assert.Empty(t, store.Get())
	assert.True(t, store.IsExpired())

	// writing repairs the file
	store.Set("fresh")
	assert.Equal(t, "fresh", store.Get())
}
