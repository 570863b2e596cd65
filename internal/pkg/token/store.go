// internal/pkg/token/store.go
package token

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/your-org/storefront-client/internal/config"
)

const storageFile = "storage.json"

// Claims represents the bearer token claims the client cares about.
// Subject carries the user id as issued by the auth service.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim as a numeric user id.
func (c *Claims) UserID() (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimPrefix(c.Subject, "user:"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Identity is the cached user identity persisted alongside the token.
type Identity struct {
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Store persists the bearer token and cached identity in a small
// key-value file. Storage failures are deliberately swallowed: a broken
// storage layer must look like "no token", never like a crash.
type Store struct {
	path        string
	tokenKey    string
	userDataKey string
}

// NewStore creates a token store rooted at the configured storage dir.
func NewStore(cfg *config.Config) *Store {
	return &Store{
		path:        filepath.Join(cfg.Storage.Dir, storageFile),
		tokenKey:    cfg.Storage.TokenKey,
		userDataKey: cfg.Storage.UserDataKey,
	}
}

// Set writes the token to persistent storage. The token shape is not
// validated at write time.
func (s *Store) Set(token string) {
	s.write(s.tokenKey, token)
}

// Get returns the stored token, or an empty string when no token is
// present or the storage layer is unreadable.
func (s *Store) Get() string {
	return s.read(s.tokenKey)
}

// Clear removes the stored token.
func (s *Store) Clear() {
	s.delete(s.tokenKey)
}

// SetIdentity caches the signed-in user identity.
func (s *Store) SetIdentity(id Identity) {
	raw, err := json.Marshal(id)
	if err != nil {
		return
	}
	s.write(s.userDataKey, string(raw))
}

// Identity returns the cached user identity, or nil when absent.
func (s *Store) Identity() *Identity {
	raw := s.read(s.userDataKey)
	if raw == "" {
		return nil
	}
	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil
	}
	return &id
}

// ClearIdentity removes the cached user identity.
func (s *Store) ClearIdentity() {
	s.delete(s.userDataKey)
}

// Decode parses the stored token's claims without verifying the
// signature. It returns nil for any malformed token: wrong segment
// count, invalid base64, invalid JSON payload.
func (s *Store) Decode() *Claims {
	return DecodeToken(s.Get())
}

// IsExpired reports whether the stored token is unusable: absent,
// undecodable, or past its expiry epoch.
func (s *Store) IsExpired() bool {
	claims := s.Decode()
	if claims == nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.After(time.Now())
}

// DecodeToken parses claims out of a raw bearer token without
// signature verification.
func DecodeToken(token string) *Claims {
	if token == "" {
		return nil
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	return claims
}

// file-backed key-value storage; every failure degrades to "no value"

func (s *Store) load() map[string]string {
	values := make(map[string]string)
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return values
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return make(map[string]string)
	}
	return values
}

func (s *Store) save(values map[string]string) {
	raw, err := json.Marshal(values)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return
	}
	_ = os.WriteFile(s.path, raw, 0o600)
}

func (s *Store) read(key string) string {
	return s.load()[key]
}

func (s *Store) write(key, value string) {
	values := s.load()
	values[key] = value
	s.save(values)
}

func (s *Store) delete(key string) {
	values := s.load()
	if _, ok := values[key]; !ok {
		return
	}
	delete(values, key)
	s.save(values)
}
