// internal/session/manager.go
package session

import (
	"github.com/your-org/storefront-client/internal/pkg/token"
)

// Manager is the single owner of session state. Everything that needs
// to know "who is signed in" gets a *Manager injected instead of
// reaching into storage directly. A session is valid only while a
// token is present and its expiry epoch is in the future; expiry is
// terminal, there is no refresh.
type Manager struct {
	store *token.Store
}

// NewManager creates a session manager over the given token store.
func NewManager(store *token.Store) *Manager {
	return &Manager{store: store}
}

// Bearer returns the stored token and whether it is currently usable
// as a credential.
func (m *Manager) Bearer() (string, bool) {
	t := m.store.Get()
	if t == "" || m.store.IsExpired() {
		return "", false
	}
	return t, true
}

// Current returns the decoded claims of the active session, or nil
// when no valid session exists.
func (m *Manager) Current() *token.Claims {
	if _, ok := m.Bearer(); !ok {
		return nil
	}
	return m.store.Decode()
}

// UserID returns the signed-in user's id. The token subject is
// authoritative; the cached identity is the fallback for tokens whose
// subject is not numeric.
func (m *Manager) UserID() (int64, bool) {
	claims := m.Current()
	if claims == nil {
		return 0, false
	}
	if id, ok := claims.UserID(); ok {
		return id, true
	}
	if cached := m.store.Identity(); cached != nil && cached.UserID != 0 {
		return cached.UserID, true
	}
	return 0, false
}

// IsAuthenticated reports whether a valid session exists.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Bearer()
	return ok
}

// Establish persists a fresh session: the bearer token plus the cached
// identity returned by the sign-in call.
func (m *Manager) Establish(accessToken string, id token.Identity) {
	m.store.Set(accessToken)
	m.store.SetIdentity(id)
}

// SignOut destroys the session.
func (m *Manager) SignOut() {
	m.store.Clear()
	m.store.ClearIdentity()
}
