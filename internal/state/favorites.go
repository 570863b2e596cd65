// internal/state/favorites.go
package state

import (
	"context"
	"sync"

	"github.com/your-org/storefront-client/internal/api"
	"github.com/your-org/storefront-client/internal/session"
)

// FavoriteItem is the local view of one server-owned wishlist entry.
type FavoriteItem struct {
	ID        int64
	ProductID int64
	AddedAt   string
}

// Favorites is the in-memory, per-session cache of the server-owned
// wishlist, with the same refresh-after-mutation contract as Cart.
type Favorites struct {
	mu       sync.Mutex
	wishAPI  *api.WishlistAPI
	sessions *session.Manager
	items    []FavoriteItem
	lastErr  string
}

// NewFavorites creates a favorites store bound to the injected
// session.
func NewFavorites(wishAPI *api.WishlistAPI, sessions *session.Manager) *Favorites {
	return &Favorites{wishAPI: wishAPI, sessions: sessions}
}

// Refresh re-fetches the full wishlist. Without a session the cached
// collection is emptied and no request is issued.
func (f *Favorites) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refresh(ctx)
}

func (f *Favorites) refresh(ctx context.Context) error {
	userID, ok := f.sessions.UserID()
	if !ok {
		f.items = nil
		return nil
	}

	items, err := f.wishAPI.Get(ctx, userID)
	if err != nil {
		f.items = nil
		f.lastErr = err.Error()
		return err
	}

	f.items = make([]FavoriteItem, len(items))
	for i, item := range items {
		f.items[i] = FavoriteItem{
			ID:        item.ID,
			ProductID: item.Product.ID,
			AddedAt:   item.CreatedAt,
		}
	}
	f.lastErr = ""
	return nil
}

// Add puts a product on the wishlist and resynchronizes the cache.
func (f *Favorites) Add(ctx context.Context, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.add(ctx, productID)
}

func (f *Favorites) add(ctx context.Context, productID int64) error {
	userID, err := f.requireUser()
	if err != nil {
		return err
	}
	if _, err := f.wishAPI.Add(ctx, userID, productID); err != nil {
		f.lastErr = err.Error()
		return err
	}
	return f.refresh(ctx)
}

// Remove takes a product off the wishlist and resynchronizes the
// cache.
func (f *Favorites) Remove(ctx context.Context, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remove(ctx, productID)
}

func (f *Favorites) remove(ctx context.Context, productID int64) error {
	userID, err := f.requireUser()
	if err != nil {
		return err
	}
	if err := f.wishAPI.Remove(ctx, userID, productID); err != nil {
		f.lastErr = err.Error()
		return err
	}
	return f.refresh(ctx)
}

// Toggle adds the product when absent, removes it when present.
func (f *Favorites) Toggle(ctx context.Context, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.isFavorite(productID) {
		return f.remove(ctx, productID)
	}
	return f.add(ctx, productID)
}

// IsFavorite reports whether the product is in the cached collection.
// Pure; never triggers network activity.
func (f *Favorites) IsFavorite(productID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isFavorite(productID)
}

func (f *Favorites) isFavorite(productID int64) bool {
	for _, item := range f.items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// Items returns a copy of the cached collection.
func (f *Favorites) Items() []FavoriteItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FavoriteItem, len(f.items))
	copy(out, f.items)
	return out
}

// LastError returns the current error message, empty after the last
// successful call.
func (f *Favorites) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func (f *Favorites) requireUser() (int64, error) {
	userID, ok := f.sessions.UserID()
	if !ok {
		f.lastErr = ErrLoginRequired.Error()
		return 0, ErrLoginRequired
	}
	f.lastErr = ""
	return userID, nil
}
