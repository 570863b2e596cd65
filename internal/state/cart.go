// internal/state/cart.go
package state

import (
	"context"
	"errors"
	"sync"

	"github.com/your-org/storefront-client/internal/api"
	"github.com/your-org/storefront-client/internal/session"
)

// ErrLoginRequired is returned by cart and favorites operations when
// no authenticated session exists. No network call is made in that
// case.
var ErrLoginRequired = errors.New("login required")

// CartItem is the local view of one server-owned cart entry.
type CartItem struct {
	ID          int64
	ProductID   int64
	ProductName string
	Price       float64
	Quantity    int
	ImageURL    string
	AddedAt     string
}

// Cart is the in-memory, per-session cache of the server-owned cart
// collection. Every mutation re-fetches the full collection so the
// cache converges on the server's view after each round trip; there
// is no optimistic local mutation and no merge logic.
type Cart struct {
	mu       sync.Mutex
	cartAPI  *api.CartAPI
	sessions *session.Manager
	items    []CartItem
	lastErr  string
}

// NewCart creates a cart store bound to the injected session.
func NewCart(cartAPI *api.CartAPI, sessions *session.Manager) *Cart {
	return &Cart{cartAPI: cartAPI, sessions: sessions}
}

// Refresh re-fetches the full cart collection. Without a session the
// cached collection is emptied and no request is issued.
func (c *Cart) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refresh(ctx)
}

func (c *Cart) refresh(ctx context.Context) error {
	userID, ok := c.sessions.UserID()
	if !ok {
		c.items = nil
		return nil
	}

	items, err := c.cartAPI.Get(ctx, userID)
	if err != nil {
		c.items = nil
		c.lastErr = err.Error()
		return err
	}

	c.items = make([]CartItem, len(items))
	for i, item := range items {
		c.items[i] = transformCartItem(item)
	}
	c.lastErr = ""
	return nil
}

func transformCartItem(item api.CartItem) CartItem {
	local := CartItem{
		ID:          item.ID,
		ProductID:   item.Product.ID,
		ProductName: item.Product.Name,
		Price:       item.Product.UnitPrice(),
		Quantity:    item.Quantity,
		AddedAt:     item.CreatedAt,
	}
	if item.Product.MainImage != nil {
		local.ImageURL = item.Product.MainImage.URL
	}
	return local
}

// Add puts a product in the cart and resynchronizes the cache.
func (c *Cart) Add(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	userID, err := c.requireUser()
	if err != nil {
		return err
	}
	if _, err := c.cartAPI.AddItem(ctx, userID, productID, quantity); err != nil {
		c.lastErr = err.Error()
		return err
	}
	return c.refresh(ctx)
}

// Remove deletes one cart item and resynchronizes the cache.
func (c *Cart) Remove(ctx context.Context, cartItemID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remove(ctx, cartItemID)
}

func (c *Cart) remove(ctx context.Context, cartItemID int64) error {
	if _, err := c.requireUser(); err != nil {
		return err
	}
	if err := c.cartAPI.RemoveItem(ctx, cartItemID); err != nil {
		c.lastErr = err.Error()
		return err
	}
	return c.refresh(ctx)
}

// UpdateQuantity sets a cart item's quantity. A non-positive quantity
// is equivalent to removal.
func (c *Cart) UpdateQuantity(ctx context.Context, cartItemID int64, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		return c.remove(ctx, cartItemID)
	}

	if _, err := c.requireUser(); err != nil {
		return err
	}
	if _, err := c.cartAPI.UpdateQuantity(ctx, cartItemID, quantity); err != nil {
		c.lastErr = err.Error()
		return err
	}
	return c.refresh(ctx)
}

// Clear empties the cart server-side and drops the cached collection.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	userID, err := c.requireUser()
	if err != nil {
		return err
	}
	if err := c.cartAPI.Clear(ctx, userID); err != nil {
		c.lastErr = err.Error()
		return err
	}
	c.items = nil
	c.lastErr = ""
	return nil
}

// Items returns a copy of the cached collection.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// TotalItems sums the cached quantities. Pure; never triggers network
// activity.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums price x quantity over the cached collection. Only as
// fresh as the last refresh.
func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0.0
	for _, item := range c.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// LastError returns the current error message, empty after the last
// successful call.
func (c *Cart) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Cart) requireUser() (int64, error) {
	userID, ok := c.sessions.UserID()
	if !ok {
		c.lastErr = ErrLoginRequired.Error()
		return 0, ErrLoginRequired
	}
	c.lastErr = ""
	return userID, nil
}
