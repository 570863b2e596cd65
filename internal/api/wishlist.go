// internal/api/wishlist.go
package api

import (
	"context"
	"fmt"
)

// WishlistAPI maps the wishlist resource group onto the general API
// client. All endpoints here are auth-sensitive.
type WishlistAPI struct {
	client *Client
}

// NewWishlistAPI creates the wishlist module over the general API
// client.
func NewWishlistAPI(client *Client) *WishlistAPI {
	return &WishlistAPI{client: client}
}

// Get fetches the full wishlist collection for one user.
func (w *WishlistAPI) Get(ctx context.Context, userID int64) ([]WishlistItem, error) {
	res := w.client.Get(ctx, fmt.Sprintf("/wishlist/%d", userID), nil)
	return Into[[]WishlistItem](res)
}

// Add puts a product on the user's wishlist.
func (w *WishlistAPI) Add(ctx context.Context, userID, productID int64) (*WishlistItem, error) {
	res := w.client.Post(ctx, fmt.Sprintf("/wishlist/%d/items/%d", userID, productID), nil)
	out, err := Into[WishlistItem](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Remove takes a product off the user's wishlist.
func (w *WishlistAPI) Remove(ctx context.Context, userID, productID int64) error {
	return w.client.Delete(ctx, fmt.Sprintf("/wishlist/%d/items/%d", userID, productID)).AsError()
}

// Contains reports whether the product is on the user's wishlist.
func (w *WishlistAPI) Contains(ctx context.Context, userID, productID int64) (bool, error) {
	res := w.client.Get(ctx, fmt.Sprintf("/wishlist/%d/check/%d", userID, productID), nil)
	out, err := Into[struct {
		Exists bool `json:"exists"`
	}](res)
	if err != nil {
		return false, err
	}
	return out.Exists, nil
}

// Count fetches the server-side wishlist size.
func (w *WishlistAPI) Count(ctx context.Context, userID int64) (int, error) {
	res := w.client.Get(ctx, fmt.Sprintf("/wishlist/%d/count", userID), nil)
	out, err := Into[struct {
		Count int `json:"count"`
	}](res)
	if err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Clear empties the user's wishlist.
func (w *WishlistAPI) Clear(ctx context.Context, userID int64) error {
	return w.client.Delete(ctx, fmt.Sprintf("/wishlist/%d/clear", userID)).AsError()
}
