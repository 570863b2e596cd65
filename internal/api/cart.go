// internal/api/cart.go
package api

import (
	"context"
	"fmt"
)

// CartAPI maps the cart resource group onto the general API client.
// All endpoints here are auth-sensitive; the client attaches the
// bearer token automatically.
type CartAPI struct {
	client *Client
}

// NewCartAPI creates the cart module over the general API client.
func NewCartAPI(client *Client) *CartAPI {
	return &CartAPI{client: client}
}

// Get fetches the full cart collection for one user.
func (c *CartAPI) Get(ctx context.Context, userID int64) ([]CartItem, error) {
	res := c.client.Get(ctx, fmt.Sprintf("/cart/%d", userID), nil)
	return Into[[]CartItem](res)
}

// AddItem adds a product to the user's cart.
func (c *CartAPI) AddItem(ctx context.Context, userID, productID int64, quantity int) (*CartItem, error) {
	res := c.client.Post(ctx, fmt.Sprintf("/cart/%d/items", userID), AddCartItemRequest{
		ProductID: productID,
		Quantity:  quantity,
	})
	out, err := Into[CartItem](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateQuantity sets the quantity of one cart item.
func (c *CartAPI) UpdateQuantity(ctx context.Context, cartItemID int64, quantity int) (*CartItem, error) {
	res := c.client.Put(ctx, fmt.Sprintf("/cart/items/%d", cartItemID), UpdateQuantityRequest{
		Quantity: quantity,
	})
	out, err := Into[CartItem](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveItem deletes one cart item.
func (c *CartAPI) RemoveItem(ctx context.Context, cartItemID int64) error {
	return c.client.Delete(ctx, fmt.Sprintf("/cart/items/%d", cartItemID)).AsError()
}

// Clear empties the user's cart.
func (c *CartAPI) Clear(ctx context.Context, userID int64) error {
	return c.client.Delete(ctx, fmt.Sprintf("/cart/%d/clear", userID)).AsError()
}

// Count fetches the server-side item count.
func (c *CartAPI) Count(ctx context.Context, userID int64) (*CartSummary, error) {
	res := c.client.Get(ctx, fmt.Sprintf("/cart/%d/count", userID), nil)
	out, err := Into[CartSummary](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Total fetches the server-side cart total.
func (c *CartAPI) Total(ctx context.Context, userID int64) (*CartSummary, error) {
	res := c.client.Get(ctx, fmt.Sprintf("/cart/%d/total", userID), nil)
	out, err := Into[CartSummary](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
