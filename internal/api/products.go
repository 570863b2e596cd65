// internal/api/products.go
package api

import (
	"context"
	"fmt"
	"strconv"
)

// ProductListOptions are the query parameters accepted by the product
// listing endpoints. Zero values are omitted from the query string.
type ProductListOptions struct {
	Page       int
	Size       int
	SortBy     string
	SortDir    string
	Search     string
	CategoryID int64
	Brand      string
	ActiveOnly bool
}

func (o ProductListOptions) params() map[string]string {
	params := make(map[string]string)
	if o.Page > 0 {
		params["page"] = strconv.Itoa(o.Page)
	}
	if o.Size > 0 {
		params["size"] = strconv.Itoa(o.Size)
	}
	if o.SortBy != "" {
		params["sortBy"] = o.SortBy
	}
	if o.SortDir != "" {
		params["sortDir"] = o.SortDir
	}
	if o.Search != "" {
		params["search"] = o.Search
	}
	if o.CategoryID > 0 {
		params["categoryId"] = strconv.FormatInt(o.CategoryID, 10)
	}
	if o.Brand != "" {
		params["brand"] = o.Brand
	}
	if o.ActiveOnly {
		params["activeOnly"] = "true"
	}
	return params
}

// ProductsAPI maps the catalog resource group onto the general API
// client. The client never mutates these entities.
type ProductsAPI struct {
	client *Client
}

// NewProductsAPI creates the products module over the general API
// client.
func NewProductsAPI(client *Client) *ProductsAPI {
	return &ProductsAPI{client: client}
}

// List fetches a page of products.
func (p *ProductsAPI) List(ctx context.Context, opts ProductListOptions) (*ProductPage, error) {
	res := p.client.Get(ctx, "/products", opts.params())
	out, err := Into[ProductPage](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches one product by id.
func (p *ProductsAPI) Get(ctx context.Context, id int64) (*Product, error) {
	res := p.client.Get(ctx, fmt.Sprintf("/products/%d", id), nil)
	out, err := Into[Product](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Search runs a keyword search over the catalog.
func (p *ProductsAPI) Search(ctx context.Context, keyword string, page, size int) (*SearchResult, error) {
	params := map[string]string{
		"keyword": keyword,
		"page":    strconv.Itoa(page),
		"size":    strconv.Itoa(size),
	}
	res := p.client.Get(ctx, "/products/search", params)
	out, err := Into[SearchResult](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ByCategory fetches a page of products belonging to one category.
func (p *ProductsAPI) ByCategory(ctx context.Context, categoryID int64, opts ProductListOptions) (*CategoryProducts, error) {
	res := p.client.Get(ctx, fmt.Sprintf("/products/category/%d", categoryID), opts.params())
	out, err := Into[CategoryProducts](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Related fetches products related to the given one.
func (p *ProductsAPI) Related(ctx context.Context, productID int64, limit int) (*RelatedProducts, error) {
	params := map[string]string{"limit": strconv.Itoa(limit)}
	res := p.client.Get(ctx, fmt.Sprintf("/products/%d/related", productID), params)
	out, err := Into[RelatedProducts](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Images fetches the image collection of one product.
func (p *ProductsAPI) Images(ctx context.Context, productID int64) (*ProductImages, error) {
	res := p.client.Get(ctx, fmt.Sprintf("/products/%d/images", productID), nil)
	out, err := Into[ProductImages](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CategoriesAPI maps the category resource group onto the general API
// client.
type CategoriesAPI struct {
	client *Client
}

// NewCategoriesAPI creates the categories module over the general API
// client.
func NewCategoriesAPI(client *Client) *CategoriesAPI {
	return &CategoriesAPI{client: client}
}

// List fetches all categories.
func (c *CategoriesAPI) List(ctx context.Context) (*CategoryList, error) {
	res := c.client.Get(ctx, "/categories", nil)
	out, err := Into[CategoryList](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches one category by id.
func (c *CategoriesAPI) Get(ctx context.Context, id int64) (*Category, error) {
	res := c.client.Get(ctx, fmt.Sprintf("/categories/%d", id), nil)
	out, err := Into[Category](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Root fetches the top-level category tree.
func (c *CategoriesAPI) Root(ctx context.Context) (*CategoryList, error) {
	res := c.client.Get(ctx, "/categories/root", nil)
	out, err := Into[CategoryList](res)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
