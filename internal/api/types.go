// internal/api/types.go
package api

// Product is the read-only catalog entity as served by the backend.
// Timestamps stay strings: the backend emits zone-less ISO timestamps
// the client only ever displays.
type Product struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Price         *float64       `json:"price"`
	MemberPrice   *float64       `json:"memberPrice,omitempty"`
	OriginalPrice *float64       `json:"originalPrice,omitempty"`
	StockQuantity *int           `json:"stockQuantity"`
	Status        string         `json:"status,omitempty"`
	IsActive      bool           `json:"isActive"`
	Featured      bool           `json:"featured"`
	Bestseller    bool           `json:"bestseller"`
	NewArrival    bool           `json:"newArrival"`
	Brand         string         `json:"brand,omitempty"`
	SKU           string         `json:"sku,omitempty"`
	CreatedAt     string         `json:"createdAt,omitempty"`
	UpdatedAt     string         `json:"updatedAt,omitempty"`
	Category      *Category      `json:"category"`
	MainImage     *ProductImage  `json:"mainImage,omitempty"`
	Images        []ProductImage `json:"images,omitempty"`
	Discount      *Discount      `json:"discount,omitempty"`
}

// UnitPrice returns the effective price, zero when the backend sent
// none.
func (p *Product) UnitPrice() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

// DiscountRate returns the discount percentage, zero when no discount
// applies.
func (p *Product) DiscountRate() float64 {
	if p.Discount == nil {
		return 0
	}
	return p.Discount.Rate
}

// Discount carries the pricing extras attached to a discounted
// product.
type Discount struct {
	Amount float64 `json:"amount"`
	Rate   float64 `json:"rate"`
}

// Category is a catalog category node.
type Category struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	ParentID     *int64     `json:"parentId,omitempty"`
	ParentName   string     `json:"parentName,omitempty"`
	Children     []Category `json:"children,omitempty"`
	ProductCount *int       `json:"productCount,omitempty"`
}

// ProductImage is one image of a product.
type ProductImage struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	IsMain    bool   `json:"isMain"`
	SortOrder int    `json:"sortOrder"`
}

// ProductPage is a paged product collection.
type ProductPage struct {
	Products      []Product `json:"products"`
	CurrentPage   int       `json:"currentPage"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int64     `json:"totalElements"`
	Size          int       `json:"size"`
	HasNext       bool      `json:"hasNext"`
	HasPrevious   bool      `json:"hasPrevious"`
}

// SearchResult is the product search response.
type SearchResult struct {
	Keyword       string    `json:"keyword"`
	Products      []Product `json:"products"`
	TotalElements int64     `json:"totalElements"`
}

// CategoryProducts is the paged per-category product collection.
type CategoryProducts struct {
	Category      Category  `json:"category"`
	Products      []Product `json:"products"`
	CurrentPage   int       `json:"currentPage"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int64     `json:"totalElements"`
}

// RelatedProducts is the related-products response.
type RelatedProducts struct {
	ProductID       int64     `json:"productId"`
	RelatedProducts []Product `json:"relatedProducts"`
}

// CategoryList is the category collection response.
type CategoryList struct {
	Categories []Category `json:"categories"`
}

// ProductImages is the per-product image collection response.
type ProductImages struct {
	ProductID int64          `json:"productId"`
	Images    []ProductImage `json:"images"`
}

// EmailVerificationRequest starts the sign-up funnel.
type EmailVerificationRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// EmailVerificationStatus is the transient poll result; it is never
// cached beyond the current check.
type EmailVerificationStatus struct {
	Email      string `json:"email"`
	Verified   bool   `json:"verified"`
	VerifiedAt string `json:"verifiedAt,omitempty"`
}

// CompleteRegistrationRequest finishes the sign-up funnel after the
// email is verified.
type CompleteRegistrationRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SignUpRequest is the legacy single-shot registration request.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

// SignUpResponse is the legacy registration response.
type SignUpResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
}

// SignInRequest is the login request body.
type SignInRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

// SignInResponse is the login response.
type SignInResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
	UserID      int64  `json:"userId"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Name        string `json:"name"`
}

// UserInfo is the public identity lookup response.
type UserInfo struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"emailVerified"`
}

// UserProfile is the authenticated profile entity.
type UserProfile struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	Gender        string `json:"gender,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
	Active        bool   `json:"active"`
	CreatedAt     string `json:"createdAt"`
	LastLoginAt   string `json:"lastLoginAt,omitempty"`
}

// ProfileUpdate is the partial profile mutation; empty fields are
// left untouched server-side.
type ProfileUpdate struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Gender  string `json:"gender,omitempty"`
}

// ChangePasswordRequest changes the signed-in user's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// PasswordResetRequest starts a password reset.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest completes a password reset.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// CartItem is the server-owned cart entry.
type CartItem struct {
	ID        int64   `json:"id"`
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	CreatedAt string  `json:"createdAt"`
}

// AddCartItemRequest adds a product to the cart.
type AddCartItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// UpdateQuantityRequest mutates a cart item's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartSummary is the server-computed count/total supplement.
type CartSummary struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// WishlistItem is the server-owned wishlist entry.
type WishlistItem struct {
	ID        int64   `json:"id"`
	Product   Product `json:"product"`
	CreatedAt string  `json:"createdAt"`
}
