// internal/api/apitest/server.go
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/your-org/storefront-client/internal/api"
	"github.com/your-org/storefront-client/internal/pkg/token"
)

// Server is an in-process stand-in for the storefront backend. It
// serves every endpoint the client consumes against in-memory maps
// and counts requests per path so tests can assert on network
// activity.
type Server struct {
	*httptest.Server

	secret []byte

	mu        sync.Mutex
	nextID    int64
	users     map[string]*userRecord
	products  map[int64]api.Product
	cart      map[int64]*cartRecord
	wishlist  map[int64]*wishlistRecord
	requests  map[string]int
	resetSeq  int
}

type userRecord struct {
	ID                  int64
	Email               string
	Username            string
	Name                string
	Phone               string
	Address             string
	Gender              string
	PasswordHash        []byte
	EmailVerified       bool
	VerifiedAt          string
	CreatedAt           string
	ChecksUntilVerified int
	ResetToken          string
}

type cartRecord struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int
	CreatedAt string
}

type wishlistRecord struct {
	ID        int64
	UserID    int64
	ProductID int64
	CreatedAt string
}

// New starts a stub backend. The general API lives under /api, the
// auth service under /auth, matching the client's two base URLs.
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		secret:   []byte("apitest-signing-secret"),
		users:    make(map[string]*userRecord),
		products: make(map[int64]api.Product),
		cart:     make(map[int64]*cartRecord),
		wishlist: make(map[int64]*wishlistRecord),
		requests: make(map[string]int),
	}

	engine := gin.New()
	engine.Use(s.countRequests)

	auth := engine.Group("/auth")
	{
		auth.POST("/email-verification", s.emailVerification)
		auth.GET("/verification-status", s.verificationStatus)
		auth.POST("/resend-verification", s.resendVerification)
		auth.POST("/complete-registration", s.completeRegistration)
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)
		auth.GET("/user-info", s.userInfo)
		auth.GET("/profile", s.getProfile)
		auth.POST("/profile", s.updateProfile)
		auth.POST("/password/change", s.changePassword)
		auth.POST("/password/reset-request", s.passwordResetRequest)
		auth.POST("/password/reset-confirm", s.passwordResetConfirm)
	}

	apiGroup := engine.Group("/api")
	{
		apiGroup.GET("/products", s.listProducts)
		apiGroup.GET("/products/search", s.searchProducts)
		apiGroup.GET("/products/:id", s.getProduct)
		apiGroup.GET("/products/:id/related", s.relatedProducts)
		apiGroup.GET("/products/:id/images", s.productImages)
		apiGroup.GET("/products/category/:categoryId", s.productsByCategory)
		apiGroup.GET("/categories", s.listCategories)
		apiGroup.GET("/categories/root", s.listCategories)
		apiGroup.GET("/categories/:id", s.getCategory)

		apiGroup.GET("/cart/:userId", s.getCart)
		apiGroup.POST("/cart/:userId/items", s.addCartItem)
		apiGroup.GET("/cart/:userId/count", s.cartCount)
		apiGroup.GET("/cart/:userId/total", s.cartTotal)
		apiGroup.DELETE("/cart/:userId/clear", s.clearCart)
		apiGroup.PUT("/cart/items/:itemId", s.updateCartItem)
		apiGroup.DELETE("/cart/items/:itemId", s.removeCartItem)

		apiGroup.GET("/wishlist/:userId", s.getWishlist)
		apiGroup.POST("/wishlist/:userId/items/:productId", s.addWishlistItem)
		apiGroup.DELETE("/wishlist/:userId/items/:productId", s.removeWishlistItem)
		apiGroup.GET("/wishlist/:userId/check/:productId", s.checkWishlistItem)
		apiGroup.GET("/wishlist/:userId/count", s.wishlistCount)
		apiGroup.DELETE("/wishlist/:userId/clear", s.clearWishlist)
	}

	s.Server = httptest.NewServer(engine)
	return s
}

// APIURL returns the general API base URL.
func (s *Server) APIURL() string { return s.URL + "/api" }

// AuthURL returns the auth service base URL.
func (s *Server) AuthURL() string { return s.URL + "/auth" }

func (s *Server) countRequests(c *gin.Context) {
	s.mu.Lock()
	s.requests[c.Request.Method+" "+c.Request.URL.Path]++
	s.mu.Unlock()
	c.Next()
}

// RequestCount returns how many requests hit paths containing the
// given fragment. An empty fragment counts everything.
func (s *Server) RequestCount(fragment string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for key, n := range s.requests {
		if fragment == "" || strings.Contains(key, fragment) {
			total += n
		}
	}
	return total
}

// test fixtures and hooks

// SeedProduct registers a catalog product.
func (s *Server) SeedProduct(p api.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.products[p.ID] = p
}

// SeedUser registers a verified account and returns its id.
func (s *Server) SeedUser(email, password, name string) int64 {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &userRecord{
		ID:            s.id(),
		Email:         email,
		Username:      email,
		Name:          name,
		PasswordHash:  hash,
		EmailVerified: true,
		VerifiedAt:    time.Now().UTC().Format(time.RFC3339),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	s.users[email] = u
	return u.ID
}

// MarkVerified flips a pending registration to verified.
func (s *Server) MarkVerified(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[email]; ok {
		u.EmailVerified = true
		u.VerifiedAt = time.Now().UTC().Format(time.RFC3339)
	}
}

// VerifyAfterChecks makes the verification-status endpoint report
// verified=true starting with the (checks+1)-th status request.
func (s *Server) VerifyAfterChecks(email string, checks int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[email]; ok {
		u.ChecksUntilVerified = checks
	}
}

// IssueToken signs a bearer token the way the login endpoint does.
func (s *Server) IssueToken(userID int64, email, username, name string, ttl time.Duration) string {
	claims := &token.Claims{
		Email:    email,
		Username: username,
		Name:     name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return token
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// auth handlers

func (s *Server) emailVerification(c *gin.Context) {
	var req api.EmailVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and name are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[req.Email]; ok && u.PasswordHash != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "email already registered"})
		return
	}
	s.users[req.Email] = &userRecord{
		ID:        s.id(),
		Email:     req.Email,
		Username:  req.Email,
		Name:      req.Name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "verification email sent"})
}

func (s *Server) verificationStatus(c *gin.Context) {
	email := c.Query("email")

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "unknown email"})
		return
	}
	if !u.EmailVerified && u.ChecksUntilVerified > 0 {
		u.ChecksUntilVerified--
		if u.ChecksUntilVerified == 0 {
			u.EmailVerified = true
			u.VerifiedAt = time.Now().UTC().Format(time.RFC3339)
		}
	}
	c.JSON(http.StatusOK, api.EmailVerificationStatus{
		Email:      u.Email,
		Verified:   u.EmailVerified,
		VerifiedAt: u.VerifiedAt,
	})
}

func (s *Server) resendVerification(c *gin.Context) {
	email := c.PostForm("email")

	s.mu.Lock()
	_, ok := s.users[email]
	s.mu.Unlock()
	if !ok {
		c.String(http.StatusNotFound, "unknown email")
		return
	}
	c.String(http.StatusOK, "verification email resent")
}

func (s *Server) completeRegistration(c *gin.Context) {
	var req api.CompleteRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request data"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[req.Email]
	if !ok || !u.EmailVerified {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email not verified"})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to hash password"})
		return
	}
	u.PasswordHash = hash
	if req.Name != "" {
		u.Name = req.Name
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "registration completed"})
}

func (s *Server) register(c *gin.Context) {
	var req api.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request data"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[req.Email]; ok && u.PasswordHash != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "email already registered"})
		return
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	u := &userRecord{
		ID:            s.id(),
		Email:         req.Email,
		Username:      req.Username,
		Name:          req.Name,
		Phone:         req.Phone,
		Address:       req.Address,
		Gender:        req.Gender,
		PasswordHash:  hash,
		EmailVerified: true,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	s.users[req.Email] = u
	c.JSON(http.StatusCreated, api.SignUpResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		Success:   true,
		Message:   "registered",
	})
}

func (s *Server) login(c *gin.Context) {
	var req api.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request data"})
		return
	}

	s.mu.Lock()
	var u *userRecord
	for _, candidate := range s.users {
		if candidate.Email == req.EmailOrUsername || candidate.Username == req.EmailOrUsername {
			u = candidate
			break
		}
	}
	s.mu.Unlock()

	if u == nil || u.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}

	ttl := 24 * time.Hour
	c.JSON(http.StatusOK, api.SignInResponse{
		AccessToken: s.IssueToken(u.ID, u.Email, u.Username, u.Name, ttl),
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
		UserID:      u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Name:        u.Name,
	})
}

func (s *Server) userInfo(c *gin.Context) {
	email := c.Query("email")

	s.mu.Lock()
	u, ok := s.users[email]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "unknown email"})
		return
	}
	c.JSON(http.StatusOK, api.UserInfo{Email: u.Email, Name: u.Name, EmailVerified: u.EmailVerified})
}

func (s *Server) getProfile(c *gin.Context) {
	u, ok := s.authenticate(c)
	if !ok {
		return
	}
	// nested envelope on purpose: the real profile API wraps its data
	c.JSON(http.StatusOK, gin.H{"success": true, "data": s.profileOf(u)})
}

func (s *Server) updateProfile(c *gin.Context) {
	u, ok := s.authenticate(c)
	if !ok {
		return
	}
	var update api.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request data"})
		return
	}

	s.mu.Lock()
	if update.Name != "" {
		u.Name = update.Name
	}
	if update.Phone != "" {
		u.Phone = update.Phone
	}
	if update.Address != "" {
		u.Address = update.Address
	}
	if update.Gender != "" {
		u.Gender = update.Gender
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"success": true, "data": s.profileOf(u)})
}

func (s *Server) profileOf(u *userRecord) api.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return api.UserProfile{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		Name:          u.Name,
		Phone:         u.Phone,
		Address:       u.Address,
		Gender:        u.Gender,
		EmailVerified: u.EmailVerified,
		Active:        true,
		CreatedAt:     u.CreatedAt,
	}
}

func (s *Server) changePassword(c *gin.Context) {
	u, ok := s.authenticate(c)
	if !ok {
		return
	}
	var req api.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request data")
		return
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.CurrentPassword)) != nil {
		c.String(http.StatusUnauthorized, "current password is wrong")
		return
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.MinCost)
	s.mu.Lock()
	u.PasswordHash = hash
	s.mu.Unlock()
	c.String(http.StatusOK, "password changed")
}

func (s *Server) passwordResetRequest(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		return
	}
	var req api.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request data")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[req.Email]
	if !ok {
		c.String(http.StatusNotFound, "unknown email")
		return
	}
	s.resetSeq++
	u.ResetToken = fmt.Sprintf("reset-%d", s.resetSeq)
	c.String(http.StatusOK, u.ResetToken)
}

func (s *Server) passwordResetConfirm(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		return
	}
	var req api.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request data")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ResetToken != "" && u.ResetToken == req.Token {
			hash, _ := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.MinCost)
			u.PasswordHash = hash
			u.ResetToken = ""
			c.String(http.StatusOK, "password reset")
			return
		}
	}
	c.String(http.StatusBadRequest, "invalid reset token")
}

func (s *Server) authenticate(c *gin.Context) (*userRecord, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
		return nil, false
	}
	claims := &token.Claims{}
	_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[claims.Email]
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unknown user"})
		return nil, false
	}
	return u, true
}

// catalog handlers

func (s *Server) allProducts() []api.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out
}

func (s *Server) listProducts(c *gin.Context) {
	products := s.allProducts()
	c.JSON(http.StatusOK, api.ProductPage{
		Products:      products,
		CurrentPage:   0,
		TotalPages:    1,
		TotalElements: int64(len(products)),
		Size:          len(products),
	})
}

func (s *Server) searchProducts(c *gin.Context) {
	keyword := strings.ToLower(c.Query("keyword"))
	var matched []api.Product
	for _, p := range s.allProducts() {
		if strings.Contains(strings.ToLower(p.Name), keyword) {
			matched = append(matched, p)
		}
	}
	c.JSON(http.StatusOK, api.SearchResult{
		Keyword:       c.Query("keyword"),
		Products:      matched,
		TotalElements: int64(len(matched)),
	})
}

func (s *Server) getProduct(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	s.mu.Lock()
	p, ok := s.products[id]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) relatedProducts(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	var related []api.Product
	for _, p := range s.allProducts() {
		if p.ID != id {
			related = append(related, p)
		}
	}
	c.JSON(http.StatusOK, api.RelatedProducts{ProductID: id, RelatedProducts: related})
}

func (s *Server) productImages(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	s.mu.Lock()
	p, ok := s.products[id]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	c.JSON(http.StatusOK, api.ProductImages{ProductID: id, Images: p.Images})
}

func (s *Server) productsByCategory(c *gin.Context) {
	categoryID, _ := strconv.ParseInt(c.Param("categoryId"), 10, 64)
	var matched []api.Product
	var category api.Category
	for _, p := range s.allProducts() {
		if p.Category != nil && p.Category.ID == categoryID {
			matched = append(matched, p)
			category = *p.Category
		}
	}
	c.JSON(http.StatusOK, api.CategoryProducts{
		Category:      category,
		Products:      matched,
		TotalPages:    1,
		TotalElements: int64(len(matched)),
	})
}

func (s *Server) listCategories(c *gin.Context) {
	seen := make(map[int64]bool)
	var categories []api.Category
	for _, p := range s.allProducts() {
		if p.Category != nil && !seen[p.Category.ID] {
			seen[p.Category.ID] = true
			categories = append(categories, *p.Category)
		}
	}
	c.JSON(http.StatusOK, api.CategoryList{Categories: categories})
}

func (s *Server) getCategory(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	for _, p := range s.allProducts() {
		if p.Category != nil && p.Category.ID == id {
			c.JSON(http.StatusOK, *p.Category)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
}

// cart handlers

func (s *Server) cartItemResponse(rec *cartRecord) api.CartItem {
	return api.CartItem{
		ID:        rec.ID,
		Product:   s.products[rec.ProductID],
		Quantity:  rec.Quantity,
		CreatedAt: rec.CreatedAt,
	}
}

func (s *Server) getCart(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		return
	}
	userID, _ := strconv.ParseInt(c.Param("userId"), 10, 64)

	s.mu.Lock()
	items := make([]api.CartItem, 0)
	for _, rec := range s.cart {
		if rec.UserID == userID {
			items = append(items, s.cartItemResponse(rec))
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, items)
}

func (s *Server) addCartItem(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		return
	}
	userID, _ := strconv.ParseInt(c.Param("userId"), 10, 64)
	var req api.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request data"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[req.ProductID]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	for _, rec := range s.cart {
		if rec.UserID == userID && rec.ProductID == req.ProductID {
			rec.Quantity += req.Quantity
			c.JSON(http.StatusOK, s.cartItemResponse(rec))
			return
		}
	}
	rec := &cartRecord{
		ID:        s.id(),
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	s.cart[rec.ID] = rec
	c.JSON(http.StatusCreated, s.cartItemResponse(rec))
}

func (s *Server) updateCartItem(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		return
	}
	itemID, _ := strconv.ParseInt(c.Param("itemId"), 10, 64)
	var req api.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request data"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.cart[itemID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "cart item not found"})
		return
	}
	if req.Quantity <= 0 {
		delete(s.cart, itemID)
		c.JSON(http.StatusOK, gin.H{"message": "cart item removed"})
		return
	}
	rec.Quantity = req.Quantity
	c.JSON(http.StatusOK, s.cartItemResponse(rec))
}

func (s *Server) removeCartItem(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		return
	}
	itemID, _ := strconv.ParseInt(c.Param("itemId"), 10, 64)

	s.mu.Lock()
	delete(s.cart, itemID)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "cart item removed"})
}

func (s *Server) clearCart(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		return
	}
	userID, _ := strconv.ParseInt(c.Param("userId"), 10, 64)

	s.mu.Lock()
	for id, rec := range s.cart {
		if rec.UserID == userID {
			delete(s.cart, id)
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

func (s *Server) cartCount(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		return
	}
	userID, _ := strconv.ParseInt(c.Param("userId"), 10, 64)

	s.mu.Lock()
	count := 0
	for _, rec := range s.cart {
		if rec.UserID == userID {
			count += rec.Quantity
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, api.CartSummary{Count: count})
}

func (s *Server) cartTotal(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		return
	}
	userID, _ := strconv.ParseInt(c.Param("userId"), 10, 64)

	s.mu.Lock()
	total := 0.0
	count := 0
	for _, rec := range s.cart {
		if rec.UserID == userID {
			p := s.products[rec.ProductID]
			total += p.UnitPrice() * float64(rec.Quantity)
			count += rec.Quantity
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, api.CartSummary{Count: count, Total: total})
}

// wishlist handlers

func (s *Server) getWishlist(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		return
	}
	userID, _ := strconv.ParseInt(c.Param("userId"), 10, 64)

	s.mu.Lock()
	items := make([]api.WishlistItem, 0)
	for _, rec := range s.wishlist {
		if rec.UserID == userID {
			items = append(items, api.WishlistItem{
				ID:        rec.ID,
				Product:   s.products[rec.ProductID],
				CreatedAt: rec.CreatedAt,
			})
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, items)
}

func (s *Server) addWishlistItem(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		return
	}
	userID, _ := strconv.ParseInt(c.Param("userId"), 10, 64)
	productID, _ := strconv.ParseInt(c.Param("productId"), 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	for _, rec := range s.wishlist {
		if rec.UserID == userID && rec.ProductID == productID {
			c.JSON(http.StatusConflict, gin.H{"message": "already on wishlist"})
			return
		}
	}
	rec := &wishlistRecord{
		ID:        s.id(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	s.wishlist[rec.ID] = rec
	c.JSON(http.StatusCreated, api.WishlistItem{
		ID:        rec.ID,
		Product:   s.products[productID],
		CreatedAt: rec.CreatedAt,
	})
}

func (s *Server) removeWishlistItem(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		return
	}
	userID, _ := strconv.ParseInt(c.Param("userId"), 10, 64)
	productID, _ := strconv.ParseInt(c.Param("productId"), 10, 64)

	s.mu.Lock()
	for id, rec := range s.wishlist {
		if rec.UserID == userID && rec.ProductID == productID {
			delete(s.wishlist, id)
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "wishlist item removed"})
}

func (s *Server) checkWishlistItem(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		return
	}
	userID, _ := strconv.ParseInt(c.Param("userId"), 10, 64)
	productID, _ := strconv.ParseInt(c.Param("productId"), 10, 64)

	s.mu.Lock()
	exists := false
	for _, rec := range s.wishlist {
		if rec.UserID == userID && rec.ProductID == productID {
			exists = true
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (s *Server) wishlistCount(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		return
	}
	userID, _ := strconv.ParseInt(c.Param("userId"), 10, 64)

	s.mu.Lock()
	count := 0
	for _, rec := range s.wishlist {
		if rec.UserID == userID {
			count++
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (s *Server) clearWishlist(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		return
	}
	userID, _ := strconv.ParseInt(c.Param("userId"), 10, 64)

	s.mu.Lock()
	for id, rec := range s.wishlist {
		if rec.UserID == userID {
			delete(s.wishlist, id)
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "wishlist cleared"})
}
