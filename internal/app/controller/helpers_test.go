package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tcnr01/storefront-backend/internal/app/model"
	"github.com/tcnr01/storefront-backend/internal/app/repository"
	"github.com/tcnr01/storefront-backend/internal/app/service"
	"github.com/tcnr01/storefront-backend/internal/db"
	"github.com/tcnr01/storefront-backend/internal/middleware"
	"github.com/tcnr01/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

const testJWTSecret = "controller-test-secret"

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	auth   service.AuthService
	carts  service.CartService
}

type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (b *memoryBlacklist) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[tokenID] = true
	return nil
}

func (b *memoryBlacklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked[tokenID], nil
}

// setupControllerTest wires every controller against an in-memory database
// and mounts them the way the API router does.
func setupControllerTest(t *testing.T) *testEnv {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	wishlistRepo := repository.NewWishlistRepository(testDB)

	orderNumbers, err := util.NewOrderNumberGenerator()
	require.NoError(t, err)

	cartService := service.NewCartService(testDB, cartRepo, productRepo)
	authService := service.NewAuthService(
		userRepo,
		cartService,
		&memoryBlacklist{revoked: map[string]bool{}},
		testJWTSecret,
		15*time.Minute,
		time.Hour,
	)

	authController := NewAuthController(authService)
	productController := NewProductController(service.NewProductService(productRepo))
	cartController := NewCartController(cartService)
	orderController := NewOrderController(service.NewOrderService(testDB, orderRepo, cartRepo, orderNumbers))
	wishlistController := NewWishlistController(service.NewWishlistService(wishlistRepo, productRepo))
	healthController := NewHealthController(testDB)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.LoggingMiddleware())

	router.GET("/health", healthController.Health)

	guest := []gin.HandlerFunc{authMiddleware.OptionalAuthenticate(), middleware.ResolveIdentity()}
	member := []gin.HandlerFunc{authMiddleware.Authenticate(), middleware.ResolveIdentity()}

	router.POST("/auth/register", authController.Register)
	router.POST("/auth/login", authController.Login)
	router.POST("/auth/refresh", authController.RefreshToken)
	router.POST("/auth/logout", authMiddleware.Authenticate(), authController.Logout)
	router.GET("/auth/me", authMiddleware.Authenticate(), authController.GetMe)
	router.PUT("/auth/me", authMiddleware.Authenticate(), authController.UpdateMe)
	router.POST("/auth/change-password", authMiddleware.Authenticate(), authController.ChangePassword)

	router.GET("/products", productController.ListProducts)
	router.GET("/products/:slug", productController.GetProduct)

	cart := router.Group("/cart", guest...)
	cart.GET("", cartController.GetCart)
	cart.DELETE("", cartController.ClearCart)
	cart.POST("/items", cartController.AddToCart)
	cart.PUT("/items/:id", cartController.UpdateCartItem)
	cart.DELETE("/items/:id", cartController.RemoveCartItem)

	router.POST("/orders", append(guest, orderController.CreateOrder)...)
	router.GET("/orders", append(member, orderController.GetOrders)...)
	router.GET("/orders/:id", append(guest, orderController.GetOrder)...)

	wishlist := router.Group("/wishlist", authMiddleware.Authenticate())
	wishlist.GET("", wishlistController.GetWishlist)
	wishlist.POST("", wishlistController.AddToWishlist)
	wishlist.DELETE("/:productId", wishlistController.RemoveFromWishlist)
	wishlist.GET("/:productId/check", wishlistController.CheckWishlist)

	return &testEnv{
		db:     testDB,
		router: router,
		auth:   authService,
		carts:  cartService,
	}
}

// request sends body as JSON. headers are name/value pairs.
func (env *testEnv) request(method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func bearer(token string) string {
	return "Bearer " + token
}

// registerUser creates an account and returns its access token.
func registerUser(t *testing.T, env *testEnv, email string) string {
	t.Helper()

	tokens, err := env.auth.Register(context.Background(), service.RegisterInput{
		Email:     email,
		Password:  "secret123",
		FirstName: "Test",
		LastName:  "User",
	}, "")
	require.NoError(t, err)
	return tokens.AccessToken
}

// createTestProduct inserts a product with one color and two sizes: index 0
// with the given stock and index 1 sold out.
func createTestProduct(t *testing.T, testDB *gorm.DB, slug string, price int64, stock int) *model.Product {
	t.Helper()

	product := &model.Product{
		Slug:     slug,
		Name:     "Product " + slug,
		Subtitle: "Running",
		Price:    decimal.NewFromInt(price),
		Category: "shoes",
		Images: []model.ProductImage{
			{URL: fmt.Sprintf("https://img.example.com/%s.jpg", slug), IsMain: true},
		},
		Colors: []model.ProductColor{
			{Name: "Black", Code: "#000000"},
		},
		Sizes: []model.ProductSize{
			{Size: "US 9", Stock: stock, SortOrder: 0},
			{Size: "US 10", Stock: 0, SortOrder: 1},
		},
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func addLine(product *model.Product, quantity int) gin.H {
	return gin.H{
		"productId": product.ID,
		"colorId":   product.Colors[0].ID,
		"sizeId":    product.Sizes[0].ID,
		"quantity":  quantity,
	}
}

func assertStatus(t *testing.T, want int, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}


func jsonUnmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
