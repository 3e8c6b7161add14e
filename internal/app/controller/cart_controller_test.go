package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcnr01/storefront-backend/internal/middleware"
)

const testSession = "cart-session-1"

func cartItems(t *testing.T, body map[string]interface{}) []map[string]interface{} {
	t.Helper()

	raw, ok := body["items"].([]interface{})
	require.True(t, ok, "items missing from %v", body)
	items := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		items = append(items, item.(map[string]interface{}))
	}
	return items
}

func TestCartController_GetCart_IssuesSession(t *testing.T) {
	env := setupControllerTest(t)

	w := env.request(http.MethodGet, "/cart", nil)
	assertStatus(t, http.StatusOK, w)

	sessionID := w.Header().Get(middleware.SessionIDHeader)
	_, err := uuid.Parse(sessionID)
	require.NoError(t, err)

	body := decodeBody(t, w)
	assert.Equal(t, sessionID, body["sessionId"])
	assert.Empty(t, cartItems(t, body))
	assert.Equal(t, float64(0), body["subtotal"])
}

func TestCartController_AddToCart(t *testing.T) {
	env := setupControllerTest(t)
	product := createTestProduct(t, env.db, "cart-shoe", 1500, 5)

	w := env.request(http.MethodPost, "/cart/items", gin.H{
		"productId": product.ID,
		"colorId":   product.Colors[0].ID,
		"sizeId":    product.Sizes[0].ID,
	}, middleware.SessionIDHeader, testSession)
	assertStatus(t, http.StatusOK, w)
	assert.Equal(t, testSession, w.Header().Get(middleware.SessionIDHeader))

	body := decodeBody(t, w)
	items := cartItems(t, body)
	require.Len(t, items, 1)
	assert.Equal(t, float64(1), items[0]["quantity"])
	assert.Equal(t, "Black", items[0]["colorName"])
	assert.Equal(t, "US 9", items[0]["size"])
	assert.Equal(t, "https://img.example.com/cart-shoe.jpg", items[0]["productImage"])

	w = env.request(http.MethodPost, "/cart/items", addLine(product, 2), middleware.SessionIDHeader, testSession)
	assertStatus(t, http.StatusOK, w)

	body = decodeBody(t, w)
	items = cartItems(t, body)
	require.Len(t, items, 1)
	assert.Equal(t, float64(3), items[0]["quantity"])
	assert.Equal(t, float64(3), body["itemCount"])
	assert.Equal(t, float64(4500), body["subtotal"])
}

func TestCartController_AddToCart_Rejections(t *testing.T) {
	env := setupControllerTest(t)
	product := createTestProduct(t, env.db, "reject-shoe", 1500, 2)
	other := createTestProduct(t, env.db, "other-shoe", 1500, 2)

	tests := []struct {
		name        string
		body        gin.H
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "unknown product",
			body:        gin.H{"productId": 9999, "colorId": product.Colors[0].ID, "sizeId": product.Sizes[0].ID},
			wantStatus:  http.StatusNotFound,
			wantCode:    "PRODUCT_NOT_FOUND",
			wantMessage: "Product not found",
		},
		{
			name:        "size of another product",
			body:        gin.H{"productId": product.ID, "colorId": product.Colors[0].ID, "sizeId": other.Sizes[0].ID},
			wantStatus:  http.StatusNotFound,
			wantCode:    "PRODUCT_SIZE_NOT_FOUND",
			wantMessage: "Size not found",
		},
		{
			name:        "color of another product",
			body:        gin.H{"productId": product.ID, "colorId": other.Colors[0].ID, "sizeId": product.Sizes[0].ID},
			wantStatus:  http.StatusNotFound,
			wantCode:    "PRODUCT_COLOR_NOT_FOUND",
			wantMessage: "Color not found",
		},
		{
			name:        "sold out size",
			body:        gin.H{"productId": product.ID, "colorId": product.Colors[0].ID, "sizeId": product.Sizes[1].ID},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "CART_OUT_OF_STOCK",
			wantMessage: "Product size is out of stock",
		},
		{
			name:        "more than stock",
			body:        addLine(product, 3),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "CART_OUT_OF_STOCK",
			wantMessage: "Product size is out of stock",
		},
		{
			name:       "quantity above limit",
			body:       addLine(product, 11),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_INVALID_RANGE",
		},
		{
			name:       "zero quantity",
			body:       addLine(product, 0),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_INVALID_RANGE",
		},
		{
			name:       "missing size",
			body:       gin.H{"productId": product.ID, "colorId": product.Colors[0].ID},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.request(http.MethodPost, "/cart/items", tt.body, middleware.SessionIDHeader, testSession)
			assertStatus(t, tt.wantStatus, w)

			body := decodeBody(t, w)
			assert.Equal(t, tt.wantCode, body["error"])
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body["message"])
			}
		})
	}
}

func TestCartController_UpdateAndRemove(t *testing.T) {
	env := setupControllerTest(t)
	product := createTestProduct(t, env.db, "update-shoe", 1000, 8)

	w := env.request(http.MethodPost, "/cart/items", addLine(product, 1), middleware.SessionIDHeader, testSession)
	assertStatus(t, http.StatusOK, w)
	itemID := uint(cartItems(t, decodeBody(t, w))[0]["id"].(float64))
	path := fmt.Sprintf("/cart/items/%d", itemID)

	w = env.request(http.MethodPut, path, gin.H{"quantity": 4}, middleware.SessionIDHeader, testSession)
	assertStatus(t, http.StatusOK, w)
	assert.Equal(t, float64(4), cartItems(t, decodeBody(t, w))[0]["quantity"])

	w = env.request(http.MethodPut, path, gin.H{"quantity": 9}, middleware.SessionIDHeader, testSession)
	assertStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "CART_OUT_OF_STOCK", decodeBody(t, w)["error"])

	w = env.request(http.MethodPut, path, gin.H{}, middleware.SessionIDHeader, testSession)
	assertStatus(t, http.StatusBadRequest, w)

	// another session cannot see the line
	w = env.request(http.MethodPut, path, gin.H{"quantity": 2}, middleware.SessionIDHeader, "intruder")
	assertStatus(t, http.StatusNotFound, w)
	assert.Equal(t, "Cart item not found", decodeBody(t, w)["message"])

	w = env.request(http.MethodPut, path, gin.H{"quantity": 0}, middleware.SessionIDHeader, testSession)
	assertStatus(t, http.StatusOK, w)
	assert.Empty(t, cartItems(t, decodeBody(t, w)))

	w = env.request(http.MethodDelete, path, nil, middleware.SessionIDHeader, testSession)
	assertStatus(t, http.StatusNotFound, w)

	w = env.request(http.MethodDelete, "/cart/items/abc", nil, middleware.SessionIDHeader, testSession)
	assertStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "VALIDATION_INVALID_ID", decodeBody(t, w)["error"])
}

func TestCartController_ClearCart(t *testing.T) {
	env := setupControllerTest(t)
	first := createTestProduct(t, env.db, "clear-a", 1000, 5)
	second := createTestProduct(t, env.db, "clear-b", 1000, 5)

	assertStatus(t, http.StatusOK, env.request(http.MethodPost, "/cart/items", addLine(first, 1), middleware.SessionIDHeader, testSession))
	assertStatus(t, http.StatusOK, env.request(http.MethodPost, "/cart/items", addLine(second, 2), middleware.SessionIDHeader, testSession))

	w := env.request(http.MethodDelete, "/cart", nil, middleware.SessionIDHeader, testSession)
	assertStatus(t, http.StatusOK, w)

	body := decodeBody(t, w)
	assert.Empty(t, cartItems(t, body))
	assert.Equal(t, float64(0), body["itemCount"])
}

func TestCartController_AuthenticatedCart(t *testing.T) {
	env := setupControllerTest(t)
	product := createTestProduct(t, env.db, "member-shoe", 1000, 5)
	token := registerUser(t, env, "cart@example.com")

	w := env.request(http.MethodPost, "/cart/items", addLine(product, 2),
		"Authorization", bearer(token),
		middleware.SessionIDHeader, testSession,
	)
	assertStatus(t, http.StatusOK, w)
	assert.Empty(t, w.Header().Get(middleware.SessionIDHeader))

	// the session's own cart is untouched
	w = env.request(http.MethodGet, "/cart", nil, middleware.SessionIDHeader, testSession)
	assertStatus(t, http.StatusOK, w)
	assert.Empty(t, cartItems(t, decodeBody(t, w)))

	// an expired or malformed token falls back to the session
	w = env.request(http.MethodGet, "/cart", nil, "Authorization", "Bearer broken", middleware.SessionIDHeader, testSession)
	assertStatus(t, http.StatusOK, w)
	assert.Equal(t, testSession, decodeBody(t, w)["sessionId"])
}
