package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tcnr01/storefront-backend/internal/app/service"
	apperrors "github.com/tcnr01/storefront-backend/internal/errors"
	"github.com/tcnr01/storefront-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	ColorID   uint `json:"colorId" binding:"required"`
	SizeID    uint `json:"sizeId" binding:"required"`
	Quantity  *int `json:"quantity"`
}

type UpdateCartRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// respondCartError maps cart service failures onto the error envelope.
func respondCartError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrSizeNotFound):
		apperrors.NotFound(c, apperrors.ProductSizeNotFound, "Size not found")
	case errors.Is(err, service.ErrColorNotFound):
		apperrors.NotFound(c, apperrors.ProductColorNotFound, "Color not found")
	case errors.Is(err, service.ErrCartItemNotFound):
		apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
	case errors.Is(err, service.ErrOutOfStock):
		apperrors.BadRequest(c, apperrors.CartOutOfStock, "Product size is out of stock")
	case errors.Is(err, service.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Quantity is out of range")
	default:
		middleware.GetLoggerFromContext(c).Error("Cart operation failed", err, map[string]interface{}{
			"action": action,
		})
		apperrors.InternalError(c, "Failed to "+action)
	}
}

// GetCart returns the caller's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.GetCart(identity)
	if err != nil {
		respondCartError(c, err, "fetch cart")
		return
	}

	c.JSON(http.StatusOK, cart)
}

// AddToCart adds a line or tops up an existing one
// POST /api/v1/cart/items
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := ctrl.cartService.AddItem(identity, service.AddCartItemInput{
		ProductID: req.ProductID,
		ColorID:   req.ColorID,
		SizeID:    req.SizeID,
		Quantity:  quantity,
	})
	if err != nil {
		respondCartError(c, err, "add item to cart")
		return
	}

	c.JSON(http.StatusOK, cart)
}

// UpdateCartItem sets a line quantity; zero removes the line
// PUT /api/v1/cart/items/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"cart_item_id": itemID,
			"error":        err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cart, err := ctrl.cartService.UpdateItem(identity, itemID, *req.Quantity)
	if err != nil {
		respondCartError(c, err, "update cart item")
		return
	}

	c.JSON(http.StatusOK, cart)
}

// RemoveCartItem deletes a line
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveCartItem(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cart, err := ctrl.cartService.RemoveItem(identity, itemID)
	if err != nil {
		respondCartError(c, err, "remove cart item")
		return
	}

	c.JSON(http.StatusOK, cart)
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.ClearCart(identity)
	if err != nil {
		respondCartError(c, err, "clear cart")
		return
	}

	c.JSON(http.StatusOK, cart)
}
