package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tcnr01/storefront-backend/internal/app/service"
	apperrors "github.com/tcnr01/storefront-backend/internal/errors"
	"github.com/tcnr01/storefront-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CreateOrderRequest struct {
	RecipientName      string  `json:"recipientName" binding:"required"`
	RecipientPhone     string  `json:"recipientPhone" binding:"required"`
	ShippingAddress    string  `json:"shippingAddress" binding:"required"`
	ShippingCity       *string `json:"shippingCity"`
	ShippingState      *string `json:"shippingState"`
	ShippingPostalCode *string `json:"shippingPostalCode"`
	Notes              *string `json:"notes"`
	PaymentMethod      string  `json:"paymentMethod"`
}

// CreateOrder checks out the caller's cart
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create order request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	order, err := ctrl.orderService.CreateOrder(identity, service.CreateOrderInput{
		RecipientName:      req.RecipientName,
		RecipientPhone:     req.RecipientPhone,
		ShippingAddress:    req.ShippingAddress,
		ShippingCity:       req.ShippingCity,
		ShippingState:      req.ShippingState,
		ShippingPostalCode: req.ShippingPostalCode,
		Notes:              req.Notes,
		PaymentMethod:      req.PaymentMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
		case errors.Is(err, service.ErrNoOrderableItems):
			apperrors.BadRequest(c, apperrors.OrderNoValidItems, "No valid items in cart")
		case errors.Is(err, service.ErrMissingShippingInfo):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Recipient name, phone and shipping address are required")
		default:
			log.Error("Failed to create order", err)
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "order")
		}
		return
	}

	c.JSON(http.StatusOK, toOrderDetail(order))
}

// GetOrders lists the user's orders, newest first
// GET /api/v1/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetOrders(userID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch orders")
		return
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for i := range orders {
		summaries = append(summaries, toOrderSummary(&orders[i]))
	}

	c.JSON(http.StatusOK, summaries)
}

// GetOrder returns one order to its owner
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrder(orderID, identity)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		apperrors.InternalError(c, "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, toOrderDetail(order))
}
