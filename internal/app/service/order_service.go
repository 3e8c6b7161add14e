package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tcnr01/storefront-backend/internal/app/model"
	"github.com/tcnr01/storefront-backend/internal/app/repository"
	"github.com/tcnr01/storefront-backend/pkg/logger"
	"github.com/tcnr01/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrNoOrderableItems    = errors.New("no valid items in cart")
	ErrOrderNotFound       = errors.New("order not found")
	ErrMissingShippingInfo = errors.New("recipient name, phone and shipping address are required")
)

var (
	FreeShippingThreshold = decimal.NewFromInt(3000)
	FlatShippingFee       = decimal.NewFromInt(120)
)

const maxOrderNumberAttempts = 5

// ShippingFee is free at or above the threshold, flat otherwise.
func ShippingFee(itemsTotal decimal.Decimal) decimal.Decimal {
	if itemsTotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingFee
}

type CreateOrderInput struct {
	RecipientName      string
	RecipientPhone     string
	ShippingAddress    string
	ShippingCity       *string
	ShippingState      *string
	ShippingPostalCode *string
	Notes              *string
	PaymentMethod      string
}

type OrderService interface {
	CreateOrder(identity model.Identity, input CreateOrderInput) (*model.Order, error)
	GetOrders(userID uint) ([]model.Order, error)
	GetOrder(orderID uint, identity model.Identity) (*model.Order, error)
}

type orderService struct {
	db           *gorm.DB
	orderRepo    repository.OrderRepository
	cartRepo     repository.CartRepository
	orderNumbers util.OrderNumberGenerator
	now          func() time.Time
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	orderNumbers util.OrderNumberGenerator,
) OrderService {
	return &orderService{
		db:           db,
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		orderNumbers: orderNumbers,
		now:          time.Now,
	}
}

// CreateOrder snapshots the caller's cart into a confirmed order and empties
// the cart, all in one transaction holding the cart row lock. Lines whose
// product has been removed are dropped. Stock is neither checked nor
// decremented.
func (s *orderService) CreateOrder(identity model.Identity, input CreateOrderInput) (*model.Order, error) {
	fields := identity.LogFields()

	if strings.TrimSpace(input.RecipientName) == "" ||
		strings.TrimSpace(input.RecipientPhone) == "" ||
		strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, ErrMissingShippingInfo
	}

	if _, err := s.cartRepo.FindByIdentity(identity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot create order: no cart", fields)
			return nil, ErrEmptyCart
		}
		return nil, err
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order creation, rolling back", fmt.Errorf("panic: %v", r), fields)
			panic(r)
		}
	}()

	order, err := s.checkout(tx, identity, input)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrNoOrderableItems) {
			fields["reason"] = err.Error()
			logger.Warn("Checkout rejected", fields)
		} else {
			logger.Error("Failed to create order", err, fields)
		}
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, fields)
		return nil, err
	}

	fields["order_id"] = order.ID
	fields["order_number"] = order.OrderNumber
	fields["total_amount"] = order.TotalAmount.String()
	fields["item_count"] = order.ItemCount()
	logger.Info("Order created successfully", fields)

	return s.orderRepo.FindByID(order.ID)
}

func (s *orderService) checkout(tx *gorm.DB, identity model.Identity, input CreateOrderInput) (*model.Order, error) {
	cartRepo := repository.NewCartRepository(tx)
	productRepo := repository.NewProductRepository(tx)

	cart, err := cartRepo.FindByIdentityForUpdate(identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}

	cartItems, err := cartRepo.FindItems(cart.ID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	productIDs := make([]uint, 0, len(cartItems))
	colorIDs := make([]uint, 0, len(cartItems))
	sizeIDs := make([]uint, 0, len(cartItems))
	for _, item := range cartItems {
		productIDs = append(productIDs, item.ProductID)
		colorIDs = append(colorIDs, item.ColorID)
		sizeIDs = append(sizeIDs, item.SizeID)
	}

	products, err := productRepo.FindByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	colors, err := productRepo.FindColorsByIDs(colorIDs)
	if err != nil {
		return nil, err
	}
	sizes, err := productRepo.FindSizesByIDs(sizeIDs)
	if err != nil {
		return nil, err
	}

	itemsTotal := decimal.Zero
	orderItems := make([]model.OrderItem, 0, len(cartItems))
	for _, item := range cartItems {
		product, ok := products[item.ProductID]
		if !ok {
			logger.Warn("Dropping cart line for removed product", map[string]interface{}{
				"cart_item_id": item.ID,
				"product_id":   item.ProductID,
			})
			continue
		}

		snapshot := model.OrderItem{
			ProductID:    product.ID,
			ProductSlug:  product.Slug,
			ProductName:  product.Name,
			ProductImage: product.MainImageURL(),
			ColorID:      item.ColorID,
			SizeID:       item.SizeID,
			Price:        product.Price,
			Quantity:     item.Quantity,
		}
		if color, ok := colors[item.ColorID]; ok {
			snapshot.ColorName = color.Name
		}
		if size, ok := sizes[item.SizeID]; ok {
			snapshot.Size = size.Size
		}

		itemsTotal = itemsTotal.Add(snapshot.LineTotal())
		orderItems = append(orderItems, snapshot)
	}

	if len(orderItems) == 0 {
		return nil, ErrNoOrderableItems
	}

	shippingFee := ShippingFee(itemsTotal)
	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = model.DefaultPaymentMethod
	}

	order := &model.Order{
		Status:             model.OrderStatusConfirmed,
		PaymentMethod:      paymentMethod,
		PaymentStatus:      model.PaymentStatusPaid,
		ItemsTotal:         itemsTotal,
		ShippingFee:        shippingFee,
		TotalAmount:        itemsTotal.Add(shippingFee),
		RecipientName:      input.RecipientName,
		RecipientPhone:     input.RecipientPhone,
		ShippingAddress:    input.ShippingAddress,
		ShippingCity:       input.ShippingCity,
		ShippingState:      input.ShippingState,
		ShippingPostalCode: input.ShippingPostalCode,
		Notes:              input.Notes,
	}
	if userID, ok := identity.UserID(); ok {
		order.UserID = &userID
	} else if sessionID, ok := identity.SessionID(); ok {
		order.SessionID = &sessionID
	}

	if err := s.insertWithFreshNumber(tx, order, orderItems); err != nil {
		return nil, err
	}

	if err := cartRepo.DeleteItemsByCartID(cart.ID); err != nil {
		return nil, err
	}
	if err := cartRepo.Touch(cart.ID); err != nil {
		return nil, err
	}

	return order, nil
}

// insertWithFreshNumber assigns an order number and inserts the order,
// drawing a new number when the unique index rejects one. Each attempt runs
// in a savepoint so a rejected insert does not abort the outer transaction.
func (s *orderService) insertWithFreshNumber(tx *gorm.DB, order *model.Order, items []model.OrderItem) error {
	var lastErr error
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		order.ID = 0
		order.OrderNumber = s.orderNumbers(s.now().UTC())
		order.Items = make([]model.OrderItem, len(items))
		copy(order.Items, items)

		lastErr = tx.Transaction(func(sp *gorm.DB) error {
			return repository.NewOrderRepository(sp).Create(order)
		})
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, gorm.ErrDuplicatedKey) {
			return lastErr
		}

		logger.Warn("Order number collision, retrying", map[string]interface{}{
			"order_number": order.OrderNumber,
			"attempt":      attempt,
		})
	}
	return fmt.Errorf("order number still colliding after %d attempts: %w", maxOrderNumberAttempts, lastErr)
}

func (s *orderService) GetOrders(userID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

// GetOrder returns the order only to its owner. Orders owned by someone
// else are reported as not found.
func (s *orderService) GetOrder(orderID uint, identity model.Identity) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if !order.OwnedBy(identity) {
		fields := identity.LogFields()
		fields["order_id"] = orderID
		logger.Warn("Order requested by non-owner", fields)
		return nil, ErrOrderNotFound
	}
	return order, nil
}
