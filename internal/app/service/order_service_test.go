package service

import (
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcnr01/storefront-backend/internal/app/model"
	"github.com/tcnr01/storefront-backend/internal/app/repository"
	"github.com/tcnr01/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*gorm.DB, CartService, OrderService) {
	testDB := setupServiceDB(t)

	numbers, err := util.NewOrderNumberGenerator()
	require.NoError(t, err)

	carts := newTestCartService(testDB)
	orders := NewOrderService(
		testDB,
		repository.NewOrderRepository(testDB),
		repository.NewCartRepository(testDB),
		numbers,
	)
	return testDB, carts, orders
}

func shippingInput() CreateOrderInput {
	city := "Taipei"
	return CreateOrderInput{
		RecipientName:   "Lin Mei",
		RecipientPhone:  "0912345678",
		ShippingAddress: "No. 7, Xinyi Rd",
		ShippingCity:    &city,
	}
}

func TestShippingFee(t *testing.T) {
	tests := []struct {
		itemsTotal int64
		want       int64
	}{
		{itemsTotal: 0, want: 120},
		{itemsTotal: 2999, want: 120},
		{itemsTotal: 3000, want: 0},
		{itemsTotal: 3500, want: 0},
	}

	for _, tt := range tests {
		got := ShippingFee(decimal.NewFromInt(tt.itemsTotal))
		assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "items total %d", tt.itemsTotal)
	}
}

func TestOrderService_CreateOrder_TotalsBelowThreshold(t *testing.T) {
	testDB, carts, orders := setupOrderServiceTest(t)
	shoe := createProduct(t, testDB, "shoe", 1000, 10)
	sock := createProduct(t, testDB, "sock", 500, 10)
	identity := model.Anonymous("sess-order")

	_, err := carts.AddItem(identity, line(shoe, 2))
	require.NoError(t, err)
	_, err = carts.AddItem(identity, line(sock, 1))
	require.NoError(t, err)

	order, err := orders.CreateOrder(identity, shippingInput())
	require.NoError(t, err)

	assert.True(t, order.ItemsTotal.Equal(decimal.NewFromInt(2500)))
	assert.True(t, order.ShippingFee.Equal(decimal.NewFromInt(120)))
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(2620)))
	assert.Equal(t, model.OrderStatusConfirmed, order.Status)
	assert.Equal(t, model.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, model.DefaultPaymentMethod, order.PaymentMethod)
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-[A-Z0-9]{4}$`), order.OrderNumber)
	require.NotNil(t, order.SessionID)
	assert.Equal(t, "sess-order", *order.SessionID)
	assert.Nil(t, order.UserID)
	assert.Len(t, order.Items, 2)
	require.NotNil(t, order.ShippingCity)
	assert.Equal(t, "Taipei", *order.ShippingCity)

	cart, err := carts.GetCart(identity)
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "source cart is emptied")
}

func TestOrderService_CreateOrder_FreeShipping(t *testing.T) {
	testDB, carts, orders := setupOrderServiceTest(t)
	shoe := createProduct(t, testDB, "shoe", 3500, 10)
	user := createUser(t, testDB, "free@example.com")
	identity := model.Authenticated(user.ID)

	_, err := carts.AddItem(identity, line(shoe, 1))
	require.NoError(t, err)

	order, err := orders.CreateOrder(identity, shippingInput())
	require.NoError(t, err)
	assert.True(t, order.ShippingFee.IsZero())
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(3500)))
	require.NotNil(t, order.UserID)
	assert.Equal(t, user.ID, *order.UserID)
	assert.Nil(t, order.SessionID)
}

func TestOrderService_CreateOrder_EmptyCart(t *testing.T) {
	testDB, carts, orders := setupOrderServiceTest(t)

	_, err := orders.CreateOrder(model.Anonymous("never-seen"), shippingInput())
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = carts.GetCart(model.Anonymous("empty"))
	require.NoError(t, err)
	_, err = orders.CreateOrder(model.Anonymous("empty"), shippingInput())
	assert.ErrorIs(t, err, ErrEmptyCart)

	var count int64
	require.NoError(t, testDB.Model(&model.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderService_CreateOrder_MissingShippingInfo(t *testing.T) {
	testDB, carts, orders := setupOrderServiceTest(t)
	shoe := createProduct(t, testDB, "shoe", 1000, 10)
	identity := model.Anonymous("sess-missing")
	_, err := carts.AddItem(identity, line(shoe, 1))
	require.NoError(t, err)

	input := shippingInput()
	input.ShippingAddress = "   "
	_, err = orders.CreateOrder(identity, input)
	assert.ErrorIs(t, err, ErrMissingShippingInfo)

	cart, err := carts.GetCart(identity)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1, "cart untouched")
}

func TestOrderService_CreateOrder_SnapshotIsFrozen(t *testing.T) {
	testDB, carts, orders := setupOrderServiceTest(t)
	shoe := createProduct(t, testDB, "shoe", 1000, 10)
	identity := model.Anonymous("sess-snapshot")

	_, err := carts.AddItem(identity, line(shoe, 1))
	require.NoError(t, err)
	created, err := orders.CreateOrder(identity, shippingInput())
	require.NoError(t, err)

	require.NoError(t, testDB.Model(&model.Product{}).Where("id = ?", shoe.ID).Updates(map[string]interface{}{
		"name":  "Renamed",
		"price": decimal.NewFromInt(9999),
	}).Error)

	order, err := orders.GetOrder(created.ID, identity)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, "Product shoe", item.ProductName)
	assert.Equal(t, "shoe", item.ProductSlug)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "Black", item.ColorName)
	assert.Equal(t, "US 9", item.Size)
	assert.Equal(t, "https://img.example.com/shoe.jpg", item.ProductImage)
}

func TestOrderService_CreateOrder_DropsRemovedProducts(t *testing.T) {
	testDB, carts, orders := setupOrderServiceTest(t)
	shoe := createProduct(t, testDB, "shoe", 1000, 10)
	gone := createProduct(t, testDB, "gone", 800, 10)
	identity := model.Anonymous("sess-drop")

	_, err := carts.AddItem(identity, line(shoe, 1))
	require.NoError(t, err)
	_, err = carts.AddItem(identity, line(gone, 2))
	require.NoError(t, err)
	require.NoError(t, testDB.Delete(&model.Product{}, gone.ID).Error)

	order, err := orders.CreateOrder(identity, shippingInput())
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, shoe.ID, order.Items[0].ProductID)
	assert.True(t, order.ItemsTotal.Equal(decimal.NewFromInt(1000)))
}

func TestOrderService_CreateOrder_NoOrderableItems(t *testing.T) {
	testDB, carts, orders := setupOrderServiceTest(t)
	gone := createProduct(t, testDB, "gone", 800, 10)
	identity := model.Anonymous("sess-none")

	_, err := carts.AddItem(identity, line(gone, 1))
	require.NoError(t, err)
	require.NoError(t, testDB.Delete(&model.Product{}, gone.ID).Error)

	_, err = orders.CreateOrder(identity, shippingInput())
	assert.ErrorIs(t, err, ErrNoOrderableItems)

	var count int64
	require.NoError(t, testDB.Model(&model.CartItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "rolled back checkout leaves the cart as it was")
}

func TestOrderService_CreateOrder_DoesNotTouchStock(t *testing.T) {
	testDB, carts, orders := setupOrderServiceTest(t)
	shoe := createProduct(t, testDB, "shoe", 1000, 3)
	identity := model.Anonymous("sess-stock")

	_, err := carts.AddItem(identity, line(shoe, 3))
	require.NoError(t, err)
	_, err = orders.CreateOrder(identity, shippingInput())
	require.NoError(t, err)

	var size model.ProductSize
	require.NoError(t, testDB.First(&size, shoe.Sizes[0].ID).Error)
	assert.Equal(t, 3, size.Stock)
}

func TestOrderService_CreateOrder_RetriesOrderNumberCollision(t *testing.T) {
	testDB := setupServiceDB(t)
	carts := newTestCartService(testDB)
	shoe := createProduct(t, testDB, "shoe", 1000, 10)

	numbers := []string{"ORD-20260101-AAAA", "ORD-20260101-AAAA", "ORD-20260101-BBBB"}
	calls := 0
	generator := func(time.Time) string {
		number := numbers[calls]
		calls++
		return number
	}
	orders := NewOrderService(testDB, repository.NewOrderRepository(testDB), repository.NewCartRepository(testDB), generator)

	first := model.Anonymous("first")
	_, err := carts.AddItem(first, line(shoe, 1))
	require.NoError(t, err)
	order, err := orders.CreateOrder(first, shippingInput())
	require.NoError(t, err)
	assert.Equal(t, "ORD-20260101-AAAA", order.OrderNumber)

	second := model.Anonymous("second")
	_, err = carts.AddItem(second, line(shoe, 1))
	require.NoError(t, err)
	order, err = orders.CreateOrder(second, shippingInput())
	require.NoError(t, err)
	assert.Equal(t, "ORD-20260101-BBBB", order.OrderNumber)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 3, calls)
}

func TestOrderService_CreateOrder_RetriesExhaustedLeavesNoTrace(t *testing.T) {
	testDB := setupServiceDB(t)
	carts := newTestCartService(testDB)
	shoe := createProduct(t, testDB, "shoe", 1000, 10)

	calls := 0
	generator := func(time.Time) string {
		calls++
		return "ORD-20260101-DUPE"
	}
	orders := NewOrderService(testDB, repository.NewOrderRepository(testDB), repository.NewCartRepository(testDB), generator)

	first := model.Anonymous("first")
	_, err := carts.AddItem(first, line(shoe, 1))
	require.NoError(t, err)
	_, err = orders.CreateOrder(first, shippingInput())
	require.NoError(t, err)

	second := model.Anonymous("second")
	_, err = carts.AddItem(second, line(shoe, 2))
	require.NoError(t, err)

	order, err := orders.CreateOrder(second, shippingInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.Nil(t, order)
	assert.Equal(t, 1+maxOrderNumberAttempts, calls)

	var orderCount, itemCount int64
	require.NoError(t, testDB.Model(&model.Order{}).Count(&orderCount).Error)
	require.NoError(t, testDB.Model(&model.OrderItem{}).Count(&itemCount).Error)
	assert.Equal(t, int64(1), orderCount, "failed checkout inserts no order")
	assert.Equal(t, int64(1), itemCount, "failed checkout inserts no order items")

	cart, err := carts.GetCart(second)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "cart lines survive the rollback")
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestOrderService_CreateOrder_ConcurrentCheckoutOfOneCart(t *testing.T) {
	testDB, carts, orders := setupOrderServiceTest(t)
	shoe := createProduct(t, testDB, "shoe", 1000, 10)
	identity := model.Anonymous("sess-race")

	_, err := carts.AddItem(identity, line(shoe, 2))
	require.NoError(t, err)

	const attempts = 2
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = orders.CreateOrder(identity, shippingInput())
		}(i)
	}
	wg.Wait()

	succeeded, empty := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrEmptyCart):
			empty++
		default:
			t.Fatalf("unexpected checkout error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, empty)

	var count int64
	require.NoError(t, testDB.Model(&model.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOrderService_GetOrder_Ownership(t *testing.T) {
	testDB, carts, orders := setupOrderServiceTest(t)
	shoe := createProduct(t, testDB, "shoe", 1000, 10)
	owner := createUser(t, testDB, "owner@example.com")
	stranger := createUser(t, testDB, "stranger@example.com")

	_, err := carts.AddItem(model.Anonymous("S"), line(shoe, 1))
	require.NoError(t, err)
	sessionOrder, err := orders.CreateOrder(model.Anonymous("S"), shippingInput())
	require.NoError(t, err)

	_, err = carts.AddItem(model.Authenticated(owner.ID), line(shoe, 1))
	require.NoError(t, err)
	userOrder, err := orders.CreateOrder(model.Authenticated(owner.ID), shippingInput())
	require.NoError(t, err)

	tests := []struct {
		name     string
		orderID  uint
		identity model.Identity
		wantErr  error
	}{
		{name: "owning session", orderID: sessionOrder.ID, identity: model.Anonymous("S")},
		{name: "other session", orderID: sessionOrder.ID, identity: model.Anonymous("T"), wantErr: ErrOrderNotFound},
		{name: "user against session order", orderID: sessionOrder.ID, identity: model.Authenticated(stranger.ID), wantErr: ErrOrderNotFound},
		{name: "owning user", orderID: userOrder.ID, identity: model.Authenticated(owner.ID)},
		{name: "other user", orderID: userOrder.ID, identity: model.Authenticated(stranger.ID), wantErr: ErrOrderNotFound},
		{name: "session against user order", orderID: userOrder.ID, identity: model.Anonymous("S"), wantErr: ErrOrderNotFound},
		{name: "missing order", orderID: 9999, identity: model.Anonymous("S"), wantErr: ErrOrderNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := orders.GetOrder(tt.orderID, tt.identity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, order)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.orderID, order.ID)
		})
	}
}

func TestOrderService_GetOrders(t *testing.T) {
	testDB, carts, orders := setupOrderServiceTest(t)
	shoe := createProduct(t, testDB, "shoe", 1000, 10)
	user := createUser(t, testDB, "list@example.com")
	identity := model.Authenticated(user.ID)

	var created []uint
	for i := 0; i < 2; i++ {
		_, err := carts.AddItem(identity, line(shoe, 1))
		require.NoError(t, err)
		order, err := orders.CreateOrder(identity, shippingInput())
		require.NoError(t, err)
		created = append(created, order.ID)
	}
	require.NoError(t, testDB.Model(&model.Order{}).Where("id = ?", created[0]).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	list, err := orders.GetOrders(user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, created[1], list[0].ID)
	assert.Equal(t, 1, list[0].ItemCount())

	none, err := orders.GetOrders(user.ID + 100)
	require.NoError(t, err)
	assert.Empty(t, none)
}
