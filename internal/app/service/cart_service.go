package service

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tcnr01/storefront-backend/internal/app/model"
	"github.com/tcnr01/storefront-backend/internal/app/repository"
	"github.com/tcnr01/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrSizeNotFound     = errors.New("size not found")
	ErrColorNotFound    = errors.New("color not found")
	ErrOutOfStock       = errors.New("product size is out of stock")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("invalid quantity")

	errNoIdentity = errors.New("cart lookup without identity")
)

// MaxLineQuantity caps a single cart line.
const MaxLineQuantity = 10

type CartLineView struct {
	ID           uint            `json:"id"`
	ProductID    uint            `json:"productId"`
	ProductSlug  string          `json:"productSlug"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	ColorID      uint            `json:"colorId"`
	ColorName    string          `json:"colorName"`
	SizeID       uint            `json:"sizeId"`
	Size         string          `json:"size"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
}

// CartView is a cart with totals derived from live catalog prices.
type CartView struct {
	ID        uint            `json:"id"`
	SessionID *string         `json:"sessionId"`
	Items     []CartLineView  `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type AddCartItemInput struct {
	ProductID uint
	ColorID   uint
	SizeID    uint
	Quantity  int
}

type CartService interface {
	GetCart(identity model.Identity) (*CartView, error)
	AddItem(identity model.Identity, input AddCartItemInput) (*CartView, error)
	UpdateItem(identity model.Identity, itemID uint, quantity int) (*CartView, error)
	RemoveItem(identity model.Identity, itemID uint) (*CartView, error)
	ClearCart(identity model.Identity) (*CartView, error)
	MergeAnonymousCart(sessionID string, userID uint) error
}

type cartService struct {
	db          *gorm.DB
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartService{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func clampQuantity(quantity int) int {
	if quantity > MaxLineQuantity {
		return MaxLineQuantity
	}
	return quantity
}

func newCartFor(identity model.Identity) *model.Cart {
	cart := &model.Cart{}
	if userID, ok := identity.UserID(); ok {
		cart.UserID = &userID
	} else if sessionID, ok := identity.SessionID(); ok {
		cart.SessionID = &sessionID
	}
	return cart
}

// getOrCreateCart returns the identity's cart, creating it on first access.
// A concurrent creator losing the unique index race re-reads the winner.
func getOrCreateCart(repo repository.CartRepository, identity model.Identity) (*model.Cart, error) {
	if identity.IsZero() {
		return nil, errNoIdentity
	}

	cart, err := repo.FindByIdentity(identity)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = newCartFor(identity)
	if err := repo.Create(cart); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repo.FindByIdentity(identity)
		}
		return nil, err
	}

	logger.Info("Cart created", identity.LogFields())
	return cart, nil
}

// withLockedCart runs fn in a transaction holding the identity's cart row lock.
func (s *cartService) withLockedCart(identity model.Identity, fn func(tx *gorm.DB, cart *model.Cart) error) error {
	if _, err := getOrCreateCart(s.cartRepo, identity); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := repository.NewCartRepository(tx).FindByIdentityForUpdate(identity)
		if err != nil {
			return err
		}
		return fn(tx, cart)
	})
}

func (s *cartService) GetCart(identity model.Identity) (*CartView, error) {
	cart, err := getOrCreateCart(s.cartRepo, identity)
	if err != nil {
		logger.Error("Failed to resolve cart", err, identity.LogFields())
		return nil, err
	}
	return s.buildView(cart)
}

func (s *cartService) AddItem(identity model.Identity, input AddCartItemInput) (*CartView, error) {
	fields := identity.LogFields()
	fields["product_id"] = input.ProductID
	fields["size_id"] = input.SizeID
	fields["quantity"] = input.Quantity
	logger.Info("Adding item to cart", fields)

	if input.Quantity < 1 || input.Quantity > MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}

	err := s.withLockedCart(identity, func(tx *gorm.DB, cart *model.Cart) error {
		cartRepo := repository.NewCartRepository(tx)
		productRepo := repository.NewProductRepository(tx)

		if _, err := productRepo.FindByID(input.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		size, err := productRepo.FindSize(input.ProductID, input.SizeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSizeNotFound
			}
			return err
		}

		if _, err := productRepo.FindColor(input.ProductID, input.ColorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrColorNotFound
			}
			return err
		}

		if size.Stock < input.Quantity {
			return ErrOutOfStock
		}

		existing, err := cartRepo.FindLine(cart.ID, input.ProductID, input.ColorID, input.SizeID)
		switch {
		case err == nil:
			combined := existing.Quantity + input.Quantity
			if combined > size.Stock {
				return ErrOutOfStock
			}
			if err := cartRepo.UpdateItemQuantity(existing.ID, clampQuantity(combined)); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := cartRepo.CreateItem(&model.CartItem{
				CartID:    cart.ID,
				ProductID: input.ProductID,
				ColorID:   input.ColorID,
				SizeID:    input.SizeID,
				Quantity:  clampQuantity(input.Quantity),
			}); err != nil {
				return err
			}
		default:
			return err
		}

		return cartRepo.Touch(cart.ID)
	})
	if err != nil {
		if !isCartClientError(err) {
			logger.Error("Failed to add item to cart", err, fields)
		} else {
			fields["reason"] = err.Error()
			logger.Warn("Add to cart rejected", fields)
		}
		return nil, err
	}

	return s.GetCart(identity)
}

func (s *cartService) UpdateItem(identity model.Identity, itemID uint, quantity int) (*CartView, error) {
	fields := identity.LogFields()
	fields["cart_item_id"] = itemID
	fields["quantity"] = quantity

	if quantity < 0 || quantity > MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}

	err := s.withLockedCart(identity, func(tx *gorm.DB, cart *model.Cart) error {
		cartRepo := repository.NewCartRepository(tx)

		item, err := cartRepo.FindItem(cart.ID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartItemNotFound
			}
			return err
		}

		if quantity == 0 {
			if err := cartRepo.DeleteItem(item.ID); err != nil {
				return err
			}
			return cartRepo.Touch(cart.ID)
		}

		// a size removed from the catalog has no stock to check against
		size, err := repository.NewProductRepository(tx).FindSize(item.ProductID, item.SizeID)
		switch {
		case err == nil:
			if quantity > size.Stock {
				return ErrOutOfStock
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := cartRepo.UpdateItemQuantity(item.ID, clampQuantity(quantity)); err != nil {
			return err
		}
		return cartRepo.Touch(cart.ID)
	})
	if err != nil {
		if !isCartClientError(err) {
			logger.Error("Failed to update cart item", err, fields)
		} else {
			fields["reason"] = err.Error()
			logger.Warn("Cart item update rejected", fields)
		}
		return nil, err
	}

	logger.Info("Cart item updated", fields)
	return s.GetCart(identity)
}

func (s *cartService) RemoveItem(identity model.Identity, itemID uint) (*CartView, error) {
	return s.UpdateItem(identity, itemID, 0)
}

func (s *cartService) ClearCart(identity model.Identity) (*CartView, error) {
	err := s.withLockedCart(identity, func(tx *gorm.DB, cart *model.Cart) error {
		cartRepo := repository.NewCartRepository(tx)
		if err := cartRepo.DeleteItemsByCartID(cart.ID); err != nil {
			return err
		}
		return cartRepo.Touch(cart.ID)
	})
	if err != nil {
		logger.Error("Failed to clear cart", err, identity.LogFields())
		return nil, err
	}

	logger.Info("Cart cleared", identity.LogFields())
	return s.GetCart(identity)
}

// buildView assembles the cart response from live catalog rows. Lines
// whose product no longer exists are left out.
func (s *cartService) buildView(cart *model.Cart) (*CartView, error) {
	items, err := s.cartRepo.FindItems(cart.ID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]uint, 0, len(items))
	colorIDs := make([]uint, 0, len(items))
	sizeIDs := make([]uint, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
		colorIDs = append(colorIDs, item.ColorID)
		sizeIDs = append(sizeIDs, item.SizeID)
	}

	products, err := s.productRepo.FindByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	colors, err := s.productRepo.FindColorsByIDs(colorIDs)
	if err != nil {
		return nil, err
	}
	sizes, err := s.productRepo.FindSizesByIDs(sizeIDs)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		ID:        cart.ID,
		SessionID: cart.SessionID,
		Items:     make([]CartLineView, 0, len(items)),
		Subtotal:  decimal.Zero,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}

	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}

		line := CartLineView{
			ID:           item.ID,
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
			line.ColorName = color.Name
		}
		if size, ok := sizes[item.SizeID]; ok {
			line.Size = size.Size
		}

		view.Items = append(view.Items, line)
		view.ItemCount += item.Quantity
		view.Subtotal = view.Subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return view, nil
}

func isCartClientError(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrSizeNotFound) ||
		errors.Is(err, ErrColorNotFound) ||
		errors.Is(err, ErrOutOfStock) ||
		errors.Is(err, ErrCartItemNotFound) ||
		errors.Is(err, ErrInvalidQuantity)
}
