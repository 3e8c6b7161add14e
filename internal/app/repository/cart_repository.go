package repository

import (
	"time"

	"github.com/tcnr01/storefront-backend/internal/app/model"
	"github.com/tcnr01/storefront-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	FindByIdentity(identity model.Identity) (*model.Cart, error)
	FindByIdentityForUpdate(identity model.Identity) (*model.Cart, error)
	Create(cart *model.Cart) error
	Touch(cartID uint) error
	Delete(cartID uint) error

	FindItems(cartID uint) ([]model.CartItem, error)
	FindItem(cartID, itemID uint) (*model.CartItem, error)
	FindLine(cartID, productID, colorID, sizeID uint) (*model.CartItem, error)
	CreateItem(item *model.CartItem) error
	UpdateItemQuantity(itemID uint, quantity int) error
	MoveItem(itemID, cartID uint, quantity int) error
	DeleteItem(itemID uint) error
	DeleteItemsByCartID(cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// identityScope filters carts to the one owned by identity. Anonymous
// lookups skip carts that already belong to a user.
func identityScope(identity model.Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if userID, ok := identity.UserID(); ok {
			return db.Where("user_id = ?", userID)
		}
		sessionID, _ := identity.SessionID()
		return db.Where("session_id = ? AND user_id IS NULL", sessionID)
	}
}

func (r *cartRepository) FindByIdentity(identity model.Identity) (*model.Cart, error) {
	var cart model.Cart
	if err := r.db.Scopes(identityScope(identity)).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindByIdentityForUpdate row-locks the cart until the surrounding
// transaction ends. Must be called on a repository bound to a transaction.
func (r *cartRepository) FindByIdentityForUpdate(identity model.Identity) (*model.Cart, error) {
	var cart model.Cart
	if err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(identityScope(identity)).
		First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Create(cart *model.Cart) error {
	if err := r.db.Create(cart).Error; err != nil {
		logger.Debug("Failed to create cart in database", map[string]interface{}{
			"session_id": cart.SessionID,
			"user_id":    cart.UserID,
			"error":      err.Error(),
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
	})
	return nil
}

func (r *cartRepository) Touch(cartID uint) error {
	return r.db.Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("updated_at", time.Now()).Error
}

func (r *cartRepository) Delete(cartID uint) error {
	if err := r.db.Delete(&model.Cart{}, cartID).Error; err != nil {
		logger.Error("Failed to delete cart in database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) FindItems(cartID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.
		Where("cart_id = ?", cartID).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		logger.Error("Failed to find cart items in database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) FindItem(cartID, itemID uint) (*model.CartItem, error) {
	var item model.CartItem
	if err := r.db.Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) FindLine(cartID, productID, colorID, sizeID uint) (*model.CartItem, error) {
	var item model.CartItem
	if err := r.db.
		Where("cart_id = ? AND product_id = ? AND color_id = ? AND size_id = ?", cartID, productID, colorID, sizeID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) CreateItem(item *model.CartItem) error {
	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}

	logger.Debug("Cart item created in database", map[string]interface{}{
		"cart_item_id": item.ID,
		"cart_id":      item.CartID,
	})
	return nil
}

func (r *cartRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	if err := r.db.Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		}).Error; err != nil {
		logger.Error("Failed to update cart item quantity", err, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return err
	}
	return nil
}

// MoveItem re-parents a line onto another cart with a new quantity.
func (r *cartRepository) MoveItem(itemID, cartID uint, quantity int) error {
	if err := r.db.Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"cart_id":    cartID,
			"quantity":   quantity,
			"updated_at": time.Now(),
		}).Error; err != nil {
		logger.Error("Failed to move cart item", err, map[string]interface{}{
			"cart_item_id": itemID,
			"cart_id":      cartID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteItem(itemID uint) error {
	if err := r.db.Delete(&model.CartItem{}, itemID).Error; err != nil {
		logger.Error("Failed to delete cart item", err, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteItemsByCartID(cartID uint) error {
	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart items", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	return nil
}
