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
	ErrAlreadyWishlisted    = errors.New("product already in wishlist")
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
)

type WishlistEntry struct {
	ID           uint            `json:"id"`
	ProductID    uint            `json:"productId"`
	ProductSlug  string          `json:"productSlug"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	Price        decimal.Decimal `json:"price"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type WishlistService interface {
	GetWishlist(userID uint) ([]WishlistEntry, error)
	AddToWishlist(userID, productID uint) (*WishlistEntry, error)
	RemoveFromWishlist(userID, productID uint) error
	IsWishlisted(userID, productID uint) (bool, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(
	wishlistRepo repository.WishlistRepository,
	productRepo repository.ProductRepository,
) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

func toWishlistEntry(item model.WishlistItem, product *model.Product) WishlistEntry {
	return WishlistEntry{
		ID:           item.ID,
		ProductID:    product.ID,
		ProductSlug:  product.Slug,
		ProductName:  product.Name,
		ProductImage: product.MainImageURL(),
		Price:        product.Price,
		CreatedAt:    item.CreatedAt,
	}
}

// GetWishlist lists entries newest first, skipping products that no longer exist.
func (s *wishlistService) GetWishlist(userID uint) ([]WishlistEntry, error) {
	items, err := s.wishlistRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user wishlist", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	productIDs := make([]uint, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.productRepo.FindByIDs(productIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]WishlistEntry, 0, len(items))
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		entries = append(entries, toWishlistEntry(item, product))
	}

	logger.Debug("User wishlist fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(entries),
	})
	return entries, nil
}

func (s *wishlistService) AddToWishlist(userID, productID uint) (*WishlistEntry, error) {
	fields := map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	}

	products, err := s.productRepo.FindByIDs([]uint{productID})
	if err != nil {
		return nil, err
	}
	product, ok := products[productID]
	if !ok {
		logger.Warn("Cannot add to wishlist: product not found", fields)
		return nil, ErrProductNotFound
	}

	exists, err := s.wishlistRepo.Exists(userID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyWishlisted
	}

	item := &model.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.wishlistRepo.Create(item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyWishlisted
		}
		logger.Error("Failed to add item to wishlist", err, fields)
		return nil, err
	}

	logger.Info("Item added to wishlist", fields)
	entry := toWishlistEntry(*item, product)
	return &entry, nil
}

func (s *wishlistService) RemoveFromWishlist(userID, productID uint) error {
	if err := s.wishlistRepo.Delete(userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWishlistItemNotFound
		}
		return err
	}

	logger.Info("Item removed from wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return nil
}

func (s *wishlistService) IsWishlisted(userID, productID uint) (bool, error) {
	return s.wishlistRepo.Exists(userID, productID)
}
