package service

import (
	"errors"

	"github.com/tcnr01/storefront-backend/internal/app/model"
	"github.com/tcnr01/storefront-backend/internal/app/repository"
	"github.com/tcnr01/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrInvalidProductQuery = errors.New("invalid product query")
)

const MaxPageSize = 100

type ProductListOptions struct {
	Category string
	Search   string
	Sort     repository.ProductSort
	Page     int
	PageSize int
}

type ProductPage struct {
	Products   []model.Product
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

type ProductService interface {
	ListProducts(opts ProductListOptions) (*ProductPage, error)
	GetProductBySlug(slug string) (*model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func validSort(sort repository.ProductSort) bool {
	switch sort {
	case repository.ProductSortNewest, repository.ProductSortPriceAsc, repository.ProductSortPriceDesc:
		return true
	}
	return false
}

// ListProducts expects page >= 1 and pageSize in 1..MaxPageSize; callers
// fill in defaults for parameters the client left out.
func (s *productService) ListProducts(opts ProductListOptions) (*ProductPage, error) {
	if opts.Page < 1 || opts.PageSize < 1 || opts.PageSize > MaxPageSize || !validSort(opts.Sort) {
		logger.Warn("Rejected product list query", map[string]interface{}{
			"page":      opts.Page,
			"page_size": opts.PageSize,
			"sort":      opts.Sort,
		})
		return nil, ErrInvalidProductQuery
	}

	products, total, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		Category: opts.Category,
		Search:   opts.Search,
		Sort:     opts.Sort,
		Limit:    opts.PageSize,
		Offset:   (opts.Page - 1) * opts.PageSize,
	})
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}

	totalPages := int((total + int64(opts.PageSize) - 1) / int64(opts.PageSize))

	logger.Debug("Products listed", map[string]interface{}{
		"count":       len(products),
		"total":       total,
		"page":        opts.Page,
		"total_pages": totalPages,
	})

	return &ProductPage{
		Products:   products,
		Total:      total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *productService) GetProductBySlug(slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"slug": slug,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return product, nil
}
