package repository

import (
	"strings"

	"github.com/tcnr01/storefront-backend/internal/app/model"
	"github.com/tcnr01/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortNewest    ProductSort = ""
	ProductSortPriceAsc  ProductSort = "price-asc"
	ProductSortPriceDesc ProductSort = "price-desc"
)

type ProductFilter struct {
	Category string
	Search   string
	Sort     ProductSort
	Limit    int
	Offset   int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	FindByIDs(ids []uint) (map[uint]*model.Product, error)
	FindSize(productID, sizeID uint) (*model.ProductSize, error)
	FindColor(productID, colorID uint) (*model.ProductColor, error)
	FindSizesByIDs(ids []uint) (map[uint]*model.ProductSize, error)
	FindColorsByIDs(ids []uint) (map[uint]*model.ProductColor, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

func (r *productRepository) withOptions() *gorm.DB {
	return r.db.
		Preload("Images", orderedImages).
		Preload("Colors", orderedImages).
		Preload("Sizes", orderedImages)
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"slug":     product.Slug,
		"category": product.Category,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"slug": product.Slug,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category": filter.Category,
		"search":   filter.Search,
		"sort":     filter.Sort,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})

	query := r.db.Model(&model.Product{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		// LOWER() keeps the match case-insensitive on both postgres and sqlite
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	// Session makes the filtered query safe to reuse for count and page
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products", err)
		return nil, 0, err
	}

	switch filter.Sort {
	case ProductSortPriceAsc:
		query = query.Order("price ASC").Order("id ASC")
	case ProductSortPriceDesc:
		query = query.Order("price DESC").Order("id ASC")
	default:
		query = query.Order("created_at DESC").Order("id DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.
		Preload("Images", orderedImages).
		Preload("Colors", orderedImages).
		Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err)
		return nil, 0, err
	}

	logger.Debug("Products found", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.withOptions().First(&product, id).Error; err != nil {
		logger.Debug("Product not found by ID", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	if err := r.withOptions().Where("slug = ?", slug).First(&product).Error; err != nil {
		logger.Debug("Product not found by slug", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads products with images, keyed by id. Missing ids are absent.
func (r *productRepository) FindByIDs(ids []uint) (map[uint]*model.Product, error) {
	result := make(map[uint]*model.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var products []model.Product
	if err := r.db.Preload("Images", orderedImages).Where("id IN ?", ids).Find(&products).Error; err != nil {
		logger.Error("Failed to find products by IDs", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}
	for i := range products {
		result[products[i].ID] = &products[i]
	}
	return result, nil
}

func (r *productRepository) FindSize(productID, sizeID uint) (*model.ProductSize, error) {
	var size model.ProductSize
	if err := r.db.Where("id = ? AND product_id = ?", sizeID, productID).First(&size).Error; err != nil {
		return nil, err
	}
	return &size, nil
}

func (r *productRepository) FindColor(productID, colorID uint) (*model.ProductColor, error) {
	var color model.ProductColor
	if err := r.db.Where("id = ? AND product_id = ?", colorID, productID).First(&color).Error; err != nil {
		return nil, err
	}
	return &color, nil
}

func (r *productRepository) FindSizesByIDs(ids []uint) (map[uint]*model.ProductSize, error) {
	result := make(map[uint]*model.ProductSize, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var sizes []model.ProductSize
	if err := r.db.Where("id IN ?", ids).Find(&sizes).Error; err != nil {
		return nil, err
	}
	for i := range sizes {
		result[sizes[i].ID] = &sizes[i]
	}
	return result, nil
}

func (r *productRepository) FindColorsByIDs(ids []uint) (map[uint]*model.ProductColor, error) {
	result := make(map[uint]*model.ProductColor, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var colors []model.ProductColor
	if err := r.db.Where("id IN ?", ids).Find(&colors).Error; err != nil {
		return nil, err
	}
	for i := range colors {
		result[colors[i].ID] = &colors[i]
	}
	return result, nil
}
