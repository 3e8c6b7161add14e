package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tcnr01/storefront-backend/internal/app/repository"
	"github.com/tcnr01/storefront-backend/internal/app/service"
	apperrors "github.com/tcnr01/storefront-backend/internal/errors"
	"github.com/tcnr01/storefront-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type ListProductsQuery struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Sort     string `form:"sort"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"pageSize,default=24"`
}

// ListProducts returns a page of the catalog
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var query ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		log.Warn("Invalid product list query", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid query parameters")
		return
	}

	page, err := ctrl.productService.ListProducts(service.ProductListOptions{
		Category: query.Category,
		Search:   query.Search,
		Sort:     repository.ProductSort(query.Sort),
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidProductQuery) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Invalid page, pageSize or sort")
			return
		}
		log.Error("Failed to fetch products", err)
		apperrors.InternalError(c, "Failed to fetch products")
		return
	}

	items := make([]ProductListItem, 0, len(page.Products))
	for i := range page.Products {
		items = append(items, toProductListItem(&page.Products[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       items,
		"total":      page.Total,
		"page":       page.Page,
		"pageSize":   page.PageSize,
		"totalPages": page.TotalPages,
	})
}

// GetProduct returns a product by slug
// GET /api/v1/products/:slug
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	slug := c.Param("slug")

	product, err := ctrl.productService.GetProductBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found", map[string]interface{}{
				"slug": slug,
			})
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"slug": slug,
		})
		apperrors.InternalError(c, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, toProductDetail(product))
}
