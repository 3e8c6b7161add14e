package catalog

import (
	"errors"
	"strings"

	"github.com/tcnr01/storefront-backend/internal/app/model"
	"github.com/tcnr01/storefront-backend/internal/app/repository"
	"github.com/tcnr01/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// ImageResolver turns a workbook image reference into a public URL.
type ImageResolver func(ref string) (string, error)

// ImportResult counts what Import did.
type ImportResult struct {
	Created int
	Skipped int
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// ResolveImages rewrites local image references through resolve. Absolute
// http(s) URLs are kept. A nil resolve leaves everything untouched.
func ResolveImages(products []model.Product, resolve ImageResolver) error {
	if resolve == nil {
		return nil
	}

	cache := make(map[string]string)
	lookup := func(ref string) (string, error) {
		if ref == "" || isRemote(ref) {
			return ref, nil
		}
		if url, ok := cache[ref]; ok {
			return url, nil
		}
		url, err := resolve(ref)
		if err != nil {
			return "", err
		}
		cache[ref] = url
		return url, nil
	}

	for i := range products {
		for j := range products[i].Images {
			url, err := lookup(products[i].Images[j].URL)
			if err != nil {
				return err
			}
			products[i].Images[j].URL = url
		}
		for j := range products[i].Colors {
			url, err := lookup(products[i].Colors[j].ImageURL)
			if err != nil {
				return err
			}
			products[i].Colors[j].ImageURL = url
		}
	}
	return nil
}

// Import creates every product whose slug is not yet in the catalog, in
// one transaction. Existing slugs are skipped, not updated.
func Import(gdb *gorm.DB, products []model.Product) (ImportResult, error) {
	var result ImportResult

	err := gdb.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewProductRepository(tx)
		for i := range products {
			product := &products[i]

			_, err := repo.FindBySlug(product.Slug)
			if err == nil {
				logger.Info("Product already exists, skipping", map[string]interface{}{
					"slug": product.Slug,
				})
				result.Skipped++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			if err := repo.Create(product); err != nil {
				return err
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	logger.Info("Catalog import finished", map[string]interface{}{
		"created": result.Created,
		"skipped": result.Skipped,
	})
	return result, nil
}
