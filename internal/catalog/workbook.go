// Package catalog imports products from an xlsx workbook.
//
// The workbook has four sheets, each with a header row:
//
//	products: slug, name, subtitle, description, price, original_price, category
//	images:   product_slug, url, alt, is_main, sort_order
//	colors:   product_slug, name, code, image_url, sort_order
//	sizes:    product_slug, size, stock, sort_order
package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tcnr01/storefront-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

const (
	SheetProducts = "products"
	SheetImages   = "images"
	SheetColors   = "colors"
	SheetSizes    = "sizes"
)

// RowError points at the offending cell row (1-based, header is row 1).
type RowError struct {
	Sheet string
	Row   int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Sheet, e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ReadWorkbook parses the catalog workbook into products with their
// images, colors and sizes attached.
func ReadWorkbook(r io.Reader) ([]model.Product, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	products, err := readProducts(f)
	if err != nil {
		return nil, err
	}

	bySlug := make(map[string]*model.Product, len(products))
	for i := range products {
		bySlug[products[i].Slug] = &products[i]
	}

	if err := eachRow(f, SheetImages, 2, func(row int, cells []string) error {
		product, err := owner(bySlug, cells[0])
		if err != nil {
			return err
		}
		if cell(cells, 1) == "" {
			return fmt.Errorf("url is required")
		}
		sortOrder, err := optionalInt(cell(cells, 4))
		if err != nil {
			return fmt.Errorf("sort_order: %w", err)
		}
		product.Images = append(product.Images, model.ProductImage{
			URL:       cell(cells, 1),
			Alt:       cell(cells, 2),
			IsMain:    parseBool(cell(cells, 3)),
			SortOrder: sortOrder,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, SheetColors, 2, func(row int, cells []string) error {
		product, err := owner(bySlug, cells[0])
		if err != nil {
			return err
		}
		if cell(cells, 1) == "" {
			return fmt.Errorf("name is required")
		}
		sortOrder, err := optionalInt(cell(cells, 4))
		if err != nil {
			return fmt.Errorf("sort_order: %w", err)
		}
		product.Colors = append(product.Colors, model.ProductColor{
			Name:      cell(cells, 1),
			Code:      cell(cells, 2),
			ImageURL:  cell(cells, 3),
			SortOrder: sortOrder,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachRow(f, SheetSizes, 3, func(row int, cells []string) error {
		product, err := owner(bySlug, cells[0])
		if err != nil {
			return err
		}
		if cell(cells, 1) == "" {
			return fmt.Errorf("size is required")
		}
		stock, err := strconv.Atoi(cell(cells, 2))
		if err != nil || stock < 0 {
			return fmt.Errorf("stock must be a non-negative integer, got %q", cell(cells, 2))
		}
		sortOrder, err := optionalInt(cell(cells, 3))
		if err != nil {
			return fmt.Errorf("sort_order: %w", err)
		}
		product.Sizes = append(product.Sizes, model.ProductSize{
			Size:      cell(cells, 1),
			Stock:     stock,
			SortOrder: sortOrder,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	return products, nil
}

func readProducts(f *excelize.File) ([]model.Product, error) {
	var products []model.Product
	seen := make(map[string]bool)

	err := eachRow(f, SheetProducts, 5, func(row int, cells []string) error {
		slug := strings.ToLower(cell(cells, 0))
		if slug == "" || cell(cells, 1) == "" {
			return fmt.Errorf("slug and name are required")
		}
		if seen[slug] {
			return fmt.Errorf("duplicate slug %q", slug)
		}
		seen[slug] = true

		price, err := decimal.NewFromString(cell(cells, 4))
		if err != nil || price.IsNegative() {
			return fmt.Errorf("invalid price %q", cell(cells, 4))
		}

		product := model.Product{
			Slug:        slug,
			Name:        cell(cells, 1),
			Subtitle:    cell(cells, 2),
			Description: cell(cells, 3),
			Price:       price,
			Category:    strings.ToLower(cell(cells, 6)),
		}
		if raw := cell(cells, 5); raw != "" {
			original, err := decimal.NewFromString(raw)
			if err != nil {
				return fmt.Errorf("invalid original_price %q", raw)
			}
			product.OriginalPrice = decimal.NewNullDecimal(original)
		}

		products = append(products, product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("sheet %q has no products", SheetProducts)
	}
	return products, nil
}

// eachRow calls fn for every non-blank data row of sheet. Rows with fewer
// than minCells cells are padded so fn can index them directly.
func eachRow(f *excelize.File, sheet string, minCells int, fn func(row int, cells []string) error) error {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return fmt.Errorf("workbook has no %q sheet", sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	for i, cells := range rows {
		if i == 0 || blank(cells) {
			continue
		}
		for len(cells) < minCells {
			cells = append(cells, "")
		}
		if err := fn(i+1, cells); err != nil {
			return &RowError{Sheet: sheet, Row: i + 1, Err: err}
		}
	}
	return nil
}

func owner(bySlug map[string]*model.Product, slug string) (*model.Product, error) {
	product, ok := bySlug[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return nil, fmt.Errorf("unknown product slug %q", slug)
	}
	return product, nil
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func optionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func parseBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
