package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tcnr01/storefront-backend/internal/app/model"
	"github.com/tcnr01/storefront-backend/internal/db"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

// createProduct inserts a product with two colors and two sizes of the
// given stock.
func createProduct(t *testing.T, testDB *gorm.DB, slug string, price int64, stock int) *model.Product {
	t.Helper()

	product := &model.Product{
		Slug:     slug,
		Name:     "Product " + slug,
		Price:    decimal.NewFromInt(price),
		Category: "shoes",
		Images: []model.ProductImage{
			{URL: fmt.Sprintf("https://img.example.com/%s.jpg", slug), IsMain: true},
		},
		Colors: []model.ProductColor{
			{Name: "Black", Code: "#000000", SortOrder: 0},
			{Name: "White", Code: "#FFFFFF", SortOrder: 1},
		},
		Sizes: []model.ProductSize{
			{Size: "US 9", Stock: stock, SortOrder: 0},
			{Size: "US 10", Stock: stock, SortOrder: 1},
		},
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func line(product *model.Product, quantity int) AddCartItemInput {
	return AddCartItemInput{
		ProductID: product.ID,
		ColorID:   product.Colors[0].ID,
		SizeID:    product.Sizes[0].ID,
		Quantity:  quantity,
	}
}

type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{revoked: make(map[string]time.Duration)}
}

func (b *memoryBlacklist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[tokenID] = ttl
	return nil
}

func (b *memoryBlacklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.revoked[tokenID]
	return ok, nil
}
