package db

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/tcnr01/storefront-backend/internal/app/model"
	"github.com/tcnr01/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var migrationModels = []interface{}{
	&model.User{},
	&model.Product{},
	&model.ProductImage{},
	&model.ProductColor{},
	&model.ProductSize{},
	&model.Cart{},
	&model.CartItem{},
	&model.Order{},
	&model.OrderItem{},
	&model.WishlistItem{},
}

// AutoMigrate creates or updates every table on gdb.
func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(migrationModels...)
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	if err := AutoMigrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(migrationModels),
	})
	return nil
}

// Seed loads the demo catalog when the products table is empty.
func Seed(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Catalog already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding demo catalog...")

	products := DemoCatalog()
	if err := gdb.Transaction(func(tx *gorm.DB) error {
		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				logger.Error("Failed to create product", err, map[string]interface{}{
					"slug": products[i].Slug,
				})
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	logger.Info("Demo catalog seeded successfully", map[string]interface{}{
		"products": len(products),
	})
	return nil
}

func unsplash(photo string, width int) string {
	return "https://images.unsplash.com/" + photo + "?w=" + strconv.Itoa(width) + "&q=80"
}

func sizeRun(stocks map[string]int, order []string) []model.ProductSize {
	sizes := make([]model.ProductSize, 0, len(order))
	for i, label := range order {
		sizes = append(sizes, model.ProductSize{Size: label, Stock: stocks[label], SortOrder: i})
	}
	return sizes
}

// DemoCatalog is the catalog loaded on first start.
func DemoCatalog() []model.Product {
	usSizes := []string{"US 7", "US 7.5", "US 8", "US 8.5", "US 9", "US 9.5", "US 10", "US 10.5", "US 11", "US 12"}

	return []model.Product{
		{
			Slug:          "tcnr01-air-max-1",
			Name:          "TCNR01 Air Max 1",
			Subtitle:      "男鞋",
			Description:   "TCNR01 Air Max 1 重新定義運動鞋的經典設計。可見式 Air 氣墊單元，搭配優質皮革和網布鞋面。",
			Price:         decimal.NewFromInt(4500),
			OriginalPrice: decimal.NewNullDecimal(decimal.NewFromInt(5200)),
			Category:      "男鞋",
			Images: []model.ProductImage{
				{URL: unsplash("photo-1542291026-7eec264c27ff", 800), Alt: "TCNR01 Air Max 1 側面", IsMain: true, SortOrder: 0},
				{URL: unsplash("photo-1606107557195-0e29a4b5b4aa", 800), Alt: "TCNR01 Air Max 1 正面", SortOrder: 1},
				{URL: unsplash("photo-1605348532760-6753d2c43329", 800), Alt: "TCNR01 Air Max 1 背面", SortOrder: 2},
			},
			Colors: []model.ProductColor{
				{Name: "大學紅/白", Code: "#C41E3A", ImageURL: unsplash("photo-1542291026-7eec264c27ff", 120), SortOrder: 0},
				{Name: "黑/白", Code: "#111111", ImageURL: unsplash("photo-1606107557195-0e29a4b5b4aa", 120), SortOrder: 1},
				{Name: "海軍藍/白", Code: "#000080", ImageURL: unsplash("photo-1605348532760-6753d2c43329", 120), SortOrder: 2},
			},
			Sizes: sizeRun(map[string]int{
				"US 7": 5, "US 7.5": 3, "US 8": 8, "US 8.5": 10, "US 9": 12,
				"US 9.5": 6, "US 10": 4, "US 10.5": 0, "US 11": 2, "US 12": 0,
			}, usSizes),
		},
		{
			Slug:        "tcnr01-air-force-1-07",
			Name:        "TCNR01 Air Force 1 '07",
			Subtitle:    "男鞋",
			Description: "籃球傳奇鞋款延續經典元素。耐穿縫線鞋面搭配流暢的設計線條和低筒造型。",
			Price:       decimal.NewFromInt(3600),
			Category:    "男鞋",
			Images: []model.ProductImage{
				{URL: unsplash("photo-1595950653106-6c9ebd614d3a", 800), Alt: "TCNR01 Air Force 1 '07 側面", IsMain: true, SortOrder: 0},
				{URL: unsplash("photo-1600269452121-4f2416e55c28", 800), Alt: "TCNR01 Air Force 1 '07 正面", SortOrder: 1},
			},
			Colors: []model.ProductColor{
				{Name: "白/白", Code: "#FFFFFF", ImageURL: unsplash("photo-1595950653106-6c9ebd614d3a", 120), SortOrder: 0},
				{Name: "黑/黑", Code: "#000000", ImageURL: unsplash("photo-1600269452121-4f2416e55c28", 120), SortOrder: 1},
			},
			Sizes: sizeRun(map[string]int{
				"US 7": 10, "US 7.5": 10, "US 8": 10, "US 8.5": 10, "US 9": 10,
				"US 9.5": 10, "US 10": 10, "US 10.5": 5, "US 11": 5, "US 12": 3,
			}, usSizes),
		},
		{
			Slug:          "tcnr01-pegasus-41",
			Name:          "TCNR01 Pegasus 41",
			Subtitle:      "女款路跑鞋",
			Description:   "日常訓練的可靠夥伴。回彈泡棉中底搭配透氣網布鞋面。",
			Price:         decimal.NewFromInt(2800),
			OriginalPrice: decimal.NewNullDecimal(decimal.NewFromInt(3200)),
			Category:      "女鞋",
			Images: []model.ProductImage{
				{URL: unsplash("photo-1608231387042-66d1773070a5", 800), Alt: "TCNR01 Pegasus 41 側面", SortOrder: 0},
			},
			Colors: []model.ProductColor{
				{Name: "粉紅/白", Code: "#F4A6C0", ImageURL: unsplash("photo-1608231387042-66d1773070a5", 120), SortOrder: 0},
			},
			Sizes: sizeRun(map[string]int{
				"US 5": 4, "US 6": 6, "US 7": 8, "US 8": 2,
			}, []string{"US 5", "US 6", "US 7", "US 8"}),
		},
	}
}
