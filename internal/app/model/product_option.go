package model

type ProductImage struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	URL       string `gorm:"size:1024;not null" json:"url"`
	Alt       string `gorm:"size:255" json:"alt"`
	IsMain    bool   `gorm:"default:false" json:"is_main"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

type ProductColor struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Name      string `gorm:"size:100;not null" json:"name"`
	Code      string `gorm:"size:20" json:"code"` // hex, e.g. #FFFFFF
	ImageURL  string `gorm:"size:1024" json:"image_url"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}

func (ProductColor) TableName() string {
	return "product_colors"
}

// ProductSize is a purchasable variant; Stock is never decremented by checkout.
type ProductSize struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Size      string `gorm:"size:20;not null" json:"size"`
	Stock     int    `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}

func (ProductSize) TableName() string {
	return "product_sizes"
}
