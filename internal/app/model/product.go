package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	Slug          string              `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Name          string              `gorm:"size:255;not null;index" json:"name"`
	Subtitle      string              `gorm:"size:255" json:"subtitle"`
	Description   string              `gorm:"type:text" json:"description"`
	Price         decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"price"`
	OriginalPrice decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"original_price"`
	Category      string              `gorm:"size:100;index" json:"category"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`

	Images []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Colors []ProductColor `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"colors,omitempty"`
	Sizes  []ProductSize  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"sizes,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// MainImageURL returns the image flagged as main, else the first image,
// else the empty string. Images must already be loaded.
func (p *Product) MainImageURL() string {
	for _, img := range p.Images {
		if img.IsMain {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}
