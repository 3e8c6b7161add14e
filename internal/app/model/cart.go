package model

import (
	"time"
)

// Cart belongs to exactly one identity: SessionID for anonymous carts,
// UserID for authenticated ones. Both columns are unique when set.
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	SessionID *string   `gorm:"size:64;uniqueIndex" json:"session_id,omitempty"`
	UserID    *uint     `gorm:"uniqueIndex" json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem references catalog rows by id only; price and names are read live.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_line" json:"cart_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_items_line" json:"product_id"`
	ColorID   uint      `gorm:"not null;uniqueIndex:idx_cart_items_line" json:"color_id"`
	SizeID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_line" json:"size_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// SameLine reports whether two items describe the same product/color/size.
func (i *CartItem) SameLine(other *CartItem) bool {
	return i.ProductID == other.ProductID &&
		i.ColorID == other.ColorID &&
		i.SizeID == other.SizeID
}
