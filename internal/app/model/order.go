package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed" // set at checkout

	PaymentStatusPaid PaymentStatus = "paid" // no payment processor, always paid

	DefaultPaymentMethod = "credit_card"
)

// Order is immutable after checkout except for Status and PaymentStatus.
// Exactly one of SessionID and UserID is set.
type Order struct {
	ID                 uint            `gorm:"primarykey" json:"id"`
	OrderNumber        string          `gorm:"size:32;uniqueIndex;not null" json:"order_number"`
	SessionID          *string         `gorm:"size:64;index" json:"session_id,omitempty"`
	UserID             *uint           `gorm:"index" json:"user_id,omitempty"`
	Status             OrderStatus     `gorm:"type:varchar(20);not null" json:"status"`
	PaymentMethod      string          `gorm:"size:50;not null" json:"payment_method"`
	PaymentStatus      PaymentStatus   `gorm:"type:varchar(20);not null" json:"payment_status"`
	ItemsTotal         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"items_total"`
	ShippingFee        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping_fee"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	RecipientName      string          `gorm:"size:100;not null" json:"recipient_name"`
	RecipientPhone     string          `gorm:"size:50;not null" json:"recipient_phone"`
	ShippingAddress    string          `gorm:"size:500;not null" json:"shipping_address"`
	ShippingCity       *string         `gorm:"size:100" json:"shipping_city"`
	ShippingState      *string         `gorm:"size:100" json:"shipping_state"`
	ShippingPostalCode *string         `gorm:"size:20" json:"shipping_postal_code"`
	Notes              *string         `gorm:"type:text" json:"notes"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OwnedBy matches an authenticated identity against UserID and an
// anonymous one against SessionID.
func (o *Order) OwnedBy(identity Identity) bool {
	if identity.IsAuthenticated() {
		userID, _ := identity.UserID()
		return o.UserID != nil && *o.UserID == userID
	}
	sessionID, ok := identity.SessionID()
	return ok && o.SessionID != nil && *o.SessionID == sessionID
}

// ItemCount is the sum of line quantities.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// FirstItemImage returns the first non-empty snapshotted image.
func (o *Order) FirstItemImage() string {
	for _, item := range o.Items {
		if item.ProductImage != "" {
			return item.ProductImage
		}
	}
	return ""
}

// OrderItem is a frozen copy of a cart line. It never joins back to the
// catalog, so later product edits do not change it.
type OrderItem struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	OrderID      uint            `gorm:"not null;index" json:"order_id"`
	ProductID    uint            `gorm:"not null" json:"product_id"`
	ProductSlug  string          `gorm:"size:255;not null" json:"product_slug"`
	ProductName  string          `gorm:"size:255;not null" json:"product_name"`
	ProductImage string          `gorm:"size:1024" json:"product_image"`
	ColorID      uint            `json:"color_id"`
	ColorName    string          `gorm:"size:100" json:"color_name"`
	SizeID       uint            `json:"size_id"`
	Size         string          `gorm:"size:20" json:"size"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal is Price × Quantity.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
