package controller

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tcnr01/storefront-backend/internal/app/model"
)

// Response bodies use camelCase keys; models keep their snake_case tags for
// internal use only.

type UserResponse struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        *string   `json:"phone"`
	AddressLine1 *string   `json:"addressLine1"`
	AddressLine2 *string   `json:"addressLine2"`
	City         *string   `json:"city"`
	State        *string   `json:"state"`
	PostalCode   *string   `json:"postalCode"`
	Country      string    `json:"country"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Phone:        user.Phone,
		AddressLine1: user.AddressLine1,
		AddressLine2: user.AddressLine2,
		City:         user.City,
		State:        user.State,
		PostalCode:   user.PostalCode,
		Country:      user.Country,
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

type ProductListItem struct {
	ID            uint                `json:"id"`
	Slug          string              `json:"slug"`
	Name          string              `json:"name"`
	Subtitle      string              `json:"subtitle"`
	Price         decimal.Decimal     `json:"price"`
	OriginalPrice decimal.NullDecimal `json:"originalPrice"`
	Category      string              `json:"category"`
	ImageURL      string              `json:"imageUrl"`
	ColorCount    int                 `json:"colorCount"`
}

type ProductImageResponse struct {
	ID     uint   `json:"id"`
	URL    string `json:"url"`
	Alt    string `json:"alt"`
	IsMain bool   `json:"isMain"`
}

type ProductColorResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	ImageURL string `json:"imageUrl"`
}

type ProductSizeResponse struct {
	ID    uint   `json:"id"`
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

type ProductDetail struct {
	ID            uint                   `json:"id"`
	Slug          string                 `json:"slug"`
	Name          string                 `json:"name"`
	Subtitle      string                 `json:"subtitle"`
	Description   string                 `json:"description"`
	Price         decimal.Decimal        `json:"price"`
	OriginalPrice decimal.NullDecimal    `json:"originalPrice"`
	Category      string                 `json:"category"`
	Images        []ProductImageResponse `json:"images"`
	Colors        []ProductColorResponse `json:"colors"`
	Sizes         []ProductSizeResponse  `json:"sizes"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

func toProductListItem(product *model.Product) ProductListItem {
	return ProductListItem{
		ID:            product.ID,
		Slug:          product.Slug,
		Name:          product.Name,
		Subtitle:      product.Subtitle,
		Price:         product.Price,
		OriginalPrice: product.OriginalPrice,
		Category:      product.Category,
		ImageURL:      product.MainImageURL(),
		ColorCount:    len(product.Colors),
	}
}

func toProductDetail(product *model.Product) ProductDetail {
	detail := ProductDetail{
		ID:            product.ID,
		Slug:          product.Slug,
		Name:          product.Name,
		Subtitle:      product.Subtitle,
		Description:   product.Description,
		Price:         product.Price,
		OriginalPrice: product.OriginalPrice,
		Category:      product.Category,
		Images:        make([]ProductImageResponse, 0, len(product.Images)),
		Colors:        make([]ProductColorResponse, 0, len(product.Colors)),
		Sizes:         make([]ProductSizeResponse, 0, len(product.Sizes)),
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
	for _, img := range product.Images {
		detail.Images = append(detail.Images, ProductImageResponse{
			ID:     img.ID,
			URL:    img.URL,
			Alt:    img.Alt,
			IsMain: img.IsMain,
		})
	}
	for _, color := range product.Colors {
		detail.Colors = append(detail.Colors, ProductColorResponse{
			ID:       color.ID,
			Name:     color.Name,
			Code:     color.Code,
			ImageURL: color.ImageURL,
		})
	}
	for _, size := range product.Sizes {
		detail.Sizes = append(detail.Sizes, ProductSizeResponse{
			ID:    size.ID,
			Size:  size.Size,
			Stock: size.Stock,
		})
	}
	return detail
}

type OrderItemResponse struct {
	ID           uint            `json:"id"`
	ProductID    uint            `json:"productId"`
	ProductSlug  string          `json:"productSlug"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	ColorID      uint            `json:"colorId"`
	ColorName    string          `json:"colorName"`
	SizeID       uint            `json:"sizeId"`
	Size         string          `json:"size"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
}

type OrderDetail struct {
	ID                 uint                `json:"id"`
	OrderNumber        string              `json:"orderNumber"`
	Status             model.OrderStatus   `json:"status"`
	PaymentMethod      string              `json:"paymentMethod"`
	PaymentStatus      model.PaymentStatus `json:"paymentStatus"`
	ItemsTotal         decimal.Decimal     `json:"itemsTotal"`
	ShippingFee        decimal.Decimal     `json:"shippingFee"`
	TotalAmount        decimal.Decimal     `json:"totalAmount"`
	RecipientName      string              `json:"recipientName"`
	RecipientPhone     string              `json:"recipientPhone"`
	ShippingAddress    string              `json:"shippingAddress"`
	ShippingCity       *string             `json:"shippingCity"`
	ShippingState      *string             `json:"shippingState"`
	ShippingPostalCode *string             `json:"shippingPostalCode"`
	Notes              *string             `json:"notes"`
	Items              []OrderItemResponse `json:"items"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

type OrderSummary struct {
	ID             uint              `json:"id"`
	OrderNumber    string            `json:"orderNumber"`
	Status         model.OrderStatus `json:"status"`
	TotalAmount    decimal.Decimal   `json:"totalAmount"`
	ItemCount      int               `json:"itemCount"`
	FirstItemImage string            `json:"firstItemImage"`
	CreatedAt      time.Time         `json:"createdAt"`
}

func toOrderDetail(order *model.Order) OrderDetail {
	detail := OrderDetail{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		Status:             order.Status,
		PaymentMethod:      order.PaymentMethod,
		PaymentStatus:      order.PaymentStatus,
		ItemsTotal:         order.ItemsTotal,
		ShippingFee:        order.ShippingFee,
		TotalAmount:        order.TotalAmount,
		RecipientName:      order.RecipientName,
		RecipientPhone:     order.RecipientPhone,
		ShippingAddress:    order.ShippingAddress,
		ShippingCity:       order.ShippingCity,
		ShippingState:      order.ShippingState,
		ShippingPostalCode: order.ShippingPostalCode,
		Notes:              order.Notes,
		Items:              make([]OrderItemResponse, 0, len(order.Items)),
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
	for _, item := range order.Items {
		detail.Items = append(detail.Items, OrderItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductSlug:  item.ProductSlug,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			ColorID:      item.ColorID,
			ColorName:    item.ColorName,
			SizeID:       item.SizeID,
			Size:         item.Size,
			Price:        item.Price,
			Quantity:     item.Quantity,
		})
	}
	return detail
}

func toOrderSummary(order *model.Order) OrderSummary {
	return OrderSummary{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		Status:         order.Status,
		TotalAmount:    order.TotalAmount,
		ItemCount:      order.ItemCount(),
		FirstItemImage: order.FirstItemImage(),
		CreatedAt:      order.CreatedAt,
	}
}
