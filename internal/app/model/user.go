package model

import (
	"time"
)

const DefaultCountry = "TW"

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`
	LastName     string    `gorm:"size:100;not null" json:"last_name"`
	Phone        *string   `gorm:"size:50" json:"phone"`
	AddressLine1 *string   `gorm:"size:255" json:"address_line1"`
	AddressLine2 *string   `gorm:"size:255" json:"address_line2"`
	City         *string   `gorm:"size:100" json:"city"`
	State        *string   `gorm:"size:100" json:"state"`
	PostalCode   *string   `gorm:"size:20" json:"postal_code"`
	Country      string    `gorm:"size:2;not null;default:'TW'" json:"country"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
