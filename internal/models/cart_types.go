package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one product line in a user's cart.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint      `json:"productId" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Product *Product `json:"product,omitempty"`
}

type CartLine struct {
	ProductID uint            `json:"productId"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	Stock     int             `json:"stock"`
}

type Cart struct {
	Items      []CartLine      `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TotalItems int             `json:"totalItems"`
}

// --- API Input Structs ---

type AddToCartInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartItemInput struct {
	Quantity *int `json:"quantity" binding:"required,gte=0"` // 0 removes the line
}
