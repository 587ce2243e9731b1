package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// orderTransitions lists the statuses an order may move to from each status.
var orderTransitions = map[string][]string{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
}

// CanTransition reports whether an order in status from may move to status to.
func CanTransition(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order is the model for the 'orders' table
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"userId" gorm:"not null;index"`
	Status          string          `json:"status" gorm:"size:20;not null;index"`
	Total           decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	ContactName     string          `json:"contactName" gorm:"size:255"`
	ContactPhone    string          `json:"contactPhone" gorm:"size:50"`
	ShippingAddress string          `json:"shippingAddress" gorm:"type:text"`
	Comment         string          `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots the product name and price at the time of purchase.
type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     uint            `json:"orderId" gorm:"not null;index"`
	ProductID   uint            `json:"productId" gorm:"not null;index"`
	ProductName string          `json:"productName" gorm:"size:255;not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	UnitPrice   decimal.Decimal `json:"unitPrice" gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// --- API Input Structs ---

type CheckoutInput struct {
	ContactName     string `json:"contactName" binding:"required,notblank,max=255"`
	ContactPhone    string `json:"contactPhone" binding:"required,notblank,max=50"`
	ShippingAddress string `json:"shippingAddress" binding:"required,notblank"`
	Comment         string `json:"comment"`
}

type OrderStatusInput struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped delivered cancelled"`
}
