package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the model for the 'products' table.
// A variant (IsVariant) points at its non-variant base product, e.g. the
// 1L and 4L cans of the same engine oil.
type Product struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:255;not null"`
	NameKey     string `json:"-" gorm:"size:255;not null;index"`
	Slug        string `json:"slug" gorm:"size:255;index"`
	SKU         string `json:"sku" gorm:"size:100"`
	SKUKey      string `json:"-" gorm:"column:sku_key;size:100;index"`
	Description string `json:"description" gorm:"type:text"`

	// --- Pricing & Stock ---
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	StockQuantity int             `json:"stockQuantity" gorm:"not null"`

	// --- Classification ---
	CategoryID     uint `json:"categoryId" gorm:"not null;index"`
	ManufacturerID uint `json:"manufacturerId" gorm:"not null;index"`

	// --- Variants ---
	IsVariant     bool   `json:"isVariant" gorm:"not null"`
	BaseProductID *uint  `json:"baseProductId" gorm:"index"`
	VariantLabel  string `json:"variantLabel,omitempty" gorm:"size:100"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Associations (loaded on demand)
	Category        *Category       `json:"category,omitempty"`
	Manufacturer    *Manufacturer   `json:"manufacturer,omitempty"`
	Variants        []Product       `json:"variants,omitempty" gorm:"foreignKey:BaseProductID"`
	Compatibilities []Compatibility `json:"compatibilities,omitempty"`
}

// RatingSummary is attached to product detail responses.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type ProductDetail struct {
	Product
	Rating RatingSummary `json:"rating"`
}

// --- API Input Structs ---

type ProductInput struct {
	Name           string          `json:"name" binding:"required,notblank,max=255"`
	SKU            string          `json:"sku" binding:"max=100"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	StockQuantity  int             `json:"stockQuantity" binding:"gte=0"`
	CategoryID     uint            `json:"categoryId" binding:"required"`
	ManufacturerID uint            `json:"manufacturerId" binding:"required"`
	IsVariant      bool            `json:"isVariant"`
	BaseProductID  *uint           `json:"baseProductId"`
	VariantLabel   string          `json:"variantLabel" binding:"max=100"`
}

// ProductFilter holds the storefront list filters.
type ProductFilter struct {
	Query           string
	CategoryID      uint
	ManufacturerID  uint
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	IncludeVariants bool
	Page            int
	Limit           int
}

type ProductPage struct {
	Items []Product `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}
