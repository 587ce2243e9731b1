package models

import "time"

// Category is a two-level tree: top categories and their subcategories.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	NameKey   string    `json:"-" gorm:"size:100;not null;index"`
	Slug      string    `json:"slug" gorm:"size:120;index"`
	ParentID  *uint     `json:"parentId" gorm:"index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Virtual Field (Not in DB) - Used for constructing the Tree View in the UI
	Children []Category `json:"children,omitempty" gorm:"-"`
}

type Manufacturer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	NameKey   string    `json:"-" gorm:"size:100;not null;index"`
	Country   string    `json:"country" gorm:"size:100"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// --- API Input Structs ---

type CategoryInput struct {
	Name     string `json:"name" binding:"required,notblank,max=100"`
	ParentID *uint  `json:"parentId"` // Pointer allows sending null for root categories
}

type ManufacturerInput struct {
	Name    string `json:"name" binding:"required,notblank,max=100"`
	Country string `json:"country" binding:"max=100"`
}
