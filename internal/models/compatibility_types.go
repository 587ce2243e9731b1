package models

import (
	"time"

	"gorm.io/gorm"
)

// Compatibility links a product to one node of the vehicle hierarchy.
// Unset deeper levels mean "every child of the deepest set level".
type Compatibility struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ProductID     uint      `json:"productId" gorm:"not null;index"`
	CarMakeID     uint      `json:"carMakeId" gorm:"not null;index"`
	CarModelID    *uint     `json:"carModelId" gorm:"index"`
	CarYearID     *uint     `json:"carYearId" gorm:"index"`
	CarBodyTypeID *uint     `json:"carBodyTypeId" gorm:"index"`
	CarEngineID   *uint     `json:"carEngineId" gorm:"index"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Depth is how many levels the row pins down, 1 (make) to 5 (engine).
	Depth int `json:"depth" gorm:"-"`

	CarMake     *CarMake     `json:"carMake,omitempty" gorm:"foreignKey:CarMakeID"`
	CarModel    *CarModel    `json:"carModel,omitempty" gorm:"foreignKey:CarModelID"`
	CarYear     *CarYear     `json:"carYear,omitempty" gorm:"foreignKey:CarYearID"`
	CarBodyType *CarBodyType `json:"carBodyType,omitempty" gorm:"foreignKey:CarBodyTypeID"`
	CarEngine   *CarEngine   `json:"carEngine,omitempty" gorm:"foreignKey:CarEngineID"`
}

func (c *Compatibility) setDepth() {
	switch {
	case c.CarEngineID != nil:
		c.Depth = 5
	case c.CarBodyTypeID != nil:
		c.Depth = 4
	case c.CarYearID != nil:
		c.Depth = 3
	case c.CarModelID != nil:
		c.Depth = 2
	default:
		c.Depth = 1
	}
}

func (c *Compatibility) AfterFind(*gorm.DB) error {
	c.setDepth()
	return nil
}

func (c *Compatibility) AfterSave(*gorm.DB) error {
	c.setDepth()
	return nil
}

type CompatibilityInput struct {
	ProductID     uint  `json:"productId" binding:"required"`
	CarMakeID     uint  `json:"carMakeId" binding:"required"`
	CarModelID    *uint `json:"carModelId"`
	CarYearID     *uint `json:"carYearId"`
	CarBodyTypeID *uint `json:"carBodyTypeId"`
	CarEngineID   *uint `json:"carEngineId"`
}
