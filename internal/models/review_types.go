package models

import "time"

type Review struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ProductID  uint      `json:"productId" gorm:"not null;uniqueIndex:idx_review_product_user"`
	UserID     uint      `json:"userId" gorm:"not null;uniqueIndex:idx_review_product_user"`
	AuthorName string    `json:"authorName" gorm:"size:255"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment" gorm:"type:text"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type ReviewInput struct {
	ProductID uint   `json:"productId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=2000"`
}
