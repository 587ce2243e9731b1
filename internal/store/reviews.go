package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/01moynul/autoparts-golang/internal/models"
)

func (s *Store) ListReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	q := s.conn(ctx).Order("id DESC")
	if productID != 0 {
		q = q.Where("product_id = ?", productID)
	}
	out := []models.Review{}
	return out, errors.Wrap(q.Find(&out).Error, "list reviews")
}

// CreateReview stores a user's only review of a product.
func (s *Store) CreateReview(ctx context.Context, user *models.User, in models.ReviewInput) (*models.Review, error) {
	r := &models.Review{
		ProductID:  in.ProductID,
		UserID:     user.ID,
		AuthorName: user.FullName,
		Rating:     in.Rating,
		Comment:    in.Comment,
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := get[models.Product](tx, in.ProductID, ErrProductNotFound); err != nil {
			return err
		}
		taken, err := exists(tx, &models.Review{}, 0, map[string]any{"product_id": in.ProductID, "user_id": user.ID})
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateReview
		}
		return errors.Wrap(tx.Create(r).Error, "create review")
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteReview removes a review written by user, or any review for admins.
func (s *Store) DeleteReview(ctx context.Context, id uint, user *models.User) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := get[models.Review](tx, id, ErrReviewNotFound)
		if err != nil {
			return err
		}
		if r.UserID != user.ID && !user.IsAdmin() {
			return ErrNotReviewAuthor
		}
		return errors.Wrap(tx.Delete(r).Error, "delete review")
	})
}
