package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/01moynul/autoparts-golang/internal/apperrors"
	"github.com/01moynul/autoparts-golang/internal/models"
)

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

// ListUserOrders returns a customer's orders, newest first.
func (s *Store) ListUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	out := []models.Order{}
	err := withItems(s.conn(ctx)).Where("user_id = ?", userID).Order("id DESC").Find(&out).Error
	return out, errors.Wrap(err, "list user orders")
}

// ListOrders returns all orders, optionally only those in one status.
func (s *Store) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	q := withItems(s.conn(ctx)).Order("id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	out := []models.Order{}
	return out, errors.Wrap(q.Find(&out).Error, "list orders")
}

// GetOrder loads an order. Customers only see their own orders; someone
// else's order is reported as missing.
func (s *Store) GetOrder(ctx context.Context, id uint, viewer *models.User) (*models.Order, error) {
	o, err := get[models.Order](withItems(s.conn(ctx)), id, ErrOrderNotFound)
	if err != nil {
		return nil, err
	}
	if viewer != nil && !viewer.IsAdmin() && o.UserID != viewer.ID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// UpdateOrderStatus moves an order along its lifecycle. Cancelling puts the
// ordered quantities back into stock.
func (s *Store) UpdateOrderStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	var o *models.Order
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if o, err = get[models.Order](withItems(tx), id, ErrOrderNotFound); err != nil {
			return err
		}
		if !models.CanTransition(o.Status, status) {
			return apperrors.ErrInvalidInput.Msgf("cannot change order status from %s to %s", o.Status, status)
		}
		if status == models.OrderCancelled {
			for _, item := range o.Items {
				err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
					Update("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error
				if err != nil {
					return errors.Wrap(err, "restore stock")
				}
			}
		}
		o.Status = status
		return errors.Wrap(tx.Model(o).Update("status", status).Error, "update order status")
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}
