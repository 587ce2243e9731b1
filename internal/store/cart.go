package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/01moynul/autoparts-golang/internal/models"
)

// GetCart returns the user's cart with current prices and stock.
func (s *Store) GetCart(ctx context.Context, userID uint) (*models.Cart, error) {
	var items []models.CartItem
	err := s.conn(ctx).Preload("Product").Where("user_id = ?", userID).Order("id").Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}

	cart := &models.Cart{Items: []models.CartLine{}, Subtotal: decimal.Zero}
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		line := models.CartLine{
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			SKU:       item.Product.SKU,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
			LineTotal: item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
			Stock:     item.Product.StockQuantity,
		}
		cart.Subtotal = cart.Subtotal.Add(line.LineTotal)
		cart.TotalItems += item.Quantity
		cart.Items = append(cart.Items, line)
	}
	return cart, nil
}

// AddToCart adds quantity to the user's line for the product, creating it
// if needed. The resulting quantity may not exceed stock.
func (s *Store) AddToCart(ctx context.Context, userID uint, in models.AddToCartInput) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := get[models.Product](tx, in.ProductID, ErrProductNotFound)
		if err != nil {
			return err
		}

		var item models.CartItem
		err = tx.Where("user_id = ? AND product_id = ?", userID, in.ProductID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{UserID: userID, ProductID: in.ProductID}
		case err != nil:
			return errors.Wrap(err, "load cart item")
		}

		item.Quantity += in.Quantity
		if item.Quantity > p.StockQuantity {
			return ErrInsufficientStock.Msgf("only %d of %q in stock", p.StockQuantity, p.Name)
		}
		return errors.Wrap(tx.Save(&item).Error, "save cart item")
	})
}

// SetCartQuantity sets the quantity of a cart line; zero removes it.
func (s *Store) SetCartQuantity(ctx context.Context, userID, productID uint, quantity int) error {
	if quantity == 0 {
		return s.RemoveFromCart(ctx, userID, productID)
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		err := tx.Preload("Product").Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		if err != nil {
			return errors.Wrap(err, "load cart item")
		}
		if item.Product != nil && quantity > item.Product.StockQuantity {
			return ErrInsufficientStock.Msgf("only %d of %q in stock", item.Product.StockQuantity, item.Product.Name)
		}
		return errors.Wrap(tx.Model(&item).Update("quantity", quantity).Error, "update cart item")
	})
}

func (s *Store) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	res := s.conn(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete cart item")
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// --- Checkout ---

// Checkout turns the user's cart into a pending order. Stock is decremented
// with a guarded update so concurrent checkouts cannot oversell.
func (s *Store) Checkout(ctx context.Context, userID uint, in models.CheckoutInput) (*models.Order, error) {
	var order *models.Order
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the cart lines' products
		var items []models.CartItem
		err := tx.Preload("Product", func(db *gorm.DB) *gorm.DB {
			return db.Clauses(clause.Locking{Strength: "UPDATE"})
		}).Where("user_id = ?", userID).Order("id").Find(&items).Error
		if err != nil {
			return errors.Wrap(err, "load cart")
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		// 2. Check stock and compute the total
		order = &models.Order{
			UserID:          userID,
			Status:          models.OrderPending,
			Total:           decimal.Zero,
			ContactName:     in.ContactName,
			ContactPhone:    in.ContactPhone,
			ShippingAddress: in.ShippingAddress,
			Comment:         in.Comment,
		}
		for _, item := range items {
			p := item.Product
			if p == nil {
				return ErrProductNotFound.Msgf("product %d in the cart no longer exists", item.ProductID)
			}
			if p.StockQuantity < item.Quantity {
				return ErrInsufficientStock.Msgf("only %d of %q in stock", p.StockQuantity, p.Name)
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    item.Quantity,
				UnitPrice:   p.Price,
			})
			order.Total = order.Total.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		// 3. Decrement stock
		for _, item := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", item.ProductID, item.Quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
			if res.Error != nil {
				return errors.Wrap(res.Error, "decrement stock")
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock.Msgf("insufficient stock for %q", item.ProductName)
			}
		}

		// 4. Create the order with its items, then clear the cart
		if err := tx.Create(order).Error; err != nil {
			return errors.Wrap(err, "create order")
		}
		return errors.Wrap(tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error, "clear cart")
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
