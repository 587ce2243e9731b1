package store

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/01moynul/autoparts-golang/internal/apperrors"
	"github.com/01moynul/autoparts-golang/internal/compat"
	"github.com/01moynul/autoparts-golang/internal/models"
	"github.com/01moynul/autoparts-golang/internal/textnorm"
)

var (
	ErrDuplicateSKU = apperrors.ErrAlreadyExists.New("sku already exists")
	ErrHasVariants  = apperrors.ErrInUse.New("product has variants")
)

// findProduct resolves a numeric id or a slug.
func (s *Store) findProduct(db *gorm.DB, key string) (*models.Product, error) {
	if id, err := strconv.ParseUint(key, 10, 64); err == nil {
		return get[models.Product](db, uint(id), ErrProductNotFound)
	}
	var p models.Product
	if err := db.Where("slug = ?", key).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, "load product by slug")
	}
	return &p, nil
}

func productSlug(p *models.Product) string {
	base := textnorm.Slug(p.Name)
	if base == "" {
		return strconv.FormatUint(uint64(p.ID), 10)
	}
	return fmt.Sprintf("%s-%d", base, p.ID)
}

// productFromInput validates references and variant rules. self is the id
// of the product being updated, or 0 on create.
func productFromInput(tx *gorm.DB, self uint, in models.ProductInput) (*models.Product, error) {
	if in.Price.IsNegative() {
		return nil, apperrors.ErrInvalidInput.Msg("price must not be negative")
	}
	if ok, err := exists(tx, &models.Category{}, 0, map[string]any{"id": in.CategoryID}); err != nil {
		return nil, err
	} else if !ok {
		return nil, apperrors.ErrInvalidInput.Msg(ErrCategoryNotFound.Error())
	}
	if ok, err := exists(tx, &models.Manufacturer{}, 0, map[string]any{"id": in.ManufacturerID}); err != nil {
		return nil, err
	} else if !ok {
		return nil, apperrors.ErrInvalidInput.Msg(ErrManufacturerNotFound.Error())
	}

	baseID := nilIfZero(in.BaseProductID)
	if in.IsVariant {
		if baseID == nil {
			return nil, apperrors.ErrInvalidInput.Msg("a variant requires baseProductId")
		}
		if *baseID == self {
			return nil, apperrors.ErrInvalidInput.Msg("a product cannot be its own base product")
		}
		base, err := get[models.Product](tx, *baseID, apperrors.ErrInvalidInput.Msg("base product not found"))
		if err != nil {
			return nil, err
		}
		if base.IsVariant {
			return nil, apperrors.ErrInvalidInput.Msg("base product must not itself be a variant")
		}
		if self != 0 {
			n, err := count(tx, &models.Product{}, "base_product_id = ?", self)
			if err != nil {
				return nil, err
			}
			if n > 0 {
				return nil, apperrors.ErrInvalidInput.Msg("a product with variants cannot become a variant")
			}
		}
	} else if baseID != nil {
		return nil, apperrors.ErrInvalidInput.Msg("baseProductId is only allowed on variants")
	}

	p := &models.Product{
		Name:           textnorm.Clean(in.Name),
		NameKey:        textnorm.Key(in.Name),
		SKU:            textnorm.Clean(in.SKU),
		SKUKey:         textnorm.Key(in.SKU),
		Description:    in.Description,
		Price:          in.Price,
		StockQuantity:  in.StockQuantity,
		CategoryID:     in.CategoryID,
		ManufacturerID: in.ManufacturerID,
		IsVariant:      in.IsVariant,
		BaseProductID:  baseID,
	}
	if in.IsVariant {
		p.VariantLabel = textnorm.Clean(in.VariantLabel)
	}

	if p.SKUKey != "" {
		taken, err := exists(tx, &models.Product{}, self, map[string]any{"sku_key": p.SKUKey})
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateSKU.Msgf("sku %q already exists", p.SKU)
		}
	}
	return p, nil
}

func (s *Store) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return get[models.Product](s.conn(ctx), id, ErrProductNotFound)
}

// GetProductDetail loads a product by id or slug with everything the
// product page shows.
func (s *Store) GetProductDetail(ctx context.Context, key string) (*models.ProductDetail, error) {
	db := s.conn(ctx).
		Preload("Category").
		Preload("Manufacturer").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Compatibilities", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Compatibilities.CarMake").
		Preload("Compatibilities.CarModel").
		Preload("Compatibilities.CarYear").
		Preload("Compatibilities.CarBodyType").
		Preload("Compatibilities.CarEngine")
	p, err := s.findProduct(db, key)
	if err != nil {
		return nil, err
	}
	rating, err := s.RatingSummary(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &models.ProductDetail{Product: *p, Rating: rating}, nil
}

// ListProducts applies the storefront filters and returns one page.
func (s *Store) ListProducts(ctx context.Context, f models.ProductFilter, v compat.Vehicle) (*models.ProductPage, error) {
	page, limit := paginate(f.Page, f.Limit)
	db := s.conn(ctx)

	q := db.Model(&models.Product{})
	if !f.IncludeVariants {
		q = q.Where("is_variant = ?", false)
	}
	if f.Query != "" {
		pattern := textnorm.LikePattern(f.Query)
		q = q.Where("(name_key LIKE ? ESCAPE '!' OR sku_key LIKE ? ESCAPE '!')", pattern, pattern)
	}
	if f.CategoryID != 0 {
		sub := db.Model(&models.Category{}).Select("id").Where("id = ? OR parent_id = ?", f.CategoryID, f.CategoryID)
		q = q.Where("category_id IN (?)", sub)
	}
	if f.ManufacturerID != 0 {
		q = q.Where("manufacturer_id = ?", f.ManufacturerID)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if !v.IsZero() {
		// a variant fits through its base product's rows too
		sub := db.Model(&models.Compatibility{}).Select("product_id").Scopes(compat.Scope(v))
		q = q.Where("(id IN (?) OR base_product_id IN (?))", sub, sub)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, "count products")
	}
	var items []models.Product
	err := q.Session(&gorm.Session{}).
		Preload("Category").
		Preload("Manufacturer").
		Order("name_key, id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	if items == nil {
		items = []models.Product{}
	}
	return &models.ProductPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *Store) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	var p *models.Product
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if p, err = productFromInput(tx, 0, in); err != nil {
			return err
		}
		if err := tx.Create(p).Error; err != nil {
			return errors.Wrap(err, "create product")
		}
		p.Slug = productSlug(p)
		return errors.Wrap(tx.Model(p).Update("slug", p.Slug).Error, "set product slug")
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id uint, in models.ProductInput) (*models.Product, error) {
	var p *models.Product
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := get[models.Product](tx, id, ErrProductNotFound)
		if err != nil {
			return err
		}
		if p, err = productFromInput(tx, id, in); err != nil {
			return err
		}
		p.ID, p.CreatedAt = current.ID, current.CreatedAt
		p.Slug = productSlug(p)
		return errors.Wrap(tx.Save(p).Error, "update product")
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes a product with its compatibility rows, reviews and
// cart lines. Order items keep their snapshot.
func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := get[models.Product](tx, id, ErrProductNotFound); err != nil {
			return err
		}
		n, err := count(tx, &models.Product{}, "base_product_id = ?", id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrHasVariants.Msgf("product has %d variant(s); delete them first", n)
		}
		for _, model := range []any{&models.Compatibility{}, &models.Review{}, &models.CartItem{}} {
			if err := tx.Where("product_id = ?", id).Delete(model).Error; err != nil {
				return errors.Wrapf(err, "delete %T", model)
			}
		}
		return errors.Wrap(tx.Delete(&models.Product{}, id).Error, "delete product")
	})
}

// RatingSummary averages a product's review ratings.
func (s *Store) RatingSummary(ctx context.Context, productID uint) (models.RatingSummary, error) {
	var sum models.RatingSummary
	err := s.conn(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&sum).Error
	if err != nil {
		return sum, errors.Wrap(err, "rating summary")
	}
	sum.Average = math.Round(sum.Average*100) / 100
	return sum, nil
}
