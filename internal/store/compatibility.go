package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/01moynul/autoparts-golang/internal/apperrors"
	"github.com/01moynul/autoparts-golang/internal/compat"
	"github.com/01moynul/autoparts-golang/internal/models"
)

var ErrDuplicateCompatibility = apperrors.ErrAlreadyExists.New("product already has this compatibility")

var levelFields = [...]string{"carMakeId", "carModelId", "carYearId", "carBodyTypeId", "carEngineId"}

var levelNotFound = [...]*apperrors.Error{ErrMakeNotFound, ErrModelNotFound, ErrYearNotFound, ErrBodyTypeNotFound, ErrEngineNotFound}

func preloadHierarchy(db *gorm.DB) *gorm.DB {
	return db.Preload("CarMake").Preload("CarModel").Preload("CarYear").Preload("CarBodyType").Preload("CarEngine")
}

func nilIfZero(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

// compatibilityFromInput checks that the populated ids form a contiguous
// prefix of the hierarchy and that each node is a child of the one before.
func compatibilityFromInput(tx *gorm.DB, in models.CompatibilityInput) (*models.Compatibility, error) {
	row := &models.Compatibility{
		ProductID:     in.ProductID,
		CarMakeID:     in.CarMakeID,
		CarModelID:    nilIfZero(in.CarModelID),
		CarYearID:     nilIfZero(in.CarYearID),
		CarBodyTypeID: nilIfZero(in.CarBodyTypeID),
		CarEngineID:   nilIfZero(in.CarEngineID),
	}

	ok, err := exists(tx, &models.Product{}, 0, map[string]any{"id": row.ProductID})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrInvalidInput.Msg(ErrProductNotFound.Error())
	}

	chain := []*uint{&row.CarMakeID, row.CarModelID, row.CarYearID, row.CarBodyTypeID, row.CarEngineID}
	depth := 0
	for d, id := range chain {
		if id == nil {
			continue
		}
		if d != depth {
			return nil, apperrors.ErrInvalidInput.Msgf("%s requires %s", levelFields[d], levelFields[d-1])
		}
		depth++
	}

	for d := 0; d < depth; d++ {
		if d == 0 {
			ok, err := exists(tx, levels[0].model, 0, map[string]any{"id": *chain[0]})
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, apperrors.ErrInvalidInput.Msg(levelNotFound[0].Error())
			}
			continue
		}
		var parents []uint
		if err := tx.Model(levels[d].model).Where("id = ?", *chain[d]).Pluck(levels[d].parentCol, &parents).Error; err != nil {
			return nil, errors.Wrap(err, "load hierarchy node")
		}
		if len(parents) == 0 {
			return nil, apperrors.ErrInvalidInput.Msg(levelNotFound[d].Error())
		}
		if parents[0] != *chain[d-1] {
			return nil, apperrors.ErrInvalidInput.Msgf("%s %d does not belong to %s %d",
				levelFields[d], *chain[d], levelFields[d-1], *chain[d-1])
		}
	}
	return row, nil
}

func uniqueCompatibility(tx *gorm.DB, exclude uint, row *models.Compatibility) error {
	taken, err := exists(tx, &models.Compatibility{}, exclude, map[string]any{
		"product_id":       row.ProductID,
		"car_make_id":      row.CarMakeID,
		"car_model_id":     row.CarModelID,
		"car_year_id":      row.CarYearID,
		"car_body_type_id": row.CarBodyTypeID,
		"car_engine_id":    row.CarEngineID,
	})
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateCompatibility
	}
	return nil
}

// ListCompatibilities returns a product's own rows with hierarchy names.
func (s *Store) ListCompatibilities(ctx context.Context, productID uint) ([]models.Compatibility, error) {
	q := preloadHierarchy(s.conn(ctx)).Order("id")
	if productID != 0 {
		q = q.Where("product_id = ?", productID)
	}
	var out []models.Compatibility
	return out, errors.Wrap(q.Find(&out).Error, "list compatibilities")
}

func (s *Store) GetCompatibility(ctx context.Context, id uint) (*models.Compatibility, error) {
	return get[models.Compatibility](preloadHierarchy(s.conn(ctx)), id, ErrCompatibilityNotFound)
}

// CompatibilityTree folds a product's rows into the make -> engine tree.
func (s *Store) CompatibilityTree(ctx context.Context, productID uint) ([]*compat.Node, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	rows, err := s.ListCompatibilities(ctx, productID)
	if err != nil {
		return nil, err
	}
	return compat.Tree(rows), nil
}

func (s *Store) CreateCompatibility(ctx context.Context, in models.CompatibilityInput) (*models.Compatibility, error) {
	var row *models.Compatibility
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if row, err = compatibilityFromInput(tx, in); err != nil {
			return err
		}
		if err := uniqueCompatibility(tx, 0, row); err != nil {
			return err
		}
		return errors.Wrap(tx.Create(row).Error, "create compatibility")
	})
	if err != nil {
		return nil, err
	}
	return s.GetCompatibility(ctx, row.ID)
}

func (s *Store) UpdateCompatibility(ctx context.Context, id uint, in models.CompatibilityInput) (*models.Compatibility, error) {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := get[models.Compatibility](tx, id, ErrCompatibilityNotFound)
		if err != nil {
			return err
		}
		row, err := compatibilityFromInput(tx, in)
		if err != nil {
			return err
		}
		if err := uniqueCompatibility(tx, id, row); err != nil {
			return err
		}
		row.ID, row.CreatedAt = current.ID, current.CreatedAt
		return errors.Wrap(tx.Save(row).Error, "update compatibility")
	})
	if err != nil {
		return nil, err
	}
	return s.GetCompatibility(ctx, id)
}

func (s *Store) DeleteCompatibility(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Compatibility{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete compatibility")
	}
	if res.RowsAffected == 0 {
		return ErrCompatibilityNotFound
	}
	return nil
}

// effectiveCompatibilities returns the rows that decide whether a product
// fits: its own plus, for a variant, those of its base product.
func effectiveCompatibilities(db *gorm.DB, p *models.Product) ([]models.Compatibility, error) {
	ids := []uint{p.ID}
	if p.BaseProductID != nil {
		ids = append(ids, *p.BaseProductID)
	}
	var rows []models.Compatibility
	err := db.Where("product_id IN ?", ids).Order("id").Find(&rows).Error
	return rows, errors.Wrap(err, "load compatibilities")
}

// ProductFits reports whether the product identified by key fits v.
func (s *Store) ProductFits(ctx context.Context, key string, v compat.Vehicle) (bool, error) {
	p, err := s.findProduct(s.conn(ctx), key)
	if err != nil {
		return false, err
	}
	rows, err := effectiveCompatibilities(s.conn(ctx), p)
	if err != nil {
		return false, err
	}
	return compat.AnyFits(rows, v), nil
}
