package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/01moynul/autoparts-golang/internal/apperrors"
	"github.com/01moynul/autoparts-golang/internal/models"
	"github.com/01moynul/autoparts-golang/internal/textnorm"
)

var ErrCategoryInUse = apperrors.ErrInUse.New("category is in use")

// --- Category ---

// CategoryTree returns top-level categories with their subcategories.
func (s *Store) CategoryTree(ctx context.Context) ([]models.Category, error) {
	// 1. Fetch all categories flat
	var allCats []models.Category
	if err := s.conn(ctx).Order("name_key, id").Find(&allCats).Error; err != nil {
		return nil, errors.Wrap(err, "list categories")
	}

	// 2. Index by id; pointers must address the slice elements, not copies
	catMap := make(map[uint]*models.Category, len(allCats))
	for i := range allCats {
		allCats[i].Children = []models.Category{}
		catMap[allCats[i].ID] = &allCats[i]
	}

	// 3. Attach children in slice order so siblings stay sorted
	for i := range allCats {
		cat := &allCats[i]
		if cat.ParentID == nil {
			continue
		}
		if parent, ok := catMap[*cat.ParentID]; ok {
			parent.Children = append(parent.Children, *cat)
		}
	}

	// 4. Roots now carry their children
	roots := []models.Category{}
	for _, cat := range allCats {
		if cat.ParentID == nil {
			roots = append(roots, cat)
		}
	}
	return roots, nil
}

func (s *Store) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return get[models.Category](s.conn(ctx), id, ErrCategoryNotFound)
}

// categoryParent checks that parentID (if any) names a top-level category
// other than self.
func categoryParent(tx *gorm.DB, self uint, parentID *uint) (*uint, error) {
	parentID = nilIfZero(parentID)
	if parentID == nil {
		return nil, nil
	}
	if *parentID == self {
		return nil, apperrors.ErrInvalidInput.Msg("a category cannot be its own parent")
	}
	parent, err := get[models.Category](tx, *parentID, apperrors.ErrInvalidInput.Msg("parent category not found"))
	if err != nil {
		return nil, err
	}
	if parent.ParentID != nil {
		return nil, apperrors.ErrInvalidInput.Msg("categories can only be nested one level deep")
	}
	if self != 0 {
		n, err := count(tx, &models.Category{}, "parent_id = ?", self)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, apperrors.ErrInvalidInput.Msg("a category with subcategories cannot become a subcategory")
		}
	}
	return parentID, nil
}

func (s *Store) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	cat := &models.Category{Name: textnorm.Clean(in.Name), NameKey: textnorm.Key(in.Name)}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if cat.ParentID, err = categoryParent(tx, 0, in.ParentID); err != nil {
			return err
		}
		if err := uniqueName(tx, &models.Category{}, 0, cat.Name, map[string]any{"name_key": cat.NameKey, "parent_id": cat.ParentID}); err != nil {
			return err
		}
		cat.Slug = textnorm.Slug(cat.Name)
		return errors.Wrap(tx.Create(cat).Error, "create category")
	})
	if err != nil {
		return nil, err
	}
	cat.Children = []models.Category{}
	return cat, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id uint, in models.CategoryInput) (*models.Category, error) {
	var cat *models.Category
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if cat, err = get[models.Category](tx, id, ErrCategoryNotFound); err != nil {
			return err
		}
		cat.Name, cat.NameKey = textnorm.Clean(in.Name), textnorm.Key(in.Name)
		if cat.ParentID, err = categoryParent(tx, id, in.ParentID); err != nil {
			return err
		}
		if err := uniqueName(tx, &models.Category{}, id, cat.Name, map[string]any{"name_key": cat.NameKey, "parent_id": cat.ParentID}); err != nil {
			return err
		}
		cat.Slug = textnorm.Slug(cat.Name)
		return errors.Wrap(tx.Save(cat).Error, "update category")
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := get[models.Category](tx, id, ErrCategoryNotFound); err != nil {
			return err
		}
		children, err := count(tx, &models.Category{}, "parent_id = ?", id)
		if err != nil {
			return err
		}
		if children > 0 {
			return ErrCategoryInUse.Msg("category has subcategories")
		}
		products, err := count(tx, &models.Product{}, "category_id = ?", id)
		if err != nil {
			return err
		}
		if products > 0 {
			return ErrCategoryInUse.Msgf("category has %d product(s)", products)
		}
		return errors.Wrap(tx.Delete(&models.Category{}, id).Error, "delete category")
	})
}

// --- Manufacturer ---

var ErrManufacturerInUse = apperrors.ErrInUse.New("manufacturer is in use")

func (s *Store) ListManufacturers(ctx context.Context) ([]models.Manufacturer, error) {
	var out []models.Manufacturer
	err := s.conn(ctx).Order("name_key, id").Find(&out).Error
	return out, errors.Wrap(err, "list manufacturers")
}

func (s *Store) GetManufacturer(ctx context.Context, id uint) (*models.Manufacturer, error) {
	return get[models.Manufacturer](s.conn(ctx), id, ErrManufacturerNotFound)
}

func (s *Store) CreateManufacturer(ctx context.Context, in models.ManufacturerInput) (*models.Manufacturer, error) {
	m := &models.Manufacturer{Name: textnorm.Clean(in.Name), NameKey: textnorm.Key(in.Name), Country: textnorm.Clean(in.Country)}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := uniqueName(tx, &models.Manufacturer{}, 0, m.Name, map[string]any{"name_key": m.NameKey}); err != nil {
			return err
		}
		return errors.Wrap(tx.Create(m).Error, "create manufacturer")
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) UpdateManufacturer(ctx context.Context, id uint, in models.ManufacturerInput) (*models.Manufacturer, error) {
	var m *models.Manufacturer
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if m, err = get[models.Manufacturer](tx, id, ErrManufacturerNotFound); err != nil {
			return err
		}
		m.Name, m.NameKey, m.Country = textnorm.Clean(in.Name), textnorm.Key(in.Name), textnorm.Clean(in.Country)
		if err := uniqueName(tx, &models.Manufacturer{}, id, m.Name, map[string]any{"name_key": m.NameKey}); err != nil {
			return err
		}
		return errors.Wrap(tx.Save(m).Error, "update manufacturer")
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) DeleteManufacturer(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := get[models.Manufacturer](tx, id, ErrManufacturerNotFound); err != nil {
			return err
		}
		n, err := count(tx, &models.Product{}, "manufacturer_id = ?", id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrManufacturerInUse.Msgf("manufacturer has %d product(s)", n)
		}
		return errors.Wrap(tx.Delete(&models.Manufacturer{}, id).Error, "delete manufacturer")
	})
}
