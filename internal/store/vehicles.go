package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/01moynul/autoparts-golang/internal/apperrors"
	"github.com/01moynul/autoparts-golang/internal/models"
	"github.com/01moynul/autoparts-golang/internal/textnorm"
)

// Hierarchy depths, make first.
const (
	LevelMake = iota
	LevelModel
	LevelYear
	LevelBodyType
	LevelEngine
)

type level struct {
	model     any
	parentCol string // column pointing at the previous level
	compatCol string // column in compatibilities
}

var levels = [...]level{
	{&models.CarMake{}, "", "car_make_id"},
	{&models.CarModel{}, "make_id", "car_model_id"},
	{&models.CarYear{}, "model_id", "car_year_id"},
	{&models.CarBodyType{}, "year_id", "car_body_type_id"},
	{&models.CarEngine{}, "body_type_id", "car_engine_id"},
}

func uniqueName(tx *gorm.DB, model any, exclude uint, name string, conds map[string]any) error {
	taken, err := exists(tx, model, exclude, conds)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateName.Msgf("%q already exists", name)
	}
	return nil
}

// requireParent checks that the node at depth has an existing parent.
func requireParent(tx *gorm.DB, depth int, parentID uint, notFound *apperrors.Error) error {
	ok, err := exists(tx, levels[depth-1].model, 0, map[string]any{"id": parentID})
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrInvalidInput.Msg(notFound.Error())
	}
	return nil
}

// ancestors returns the ids of levels 0..depth-1 for a node at depth whose
// parent is parentID.
func ancestors(tx *gorm.DB, depth int, parentID uint) ([]uint, error) {
	chain := make([]uint, depth)
	chain[depth-1] = parentID
	for d := depth - 1; d > 0; d-- {
		var ids []uint
		if err := tx.Model(levels[d].model).Where("id = ?", chain[d]).Pluck(levels[d].parentCol, &ids).Error; err != nil {
			return nil, errors.Wrap(err, "load ancestors")
		}
		if len(ids) == 0 {
			return nil, errors.Errorf("hierarchy node at depth %d has no row %d", d, chain[d])
		}
		chain[d-1] = ids[0]
	}
	return chain, nil
}

// reparent rewrites the ancestor columns of compatibility rows that point at
// a node which moved to another parent.
func reparent(tx *gorm.DB, depth int, id, parentID uint) error {
	chain, err := ancestors(tx, depth, parentID)
	if err != nil {
		return err
	}
	updates := make(map[string]any, depth)
	for d, ancestor := range chain {
		updates[levels[d].compatCol] = ancestor
	}
	err = tx.Model(&models.Compatibility{}).Where(levels[depth].compatCol+" = ?", id).Updates(updates).Error
	return errors.Wrap(err, "reparent compatibilities")
}

// cascadeDelete removes the node at depth, all of its descendants and every
// compatibility row pointing into that subtree.
func cascadeDelete(tx *gorm.DB, depth int, id uint) (models.DeleteSummary, error) {
	var sum models.DeleteSummary
	counters := [...]*int64{&sum.Makes, &sum.Models, &sum.Years, &sum.BodyTypes, &sum.Engines}

	// 1. Collect the subtree level by level
	var ids [len(levels)][]uint
	ids[depth] = []uint{id}
	for d := depth + 1; d < len(levels) && len(ids[d-1]) > 0; d++ {
		if err := tx.Model(levels[d].model).Where(levels[d].parentCol+" IN ?", ids[d-1]).Pluck("id", &ids[d]).Error; err != nil {
			return sum, errors.Wrap(err, "collect descendants")
		}
	}

	// 2. Compatibility rows referencing any node of the subtree
	var conds []string
	var args []any
	for d := depth; d < len(levels); d++ {
		if len(ids[d]) > 0 {
			conds = append(conds, levels[d].compatCol+" IN ?")
			args = append(args, ids[d])
		}
	}
	res := tx.Where(strings.Join(conds, " OR "), args...).Delete(&models.Compatibility{})
	if res.Error != nil {
		return sum, errors.Wrap(res.Error, "delete compatibilities")
	}
	sum.Compatibilities = res.RowsAffected

	// 3. Nodes, deepest first
	for d := len(levels) - 1; d >= depth; d-- {
		if len(ids[d]) == 0 {
			continue
		}
		res := tx.Where("id IN ?", ids[d]).Delete(levels[d].model)
		if res.Error != nil {
			return sum, errors.Wrap(res.Error, "delete hierarchy nodes")
		}
		*counters[d] = res.RowsAffected
	}
	return sum, nil
}

func (s *Store) deleteNode(ctx context.Context, depth int, id uint, notFound *apperrors.Error) (models.DeleteSummary, error) {
	var sum models.DeleteSummary
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, levels[depth].model, 0, map[string]any{"id": id})
		if err != nil {
			return err
		}
		if !ok {
			return notFound
		}
		sum, err = cascadeDelete(tx, depth, id)
		return err
	})
	return sum, err
}

// --- Makes ---

func (s *Store) ListMakes(ctx context.Context) ([]models.CarMake, error) {
	var out []models.CarMake
	err := s.conn(ctx).Order("name_key, id").Find(&out).Error
	return out, errors.Wrap(err, "list car makes")
}

func (s *Store) GetMake(ctx context.Context, id uint) (*models.CarMake, error) {
	return get[models.CarMake](s.conn(ctx), id, ErrMakeNotFound)
}

func (s *Store) CreateMake(ctx context.Context, in models.CarMakeInput) (*models.CarMake, error) {
	m := &models.CarMake{Name: textnorm.Clean(in.Name), NameKey: textnorm.Key(in.Name)}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := uniqueName(tx, &models.CarMake{}, 0, m.Name, map[string]any{"name_key": m.NameKey}); err != nil {
			return err
		}
		return errors.Wrap(tx.Create(m).Error, "create car make")
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) UpdateMake(ctx context.Context, id uint, in models.CarMakeInput) (*models.CarMake, error) {
	var m *models.CarMake
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if m, err = get[models.CarMake](tx, id, ErrMakeNotFound); err != nil {
			return err
		}
		m.Name, m.NameKey = textnorm.Clean(in.Name), textnorm.Key(in.Name)
		if err := uniqueName(tx, &models.CarMake{}, id, m.Name, map[string]any{"name_key": m.NameKey}); err != nil {
			return err
		}
		return errors.Wrap(tx.Save(m).Error, "update car make")
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) DeleteMake(ctx context.Context, id uint) (models.DeleteSummary, error) {
	return s.deleteNode(ctx, LevelMake, id, ErrMakeNotFound)
}

// --- Models ---

// ListModels returns all car models, or those of one make when makeID is set.
func (s *Store) ListModels(ctx context.Context, makeID uint) ([]models.CarModel, error) {
	q := s.conn(ctx).Order("name_key, id")
	if makeID != 0 {
		q = q.Where("make_id = ?", makeID)
	}
	var out []models.CarModel
	return out, errors.Wrap(q.Find(&out).Error, "list car models")
}

func (s *Store) GetModel(ctx context.Context, id uint) (*models.CarModel, error) {
	return get[models.CarModel](s.conn(ctx), id, ErrModelNotFound)
}

func (s *Store) CreateModel(ctx context.Context, in models.CarModelInput) (*models.CarModel, error) {
	m := &models.CarModel{Name: textnorm.Clean(in.Name), NameKey: textnorm.Key(in.Name), MakeID: in.MakeID}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireParent(tx, LevelModel, in.MakeID, ErrMakeNotFound); err != nil {
			return err
		}
		if err := uniqueName(tx, &models.CarModel{}, 0, m.Name, map[string]any{"name_key": m.NameKey, "make_id": m.MakeID}); err != nil {
			return err
		}
		return errors.Wrap(tx.Create(m).Error, "create car model")
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) UpdateModel(ctx context.Context, id uint, in models.CarModelInput) (*models.CarModel, error) {
	var m *models.CarModel
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if m, err = get[models.CarModel](tx, id, ErrModelNotFound); err != nil {
			return err
		}
		moved := m.MakeID != in.MakeID
		m.Name, m.NameKey, m.MakeID = textnorm.Clean(in.Name), textnorm.Key(in.Name), in.MakeID
		if err := requireParent(tx, LevelModel, m.MakeID, ErrMakeNotFound); err != nil {
			return err
		}
		if err := uniqueName(tx, &models.CarModel{}, id, m.Name, map[string]any{"name_key": m.NameKey, "make_id": m.MakeID}); err != nil {
			return err
		}
		if err := tx.Save(m).Error; err != nil {
			return errors.Wrap(err, "update car model")
		}
		if moved {
			return reparent(tx, LevelModel, id, m.MakeID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) DeleteModel(ctx context.Context, id uint) (models.DeleteSummary, error) {
	return s.deleteNode(ctx, LevelModel, id, ErrModelNotFound)
}

// --- Years ---

func (s *Store) checkYear(year int) error {
	maxYear := s.now().Year()
	if year < models.MinCarYear || year > maxYear {
		return apperrors.ErrInvalidInput.Msgf("year must be between %d and %d", models.MinCarYear, maxYear)
	}
	return nil
}

func (s *Store) uniqueYear(tx *gorm.DB, exclude uint, y *models.CarYear) error {
	taken, err := exists(tx, &models.CarYear{}, exclude, map[string]any{"year": y.Year, "model_id": y.ModelID})
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateName.Msgf("year %d already exists for this model", y.Year)
	}
	return nil
}

// ListYears returns model years in ascending order, optionally for one model.
func (s *Store) ListYears(ctx context.Context, modelID uint) ([]models.CarYear, error) {
	q := s.conn(ctx).Order("year, id")
	if modelID != 0 {
		q = q.Where("model_id = ?", modelID)
	}
	var out []models.CarYear
	return out, errors.Wrap(q.Find(&out).Error, "list car years")
}

func (s *Store) GetYear(ctx context.Context, id uint) (*models.CarYear, error) {
	return get[models.CarYear](s.conn(ctx), id, ErrYearNotFound)
}

func (s *Store) CreateYear(ctx context.Context, in models.CarYearInput) (*models.CarYear, error) {
	if err := s.checkYear(in.Year); err != nil {
		return nil, err
	}
	y := &models.CarYear{Year: in.Year, ModelID: in.ModelID}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireParent(tx, LevelYear, in.ModelID, ErrModelNotFound); err != nil {
			return err
		}
		if err := s.uniqueYear(tx, 0, y); err != nil {
			return err
		}
		return errors.Wrap(tx.Create(y).Error, "create car year")
	})
	if err != nil {
		return nil, err
	}
	return y, nil
}

func (s *Store) UpdateYear(ctx context.Context, id uint, in models.CarYearInput) (*models.CarYear, error) {
	if err := s.checkYear(in.Year); err != nil {
		return nil, err
	}
	var y *models.CarYear
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if y, err = get[models.CarYear](tx, id, ErrYearNotFound); err != nil {
			return err
		}
		moved := y.ModelID != in.ModelID
		y.Year, y.ModelID = in.Year, in.ModelID
		if err := requireParent(tx, LevelYear, y.ModelID, ErrModelNotFound); err != nil {
			return err
		}
		if err := s.uniqueYear(tx, id, y); err != nil {
			return err
		}
		if err := tx.Save(y).Error; err != nil {
			return errors.Wrap(err, "update car year")
		}
		if moved {
			return reparent(tx, LevelYear, id, y.ModelID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return y, nil
}

func (s *Store) DeleteYear(ctx context.Context, id uint) (models.DeleteSummary, error) {
	return s.deleteNode(ctx, LevelYear, id, ErrYearNotFound)
}

// --- Body types ---

func (s *Store) ListBodyTypes(ctx context.Context, yearID uint) ([]models.CarBodyType, error) {
	q := s.conn(ctx).Order("name_key, id")
	if yearID != 0 {
		q = q.Where("year_id = ?", yearID)
	}
	var out []models.CarBodyType
	return out, errors.Wrap(q.Find(&out).Error, "list car body types")
}

func (s *Store) GetBodyType(ctx context.Context, id uint) (*models.CarBodyType, error) {
	return get[models.CarBodyType](s.conn(ctx), id, ErrBodyTypeNotFound)
}

func (s *Store) CreateBodyType(ctx context.Context, in models.CarBodyTypeInput) (*models.CarBodyType, error) {
	b := &models.CarBodyType{Name: textnorm.Clean(in.Name), NameKey: textnorm.Key(in.Name), YearID: in.YearID}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireParent(tx, LevelBodyType, in.YearID, ErrYearNotFound); err != nil {
			return err
		}
		if err := uniqueName(tx, &models.CarBodyType{}, 0, b.Name, map[string]any{"name_key": b.NameKey, "year_id": b.YearID}); err != nil {
			return err
		}
		return errors.Wrap(tx.Create(b).Error, "create car body type")
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) UpdateBodyType(ctx context.Context, id uint, in models.CarBodyTypeInput) (*models.CarBodyType, error) {
	var b *models.CarBodyType
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if b, err = get[models.CarBodyType](tx, id, ErrBodyTypeNotFound); err != nil {
			return err
		}
		moved := b.YearID != in.YearID
		b.Name, b.NameKey, b.YearID = textnorm.Clean(in.Name), textnorm.Key(in.Name), in.YearID
		if err := requireParent(tx, LevelBodyType, b.YearID, ErrYearNotFound); err != nil {
			return err
		}
		if err := uniqueName(tx, &models.CarBodyType{}, id, b.Name, map[string]any{"name_key": b.NameKey, "year_id": b.YearID}); err != nil {
			return err
		}
		if err := tx.Save(b).Error; err != nil {
			return errors.Wrap(err, "update car body type")
		}
		if moved {
			return reparent(tx, LevelBodyType, id, b.YearID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) DeleteBodyType(ctx context.Context, id uint) (models.DeleteSummary, error) {
	return s.deleteNode(ctx, LevelBodyType, id, ErrBodyTypeNotFound)
}

// --- Engines ---

func (s *Store) ListEngines(ctx context.Context, bodyTypeID uint) ([]models.CarEngine, error) {
	q := s.conn(ctx).Order("name_key, id")
	if bodyTypeID != 0 {
		q = q.Where("body_type_id = ?", bodyTypeID)
	}
	var out []models.CarEngine
	return out, errors.Wrap(q.Find(&out).Error, "list car engines")
}

func (s *Store) GetEngine(ctx context.Context, id uint) (*models.CarEngine, error) {
	return get[models.CarEngine](s.conn(ctx), id, ErrEngineNotFound)
}

func (s *Store) CreateEngine(ctx context.Context, in models.CarEngineInput) (*models.CarEngine, error) {
	e := &models.CarEngine{Name: textnorm.Clean(in.Name), NameKey: textnorm.Key(in.Name), BodyTypeID: in.BodyTypeID}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireParent(tx, LevelEngine, in.BodyTypeID, ErrBodyTypeNotFound); err != nil {
			return err
		}
		if err := uniqueName(tx, &models.CarEngine{}, 0, e.Name, map[string]any{"name_key": e.NameKey, "body_type_id": e.BodyTypeID}); err != nil {
			return err
		}
		return errors.Wrap(tx.Create(e).Error, "create car engine")
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Store) UpdateEngine(ctx context.Context, id uint, in models.CarEngineInput) (*models.CarEngine, error) {
	var e *models.CarEngine
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if e, err = get[models.CarEngine](tx, id, ErrEngineNotFound); err != nil {
			return err
		}
		moved := e.BodyTypeID != in.BodyTypeID
		e.Name, e.NameKey, e.BodyTypeID = textnorm.Clean(in.Name), textnorm.Key(in.Name), in.BodyTypeID
		if err := requireParent(tx, LevelEngine, e.BodyTypeID, ErrBodyTypeNotFound); err != nil {
			return err
		}
		if err := uniqueName(tx, &models.CarEngine{}, id, e.Name, map[string]any{"name_key": e.NameKey, "body_type_id": e.BodyTypeID}); err != nil {
			return err
		}
		if err := tx.Save(e).Error; err != nil {
			return errors.Wrap(err, "update car engine")
		}
		if moved {
			return reparent(tx, LevelEngine, id, e.BodyTypeID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Store) DeleteEngine(ctx context.Context, id uint) (models.DeleteSummary, error) {
	return s.deleteNode(ctx, LevelEngine, id, ErrEngineNotFound)
}
