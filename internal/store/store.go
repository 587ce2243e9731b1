// Package store is the gorm data access layer. Every rule that the database
// schema does not enforce (name uniqueness, parent existence, cascades) is
// checked here, inside a transaction with the write it guards.
package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/01moynul/autoparts-golang/internal/apperrors"
)

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// WithClock replaces the clock used for the model year range.
func (s *Store) WithClock(now func() time.Time) *Store {
	cp := *s
	cp.now = now
	return &cp
}

// DB exposes the underlying handle for migrations and seeding.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "get pool")
	}
	return errors.Wrap(sqlDB.PingContext(ctx), "ping")
}

// get loads one row by primary key, mapping a miss to notFound. The
// returned error still matches gorm.ErrRecordNotFound.
func get[T any](db *gorm.DB, id uint, notFound *apperrors.Error) (*T, error) {
	var v T
	if err := db.First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound.Err(err)
		}
		return nil, errors.Wrapf(err, "load %T %d", v, id)
	}
	return &v, nil
}

// exists reports whether a row matching conds exists, ignoring the row
// with id exclude (0 excludes nothing).
func exists(db *gorm.DB, model any, exclude uint, conds map[string]any) (bool, error) {
	q := db.Model(model).Where(conds)
	if exclude != 0 {
		q = q.Where("id <> ?", exclude)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, errors.Wrapf(err, "count %T", model)
	}
	return n > 0, nil
}

func count(db *gorm.DB, model any, query string, args ...any) (int64, error) {
	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return 0, errors.Wrapf(err, "count %T", model)
	}
	return n, nil
}

func paginate(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
