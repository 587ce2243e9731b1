package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/01moynul/autoparts-golang/internal/models"
	"github.com/01moynul/autoparts-golang/internal/textnorm"
)

// SearchLimit caps each group of search results.
const SearchLimit = 10

type SearchResult struct {
	Products      []models.Product      `json:"products"`
	Categories    []models.Category     `json:"categories"`
	Manufacturers []models.Manufacturer `json:"manufacturers"`
	Makes         []models.CarMake      `json:"makes"`
}

// Search matches q against the normalized names of products, categories,
// manufacturers and car makes.
func (s *Store) Search(ctx context.Context, q string) (*SearchResult, error) {
	res := &SearchResult{
		Products:      []models.Product{},
		Categories:    []models.Category{},
		Manufacturers: []models.Manufacturer{},
		Makes:         []models.CarMake{},
	}
	if textnorm.Key(q) == "" {
		return res, nil
	}
	pattern := textnorm.LikePattern(q)
	db := s.conn(ctx)

	for _, dest := range []any{&res.Products, &res.Categories, &res.Manufacturers, &res.Makes} {
		err := db.Where("name_key LIKE ? ESCAPE '!'", pattern).Order("name_key, id").Limit(SearchLimit).Find(dest).Error
		if err != nil {
			return nil, errors.Wrapf(err, "search %T", dest)
		}
	}
	return res, nil
}
