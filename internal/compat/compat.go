// Package compat decides which compatibility rows fit a vehicle.
//
// A row names one node of the make -> model -> year -> body type -> engine
// hierarchy. Levels below that node are left empty and act as wildcards, so
// a make-only row fits every vehicle of that make.
package compat

import (
	"strconv"

	"gorm.io/gorm"

	"github.com/01moynul/autoparts-golang/internal/models"
)

// Vehicle is a position in the hierarchy chosen by a shopper. Zero ids mean
// the level has not been chosen yet and match anything.
type Vehicle struct {
	MakeID     uint `form:"makeId"`
	ModelID    uint `form:"modelId"`
	YearID     uint `form:"yearId"`
	BodyTypeID uint `form:"bodyTypeId"`
	EngineID   uint `form:"engineId"`
}

func (v Vehicle) IsZero() bool {
	return v == Vehicle{}
}

// Fits reports whether row r fits vehicle v.
func Fits(r models.Compatibility, v Vehicle) bool {
	return match(r.CarMakeID, v.MakeID) &&
		matchOptional(r.CarModelID, v.ModelID) &&
		matchOptional(r.CarYearID, v.YearID) &&
		matchOptional(r.CarBodyTypeID, v.BodyTypeID) &&
		matchOptional(r.CarEngineID, v.EngineID)
}

// AnyFits reports whether at least one row fits v.
func AnyFits(rows []models.Compatibility, v Vehicle) bool {
	for _, r := range rows {
		if Fits(r, v) {
			return true
		}
	}
	return false
}

func match(have, want uint) bool {
	return have == 0 || want == 0 || have == want
}

func matchOptional(have *uint, want uint) bool {
	return have == nil || match(*have, want)
}

// Scope is Fits expressed as a gorm condition on the compatibilities table.
func Scope(v Vehicle) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if v.MakeID != 0 {
			db = db.Where("car_make_id = ?", v.MakeID)
		}
		for _, c := range []struct {
			col string
			id  uint
		}{
			{"car_model_id", v.ModelID},
			{"car_year_id", v.YearID},
			{"car_body_type_id", v.BodyTypeID},
			{"car_engine_id", v.EngineID},
		} {
			if c.id != 0 {
				db = db.Where("("+c.col+" IS NULL OR "+c.col+" = ?)", c.id)
			}
		}
		return db
	}
}

// Node is one entry of the hierarchical view of a product's compatibility.
// All is set when a row ends at this node, i.e. every descendant fits.
type Node struct {
	Level           string  `json:"level"`
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	All             bool    `json:"all"`
	CompatibilityID uint    `json:"compatibilityId,omitempty"`
	Children        []*Node `json:"children,omitempty"`
}

type step struct {
	level string
	id    uint
	name  string
}

func path(r models.Compatibility) []step {
	p := []step{{"make", r.CarMakeID, ""}}
	if r.CarMake != nil {
		p[0].name = r.CarMake.Name
	}
	if r.CarModelID == nil {
		return p
	}
	s := step{level: "model", id: *r.CarModelID}
	if r.CarModel != nil {
		s.name = r.CarModel.Name
	}
	p = append(p, s)
	if r.CarYearID == nil {
		return p
	}
	s = step{level: "year", id: *r.CarYearID}
	if r.CarYear != nil {
		s.name = strconv.Itoa(r.CarYear.Year)
	}
	p = append(p, s)
	if r.CarBodyTypeID == nil {
		return p
	}
	s = step{level: "bodyType", id: *r.CarBodyTypeID}
	if r.CarBodyType != nil {
		s.name = r.CarBodyType.Name
	}
	p = append(p, s)
	if r.CarEngineID == nil {
		return p
	}
	s = step{level: "engine", id: *r.CarEngineID}
	if r.CarEngine != nil {
		s.name = r.CarEngine.Name
	}
	return append(p, s)
}

// Tree folds rows into a make -> ... -> engine tree. Rows should have their
// hierarchy associations preloaded so nodes carry names. Siblings keep the
// order in which they are first seen.
func Tree(rows []models.Compatibility) []*Node {
	var roots []*Node
	for _, r := range rows {
		siblings := &roots
		var node *Node
		for _, s := range path(r) {
			node = nil
			for _, n := range *siblings {
				if n.ID == s.id && n.Level == s.level {
					node = n
					break
				}
			}
			if node == nil {
				node = &Node{Level: s.level, ID: s.id, Name: s.name}
				*siblings = append(*siblings, node)
			}
			siblings = &node.Children
		}
		node.All = true
		node.CompatibilityID = r.ID
	}
	return roots
}
