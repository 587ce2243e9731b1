package models

// All lists every persisted model, parents before children.
// Migrations create tables in this order; the seed deletes in reverse.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Manufacturer{},
		&CarMake{},
		&CarModel{},
		&CarYear{},
		&CarBodyType{},
		&CarEngine{},
		&Product{},
		&Compatibility{},
		&Review{},
		&CartItem{},
		&Order{},
		&OrderItem{},
	}
}
