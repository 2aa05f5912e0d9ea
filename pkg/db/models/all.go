package models

// All lists every persisted model in dependency order, for schema bootstrap
// in tests and the sqlite development mode.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Product{},
		&ProductVariant{},
		&CartItem{},
		&Order{},
		&OrderItem{},
	}
}
