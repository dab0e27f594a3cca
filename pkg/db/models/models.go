package models

// All lists the models in dependency order, for schema auto-migration.
func All() []any {
	return []any{&Rider{}, &Movement{}}
}
