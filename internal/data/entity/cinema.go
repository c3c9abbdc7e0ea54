package entity

// Cinema is read-only catalog data, used to denormalize order views.
type Cinema struct {
	Base
	Name string `db:"name"`
}
