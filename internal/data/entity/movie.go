package entity

// Movie is read-only catalog data, used to denormalize order views.
type Movie struct {
	Base
	Title    string `db:"title"`
	Duration int    `db:"duration"` // minutes
}
