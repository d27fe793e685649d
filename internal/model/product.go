package model

// Product is the canonical identity behind every stock record. Name is unique and compared
// case-sensitively.
type Product struct {
	ID       int64   `db:"id" json:"id"`
	Name     string  `db:"name" json:"name"`
	Category *string `db:"category" json:"category"`
}
