package model

// Subproduct is a stocked variant of a Product (brand, colour, unit...).
type Subproduct struct {
	ID        int64    `db:"id"`
	ProductID int64    `db:"product_id"`
	Brand     *string  `db:"brand"`
	Color     *string  `db:"color"`
	Unit      *string  `db:"unit"`
	Quantity  *int64   `db:"quantity"`
	Price     *float64 `db:"price"`
	Supplier  *string  `db:"supplier"`
	Notes     *string  `db:"notes"`
	Date      *string  `db:"date"` // user supplied, ISO date
}

// ItemRow is the server side projection of a Subproduct joined to its Product.
type ItemRow struct {
	ID        int64    `db:"id" json:"id"`
	ProductID int64    `db:"product_id" json:"product_id"`
	Name      string   `db:"name" json:"name"`
	Category  *string  `db:"category" json:"category"`
	Brand     *string  `db:"brand" json:"brand"`
	Color     *string  `db:"color" json:"color"`
	Unit      *string  `db:"unit" json:"unit"`
	Quantity  *int64   `db:"quantity" json:"quantity"`
	Price     *float64 `db:"price" json:"price"`
	Supplier  *string  `db:"supplier" json:"supplier"`
	Notes     *string  `db:"notes" json:"notes"`
	Date      *string  `db:"date" json:"date"`
}
