package dto

import "strings"

// ItemInput is the request body of POST and PUT /api/items. Omitted fields stay nil.
type ItemInput struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Brand    *string  `json:"brand"`
	Color    *string  `json:"color"`
	Unit     *string  `json:"unit"`
	Quantity *int64   `json:"quantity"`
	Price    *float64 `json:"price"`
	Supplier *string  `json:"supplier"`
	Notes    *string  `json:"notes"`
	Date     *string  `json:"date"`
}

// Normalize turns empty text fields into nil so they are stored as NULL.
func (in *ItemInput) Normalize() {
	for _, f := range []**string{&in.Name, &in.Category, &in.Brand, &in.Color, &in.Unit, &in.Supplier, &in.Notes, &in.Date} {
		if *f != nil && strings.TrimSpace(**f) == "" {
			*f = nil
		}
	}
}

func (in *ItemInput) HasName() bool {
	return in.Name != nil && *in.Name != ""
}
