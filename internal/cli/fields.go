package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fekuna/stockmanager/internal/model"
	"github.com/spf13/pflag"
)

// itemFields are the editable item fields, in the order the flags are registered.
var itemFields = []string{"name", "brand", "category", "color", "quantity", "unit", "price", "supplier", "notes", "date"}

var fieldUsage = map[string]string{
	"name":     "product name",
	"brand":    "brand",
	"category": "category",
	"color":    "color",
	"quantity": "quantity, a positive integer",
	"unit":     "unit of measure",
	"price":    "unit price",
	"supplier": "supplier",
	"notes":    "free-form notes",
	"date":     "purchase date (YYYY-MM-DD)",
}

func bindItemFlags(fs *pflag.FlagSet) {
	for _, name := range itemFields {
		fs.String(name, "", fieldUsage[name])
	}
}

// applyItemFlags copies every flag the user set onto it.
func applyItemFlags(fs *pflag.FlagSet, it *model.Item) error {
	for _, name := range itemFields {
		if !fs.Changed(name) {
			continue
		}
		if err := setField(it, name, fs.Lookup(name).Value.String()); err != nil {
			return err
		}
	}
	return nil
}

func optional(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

// setField assigns one field from its text form. Empty text clears an optional field.
func setField(it *model.Item, field, value string) error {
	switch field {
	case "name":
		it.Name = strings.TrimSpace(value)
	case "brand":
		it.Brand = optional(value)
	case "category":
		it.Category = optional(value)
	case "color":
		it.Color = optional(value)
	case "unit":
		it.Unit = optional(value)
	case "supplier":
		it.Supplier = optional(value)
	case "notes":
		it.Notes = optional(value)
	case "date":
		it.Date = optional(value)
	case "quantity":
		if strings.TrimSpace(value) == "" {
			it.Quantity = nil
			return nil
		}
		q, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return fmt.Errorf("quantity %q is not an integer", value)
		}
		it.Quantity = &q
	case "price":
		if strings.TrimSpace(value) == "" {
			it.Price = nil
			return nil
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("price %q is not a number", value)
		}
		it.Price = &p
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}
