package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fekuna/stockmanager/internal/coordinator"
	"github.com/fekuna/stockmanager/internal/model"
)

type listView struct {
	Source coordinator.Source `json:"source"`
	Items  []model.Item       `json:"items"`
}

type writeView struct {
	Source     coordinator.Source `json:"source"`
	Duplicated bool               `json:"duplicated"`
	Item       model.Item         `json:"item"`
}

type deleteView struct {
	ID     model.ItemID       `json:"id"`
	Source coordinator.Source `json:"source"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func formatQuantity(q *int64) string {
	if q == nil {
		return "-"
	}
	return strconv.FormatInt(*q, 10)
}

func formatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

// RenderItems prints the list as a table, or as {"source", "items"} in JSON. An empty text
// list prints the empty notice followed by the source.
func RenderItems(w io.Writer, format string, source coordinator.Source, items []model.Item, empty string) error {
	if format == FormatJSON {
		if items == nil {
			items = []model.Item{}
		}
		return writeJSON(w, listView{Source: source, Items: items})
	}

	if len(items) == 0 {
		_, err := fmt.Fprintf(w, "%s (%s)\n", empty, source)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tUNIT\tBRAND\tPRICE")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			it.ID, it.Name, formatQuantity(it.Quantity), orDash(it.Unit), orDash(it.Brand), formatPrice(it.Price))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d item(s) from %s\n", len(items), source)
	return err
}

// RenderItem prints every field of one item.
func RenderItem(w io.Writer, format string, it model.Item) error {
	if format == FormatJSON {
		return writeJSON(w, it)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "id:\t%s\n", it.ID)
	fmt.Fprintf(tw, "name:\t%s\n", it.Name)
	fmt.Fprintf(tw, "brand:\t%s\n", orDash(it.Brand))
	fmt.Fprintf(tw, "category:\t%s\n", orDash(it.Category))
	fmt.Fprintf(tw, "color:\t%s\n", orDash(it.Color))
	fmt.Fprintf(tw, "quantity:\t%s\n", formatQuantity(it.Quantity))
	fmt.Fprintf(tw, "unit:\t%s\n", orDash(it.Unit))
	fmt.Fprintf(tw, "price:\t%s\n", formatPrice(it.Price))
	fmt.Fprintf(tw, "supplier:\t%s\n", orDash(it.Supplier))
	fmt.Fprintf(tw, "notes:\t%s\n", orDash(it.Notes))
	fmt.Fprintf(tw, "date:\t%s\n", orDash(it.Date))
	return tw.Flush()
}

func RenderWrite(w io.Writer, format string, res coordinator.Result) error {
	if format == FormatJSON {
		return writeJSON(w, writeView{Source: res.Source, Duplicated: res.Duplicated, Item: res.Item})
	}
	_, err := fmt.Fprintf(w, "%s %s (%s)\n", res.Item.ID, res.Item.Name, res.Source)
	return err
}

func RenderDelete(w io.Writer, format string, id model.ItemID, source coordinator.Source) error {
	if format == FormatJSON {
		return writeJSON(w, deleteView{ID: id, Source: source})
	}
	_, err := fmt.Fprintf(w, "deleted %s (%s)\n", id, source)
	return err
}

func RenderProducts(w io.Writer, format string, products []model.Product) error {
	if format == FormatJSON {
		if products == nil {
			products = []model.Product{}
		}
		return writeJSON(w, products)
	}
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "no products")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Name, orDash(p.Category))
	}
	return tw.Flush()
}
