package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

const localIDPrefix = "local-"

var ErrInvalidItemID = errors.New("invalid item id")

// ItemID identifies an Item in one of two disjoint spaces: a remote Subproduct id (positive
// integer, a JSON number) or a local-only id ("local-<ms>", a JSON string). The space is fixed
// when the item is created.
type ItemID struct {
	remote int64
	local  string
}

func RemoteID(id int64) ItemID {
	return ItemID{remote: id}
}

// LocalIDAt builds the local id for a millisecond unix timestamp.
func LocalIDAt(ms int64) ItemID {
	return ItemID{local: localIDPrefix + strconv.FormatInt(ms, 10)}
}

// ParseItemID accepts "local-<digits>" or a positive integer.
func ParseItemID(s string) (ItemID, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, localIDPrefix); ok {
		if _, err := strconv.ParseInt(rest, 10, 64); err != nil {
			return ItemID{}, ErrInvalidItemID
		}
		return ItemID{local: s}, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return ItemID{}, ErrInvalidItemID
	}
	return RemoteID(n), nil
}

func (id ItemID) IsLocal() bool  { return id.local != "" }
func (id ItemID) IsRemote() bool { return id.local == "" && id.remote > 0 }
func (id ItemID) IsZero() bool   { return id.local == "" && id.remote == 0 }

// Remote returns the Subproduct id, or 0 for local ids.
func (id ItemID) Remote() int64 {
	if id.local != "" {
		return 0
	}
	return id.remote
}

func (id ItemID) String() string {
	switch {
	case id.local != "":
		return id.local
	case id.remote != 0:
		return strconv.FormatInt(id.remote, 10)
	default:
		return ""
	}
}

func (id ItemID) MarshalJSON() ([]byte, error) {
	switch {
	case id.local != "":
		return json.Marshal(id.local)
	case id.remote != 0:
		return []byte(strconv.FormatInt(id.remote, 10)), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is lenient: numbers and numeric strings are remote ids, any other string is
// kept verbatim as a local id.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ItemID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
			*id = RemoteID(n)
			return nil
		}
		*id = ItemID{local: s}
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return ErrInvalidItemID
	}
	*id = RemoteID(n)
	return nil
}

// Item is the flattened product + variant record the client works with.
type Item struct {
	ID        ItemID   `json:"id"`
	ProductID *int64   `json:"product_id,omitempty"`
	Name      string   `json:"name"`
	Category  *string  `json:"category"`
	Brand     *string  `json:"brand"`
	Color     *string  `json:"color"`
	Unit      *string  `json:"unit"`
	Quantity  *int64   `json:"quantity"`
	Price     *float64 `json:"price"`
	Supplier  *string  `json:"supplier"`
	Notes     *string  `json:"notes"`
	Date      *string  `json:"date"`
}

// Clone returns a copy that shares no pointers with i.
func (i Item) Clone() Item {
	c := i
	c.ProductID = clonePtr(i.ProductID)
	c.Category = clonePtr(i.Category)
	c.Brand = clonePtr(i.Brand)
	c.Color = clonePtr(i.Color)
	c.Unit = clonePtr(i.Unit)
	c.Quantity = clonePtr(i.Quantity)
	c.Price = clonePtr(i.Price)
	c.Supplier = clonePtr(i.Supplier)
	c.Notes = clonePtr(i.Notes)
	c.Date = clonePtr(i.Date)
	return c
}

func ItemFromRow(r ItemRow) Item {
	pid := r.ProductID
	return Item{
		ID:        RemoteID(r.ID),
		ProductID: &pid,
		Name:      r.Name,
		Category:  r.Category,
		Brand:     r.Brand,
		Color:     r.Color,
		Unit:      r.Unit,
		Quantity:  r.Quantity,
		Price:     r.Price,
		Supplier:  r.Supplier,
		Notes:     r.Notes,
		Date:      r.Date,
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
