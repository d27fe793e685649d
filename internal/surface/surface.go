// Package surface holds the client views: a list of items and a create/edit form. Both talk
// to the data only through the coordinator and react to refresh signals on the shared bus.
package surface

import (
	"context"
	"errors"

	"github.com/fekuna/stockmanager/internal/coordinator"
	"github.com/fekuna/stockmanager/internal/model"
)

// Source tags the surfaces publish with.
const (
	ListIdentity = "inventory-list"
	FormIdentity = "inventory-form"
)

var (
	ErrInvalidDraft = errors.New("name and a positive quantity are required")
	ErrNotFound     = errors.New("item not in the current list")
)

// Store is the part of the coordinator the surfaces use.
type Store interface {
	List(ctx context.Context) coordinator.ListResult
	Create(ctx context.Context, it model.Item, source string) coordinator.Result
	Update(ctx context.Context, id model.ItemID, it model.Item, source string) coordinator.Result
	Delete(ctx context.Context, id model.ItemID, source string) coordinator.Source
}
