package item

import (
	"context"

	"github.com/fekuna/stockmanager/internal/item/dto"
	"github.com/fekuna/stockmanager/internal/model"
)

type UseCase interface {
	ListItems(ctx context.Context) ([]model.ItemRow, error)
	GetItem(ctx context.Context, id int64) (*model.ItemRow, error)
	CreateItem(ctx context.Context, input *dto.ItemInput) (*model.ItemRow, error)
	UpdateItem(ctx context.Context, id int64, input *dto.ItemInput) (*model.ItemRow, error)
	// DeleteItem removes the subproduct only; its product stays even when orphaned.
	DeleteItem(ctx context.Context, id int64) error
}
