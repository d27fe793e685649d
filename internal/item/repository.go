package item

import (
	"context"

	"github.com/fekuna/stockmanager/internal/model"
)

type Repository interface {
	// Projected reads, newest first.
	FindAll(ctx context.Context) ([]model.ItemRow, error)
	FindByID(ctx context.Context, id int64) (*model.ItemRow, error)

	FindSubproduct(ctx context.Context, id int64) (*model.Subproduct, error)
	Create(ctx context.Context, s *model.Subproduct) error
	// Update replaces every column of the subproduct; false when it does not exist.
	Update(ctx context.Context, s *model.Subproduct) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
