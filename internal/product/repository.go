package product

import (
	"context"

	"github.com/fekuna/stockmanager/internal/model"
)

type Repository interface {
	// Create inserts p and sets p.ID. A name collision returns ErrDuplicateName.
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	FindByName(ctx context.Context, name string) (*model.Product, error)
	FindAll(ctx context.Context) ([]model.Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
