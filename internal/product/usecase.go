package product

import (
	"context"

	"github.com/fekuna/stockmanager/internal/model"
)

type UseCase interface {
	// ResolveProduct returns the id of the product named exactly name, creating it with category
	// when absent. An existing product's category is never changed.
	ResolveProduct(ctx context.Context, name string, category *string) (int64, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	// DeleteProduct removes the product and, through the foreign key, all of its subproducts.
	DeleteProduct(ctx context.Context, id int64) error
}
