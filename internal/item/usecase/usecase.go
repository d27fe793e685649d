package usecase

import (
	"context"
	"fmt"

	"github.com/fekuna/stockmanager/internal/item"
	"github.com/fekuna/stockmanager/internal/item/dto"
	"github.com/fekuna/stockmanager/internal/model"
	"github.com/fekuna/stockmanager/internal/product"
	"github.com/fekuna/stockmanager/pkg/logger"
	"go.uber.org/zap"
)

type itemUseCase struct {
	repo     item.Repository
	products product.UseCase
	logger   logger.ZapLogger
}

func NewItemUseCase(repo item.Repository, products product.UseCase, log logger.ZapLogger) item.UseCase {
	return &itemUseCase{
		repo:     repo,
		products: products,
		logger:   log,
	}
}

func (uc *itemUseCase) ListItems(ctx context.Context) ([]model.ItemRow, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *itemUseCase) GetItem(ctx context.Context, id int64) (*model.ItemRow, error) {
	row, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, item.ErrNotFound
	}
	return row, nil
}

func (uc *itemUseCase) CreateItem(ctx context.Context, input *dto.ItemInput) (*model.ItemRow, error) {
	input.Normalize()
	if !input.HasName() {
		return nil, item.ErrNameRequired
	}

	productID, err := uc.products.ResolveProduct(ctx, *input.Name, input.Category)
	if err != nil {
		return nil, err
	}

	s := subproductFromInput(input)
	s.ProductID = productID
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create subproduct: %w", err)
	}
	uc.logger.Debug("item created", zap.Int64("id", s.ID), zap.Int64("product_id", productID))

	return uc.GetItem(ctx, s.ID)
}

func (uc *itemUseCase) UpdateItem(ctx context.Context, id int64, input *dto.ItemInput) (*model.ItemRow, error) {
	input.Normalize()

	// Existence first, so a 404 never creates a product.
	current, err := uc.repo.FindSubproduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find subproduct %d: %w", id, err)
	}
	if current == nil {
		return nil, item.ErrNotFound
	}

	productID := current.ProductID
	if input.HasName() {
		productID, err = uc.products.ResolveProduct(ctx, *input.Name, input.Category)
		if err != nil {
			return nil, err
		}
	}

	s := subproductFromInput(input)
	s.ID = id
	s.ProductID = productID
	updated, err := uc.repo.Update(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("update subproduct %d: %w", id, err)
	}
	if !updated {
		return nil, item.ErrNotFound
	}

	return uc.GetItem(ctx, id)
}

func (uc *itemUseCase) DeleteItem(ctx context.Context, id int64) error {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete subproduct %d: %w", id, err)
	}
	if !deleted {
		return item.ErrNotFound
	}
	return nil
}

func subproductFromInput(in *dto.ItemInput) *model.Subproduct {
	return &model.Subproduct{
		Brand:    in.Brand,
		Color:    in.Color,
		Unit:     in.Unit,
		Quantity: in.Quantity,
		Price:    in.Price,
		Supplier: in.Supplier,
		Notes:    in.Notes,
		Date:     in.Date,
	}
}
