package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/stockmanager/internal/metrics"
	"github.com/fekuna/stockmanager/internal/model"
	"github.com/fekuna/stockmanager/internal/product"
	"github.com/fekuna/stockmanager/pkg/cache"
	"github.com/fekuna/stockmanager/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	productListCacheKey = "stockmanager:products:all"
	productListCacheTTL = 5 * time.Minute
)

type productUseCase struct {
	group   singleflight.Group
	repo    product.Repository
	cache   *cache.RedisClient
	metrics *metrics.Server
	logger  logger.ZapLogger
}

// NewProductUseCase builds the normalization service. cache and m may be nil.
func NewProductUseCase(repo product.Repository, cache *cache.RedisClient, m *metrics.Server, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:    repo,
		cache:   cache,
		metrics: m,
		logger:  log,
	}
}

// ResolveProduct merges concurrent calls for the same name in this process; racing processes
// are handled by the unique constraint. The shared lookup is detached from any one caller's
// cancellation, so a caller that goes away only abandons its own wait.
func (uc *productUseCase) ResolveProduct(ctx context.Context, name string, category *string) (int64, error) {
	ch := uc.group.DoChan(name, func() (any, error) {
		return uc.resolve(context.WithoutCancel(ctx), name, category)
	})
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(int64), nil
	}
}

func (uc *productUseCase) resolve(ctx context.Context, name string, category *string) (int64, error) {
	existing, err := uc.repo.FindByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("find product by name: %w", err)
	}
	if existing != nil {
		uc.metrics.ProductResolved(metrics.OutcomeReused)
		return existing.ID, nil
	}

	p := &model.Product{Name: name, Category: category}
	err = uc.repo.Create(ctx, p)
	if errors.Is(err, product.ErrDuplicateName) {
		// A concurrent request inserted the same name between our lookup and insert.
		uc.logger.Debug("product insert lost race, re-reading", zap.String("name", name))
		existing, err = uc.repo.FindByName(ctx, name)
		if err != nil {
			return 0, fmt.Errorf("re-read product after duplicate insert: %w", err)
		}
		if existing == nil {
			return 0, fmt.Errorf("product %q missing after duplicate insert", name)
		}
		uc.metrics.ProductResolved(metrics.OutcomeReused)
		return existing.ID, nil
	}
	if err != nil {
		return 0, fmt.Errorf("create product: %w", err)
	}

	uc.metrics.ProductResolved(metrics.OutcomeCreated)
	uc.invalidateProductCache(ctx)
	return p.ID, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context) ([]model.Product, error) {
	if uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, productListCacheKey).Result()
		if err == nil {
			var products []model.Product
			if err := json.Unmarshal([]byte(val), &products); err == nil {
				return products, nil
			}
		}
	}

	products, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if uc.cache != nil {
		if data, err := json.Marshal(products); err == nil {
			if err := uc.cache.Client.Set(ctx, productListCacheKey, data, productListCacheTTL).Err(); err != nil {
				uc.logger.Warn("failed to cache product list", zap.Error(err))
			}
		}
	}
	return products, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	if p == nil {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id int64) error {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if !deleted {
		return product.ErrNotFound
	}
	uc.invalidateProductCache(ctx)
	return nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Client.Del(ctx, productListCacheKey).Err(); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}
