// Package catalog serves product and category reads and the admin CRUD
// behind them. Point reads go through the redis cache; every write, including
// the stock mutations done elsewhere, makes the cached copy stale, so cached
// entries are short-lived and invalidated on the write paths owned here.
package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/core/domain"
	"github.com/jcmexdev/storefront/internal/core/ports"
	"github.com/jcmexdev/storefront/internal/pkg/cache"
)

const productCacheTTL = 30 * time.Second

type Service struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
	cache      cache.Cache
}

// NewService builds the catalog. c may be nil to run without a cache.
func NewService(products ports.ProductRepository, categories ports.CategoryRepository, c cache.Cache) *Service {
	return &Service{products: products, categories: categories, cache: c}
}

// GetProduct is a cached point read.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if s.cache != nil {
		key := s.cache.GenerateKey("product", id)
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
			var p domain.Product
			if err := json.Unmarshal([]byte(raw), &p); err == nil {
				return &p, nil
			}
		}
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(p); err == nil {
			key := s.cache.GenerateKey("product", id)
			if err := s.cache.Set(ctx, key, string(raw), productCacheTTL); err != nil {
				slog.DebugContext(ctx, "product cache set failed", "product_id", id, "error", err)
			}
		}
	}
	return p, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *Service) ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return s.products.ListByCategory(ctx, categoryID)
}

func (s *Service) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	return s.products.Search(ctx, query)
}

func (s *Service) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return s.products.Create(ctx, p)
}

func (s *Service) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if err := s.products.Update(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx, p.ID)
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return s.categories.Create(ctx, c)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.categories.Delete(ctx, id)
}

func (s *Service) invalidate(ctx context.Context, productID string) {
	if s.cache == nil {
		return
	}
	key := s.cache.GenerateKey("product", productID)
	if err := s.cache.Delete(ctx, key); err != nil {
		slog.DebugContext(ctx, "product cache invalidate failed", "product_id", productID, "error", err)
	}
}
