package catalog

import (
	"context"
	"fmt"

	"github.com/bilemo/api/internal/domain/catalog"
	"github.com/bilemo/api/internal/domain/shared"
	"github.com/bilemo/api/internal/infrastructure/cache"
)

// ProductService handles the product catalog
type ProductService struct {
	products catalog.ProductRepository
	txScope  catalog.TransactionScope
	cache    *cache.ReadThrough
}

// NewProductService creates a new ProductService
func NewProductService(products catalog.ProductRepository, txScope catalog.TransactionScope, readThrough *cache.ReadThrough) *ProductService {
	return &ProductService{
		products: products,
		txScope:  txScope,
		cache:    readThrough,
	}
}

func productsCacheKey(page shared.PageRequest) string {
	return fmt.Sprintf("getAllProducts-%d-%d", page.Page, page.Limit)
}

// List returns one page of products with their configurations and images
func (s *ProductService) List(ctx context.Context, page shared.PageRequest) (shared.Paginated[ProductView], error) {
	return cache.GetOrCompute(ctx, s.cache, productsCacheKey(page), []string{cache.TagProducts},
		func(ctx context.Context) (shared.Paginated[ProductView], error) {
			products, total, err := s.products.List(ctx, page)
			if err != nil {
				return shared.Paginated[ProductView]{}, err
			}
			return shared.MapPaginated(shared.NewPaginated(products, total, page), func(p *catalog.Product) ProductView {
				return NewProductView(p, ProductGroups)
			}), nil
		})
}

// GetByID returns one product with its configurations and images
func (s *ProductService) GetByID(ctx context.Context, id int64) (*ProductView, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewProductView(product, ProductGroups)
	return &view, nil
}

// Create creates a product with its nested configurations and images
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductView, error) {
	product := catalog.NewProduct(req.attributes())
	for _, cfg := range req.Configurations {
		product.AddConfiguration(cfg.spec())
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	err := s.txScope.Execute(ctx, func(repos catalog.Repositories) error {
		return repos.Products().Save(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.TagProducts)

	view := NewProductView(product, ProductGroups)
	return &view, nil
}

// Update applies a partial update, adds the new configurations and applies
// the configuration changes. Removed configurations and images are deleted.
func (s *ProductService) Update(ctx context.Context, id int64, req UpdateProductRequest) error {
	err := s.txScope.Execute(ctx, func(repos catalog.Repositories) error {
		product, err := repos.Products().FindByID(ctx, id)
		if err != nil {
			return err
		}

		req.patch().Apply(product)
		for _, change := range req.DataConfigurations {
			if err := product.UpdateConfiguration(change.ID, change.patch()); err != nil {
				return err
			}
		}
		for _, cfg := range req.Configurations {
			product.AddConfiguration(cfg.spec())
		}
		if err := product.Validate(); err != nil {
			return err
		}

		return repos.Products().Save(ctx, product)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.TagProducts)
	return nil
}

// Delete removes a product with its configurations and images
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	err := s.txScope.Execute(ctx, func(repos catalog.Repositories) error {
		return repos.Products().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.TagProducts)
	return nil
}
