package catalog

import (
	"context"

	"github.com/bilemo/api/internal/domain/shared"
)

// ProductRepository persists products with their configurations and images
type ProductRepository interface {
	// FindByID loads a product with its configurations and images
	FindByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, page shared.PageRequest) ([]*Product, int64, error)
	// Save writes the whole aggregate and deletes the orphans recorded on it
	Save(ctx context.Context, product *Product) error
	// Delete removes the product, its configurations and their images
	Delete(ctx context.Context, id int64) error
}

// Repositories groups the repositories available inside one transaction
type Repositories interface {
	Products() ProductRepository
}

// TransactionScope runs catalog work atomically
type TransactionScope = shared.TransactionScope[Repositories]
