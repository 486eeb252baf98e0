package persistence

import (
	"context"

	"github.com/bilemo/api/internal/domain/account"
	"github.com/bilemo/api/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormTransactionScope runs work inside one GORM transaction, handing it
// repositories bound to that transaction.
// If the function returns an error, the transaction is rolled back.
type GormTransactionScope[R any] struct {
	db   *gorm.DB
	bind func(tx *gorm.DB) R
}

// Execute runs fn within a database transaction
func (s *GormTransactionScope[R]) Execute(ctx context.Context, fn func(repos R) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.bind(tx))
	})
}

type accountRepositories struct {
	db *gorm.DB
}

// NewAccountRepositories returns the account repositories bound to db
func NewAccountRepositories(db *gorm.DB) account.Repositories {
	return accountRepositories{db: db}
}

func (r accountRepositories) Clients() account.ClientRepository {
	return NewGormClientRepository(r.db)
}

func (r accountRepositories) Customers() account.CustomerRepository {
	return NewGormCustomerRepository(r.db)
}

type catalogRepositories struct {
	db *gorm.DB
}

// NewCatalogRepositories returns the catalog repositories bound to db
func NewCatalogRepositories(db *gorm.DB) catalog.Repositories {
	return catalogRepositories{db: db}
}

func (r catalogRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.db)
}

// NewAccountTransactionScope creates the transaction scope of the account services
func NewAccountTransactionScope(db *gorm.DB) *GormTransactionScope[account.Repositories] {
	return &GormTransactionScope[account.Repositories]{db: db, bind: NewAccountRepositories}
}

// NewCatalogTransactionScope creates the transaction scope of the catalog services
func NewCatalogTransactionScope(db *gorm.DB) *GormTransactionScope[catalog.Repositories] {
	return &GormTransactionScope[catalog.Repositories]{db: db, bind: NewCatalogRepositories}
}

var (
	_ account.TransactionScope = (*GormTransactionScope[account.Repositories])(nil)
	_ catalog.TransactionScope = (*GormTransactionScope[catalog.Repositories])(nil)
)
