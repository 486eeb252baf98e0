package persistence

import (
	"context"

	"github.com/bilemo/api/internal/domain/account"
	"github.com/bilemo/api/internal/domain/shared"
	"github.com/bilemo/api/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements account.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func preloadClients(db *gorm.DB) *gorm.DB {
	return db.Order("client.id ASC")
}

// FindByID loads a customer and its clients
func (r *GormCustomerRepository) FindByID(ctx context.Context, id int64) (*account.Customer, error) {
	var model models.CustomerModel
	err := r.db.WithContext(ctx).
		Preload("Clients", preloadClients).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translateError("find customer", err)
	}
	return model.ToDomainWithClients(), nil
}

func (r *GormCustomerRepository) scoped(ctx context.Context, scope account.CustomerScope) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{})
	if scope.ClientID != 0 {
		query = query.Where(
			"customer.id IN (?)",
			r.db.Model(&models.CustomerClientModel{}).Select("customer_id").Where("client_id = ?", scope.ClientID),
		)
	}
	return query
}

// List returns one page of customers visible in scope, and the total count
func (r *GormCustomerRepository) List(ctx context.Context, page shared.PageRequest, scope account.CustomerScope) ([]*account.Customer, int64, error) {
	var total int64
	if err := r.scoped(ctx, scope).Count(&total).Error; err != nil {
		return nil, 0, translateError("count customers", err)
	}

	var rows []models.CustomerModel
	err := r.scoped(ctx, scope).
		Scopes(paginate("customer.id", page)).
		Preload("Clients", preloadClients).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translateError("list customers", err)
	}

	customers := make([]*account.Customer, len(rows))
	for i := range rows {
		customers[i] = rows[i].ToDomainWithClients()
	}
	return customers, total, nil
}

// Save writes the customer row and replaces its links with the in-memory client set
func (r *GormCustomerRepository) Save(ctx context.Context, customer *account.Customer) error {
	db := r.db.WithContext(ctx)

	model := models.CustomerFromDomain(customer)
	if customer.IsNew() {
		if err := db.Omit("Clients").Create(model).Error; err != nil {
			return translateError("create customer", err)
		}
		customer.ID = model.ID
	} else {
		err := db.Model(model).Select("email", "first_name", "last_name").Updates(model).Error
		if err != nil {
			return translateError("update customer", err)
		}
	}

	return replaceLinks(db, "customer_id", customer.ID, customer.ClientIDs(), func(clientID int64) models.CustomerClientModel {
		return models.CustomerClientModel{CustomerID: customer.ID, ClientID: clientID}
	})
}

// Delete removes the customer and its links. Linked clients are kept.
func (r *GormCustomerRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("customer_id = ?", id).Delete(&models.CustomerClientModel{}).Error; err != nil {
		return translateError("unlink customer", err)
	}
	result := db.Delete(&models.CustomerModel{}, id)
	if result.Error != nil {
		return translateError("delete customer", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ account.CustomerRepository = (*GormCustomerRepository)(nil)
