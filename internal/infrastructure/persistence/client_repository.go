package persistence

import (
	"context"
	"strings"

	"github.com/bilemo/api/internal/domain/account"
	"github.com/bilemo/api/internal/domain/shared"
	"github.com/bilemo/api/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormClientRepository implements account.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func preloadCustomers(db *gorm.DB) *gorm.DB {
	return db.Order("customer.id ASC")
}

// FindByID loads a client and its customers
func (r *GormClientRepository) FindByID(ctx context.Context, id int64) (*account.Client, error) {
	var model models.ClientModel
	err := r.db.WithContext(ctx).
		Preload("Customers", preloadCustomers).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translateError("find client", err)
	}
	return model.ToDomainWithCustomers(), nil
}

// FindByEmail loads a client by login email, without its customers
func (r *GormClientRepository) FindByEmail(ctx context.Context, email string) (*account.Client, error) {
	var model models.ClientModel
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error
	if err != nil {
		return nil, translateError("find client by email", err)
	}
	return model.ToDomain(), nil
}

// ExistsByEmail reports whether a client other than excludeID uses email
func (r *GormClientRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ClientModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, translateError("check client email", err)
	}
	return count > 0, nil
}

// List returns one page of clients with their customers, and the total count
func (r *GormClientRepository) List(ctx context.Context, page shared.PageRequest) ([]*account.Client, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ClientModel{}).Count(&total).Error; err != nil {
		return nil, 0, translateError("count clients", err)
	}

	var rows []models.ClientModel
	err := r.db.WithContext(ctx).
		Scopes(paginate("client.id", page)).
		Preload("Customers", preloadCustomers).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translateError("list clients", err)
	}

	clients := make([]*account.Client, len(rows))
	for i := range rows {
		clients[i] = rows[i].ToDomainWithCustomers()
	}
	return clients, total, nil
}

// Save writes the client row, creates customers that are not stored yet and
// replaces the client's links with its in-memory customer set.
func (r *GormClientRepository) Save(ctx context.Context, client *account.Client) error {
	db := r.db.WithContext(ctx)

	model := models.ClientFromDomain(client)
	if client.IsNew() {
		if err := db.Omit("Customers").Create(model).Error; err != nil {
			return translateError("create client", err)
		}
		client.ID = model.ID
	} else {
		err := db.Model(model).Select("company", "email", "password", "roles").Updates(model).Error
		if err != nil {
			return translateError("update client", err)
		}
	}

	for _, customer := range client.Customers() {
		if !customer.IsNew() {
			continue
		}
		row := models.CustomerFromDomain(customer)
		if err := db.Omit("Clients").Create(row).Error; err != nil {
			return translateError("create customer", err)
		}
		customer.ID = row.ID
	}

	return replaceLinks(db, "client_id", client.ID, client.CustomerIDs(), func(customerID int64) models.CustomerClientModel {
		return models.CustomerClientModel{CustomerID: customerID, ClientID: client.ID}
	})
}

// Delete removes the client and its links. Linked customers are kept.
func (r *GormClientRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("client_id = ?", id).Delete(&models.CustomerClientModel{}).Error; err != nil {
		return translateError("unlink client", err)
	}
	result := db.Delete(&models.ClientModel{}, id)
	if result.Error != nil {
		return translateError("delete client", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// replaceLinks rewrites the join rows owned by one side of the relation
func replaceLinks(db *gorm.DB, column string, ownerID int64, ids []int64, row func(int64) models.CustomerClientModel) error {
	if err := db.Where(column+" = ?", ownerID).Delete(&models.CustomerClientModel{}).Error; err != nil {
		return translateError("clear links", err)
	}
	if len(ids) == 0 {
		return nil
	}
	rows := make([]models.CustomerClientModel, len(ids))
	for i, id := range ids {
		rows[i] = row(id)
	}
	if err := db.Create(&rows).Error; err != nil {
		return translateError("write links", err)
	}
	return nil
}

var _ account.ClientRepository = (*GormClientRepository)(nil)
