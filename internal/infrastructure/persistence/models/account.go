package models

import (
	"time"

	"github.com/bilemo/api/internal/domain/account"
	"github.com/bilemo/api/internal/domain/shared"
)

// ClientModel is the persistence model for the Client entity
type ClientModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Company   string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex:uniq_client_email"`
	Password  string    `gorm:"type:varchar(255);not null"`
	Roles     []string  `gorm:"type:json;serializer:json;not null"`
	CreatedAt time.Time `gorm:"not null"`

	Customers []CustomerModel `gorm:"many2many:customer_client;joinForeignKey:ClientID;joinReferences:CustomerID"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "client"
}

// CustomerModel is the persistence model for the Customer entity
type CustomerModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Email     string    `gorm:"type:varchar(255);not null"`
	FirstName string    `gorm:"column:first_name;type:varchar(255);not null"`
	LastName  string    `gorm:"column:last_name;type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"not null"`

	Clients []ClientModel `gorm:"many2many:customer_client;joinForeignKey:CustomerID;joinReferences:ClientID"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customer"
}

// CustomerClientModel is one row of the Client/Customer join table
type CustomerClientModel struct {
	CustomerID int64 `gorm:"primaryKey;autoIncrement:false"`
	ClientID   int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName returns the table name for GORM
func (CustomerClientModel) TableName() string {
	return "customer_client"
}

// ClientFromDomain builds the row of a client, without its relations
func ClientFromDomain(c *account.Client) *ClientModel {
	return &ClientModel{
		ID:        c.ID,
		Company:   c.Company,
		Email:     c.Email,
		Password:  c.PasswordHash,
		Roles:     c.StoredRoles(),
		CreatedAt: c.CreatedAt,
	}
}

// ToDomain converts the row to a Client without relations
func (m *ClientModel) ToDomain() *account.Client {
	c := &account.Client{
		BaseEntity:   shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt},
		Company:      m.Company,
		Email:        m.Email,
		PasswordHash: m.Password,
	}
	c.SetRoles(m.Roles)
	return c
}

// ToDomainWithCustomers converts the row and links the preloaded customers
func (m *ClientModel) ToDomainWithCustomers() *account.Client {
	c := m.ToDomain()
	for i := range m.Customers {
		account.Link(c, m.Customers[i].ToDomain())
	}
	return c
}

// CustomerFromDomain builds the row of a customer, without its relations
func CustomerFromDomain(u *account.Customer) *CustomerModel {
	return &CustomerModel{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

// ToDomain converts the row to a Customer without relations
func (m *CustomerModel) ToDomain() *account.Customer {
	return &account.Customer{
		BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt},
		Email:      m.Email,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
	}
}

// ToDomainWithClients converts the row and links the preloaded clients
func (m *CustomerModel) ToDomainWithClients() *account.Customer {
	u := m.ToDomain()
	for i := range m.Clients {
		account.Link(m.Clients[i].ToDomain(), u)
	}
	return u
}
