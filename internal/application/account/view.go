package account

import (
	"time"

	"github.com/bilemo/api/internal/domain/account"
)

// Group selects the fields a view exposes. Groups combine as bit flags.
type Group uint8

const (
	ClientDetails Group = 1 << iota
	CustomersFromClient
	CustomerDetails
	ClientsFromCustomer
)

// Group sets used by the endpoints
const (
	ClientGroups   = ClientDetails | CustomersFromClient | CustomerDetails
	CustomerGroups = CustomerDetails | ClientsFromCustomer | ClientDetails
)

// Has reports whether every flag of g is set
func (groups Group) Has(g Group) bool {
	return groups&g == g
}

// nested drops the relation groups so that related entities are projected one level deep
func (groups Group) nested() Group {
	return groups &^ (CustomersFromClient | ClientsFromCustomer)
}

// ClientView is the JSON projection of a client. The password hash is never part of it.
type ClientView struct {
	ID        int64           `json:"id"`
	Company   string          `json:"company,omitempty"`
	Email     string          `json:"email,omitempty"`
	Roles     []string        `json:"roles,omitempty"`
	CreatedAt *time.Time      `json:"createdAt,omitempty"`
	Customers *[]CustomerView `json:"customers,omitempty"`
}

// CustomerView is the JSON projection of a customer
type CustomerView struct {
	ID        int64         `json:"id"`
	Email     string        `json:"email,omitempty"`
	FirstName string        `json:"firstName,omitempty"`
	LastName  string        `json:"lastName,omitempty"`
	CreatedAt *time.Time    `json:"createdAt,omitempty"`
	Clients   *[]ClientView `json:"clients,omitempty"`
}

// NewClientView projects c with the fields selected by groups
func NewClientView(c *account.Client, groups Group) ClientView {
	view := ClientView{ID: c.ID}
	if groups.Has(ClientDetails) {
		createdAt := c.CreatedAt
		view.Company = c.Company
		view.Email = c.Email
		view.Roles = c.Roles()
		view.CreatedAt = &createdAt
	}
	if groups.Has(CustomersFromClient) {
		customers := make([]CustomerView, 0, len(c.Customers()))
		for _, u := range c.Customers() {
			customers = append(customers, NewCustomerView(u, groups.nested()))
		}
		view.Customers = &customers
	}
	return view
}

// NewCustomerView projects u with the fields selected by groups
func NewCustomerView(u *account.Customer, groups Group) CustomerView {
	view := CustomerView{ID: u.ID}
	if groups.Has(CustomerDetails) {
		createdAt := u.CreatedAt
		view.Email = u.Email
		view.FirstName = u.FirstName
		view.LastName = u.LastName
		view.CreatedAt = &createdAt
	}
	if groups.Has(ClientsFromCustomer) {
		clients := make([]ClientView, 0, len(u.Clients()))
		for _, c := range u.Clients() {
			clients = append(clients, NewClientView(c, groups.nested()))
		}
		view.Clients = &clients
	}
	return view
}
