package account

import (
	"context"

	"github.com/bilemo/api/internal/domain/shared"
)

// ClientRepository persists clients together with their customer links
type ClientRepository interface {
	// FindByID loads a client and its linked customers
	FindByID(ctx context.Context, id int64) (*Client, error)
	FindByEmail(ctx context.Context, email string) (*Client, error)
	// ExistsByEmail reports whether another client (not excludeID) uses email
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	List(ctx context.Context, page shared.PageRequest) ([]*Client, int64, error)
	// Save inserts or updates the client, creates new linked customers and
	// replaces the stored links with the in-memory set
	Save(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id int64) error
}

// CustomerScope restricts customer queries to those linked to a client.
// A zero ClientID means no restriction.
type CustomerScope struct {
	ClientID int64
}

// CustomerRepository persists customers together with their client links
type CustomerRepository interface {
	// FindByID loads a customer and its linked clients
	FindByID(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context, page shared.PageRequest, scope CustomerScope) ([]*Customer, int64, error)
	// Save inserts or updates the customer and replaces the stored links with the in-memory set
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id int64) error
}

// Repositories groups the repositories available inside one transaction
type Repositories interface {
	Clients() ClientRepository
	Customers() CustomerRepository
}

// TransactionScope runs account work atomically
type TransactionScope = shared.TransactionScope[Repositories]
