package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bilemo/api/internal/domain/account"
	"github.com/bilemo/api/internal/domain/shared"
	"github.com/bilemo/api/internal/infrastructure/cache"
)

// CustomerService handles customers on behalf of an authenticated client.
// Administrators see and manage every customer; other clients only their own.
type CustomerService struct {
	customers account.CustomerRepository
	clients   account.ClientRepository
	txScope   account.TransactionScope
	cache     *cache.ReadThrough
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customers account.CustomerRepository,
	clients account.ClientRepository,
	txScope account.TransactionScope,
	readThrough *cache.ReadThrough,
) *CustomerService {
	return &CustomerService{
		customers: customers,
		clients:   clients,
		txScope:   txScope,
		cache:     readThrough,
	}
}

func customersCacheKey(page shared.PageRequest, scope account.CustomerScope) string {
	key := fmt.Sprintf("getAllCustomers-%d-%d", page.Page, page.Limit)
	if scope.ClientID != 0 {
		key += fmt.Sprintf("-client-%d", scope.ClientID)
	}
	return key
}

// currentClient loads the authenticated client. A client deleted since its
// token was issued is no longer authorized.
func currentClient(ctx context.Context, clients account.ClientRepository, actorID int64) (*account.Client, error) {
	current, err := clients.FindByID(ctx, actorID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrUnauthorized
	}
	return current, err
}

// List returns one page of the customers visible to the actor
func (s *CustomerService) List(ctx context.Context, actorID int64, page shared.PageRequest) (shared.Paginated[CustomerView], error) {
	current, err := currentClient(ctx, s.clients, actorID)
	if err != nil {
		return shared.Paginated[CustomerView]{}, err
	}

	var scope account.CustomerScope
	if !current.IsAdmin() {
		scope.ClientID = current.ID
	}

	return cache.GetOrCompute(ctx, s.cache, customersCacheKey(page, scope), []string{cache.TagCustomers},
		func(ctx context.Context) (shared.Paginated[CustomerView], error) {
			customers, total, err := s.customers.List(ctx, page, scope)
			if err != nil {
				return shared.Paginated[CustomerView]{}, err
			}
			return shared.MapPaginated(shared.NewPaginated(customers, total, page), func(u *account.Customer) CustomerView {
				return NewCustomerView(u, CustomerGroups)
			}), nil
		})
}

// GetByID returns a customer the actor may access
func (s *CustomerService) GetByID(ctx context.Context, actorID, id int64) (*CustomerView, error) {
	current, err := currentClient(ctx, s.clients, actorID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := account.AuthorizeCustomerAccess(current, customer); err != nil {
		return nil, err
	}
	view := NewCustomerView(customer, CustomerGroups)
	return &view, nil
}

// Create creates a customer. Administrators link it to IDClients; any other
// client gets it linked to itself and IDClients is ignored.
func (s *CustomerService) Create(ctx context.Context, actorID int64, req CreateCustomerRequest) (*CustomerView, error) {
	customer := account.NewCustomer(req.Email, req.FirstName, req.LastName)
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	err := s.txScope.Execute(ctx, func(repos account.Repositories) error {
		current, err := currentClient(ctx, repos.Clients(), actorID)
		if err != nil {
			return err
		}
		if current.IsAdmin() {
			if err := account.AttachClients(ctx, customer, req.IDClients, repos.Clients().FindByID); err != nil {
				return err
			}
		} else {
			account.Link(current, customer)
		}
		return repos.Customers().Save(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.TagCustomers, cache.TagClients)

	view := NewCustomerView(customer, CustomerGroups)
	return &view, nil
}

// Update applies a partial update and the link directives. A non-admin client
// may only unlink itself; other IDs in RemoveIDClients are ignored, as is IDClients.
func (s *CustomerService) Update(ctx context.Context, actorID, id int64, req UpdateCustomerRequest) error {
	err := s.txScope.Execute(ctx, func(repos account.Repositories) error {
		current, err := currentClient(ctx, repos.Clients(), actorID)
		if err != nil {
			return err
		}
		customer, err := repos.Customers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := account.AuthorizeCustomerAccess(current, customer); err != nil {
			return err
		}

		if req.Email != nil {
			customer.SetEmail(*req.Email)
		}
		if req.FirstName != nil {
			customer.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			customer.LastName = strings.TrimSpace(*req.LastName)
		}
		if err := customer.Validate(); err != nil {
			return err
		}

		if current.IsAdmin() {
			if err := account.AttachClients(ctx, customer, req.IDClients, repos.Clients().FindByID); err != nil {
				return err
			}
			if err := account.DetachClients(ctx, customer, req.RemoveIDClients, repos.Clients().FindByID); err != nil {
				return err
			}
		} else {
			for _, clientID := range req.RemoveIDClients {
				if clientID == current.ID {
					account.Unlink(current, customer)
				}
			}
		}
		return repos.Customers().Save(ctx, customer)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.TagCustomers, cache.TagClients)
	return nil
}

// Delete removes a customer the actor may access. Linked clients are kept.
func (s *CustomerService) Delete(ctx context.Context, actorID, id int64) error {
	err := s.txScope.Execute(ctx, func(repos account.Repositories) error {
		current, err := currentClient(ctx, repos.Clients(), actorID)
		if err != nil {
			return err
		}
		customer, err := repos.Customers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := account.AuthorizeCustomerAccess(current, customer); err != nil {
			return err
		}
		return repos.Customers().Delete(ctx, customer.ID)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.TagCustomers, cache.TagClients)
	return nil
}
