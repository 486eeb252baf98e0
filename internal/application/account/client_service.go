package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/bilemo/api/internal/domain/account"
	"github.com/bilemo/api/internal/domain/shared"
	"github.com/bilemo/api/internal/infrastructure/cache"
)

// PasswordHasher hashes and verifies client passwords
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) (bool, error)
}

var errEmailTaken = shared.NewDomainError(shared.ErrAlreadyExists.Code, "Cet email est déjà utilisé par un autre client.")

// ClientService handles client administration
type ClientService struct {
	clients account.ClientRepository
	txScope account.TransactionScope
	hasher  PasswordHasher
	cache   *cache.ReadThrough
}

// NewClientService creates a new ClientService
func NewClientService(
	clients account.ClientRepository,
	txScope account.TransactionScope,
	hasher PasswordHasher,
	readThrough *cache.ReadThrough,
) *ClientService {
	return &ClientService{
		clients: clients,
		txScope: txScope,
		hasher:  hasher,
		cache:   readThrough,
	}
}

func clientsCacheKey(page shared.PageRequest) string {
	return fmt.Sprintf("getAllClients-%d-%d", page.Page, page.Limit)
}

// List returns one page of clients with their customers, served from the list cache
func (s *ClientService) List(ctx context.Context, page shared.PageRequest) (shared.Paginated[ClientView], error) {
	return cache.GetOrCompute(ctx, s.cache, clientsCacheKey(page), []string{cache.TagClients},
		func(ctx context.Context) (shared.Paginated[ClientView], error) {
			clients, total, err := s.clients.List(ctx, page)
			if err != nil {
				return shared.Paginated[ClientView]{}, err
			}
			return shared.MapPaginated(shared.NewPaginated(clients, total, page), func(c *account.Client) ClientView {
				return NewClientView(c, ClientGroups)
			}), nil
		})
}

// GetByID returns one client with its customers
func (s *ClientService) GetByID(ctx context.Context, id int64) (*ClientView, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewClientView(client, ClientGroups)
	return &view, nil
}

// Roles returns the roles the client holds now, which may differ from those of its token
func (s *ClientService) Roles(ctx context.Context, id int64) ([]string, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return client.Roles(), nil
}

// Create creates a client, and the customers given with it
func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*ClientView, error) {
	client := account.NewClient(req.Company, req.Email, req.Password)
	if req.Roles != nil {
		client.SetRoles(req.Roles)
	}

	var v shared.Violations
	v.Merge("", client.Validate())
	validatePassword(&v, req.Password)
	addNewCustomers(&v, client, req.Customers)
	if err := v.Err(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	client.PasswordHash = hash

	err = s.txScope.Execute(ctx, func(repos account.Repositories) error {
		if err := ensureEmailAvailable(ctx, repos.Clients(), client.Email, 0); err != nil {
			return err
		}
		return repos.Clients().Save(ctx, client)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.TagClients, cache.TagCustomers)

	view := NewClientView(client, ClientGroups)
	return &view, nil
}

// Update applies a partial update, then links and unlinks the requested customers
func (s *ClientService) Update(ctx context.Context, id int64, req UpdateClientRequest) error {
	err := s.txScope.Execute(ctx, func(repos account.Repositories) error {
		client, err := repos.Clients().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if req.Company != nil {
			client.Company = strings.TrimSpace(*req.Company)
		}
		if req.Email != nil {
			client.SetEmail(*req.Email)
		}
		if req.Roles != nil {
			client.SetRoles(*req.Roles)
		}

		var v shared.Violations
		v.Merge("", client.Validate())
		if req.Password != nil {
			v.Merge("", account.ValidatePlainPassword(*req.Password))
		}
		addNewCustomers(&v, client, req.Customers)
		if err := v.Err(); err != nil {
			return err
		}

		if err := account.AttachCustomers(ctx, client, req.IDCustomers, repos.Customers().FindByID); err != nil {
			return err
		}
		if err := account.DetachCustomers(ctx, client, req.RemoveIDCustomers, repos.Customers().FindByID); err != nil {
			return err
		}

		if req.Password != nil {
			hash, err := s.hasher.Hash(*req.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			client.PasswordHash = hash
		}
		if req.Email != nil {
			if err := ensureEmailAvailable(ctx, repos.Clients(), client.Email, client.ID); err != nil {
				return err
			}
		}
		return repos.Clients().Save(ctx, client)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.TagClients, cache.TagCustomers)
	return nil
}

// Delete removes a client. Its customers are kept.
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	err := s.txScope.Execute(ctx, func(repos account.Repositories) error {
		return repos.Clients().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.TagClients, cache.TagCustomers)
	return nil
}

// validatePassword checks a non-empty plain password. An empty one is reported
// by the entity validation as a missing password.
func validatePassword(v *shared.Violations, plain string) {
	if plain == "" {
		return
	}
	v.Merge("", account.ValidatePlainPassword(plain))
}

func addNewCustomers(v *shared.Violations, client *account.Client, reqs []NewCustomerRequest) {
	for i, req := range reqs {
		customer := account.NewCustomer(req.Email, req.FirstName, req.LastName)
		v.Merge(fmt.Sprintf("customers[%d]", i), customer.Validate())
		account.Link(client, customer)
	}
}

func ensureEmailAvailable(ctx context.Context, clients account.ClientRepository, email string, excludeID int64) error {
	taken, err := clients.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return errEmailTaken
	}
	return nil
}
