package account

import (
	"context"
	"testing"
	"time"

	"github.com/bilemo/api/internal/domain/account"
	"github.com/bilemo/api/internal/infrastructure/auth"
	"github.com/bilemo/api/internal/infrastructure/cache"
	"github.com/bilemo/api/internal/infrastructure/config"
	"github.com/bilemo/api/internal/infrastructure/persistence"
	"github.com/bilemo/api/internal/infrastructure/persistence/sqlitetest"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockRevoker struct {
	mock.Mock
}

func (m *mockRevoker) RevokeClient(ctx context.Context, clientID int64, ttl time.Duration) error {
	return m.Called(clientID, ttl).Error(0)
}

type fixture struct {
	store     *cache.MemoryTagCache
	clients   *ClientService
	customers *CustomerService
	auth      *AuthService
	revoker   *mockRevoker
	jwt       *auth.JWTService
	repos     account.Repositories

	adminID int64
	userID  int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := sqlitetest.Open(t)
	store := cache.NewMemoryTagCache(0)
	t.Cleanup(func() { _ = store.Close() })

	readThrough := cache.NewReadThrough(store, time.Minute)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "account-test-secret-at-least-32-chars",
		Expiration: time.Hour,
		Issuer:     "bilemo-test",
	})
	revoker := new(mockRevoker)

	repos := persistence.NewAccountRepositories(db)
	txScope := persistence.NewAccountTransactionScope(db)

	f := &fixture{
		store:     store,
		clients:   NewClientService(repos.Clients(), txScope, hasher, readThrough),
		customers: NewCustomerService(repos.Customers(), repos.Clients(), txScope, readThrough),
		auth:      NewAuthService(repos.Clients(), txScope, hasher, jwtService, revoker),
		revoker:   revoker,
		jwt:       jwtService,
		repos:     repos,
	}

	ctx := context.Background()
	admin, err := f.clients.Create(ctx, CreateClientRequest{
		Company:  "BileMo",
		Email:    "admin@bilemo.com",
		Password: "password",
		Roles:    []string{account.RoleAdmin},
	})
	require.NoError(t, err)
	user, err := f.clients.Create(ctx, CreateClientRequest{
		Company:  "Orange",
		Email:    "user@bilemo.com",
		Password: "password",
	})
	require.NoError(t, err)
	f.adminID, f.userID = admin.ID, user.ID

	return f
}

func (f *fixture) cached(t *testing.T, key string) bool {
	t.Helper()
	_, found, err := f.store.Get(context.Background(), key)
	require.NoError(t, err)
	return found
}
