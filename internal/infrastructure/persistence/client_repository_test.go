package persistence

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bilemo/api/internal/domain/account"
	"github.com/bilemo/api/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveClient(t *testing.T, repo *GormClientRepository, company, email string) *account.Client {
	t.Helper()
	client := account.NewClient(company, email, "$2a$10$hash")
	require.NoError(t, repo.Save(context.Background(), client))
	return client
}

func TestGormClientRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)
	ctx := context.Background()

	client := saveClient(t, repo, "Acme", "A@B.com")
	require.NotZero(t, client.ID)

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme", found.Company)
		assert.Equal(t, "a@b.com", found.Email)
		assert.Equal(t, []string{account.RoleUser}, found.Roles())
		assert.Empty(t, found.Customers())
		assert.False(t, found.CreatedAt.IsZero())
	})

	t.Run("finds by email ignoring case", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, " a@B.COM ")
		require.NoError(t, err)
		assert.Equal(t, client.ID, found.ID)
	})

	t.Run("missing client maps to not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 9999)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByEmail(ctx, "nobody@b.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("updates scalar fields and roles", func(t *testing.T) {
		client.Company = "Acme Corp"
		client.SetRoles([]string{account.RoleAdmin})
		require.NoError(t, repo.Save(ctx, client))

		found, err := repo.FindByID(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", found.Company)
		assert.True(t, found.IsAdmin())
	})
}

func TestGormClientRepository_ExistsByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)
	ctx := context.Background()

	client := saveClient(t, repo, "Acme", "a@b.com")

	exists, err := repo.ExistsByEmail(ctx, "A@b.com", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "a@b.com", client.ID)
	require.NoError(t, err)
	assert.False(t, exists, "the client itself is excluded")

	exists, err = repo.ExistsByEmail(ctx, "other@b.com", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormClientRepository_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)

	saveClient(t, repo, "Acme", "a@b.com")

	err := repo.Save(context.Background(), account.NewClient("Other", "a@b.com", "hash"))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormClientRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		saveClient(t, repo, fmt.Sprintf("Company %02d", i), fmt.Sprintf("client%02d@b.com", i))
	}

	first, total, err := repo.List(ctx, shared.PageRequest{Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, first, 5)
	assert.Equal(t, "Company 01", first[0].Company)

	second, _, err := repo.List(ctx, shared.PageRequest{Page: 2, Limit: 5})
	require.NoError(t, err)
	require.Len(t, second, 5)
	assert.Equal(t, "Company 06", second[0].Company)
	assert.Greater(t, second[0].ID, first[4].ID)

	last, _, err := repo.List(ctx, shared.PageRequest{Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, last, 2)

	beyond, _, err := repo.List(ctx, shared.PageRequest{Page: 9, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestGormClientRepository_CustomerLinks(t *testing.T) {
	db := setupTestDB(t)
	clients := NewGormClientRepository(db)
	customers := NewGormCustomerRepository(db)
	ctx := context.Background()

	client := account.NewClient("Acme", "a@b.com", "hash")
	newcomer := account.NewCustomer("john@doe.com", "John", "Doe")
	account.Link(client, newcomer)
	require.NoError(t, clients.Save(ctx, client))
	require.NotZero(t, newcomer.ID, "unsaved customers are created with the client")

	found, err := clients.FindByID(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, found.Customers(), 1)
	assert.Equal(t, "john@doe.com", found.Customers()[0].Email)

	t.Run("unlinking keeps the customer", func(t *testing.T) {
		account.Unlink(found, found.Customers()[0])
		require.NoError(t, clients.Save(ctx, found))

		reloaded, err := clients.FindByID(ctx, client.ID)
		require.NoError(t, err)
		assert.Empty(t, reloaded.Customers())

		customer, err := customers.FindByID(ctx, newcomer.ID)
		require.NoError(t, err)
		assert.Empty(t, customer.Clients())
	})

	t.Run("deleting the client removes its links only", func(t *testing.T) {
		customer, err := customers.FindByID(ctx, newcomer.ID)
		require.NoError(t, err)
		reloaded, err := clients.FindByID(ctx, client.ID)
		require.NoError(t, err)
		account.Link(reloaded, customer)
		require.NoError(t, clients.Save(ctx, reloaded))

		require.NoError(t, clients.Delete(ctx, client.ID))

		_, err = clients.FindByID(ctx, client.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		customer, err = customers.FindByID(ctx, newcomer.ID)
		require.NoError(t, err)
		assert.Empty(t, customer.Clients())
	})

	t.Run("deleting a missing client is not found", func(t *testing.T) {
		assert.ErrorIs(t, clients.Delete(ctx, 4242), shared.ErrNotFound)
	})
}

func TestGormClientRepository_FindByEmail_SQL(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormClientRepository(db.DB)

	mock.ExpectQuery(`SELECT \* FROM "client" WHERE email = \$1 ORDER BY "client"."id" LIMIT \$2`).
		WithArgs("a@b.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company", "email", "password", "roles"}).
			AddRow(7, "Acme", "a@b.com", "hash", `["ROLE_ADMIN"]`))

	client, err := repo.FindByEmail(context.Background(), "A@b.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), client.ID)
	assert.True(t, client.IsAdmin())
	assert.NoError(t, mock.ExpectationsWereMet())
}
