package account

import (
	"testing"

	"github.com/bilemo/api/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func violationFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		fields = append(fields, v.Field)
	}
	return fields
}

func TestNewClient(t *testing.T) {
	c := NewClient("  Acme ", " A@B.com ", "hash")

	assert.Equal(t, "Acme", c.Company)
	assert.Equal(t, "a@b.com", c.Email)
	assert.Equal(t, []string{RoleUser}, c.Roles())
	assert.False(t, c.IsAdmin())
	assert.False(t, c.CreatedAt.IsZero())
	assert.True(t, c.IsNew())
	assert.Empty(t, c.Customers())
}

func TestClient_Roles(t *testing.T) {
	c := NewClient("BileMo", "admin@bilemo.com", "hash")
	c.SetRoles([]string{RoleAdmin, RoleAdmin})

	assert.Equal(t, []string{RoleAdmin, RoleUser}, c.Roles())
	assert.Equal(t, []string{RoleAdmin, RoleAdmin}, c.StoredRoles())
	assert.True(t, c.IsAdmin())
}

func TestClient_Validate(t *testing.T) {
	t.Run("valid client", func(t *testing.T) {
		assert.NoError(t, NewClient("Acme", "a@b.com", "hash").Validate())
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		c := NewClient("Ac", "not-an-email", "")
		assert.ElementsMatch(t, []string{"company", "email", "password"}, violationFields(t, c.Validate()))
	})

	t.Run("blank company", func(t *testing.T) {
		c := NewClient("   ", "a@b.com", "hash")
		assert.Equal(t, []string{"company"}, violationFields(t, c.Validate()))
	})
}

func TestValidatePlainPassword(t *testing.T) {
	assert.NoError(t, ValidatePlainPassword("secret1"))
	assert.Equal(t, []string{"password"}, violationFields(t, ValidatePlainPassword("12345")))
	assert.Equal(t, []string{"password"}, violationFields(t, ValidatePlainPassword("")))
}

func TestCustomer_Validate(t *testing.T) {
	assert.NoError(t, NewCustomer("jane@example.com", "Jane", "Doe").Validate())

	u := NewCustomer("", "Jo", "")
	assert.ElementsMatch(t, []string{"email", "firstName", "lastName"}, violationFields(t, u.Validate()))
}

func TestClient_ValidateRoles(t *testing.T) {
	c := NewClient("Acme", "a@b.com", "hash")
	c.SetRoles([]string{RoleAdmin, "ROLE_ROOT"})

	err := c.Validate()
	assert.Equal(t, []string{"roles"}, violationFields(t, err))
	assert.Contains(t, err.Error(), "ROLE_ROOT")
}
