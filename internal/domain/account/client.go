package account

import (
	"slices"
	"strings"

	"github.com/bilemo/api/internal/domain/shared"
)

// Roles granted to clients
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

var knownRoles = []string{RoleUser, RoleAdmin}

// Password length bounds, applied to the plain text before hashing
const (
	PasswordMinLength = 6
	PasswordMaxLength = 255
)

// Client is a B2B account holder. It authenticates against the API and owns customers.
type Client struct {
	shared.BaseEntity
	Company      string
	Email        string
	PasswordHash string
	roles        []string
	customers    []*Customer
}

// NewClient creates a client with the default ROLE_USER role
func NewClient(company, email, passwordHash string) *Client {
	return &Client{
		BaseEntity:   shared.NewBaseEntity(),
		Company:      strings.TrimSpace(company),
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		roles:        []string{RoleUser},
	}
}

// Roles returns the granted roles. ROLE_USER is always part of the result.
func (c *Client) Roles() []string {
	out := make([]string, 0, len(c.roles)+1)
	for _, r := range c.roles {
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	if !slices.Contains(out, RoleUser) {
		out = append(out, RoleUser)
	}
	return out
}

// StoredRoles returns the roles exactly as they are persisted
func (c *Client) StoredRoles() []string {
	return slices.Clone(c.roles)
}

// SetRoles replaces the stored roles
func (c *Client) SetRoles(roles []string) {
	c.roles = slices.Clone(roles)
}

// HasRole reports whether the client was granted role
func (c *Client) HasRole(role string) bool {
	return slices.Contains(c.Roles(), role)
}

// IsAdmin reports whether the client holds ROLE_ADMIN
func (c *Client) IsAdmin() bool {
	return c.HasRole(RoleAdmin)
}

// SetEmail normalizes and sets the login email
func (c *Client) SetEmail(email string) {
	c.Email = normalizeEmail(email)
}

// Customers returns a snapshot of the linked customers
func (c *Client) Customers() []*Customer {
	return slices.Clone(c.customers)
}

// CustomerIDs returns the IDs of the linked, persisted customers
func (c *Client) CustomerIDs() []int64 {
	ids := make([]int64, 0, len(c.customers))
	for _, u := range c.customers {
		if u.ID != 0 {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

// HasCustomer reports whether u is linked to this client
func (c *Client) HasCustomer(u *Customer) bool {
	return indexOfCustomer(c.customers, u) >= 0
}

// Validate checks the client's persisted fields
func (c *Client) Validate() error {
	var v shared.Violations
	if !shared.NotBlank(c.Company) {
		v.Add("company", "Le nom de la companie est obligatoire.")
	} else if !shared.LengthBetween(c.Company, 3, 255) {
		v.Add("company", shared.LengthMessage("Le nom de la companie", 3, 255))
	}
	validateEmail(&v, c.Email, "L'émail est obligatoire.", "L'email rentré doit obligatoire être un email valide.")
	v.Check(c.PasswordHash != "", "password", "Le mot de passe est obligatoire.")
	for _, role := range c.roles {
		v.Check(slices.Contains(knownRoles, role), "roles", "Le rôle "+role+" n'existe pas.")
	}
	return v.Err()
}

// ValidatePlainPassword checks a password before it is hashed
func ValidatePlainPassword(password string) error {
	var v shared.Violations
	if !shared.NotBlank(password) {
		v.Add("password", "Le mot de passe est obligatoire.")
	} else if !shared.LengthBetween(password, PasswordMinLength, PasswordMaxLength) {
		v.Add("password", shared.LengthMessage("Le mot de passe", PasswordMinLength, PasswordMaxLength))
	}
	return v.Err()
}

func validateEmail(v *shared.Violations, email, blankMsg, invalidMsg string) {
	switch {
	case !shared.NotBlank(email):
		v.Add("email", blankMsg)
	case !shared.LengthBetween(email, 0, 255):
		v.Add("email", "L'émail ne peut pas faire plus de 255 caractères")
	case !shared.IsEmail(email):
		v.Add("email", invalidMsg)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
