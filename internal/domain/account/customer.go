package account

import (
	"slices"
	"strings"

	"github.com/bilemo/api/internal/domain/shared"
)

// Customer is an end user record. It may be linked to any number of clients.
type Customer struct {
	shared.BaseEntity
	Email     string
	FirstName string
	LastName  string
	clients   []*Client
}

// NewCustomer creates an unlinked customer
func NewCustomer(email, firstName, lastName string) *Customer {
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Email:      normalizeEmail(email),
		FirstName:  strings.TrimSpace(firstName),
		LastName:   strings.TrimSpace(lastName),
	}
}

// SetEmail normalizes and sets the email
func (u *Customer) SetEmail(email string) {
	u.Email = normalizeEmail(email)
}

// Clients returns a snapshot of the linked clients
func (u *Customer) Clients() []*Client {
	return slices.Clone(u.clients)
}

// ClientIDs returns the IDs of the linked, persisted clients
func (u *Customer) ClientIDs() []int64 {
	ids := make([]int64, 0, len(u.clients))
	for _, c := range u.clients {
		if c.ID != 0 {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// IsLinkedTo reports whether the customer is linked to the client with the given ID
func (u *Customer) IsLinkedTo(clientID int64) bool {
	if clientID == 0 {
		return false
	}
	return slices.Contains(u.ClientIDs(), clientID)
}

// Validate checks the customer's fields
func (u *Customer) Validate() error {
	var v shared.Violations
	validateEmail(&v, u.Email, "L'émail est obligatoire.", "L'email rentré doit obligatoire être un email valide.")
	validateName(&v, "firstName", "Le prénom", u.FirstName)
	validateName(&v, "lastName", "Le nom", u.LastName)
	return v.Err()
}

func validateName(v *shared.Violations, field, label, value string) {
	if !shared.NotBlank(value) {
		v.Add(field, label+" est obligatoire.")
		return
	}
	if !shared.LengthBetween(value, 3, 255) {
		v.Add(field, shared.LengthMessage(label, 3, 255))
	}
}
