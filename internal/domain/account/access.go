package account

import "github.com/bilemo/api/internal/domain/shared"

// AssertOwnership fails with a Forbidden error unless the customer is linked to current.
func AssertOwnership(current *Client, customer *Customer) error {
	if current == nil || customer == nil || !customer.IsLinkedTo(current.ID) {
		return shared.NewForbiddenError("Vous n'avez pas accès à ce client")
	}
	return nil
}

// AuthorizeCustomerAccess lets administrators through and asserts ownership for everyone else.
func AuthorizeCustomerAccess(current *Client, customer *Customer) error {
	if current != nil && current.IsAdmin() {
		return nil
	}
	return AssertOwnership(current, customer)
}
