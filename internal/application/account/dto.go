package account

// NewCustomerRequest describes a customer created together with a client
type NewCustomerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	Company   string               `json:"company"`
	Email     string               `json:"email"`
	Password  string               `json:"password"`
	Roles     []string             `json:"roles"`
	Customers []NewCustomerRequest `json:"customers"`
}

// UpdateClientRequest represents a partial client update. Nil fields are left untouched.
// IDCustomers links existing customers, RemoveIDCustomers unlinks them.
type UpdateClientRequest struct {
	Company           *string              `json:"company"`
	Email             *string              `json:"email"`
	Password          *string              `json:"password"`
	Roles             *[]string            `json:"roles"`
	Customers         []NewCustomerRequest `json:"customers"`
	IDCustomers       []int64              `json:"idCustomers" binding:"omitempty,dive,gt=0"`
	RemoveIDCustomers []int64              `json:"removeIdCustomers" binding:"omitempty,dive,gt=0"`
}

// ChangePasswordRequest represents a request to change the caller's own password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// CreateCustomerRequest represents a request to create a customer.
// IDClients is honoured for administrators only.
type CreateCustomerRequest struct {
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	IDClients []int64 `json:"idClients" binding:"omitempty,dive,gt=0"`
}

// UpdateCustomerRequest represents a partial customer update. Nil fields are left untouched.
type UpdateCustomerRequest struct {
	Email           *string `json:"email"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	IDClients       []int64 `json:"idClients" binding:"omitempty,dive,gt=0"`
	RemoveIDClients []int64 `json:"removeIdClients" binding:"omitempty,dive,gt=0"`
}

// LoginRequest is the body of POST /api/login_check. Username is the client email.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
