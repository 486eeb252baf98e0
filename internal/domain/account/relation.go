package account

import (
	"context"
	"errors"

	"github.com/bilemo/api/internal/domain/shared"
)

// Link associates a client and a customer on both sides. Linking an already
// linked pair is a no-op.
func Link(c *Client, u *Customer) {
	if c == nil || u == nil {
		return
	}
	if indexOfCustomer(c.customers, u) < 0 {
		c.customers = append(c.customers, u)
	}
	if indexOfClient(u.clients, c) < 0 {
		u.clients = append(u.clients, c)
	}
}

// Unlink removes the association from both sides. Unlinking a pair that is
// not linked is a no-op.
func Unlink(c *Client, u *Customer) {
	if c == nil || u == nil {
		return
	}
	if i := indexOfCustomer(c.customers, u); i >= 0 {
		held := c.customers[i]
		c.customers = append(c.customers[:i], c.customers[i+1:]...)
		if held != u {
			// same row loaded twice: drop the back reference on the copy we held
			if j := indexOfClient(held.clients, c); j >= 0 {
				held.clients = append(held.clients[:j], held.clients[j+1:]...)
			}
		}
	}
	if i := indexOfClient(u.clients, c); i >= 0 {
		held := u.clients[i]
		u.clients = append(u.clients[:i], u.clients[i+1:]...)
		if held != c {
			if j := indexOfCustomer(held.customers, u); j >= 0 {
				held.customers = append(held.customers[:j], held.customers[j+1:]...)
			}
		}
	}
}

// ClientResolver loads a client by ID. It returns shared.ErrNotFound for unknown IDs.
type ClientResolver func(ctx context.Context, id int64) (*Client, error)

// CustomerResolver loads a customer by ID. It returns shared.ErrNotFound for unknown IDs.
type CustomerResolver func(ctx context.Context, id int64) (*Customer, error)

// AttachClients links every client in ids to the customer. The first unknown
// ID aborts with a NotFound error.
func AttachClients(ctx context.Context, u *Customer, ids []int64, resolve ClientResolver) error {
	return attachByIDs(ctx, ids, resolve, func(c *Client) { Link(c, u) })
}

// DetachClients unlinks every client in ids from the customer. Unknown IDs are ignored.
func DetachClients(ctx context.Context, u *Customer, ids []int64, resolve ClientResolver) error {
	return detachByIDs(ctx, ids, resolve, func(c *Client) { Unlink(c, u) })
}

// AttachCustomers links every customer in ids to the client. The first unknown
// ID aborts with a NotFound error.
func AttachCustomers(ctx context.Context, c *Client, ids []int64, resolve CustomerResolver) error {
	return attachByIDs(ctx, ids, resolve, func(u *Customer) { Link(c, u) })
}

// DetachCustomers unlinks every customer in ids from the client. Unknown IDs are ignored.
func DetachCustomers(ctx context.Context, c *Client, ids []int64, resolve CustomerResolver) error {
	return detachByIDs(ctx, ids, resolve, func(u *Customer) { Unlink(c, u) })
}

func attachByIDs[T any](ctx context.Context, ids []int64, resolve func(context.Context, int64) (T, error), link func(T)) error {
	for _, id := range ids {
		other, err := resolve(ctx, id)
		if err != nil {
			return err
		}
		link(other)
	}
	return nil
}

func detachByIDs[T any](ctx context.Context, ids []int64, resolve func(context.Context, int64) (T, error), unlink func(T)) error {
	for _, id := range ids {
		other, err := resolve(ctx, id)
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		unlink(other)
	}
	return nil
}

func sameClient(a, b *Client) bool {
	return a == b || (a.ID != 0 && a.ID == b.ID)
}

func sameCustomer(a, b *Customer) bool {
	return a == b || (a.ID != 0 && a.ID == b.ID)
}

func indexOfClient(list []*Client, c *Client) int {
	for i, item := range list {
		if sameClient(item, c) {
			return i
		}
	}
	return -1
}

func indexOfCustomer(list []*Customer, u *Customer) int {
	for i, item := range list {
		if sameCustomer(item, u) {
			return i
		}
	}
	return -1
}
