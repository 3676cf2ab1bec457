// Package customer holds the buyer profile: one record per
// authenticated identity, created at signup and read at checkout to
// pre-fill the order form.
package customer

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when no profile exists for a user.
var ErrNotFound = errors.New("customer not found")

// Customer is a buyer's saved profile. UserID is the subject issued by
// the upstream identity provider.
type Customer struct {
	UserID       string
	Name         string
	Mobile       string
	BusinessName string
	Address      string
	City         string
	PinCode      string
}

// Repository defines persistence operations for buyer profiles.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*Customer, error)
	Upsert(ctx context.Context, c *Customer) error
}
