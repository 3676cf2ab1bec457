package cart

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/thokbazar/wholesale-core/internal/domain/catalog"
)

// Repository persists serialized session carts. Loading an unknown
// session yields an empty cart. Implementations are last-write-wins:
// concurrent tabs sharing a session race on the stored value, which is
// an accepted limitation rather than something to lock around.
type Repository interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// Store is the session-facing cart API. Every mutation is a single
// load-modify-persist cycle on the session key; within one buyer
// session mutations are expected to be serialized by the caller.
type Store struct {
	repo Repository
}

// NewStore creates a Store backed by the given Repository.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// Get returns the session's current cart.
func (s *Store) Get(ctx context.Context, sessionID string) (*Cart, error) {
	c, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	return c, nil
}

// Add adds a product to the session's cart (see Cart.Add) and persists
// the result.
func (s *Store) Add(ctx context.Context, sessionID string, p catalog.Product, explicitQty int) (*Cart, error) {
	c, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	c.Add(p, explicitQty)
	if err := s.repo.Save(ctx, sessionID, c); err != nil {
		return nil, errors.Wrap(err, "save cart")
	}
	return c, nil
}

// UpdateQuantity applies a manual quantity edit and persists the result.
func (s *Store) UpdateQuantity(ctx context.Context, sessionID, productID string, qty int) (*Cart, error) {
	c, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	c.UpdateQuantity(productID, qty)
	if err := s.repo.Save(ctx, sessionID, c); err != nil {
		return nil, errors.Wrap(err, "save cart")
	}
	return c, nil
}

// Remove deletes a line and persists the result.
func (s *Store) Remove(ctx context.Context, sessionID, productID string) (*Cart, error) {
	c, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	c.Remove(productID)
	if err := s.repo.Save(ctx, sessionID, c); err != nil {
		return nil, errors.Wrap(err, "save cart")
	}
	return c, nil
}

// Clear drops the session's cart entirely. It is called exactly once
// per successful order submission, and never on a failed one.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return errors.Wrap(s.repo.Delete(ctx, sessionID), "delete cart")
}

// Count returns the sum of line quantities in the session's cart.
func (s *Store) Count(ctx context.Context, sessionID string) (int, error) {
	c, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return 0, errors.Wrap(err, "load cart")
	}
	return c.Count(), nil
}
