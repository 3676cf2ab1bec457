package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-faster/errors"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-process Repository keeping carts in their
// serialized form, so every load/save exercises the same JSON codec as
// the durable implementation. Suitable for tests and single-instance
// deployments without a database-backed session store.
type MemoryRepository struct {
	mu    sync.Mutex
	carts map[string][]byte
}

// NewMemoryRepository returns an empty in-memory cart repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string][]byte)}
}

// Load returns the session's cart, or an empty cart for unknown sessions.
func (m *MemoryRepository) Load(_ context.Context, sessionID string) (*Cart, error) {
	m.mu.Lock()
	raw, ok := m.carts[sessionID]
	m.mu.Unlock()

	if !ok {
		return New(), nil
	}
	c := New()
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, errors.Wrap(err, "decode stored cart")
	}
	return c, nil
}

// Save overwrites the session's stored cart. Last write wins.
func (m *MemoryRepository) Save(_ context.Context, sessionID string, c *Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	m.mu.Lock()
	m.carts[sessionID] = raw
	m.mu.Unlock()
	return nil
}

// Delete removes the session's cart. Deleting an absent session is a no-op.
func (m *MemoryRepository) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.carts, sessionID)
	m.mu.Unlock()
	return nil
}
