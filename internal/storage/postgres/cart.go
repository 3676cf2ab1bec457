package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thokbazar/wholesale-core/internal/domain/cart"
)

const (
	getCartSQL = `SELECT lines FROM carts WHERE session_id = $1`

	saveCartSQL = `INSERT INTO carts (session_id, lines, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (session_id) DO UPDATE SET lines = EXCLUDED.lines, updated_at = now()`

	deleteCartSQL = `DELETE FROM carts WHERE session_id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository on a JSONB column keyed by
// session id. Saves are whole-cart overwrites: concurrent tabs sharing
// a session resolve last-write-wins with no locking, which matches the
// cart's ownership model.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository using the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Load returns the session's cart, or an empty cart for unknown sessions.
func (r *CartRepository) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, getCartSQL, sessionID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cart.New(), nil
		}
		return nil, errors.Wrapf(err, "load cart %q", sessionID)
	}

	c := cart.New()
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, errors.Wrapf(err, "decode cart %q", sessionID)
	}
	return c, nil
}

// Save overwrites the session's stored cart.
func (r *CartRepository) Save(ctx context.Context, sessionID string, c *cart.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	_, err = r.pool.Exec(ctx, saveCartSQL, sessionID, raw)
	return errors.Wrapf(err, "save cart %q", sessionID)
}

// Delete removes the session's cart. Absent sessions are a no-op.
func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx, deleteCartSQL, sessionID)
	return errors.Wrapf(err, "delete cart %q", sessionID)
}
