package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thokbazar/wholesale-core/internal/domain/customer"
)

const (
	getCustomerSQL = `SELECT user_id, name, mobile, business_name, address, city, pin_code
	FROM customers WHERE user_id = $1`

	upsertCustomerSQL = `INSERT INTO customers (user_id, name, mobile, business_name, address, city, pin_code)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (user_id) DO UPDATE SET
		name = EXCLUDED.name,
		mobile = EXCLUDED.mobile,
		business_name = EXCLUDED.business_name,
		address = EXCLUDED.address,
		city = EXCLUDED.city,
		pin_code = EXCLUDED.pin_code`
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository using the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// GetByUserID returns the profile for a user, or customer.ErrNotFound.
func (r *CustomerRepository) GetByUserID(ctx context.Context, userID string) (*customer.Customer, error) {
	var c customer.Customer
	err := r.pool.QueryRow(ctx, getCustomerSQL, userID).
		Scan(&c.UserID, &c.Name, &c.Mobile, &c.BusinessName, &c.Address, &c.City, &c.PinCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get customer %q", userID)
	}
	return &c, nil
}

// Upsert creates the profile on first write and overwrites it afterwards.
func (r *CustomerRepository) Upsert(ctx context.Context, c *customer.Customer) error {
	_, err := r.pool.Exec(ctx, upsertCustomerSQL,
		c.UserID, c.Name, c.Mobile, c.BusinessName, c.Address, c.City, c.PinCode,
	)
	return errors.Wrapf(err, "upsert customer %q", c.UserID)
}
