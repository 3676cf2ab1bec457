package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thokbazar/wholesale-core/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (
		id, order_number, customer_id, business_name, contact_name, phone,
		city, address, transport_carrier, total_amount,
		order_status, payment_status, payment_method, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	insertOrderItemSQL = `INSERT INTO order_items (
		order_id, product_id, product_name, price, quantity, unit
	) VALUES ($1, $2, $3, $4, $5, $6)`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`

	selectOrderCols = `id, order_number, customer_id, business_name, contact_name, phone,
		city, address, transport_carrier, total_amount,
		order_status, payment_status, payment_method, created_at`

	listOrderItemsSQL = `SELECT order_id, product_id, product_name, price, quantity, unit
	FROM order_items WHERE order_id = $1 ORDER BY id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository using the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// InsertHeader persists a new order header.
func (r *OrderRepository) InsertHeader(ctx context.Context, o *order.Order) error {
	_, err := r.pool.Exec(ctx, insertOrderSQL,
		o.ID, o.OrderNumber, o.CustomerID, o.BusinessName, o.ContactName, o.Phone,
		o.City, o.Address, o.TransportCarrier, o.TotalAmount,
		string(o.Status), string(o.PaymentStatus), o.PaymentMethod, o.CreatedAt,
	)
	return errors.Wrapf(err, "insert order %q", o.ID)
}

// InsertItems persists all line items of one order in a single
// transaction, so a partial item write never becomes visible.
func (r *OrderRepository) InsertItems(ctx context.Context, items []order.Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(insertOrderItemSQL,
			it.OrderID, it.ProductID, it.ProductName, it.Price, it.Quantity, string(it.Unit),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrap(err, "insert order items")
	}

	return errors.Wrap(tx.Commit(ctx), "commit order items")
}

// DeleteHeader removes an order; its items go with it via ON DELETE
// CASCADE. Deleting an order that no longer exists is a no-op, keeping
// the pipeline's compensating delete idempotent.
func (r *OrderRepository) DeleteHeader(ctx context.Context, orderID string) error {
	_, err := r.pool.Exec(ctx, deleteOrderSQL, orderID)
	return errors.Wrapf(err, "delete order %q", orderID)
}

// UpdateStatus writes a single status column. The field name is mapped
// through a whitelist, never interpolated from caller input.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, field order.StatusField, value string) error {
	var sql string
	switch field {
	case order.FieldOrderStatus:
		sql = `UPDATE orders SET order_status = $2 WHERE id = $1`
	case order.FieldPaymentStatus:
		sql = `UPDATE orders SET payment_status = $2 WHERE id = $1`
	default:
		return errors.Errorf("unknown status field %q", field)
	}

	tag, err := r.pool.Exec(ctx, sql, orderID, value)
	if err != nil {
		return errors.Wrapf(err, "update %s of order %q", field, orderID)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectOrderCols+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "query orders")
	}
	defer rows.Close()
	return scanOrders(rows)
}

// ListByCustomer returns one buyer's orders, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+selectOrderCols+` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`,
		customerID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query customer orders")
	}
	defer rows.Close()
	return scanOrders(rows)
}

// GetByID returns one order, or order.ErrNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectOrderCols+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %q", id)
	}
	return o, nil
}

// ListItems returns an order's items in insertion order.
func (r *OrderRepository) ListItems(ctx context.Context, orderID string) ([]order.Item, error) {
	rows, err := r.pool.Query(ctx, listOrderItemsSQL, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "query order items")
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		var it order.Item
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.ProductName, &it.Price, &it.Quantity, &it.Unit); err != nil {
			return nil, errors.Wrap(err, "scan order item")
		}
		items = append(items, it)
	}
	return items, errors.Wrap(rows.Err(), "iterate order items")
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.BusinessName, &o.ContactName, &o.Phone,
		&o.City, &o.Address, &o.TransportCarrier, &o.TotalAmount,
		&o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanOrders(rows pgx.Rows) ([]order.Order, error) {
	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		orders = append(orders, *o)
	}
	return orders, errors.Wrap(rows.Err(), "iterate orders")
}
