// Package order implements the durable side of the purchase flow: the
// two-step order submission pipeline and the admin-driven fulfillment
// lifecycle.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/thokbazar/wholesale-core/internal/domain/catalog"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Status tracks fulfillment progress of an order.
type Status string

const (
	StatusProcessing Status = "Processing"
	StatusConfirmed  Status = "Confirmed"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// IsValid reports whether s is a known fulfillment status.
func (s Status) IsValid() bool {
	switch s {
	case StatusProcessing, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// PaymentStatus tracks payment collection, independently of fulfillment.
// Delivered with Pending payment is legal under cash-on-delivery.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentFailed  PaymentStatus = "Failed"
)

// IsValid reports whether p is a known payment status.
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	default:
		return false
	}
}

// PaymentMethodCOD is the only supported payment method.
const PaymentMethodCOD = "COD"

// Order is the persisted order header. It is created exactly once per
// checkout and is immutable afterwards except for the two status
// fields, which only an administrative actor may change. TotalAmount
// is frozen at submission time and never recomputed from live prices.
type Order struct {
	ID               string
	OrderNumber      string
	CustomerID       string
	BusinessName     string
	ContactName      string
	Phone            string
	City             string
	Address          string
	TransportCarrier string
	TotalAmount      decimal.Decimal
	Status           Status
	PaymentStatus    PaymentStatus
	PaymentMethod    string
	CreatedAt        time.Time
}

// Item is one persisted order line. Name, price and unit are snapshots
// of the product at submission time. Items are written once, intended
// atomically with their header, and never mutated individually.
type Item struct {
	OrderID     string
	ProductID   string
	ProductName string
	Price       decimal.Decimal
	Quantity    int
	Unit        catalog.Unit
}

// Subtotal returns price multiplied by quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// StatusField names a mutable order column the lifecycle tracker may
// update.
type StatusField string

const (
	FieldOrderStatus   StatusField = "order_status"
	FieldPaymentStatus StatusField = "payment_status"
)

// Repository defines persistence operations for orders. InsertHeader
// and InsertItems are deliberately separate so the submission pipeline
// owns the compensation decision when the second write fails.
type Repository interface {
	InsertHeader(ctx context.Context, o *Order) error
	InsertItems(ctx context.Context, items []Item) error
	// DeleteHeader removes an order and its items. Deleting an absent
	// order must be a no-op so compensation can be retried.
	DeleteHeader(ctx context.Context, orderID string) error
	UpdateStatus(ctx context.Context, orderID string, field StatusField, value string) error
	List(ctx context.Context) ([]Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	ListItems(ctx context.Context, orderID string) ([]Item, error)
}
