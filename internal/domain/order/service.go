package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SubmissionStage identifies which durable write of the pipeline failed.
type SubmissionStage string

const (
	// StageHeader is the order header insert. A failure here leaves no
	// state behind; the buyer may simply retry.
	StageHeader SubmissionStage = "header"
	// StageItems is the order items insert. A failure here leaves an
	// orphaned header that the pipeline must compensate for.
	StageItems SubmissionStage = "items"
)

// SubmissionError reports a failed order submission.
type SubmissionError struct {
	Stage SubmissionStage
	// Compensated reports whether the orphaned header was successfully
	// removed after an item-write failure. It is always true for
	// StageHeader failures, which create nothing to compensate.
	Compensated bool
	Err         error
}

func (e *SubmissionError) Error() string {
	if e.Stage == StageItems && !e.Compensated {
		return fmt.Sprintf("order submission failed at %s stage (orphaned header not removed): %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("order submission failed at %s stage: %v", e.Stage, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// InvalidStatusError reports an unknown status value or field passed to
// the lifecycle tracker.
type InvalidStatusError struct {
	Field StatusField
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid %s value %q", e.Field, e.Value)
}

// TransitionDeniedError reports a status move rejected by the active
// transition policy.
type TransitionDeniedError struct {
	From Status
	To   Status
}

func (e *TransitionDeniedError) Error() string {
	return fmt.Sprintf("transition %s -> %s not allowed", e.From, e.To)
}

// Submission is a fully validated order ready for the two-step durable
// write. Checkout builds it; the pipeline never re-validates fields.
type Submission struct {
	OrderNumber      string
	BusinessName     string
	ContactName      string
	Phone            string
	City             string
	Address          string
	TransportCarrier string
	TotalAmount      decimal.Decimal
	Items            []Item
}

// Detail is an order header together with its line items.
type Detail struct {
	Order Order
	Items []Item
}

// Service is the order submission pipeline and lifecycle tracker.
type Service struct {
	orders Repository
	policy TransitionPolicy
	lg     *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a Service. A nil policy defaults to AnyTransition.
func NewService(orders Repository, policy TransitionPolicy, lg *zap.Logger) *Service {
	if policy == nil {
		policy = AnyTransition{}
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Service{
		orders: orders,
		policy: policy,
		lg:     lg,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// Submit performs the two-step durable write: order header first, then
// line items. A header failure aborts cleanly. An item failure leaves
// an orphaned header, which Submit compensates for by deleting it; the
// returned SubmissionError records whether compensation succeeded so an
// operator can clean up the rare leftover by order id.
//
// Submit never touches the buyer's cart; clearing it on success is the
// checkout flow's job.
func (s *Service) Submit(ctx context.Context, sub Submission, customerID string) (*Order, error) {
	o := &Order{
		ID:               s.newID(),
		OrderNumber:      sub.OrderNumber,
		CustomerID:       customerID,
		BusinessName:     sub.BusinessName,
		ContactName:      sub.ContactName,
		Phone:            sub.Phone,
		City:             sub.City,
		Address:          sub.Address,
		TransportCarrier: sub.TransportCarrier,
		TotalAmount:      sub.TotalAmount,
		Status:           StatusProcessing,
		PaymentStatus:    PaymentPending,
		PaymentMethod:    PaymentMethodCOD,
		CreatedAt:        s.now().UTC(),
	}

	if err := s.orders.InsertHeader(ctx, o); err != nil {
		return nil, &SubmissionError{Stage: StageHeader, Compensated: true, Err: err}
	}

	items := make([]Item, len(sub.Items))
	for i, it := range sub.Items {
		it.OrderID = o.ID
		items[i] = it
	}

	if err := s.orders.InsertItems(ctx, items); err != nil {
		serr := &SubmissionError{Stage: StageItems, Err: err}
		if derr := s.orders.DeleteHeader(ctx, o.ID); derr != nil {
			s.lg.Error("compensating delete failed, orphaned order remains",
				zap.String("order_id", o.ID),
				zap.String("order_number", o.OrderNumber),
				zap.Error(derr),
			)
		} else {
			serr.Compensated = true
		}
		return nil, serr
	}

	return o, nil
}

// UpdateStatus applies a single-field status change on behalf of an
// administrator. Re-applying the current value is a no-op with no
// error. Concurrent admins race last-write-wins, which is acceptable
// for idempotent enum assignments. Order and payment status are
// independent: no cross-validation between them is performed.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, field StatusField, value string) error {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return errors.Wrap(err, "get order")
	}

	switch field {
	case FieldOrderStatus:
		st := Status(value)
		if !st.IsValid() {
			return &InvalidStatusError{Field: field, Value: value}
		}
		if o.Status == st {
			return nil
		}
		if !s.policy.Allow(o.Status, st) {
			return &TransitionDeniedError{From: o.Status, To: st}
		}
	case FieldPaymentStatus:
		ps := PaymentStatus(value)
		if !ps.IsValid() {
			return &InvalidStatusError{Field: field, Value: value}
		}
		if o.PaymentStatus == ps {
			return nil
		}
	default:
		return &InvalidStatusError{Field: field, Value: value}
	}

	return errors.Wrap(s.orders.UpdateStatus(ctx, orderID, field, value), "update status")
}

// ListOrders returns all orders, newest first.
func (s *Service) ListOrders(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

// CustomerOrders returns one buyer's orders, newest first.
func (s *Service) CustomerOrders(ctx context.Context, customerID string) ([]Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}

// GetOrderDetail returns an order header together with its items.
func (s *Service) GetOrderDetail(ctx context.Context, orderID string) (*Detail, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	items, err := s.orders.ListItems(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "list order items")
	}
	return &Detail{Order: *o, Items: items}, nil
}
