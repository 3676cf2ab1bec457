package checkout

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/thokbazar/wholesale-core/internal/domain/cart"
	"github.com/thokbazar/wholesale-core/internal/domain/customer"
	"github.com/thokbazar/wholesale-core/internal/domain/order"
)

// fillEmpty sets *dst to fallback when *dst is empty.
func fillEmpty(dst *string, fallback string) {
	if *dst == "" {
		*dst = fallback
	}
}

// Service drives the place-order flow: load the session cart and the
// buyer's profile, build a submission, run the submission pipeline, and
// clear the cart only after the order is durably written.
type Service struct {
	carts     *cart.Store
	customers customer.Repository
	orders    *order.Service
	lg        *zap.Logger

	now func() time.Time
}

// NewService creates a checkout Service.
func NewService(carts *cart.Store, customers customer.Repository, orders *order.Service, lg *zap.Logger) *Service {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Service{
		carts:     carts,
		customers: customers,
		orders:    orders,
		lg:        lg,
		now:       time.Now,
	}
}

// PlaceOrder converts the session's cart into a durable order. On any
// validation or submission failure the cart is left untouched so the
// buyer can retry. On success the cart is cleared exactly once, before
// the order is returned for the confirmation view.
func (s *Service) PlaceOrder(ctx context.Context, sessionID, userID string, form ShippingForm) (*order.Order, error) {
	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}

	var profile *customer.Customer
	if userID != "" {
		profile, err = s.customers.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, customer.ErrNotFound) {
			return nil, errors.Wrap(err, "load profile")
		}
	}

	sub, err := BuildSubmission(c, profile, form, s.now())
	if err != nil {
		return nil, err
	}

	o, err := s.orders.Submit(ctx, *sub, userID)
	if err != nil {
		return nil, err
	}

	// The order is durable from here on. A failed cart clear must not
	// fail the checkout; it would strand a completed order behind an
	// error page. Log it and move on.
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.lg.Warn("cart clear failed after successful submission",
			zap.String("session_id", sessionID),
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}

	return o, nil
}
