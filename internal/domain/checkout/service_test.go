package checkout

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thokbazar/wholesale-core/internal/domain/cart"
	"github.com/thokbazar/wholesale-core/internal/domain/catalog"
	"github.com/thokbazar/wholesale-core/internal/domain/customer"
	"github.com/thokbazar/wholesale-core/internal/domain/order"
)

type stubCustomers struct {
	profiles map[string]*customer.Customer
}

func (s *stubCustomers) GetByUserID(_ context.Context, userID string) (*customer.Customer, error) {
	c, ok := s.profiles[userID]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return c, nil
}

func (s *stubCustomers) Upsert(_ context.Context, c *customer.Customer) error {
	if s.profiles == nil {
		s.profiles = make(map[string]*customer.Customer)
	}
	s.profiles[c.UserID] = c
	return nil
}

type stubOrders struct {
	headers map[string]*order.Order
	items   map[string][]order.Item

	insertItemsErr error
}

func newStubOrders() *stubOrders {
	return &stubOrders{
		headers: make(map[string]*order.Order),
		items:   make(map[string][]order.Item),
	}
}

func (s *stubOrders) InsertHeader(_ context.Context, o *order.Order) error {
	cp := *o
	s.headers[o.ID] = &cp
	return nil
}

func (s *stubOrders) InsertItems(_ context.Context, items []order.Item) error {
	if s.insertItemsErr != nil {
		return s.insertItemsErr
	}
	for _, it := range items {
		s.items[it.OrderID] = append(s.items[it.OrderID], it)
	}
	return nil
}

func (s *stubOrders) DeleteHeader(_ context.Context, orderID string) error {
	delete(s.headers, orderID)
	delete(s.items, orderID)
	return nil
}

func (s *stubOrders) UpdateStatus(_ context.Context, _ string, _ order.StatusField, _ string) error {
	return nil
}

func (s *stubOrders) List(_ context.Context) ([]order.Order, error) { return nil, nil }

func (s *stubOrders) ListByCustomer(_ context.Context, _ string) ([]order.Order, error) {
	return nil, nil
}

func (s *stubOrders) GetByID(_ context.Context, id string) (*order.Order, error) {
	o, ok := s.headers[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *stubOrders) ListItems(_ context.Context, orderID string) ([]order.Item, error) {
	return s.items[orderID], nil
}

func seedCart(t *testing.T, carts *cart.Store, sessionID string) {
	t.Helper()
	ctx := context.Background()
	_, err := carts.Add(ctx, sessionID, catalog.Product{
		ID:    "p1",
		Name:  "Cotton Fabric",
		Price: decimal.NewFromInt(100),
		Unit:  catalog.UnitKg,
	}, 0)
	require.NoError(t, err)
	_, err = carts.Add(ctx, sessionID, catalog.Product{
		ID:             "p2",
		Name:           "Steel Bowl",
		Price:          decimal.NewFromInt(50),
		Unit:           catalog.UnitPcs,
		PackagingCount: 2,
	}, 0)
	require.NoError(t, err)
}

func TestPlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	carts := cart.NewStore(cart.NewMemoryRepository())
	repo := newStubOrders()
	svc := NewService(carts, &stubCustomers{}, order.NewService(repo, nil, nil), nil)

	seedCart(t, carts, "sess-1")

	o, err := svc.PlaceOrder(ctx, "sess-1", "user-1", filledForm())
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(4100).Equal(o.TotalAmount),
		"got %s", o.TotalAmount)
	assert.Equal(t, "user-1", o.CustomerID)
	assert.Equal(t, order.StatusProcessing, o.Status)

	items, err := repo.ListItems(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal())
	}
	assert.True(t, o.TotalAmount.Equal(sum))

	// The cart was cleared exactly once the order became durable.
	n, err := carts.Count(ctx, "sess-1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPlaceOrder_ProfileFallback(t *testing.T) {
	ctx := context.Background()
	carts := cart.NewStore(cart.NewMemoryRepository())
	customers := &stubCustomers{profiles: map[string]*customer.Customer{
		"user-1": {
			UserID:  "user-1",
			Name:    "Saved Name",
			Mobile:  "1112223333",
			Address: "Saved Address",
		},
	}}
	repo := newStubOrders()
	svc := NewService(carts, customers, order.NewService(repo, nil, nil), nil)

	seedCart(t, carts, "sess-1")

	o, err := svc.PlaceOrder(ctx, "sess-1", "user-1", ShippingForm{})
	require.NoError(t, err)
	assert.Equal(t, "Saved Name", o.ContactName)
	assert.Equal(t, "1112223333", o.Phone)
}

func TestPlaceOrder_NoProfileRequiresForm(t *testing.T) {
	ctx := context.Background()
	carts := cart.NewStore(cart.NewMemoryRepository())
	svc := NewService(carts, &stubCustomers{}, order.NewService(newStubOrders(), nil, nil), nil)

	seedCart(t, carts, "sess-1")

	_, err := svc.PlaceOrder(ctx, "sess-1", "user-unknown", ShippingForm{})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)

	// Validation failures leave the cart alone.
	n, err := carts.Count(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	carts := cart.NewStore(cart.NewMemoryRepository())
	svc := NewService(carts, &stubCustomers{}, order.NewService(newStubOrders(), nil, nil), nil)

	_, err := svc.PlaceOrder(context.Background(), "sess-1", "user-1", filledForm())
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrder_SubmissionFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	carts := cart.NewStore(cart.NewMemoryRepository())
	repo := newStubOrders()
	repo.insertItemsErr = errors.New("disk full")
	svc := NewService(carts, &stubCustomers{}, order.NewService(repo, nil, nil), nil)

	seedCart(t, carts, "sess-1")

	_, err := svc.PlaceOrder(ctx, "sess-1", "user-1", filledForm())
	var sErr *order.SubmissionError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, order.StageItems, sErr.Stage)

	// The buyer can retry: cart contents survived the failure.
	n, err := carts.Count(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	// And no half-written order is retrievable.
	assert.Empty(t, repo.headers)
}
