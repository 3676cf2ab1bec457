package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thokbazar/wholesale-core/internal/domain/cart"
	"github.com/thokbazar/wholesale-core/internal/domain/catalog"
	"github.com/thokbazar/wholesale-core/internal/domain/checkout"
	"github.com/thokbazar/wholesale-core/internal/domain/customer"
	"github.com/thokbazar/wholesale-core/internal/domain/order"
)

const testAdminToken = "test-admin-token"

// --- In-memory test fixtures ---

type stubProducts struct {
	byID map[string]catalog.Product
}

func (s *stubProducts) List(_ context.Context) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubProducts) GetByID(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &p, nil
}

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

func (s *stubOrders) UpdateStatus(_ context.Context, orderID string, field order.StatusField, value string) error {
	o, ok := s.headers[orderID]
	if !ok {
		return order.ErrNotFound
	}
	switch field {
	case order.FieldOrderStatus:
		o.Status = order.Status(value)
	case order.FieldPaymentStatus:
		o.PaymentStatus = order.PaymentStatus(value)
	}
	return nil
}

func (s *stubOrders) List(_ context.Context) ([]order.Order, error) {
	var out []order.Order
	for _, o := range s.headers {
		out = append(out, *o)
	}
	return out, nil
}

func (s *stubOrders) ListByCustomer(_ context.Context, customerID string) ([]order.Order, error) {
	var out []order.Order
	for _, o := range s.headers {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
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

type testEnv struct {
	router *gin.Engine
	orders *stubOrders
	carts  *cart.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := &stubProducts{byID: map[string]catalog.Product{
		"p1": {ID: "p1", Name: "Cotton Fabric", Price: decimal.NewFromInt(100), Unit: catalog.UnitKg},
		"p2": {ID: "p2", Name: "Steel Bowl", Price: decimal.NewFromInt(50), Unit: catalog.UnitPcs, PackagingCount: 2},
	}}
	carts := cart.NewStore(cart.NewMemoryRepository())
	customers := &stubCustomers{}
	ordersRepo := newStubOrders()
	orderSvc := order.NewService(ordersRepo, nil, nil)
	checkoutSvc := checkout.NewService(carts, customers, orderSvc, nil)

	h := NewHandler(products, carts, customers, checkoutSvc, orderSvc, nil)
	router := NewRouter(RouterConfig{AdminToken: testAdminToken}, h)

	return &testEnv{router: router, orders: ordersRepo, carts: carts}
}

type reqOpt func(*http.Request)

func asSession(id string) reqOpt {
	return func(r *http.Request) { r.Header.Set("X-Cart-Session", id) }
}

func asUser(id string) reqOpt {
	return func(r *http.Request) { r.Header.Set("X-User-ID", id) }
}

func asAdmin() reqOpt {
	return func(r *http.Request) { r.Header.Set("X-Admin-Token", testAdminToken) }
}

func (e *testEnv) do(t *testing.T, method, path string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

// --- Products ---

func TestGetProduct_ResolvedIncrement(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/products/p2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	got := decodeJSON[map[string]any](t, w)
	assert.Equal(t, "Steel Bowl", got["name"])
	assert.EqualValues(t, 2, got["increment"])

	w = env.do(t, http.MethodGet, "/api/products/p1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got = decodeJSON[map[string]any](t, w)
	assert.EqualValues(t, 40, got["increment"])
}

func TestGetProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- Cart ---

func TestCart_RequiresSessionHeader(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCart_AddMergeUpdateRemove(t *testing.T) {
	env := newTestEnv(t)
	sess := asSession("sess-1")

	// First add of a kg product lands at the 40 kg increment.
	w := env.do(t, http.MethodPost, "/api/cart/items", gin.H{"productId": "p1"}, sess)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decodeJSON[map[string]any](t, w)
	assert.EqualValues(t, 40, got["count"])

	// Second add merges by a whole increment, not by one.
	w = env.do(t, http.MethodPost, "/api/cart/items", gin.H{"productId": "p1"}, sess)
	require.Equal(t, http.StatusOK, w.Code)
	got = decodeJSON[map[string]any](t, w)
	assert.EqualValues(t, 80, got["count"])

	// Manual edit clamps zero to one without increment enforcement.
	w = env.do(t, http.MethodPut, "/api/cart/items/p1", gin.H{"quantity": 0}, sess)
	require.Equal(t, http.StatusOK, w.Code)
	got = decodeJSON[map[string]any](t, w)
	assert.EqualValues(t, 1, got["count"])

	w = env.do(t, http.MethodDelete, "/api/cart/items/p1", nil, sess)
	require.Equal(t, http.StatusOK, w.Code)
	got = decodeJSON[map[string]any](t, w)
	assert.EqualValues(t, 0, got["count"])

	// Removing an absent product still returns the (empty) cart.
	w = env.do(t, http.MethodDelete, "/api/cart/items/p1", nil, sess)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCart_AddUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/cart/items", gin.H{"productId": "nope"}, asSession("sess-1"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/cart/items", gin.H{"productId": "p1"}, asSession("sess-a"))
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/cart", nil, asSession("sess-b"))
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeJSON[map[string]any](t, w)
	assert.EqualValues(t, 0, got["count"])
}

// --- Checkout ---

func TestCheckout_Success(t *testing.T) {
	env := newTestEnv(t)
	sess := asSession("sess-1")
	user := asUser("user-1")

	w := env.do(t, http.MethodPost, "/api/cart/items", gin.H{"productId": "p1"}, sess)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/api/cart/items", gin.H{"productId": "p2"}, sess)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/checkout", gin.H{
		"name":    "Ramesh Traders",
		"phone":   "9876500000",
		"address": "14 Mill Road",
	}, sess, user)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	got := decodeJSON[map[string]any](t, w)
	assert.Equal(t, "4100.00", got["totalAmount"])
	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{8}$`, got["orderNumber"])
	assert.NotEmpty(t, got["orderId"])

	// The cart is empty on the next request.
	w = env.do(t, http.MethodGet, "/api/cart", nil, sess)
	require.Equal(t, http.StatusOK, w.Code)
	cartBody := decodeJSON[map[string]any](t, w)
	assert.EqualValues(t, 0, cartBody["count"])
}

func TestCheckout_RequiresUserAndSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/checkout", gin.H{}, asSession("sess-1"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/checkout", gin.H{}, asUser("user-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckout_ValidationReportsField(t *testing.T) {
	env := newTestEnv(t)
	sess := asSession("sess-1")

	w := env.do(t, http.MethodPost, "/api/cart/items", gin.H{"productId": "p1"}, sess)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/checkout", gin.H{
		"name":  "Ramesh Traders",
		"phone": "9876500000",
	}, sess, asUser("user-1"))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	got := decodeJSON[errorResponse](t, w)
	assert.Equal(t, "address", got.Field)
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/checkout", gin.H{
		"name":    "Ramesh Traders",
		"phone":   "9876500000",
		"address": "14 Mill Road",
	}, asSession("sess-1"), asUser("user-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Buyer orders ---

func placeTestOrder(t *testing.T, env *testEnv, sessionID, userID string) string {
	t.Helper()
	sess := asSession(sessionID)
	w := env.do(t, http.MethodPost, "/api/cart/items", gin.H{"productId": "p1"}, sess)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/api/checkout", gin.H{
		"name":    "Ramesh Traders",
		"phone":   "9876500000",
		"address": "14 Mill Road",
	}, sess, asUser(userID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeJSON[map[string]any](t, w)["orderId"].(string)
}

func TestOrders_BuyerSeesOnlyOwnOrders(t *testing.T) {
	env := newTestEnv(t)
	id := placeTestOrder(t, env, "sess-1", "user-1")
	placeTestOrder(t, env, "sess-2", "user-2")

	w := env.do(t, http.MethodGet, "/api/orders", nil, asUser("user-1"))
	require.Equal(t, http.StatusOK, w.Code)
	orders := decodeJSON[[]map[string]any](t, w)
	require.Len(t, orders, 1)
	assert.Equal(t, id, orders[0]["id"])

	// Another buyer's order detail is forbidden, not just hidden.
	w = env.do(t, http.MethodGet, "/api/orders/"+id, nil, asUser("user-2"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/orders/"+id, nil, asUser("user-1"))
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeJSON[map[string]any](t, w)
	assert.Equal(t, "Processing", detail["orderStatus"])
	assert.Equal(t, "Pending", detail["paymentStatus"])
	assert.Equal(t, "COD", detail["paymentMethod"])
}

func TestOrders_RequireUser(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Admin ---

func TestAdmin_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/admin/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("X-Admin-Token", "wrong")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdmin_UpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	id := placeTestOrder(t, env, "sess-1", "user-1")

	w := env.do(t, http.MethodPatch, "/api/admin/orders/"+id+"/status", gin.H{
		"field": "order_status",
		"value": "Shipped",
	}, asAdmin())
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/admin/orders/"+id, nil, asAdmin())
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeJSON[map[string]any](t, w)
	assert.Equal(t, "Shipped", got["orderStatus"])

	// Reapplying the same value is still 204.
	w = env.do(t, http.MethodPatch, "/api/admin/orders/"+id+"/status", gin.H{
		"field": "order_status",
		"value": "Shipped",
	}, asAdmin())
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAdmin_UpdateStatusInvalidValue(t *testing.T) {
	env := newTestEnv(t)
	id := placeTestOrder(t, env, "sess-1", "user-1")

	w := env.do(t, http.MethodPatch, "/api/admin/orders/"+id+"/status", gin.H{
		"field": "order_status",
		"value": "Teleported",
	}, asAdmin())
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAdmin_UpdateStatusUnknownOrder(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPatch, "/api/admin/orders/missing/status", gin.H{
		"field": "order_status",
		"value": "Shipped",
	}, asAdmin())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- Profile ---

func TestProfile_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	user := asUser("user-1")

	w := env.do(t, http.MethodGet, "/api/profile", nil, user)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPut, "/api/profile", gin.H{
		"name":         "Ramesh Traders",
		"mobile":       "9876500000",
		"businessName": "Ramesh & Sons",
		"city":         "Surat",
	}, user)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/profile", nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeJSON[map[string]any](t, w)
	assert.Equal(t, "Ramesh Traders", got["name"])
	assert.Equal(t, "Surat", got["city"])
}

func TestProfile_UpdateRequiresNameAndMobile(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPut, "/api/profile", gin.H{"city": "Surat"}, asUser("user-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
