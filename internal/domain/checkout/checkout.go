// Package checkout assembles a validated order submission from the
// buyer's cart, saved profile, and shipping form.
package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/thokbazar/wholesale-core/internal/domain/cart"
	"github.com/thokbazar/wholesale-core/internal/domain/customer"
	"github.com/thokbazar/wholesale-core/internal/domain/order"
)

// ErrEmptyCart is returned when checkout is attempted with no cart lines.
var ErrEmptyCart = errors.New("cart is empty")

// ValidationError names the first missing required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// ShippingForm carries the buyer-entered delivery details. Business
// name, city and transport carrier are optional.
type ShippingForm struct {
	BusinessName     string
	ContactName      string
	Phone            string
	City             string
	Address          string
	TransportCarrier string
}

// BuildSubmission validates the form against the cart and assembles an
// order.Submission. Empty form fields fall back to the saved profile
// before validation, so a buyer with a complete profile can check out
// with a blank form. Required fields are checked in a fixed order
// (name, phone, address, then cart contents) and the first failure
// wins. The subtotal is the exact decimal sum of line price x quantity
// at the snapshot prices held in the cart.
func BuildSubmission(c *cart.Cart, profile *customer.Customer, form ShippingForm, now time.Time) (*order.Submission, error) {
	if profile != nil {
		fillEmpty(&form.ContactName, profile.Name)
		fillEmpty(&form.Phone, profile.Mobile)
		fillEmpty(&form.Address, profile.Address)
		fillEmpty(&form.City, profile.City)
		fillEmpty(&form.BusinessName, profile.BusinessName)
	}

	switch {
	case strings.TrimSpace(form.ContactName) == "":
		return nil, &ValidationError{Field: "name"}
	case strings.TrimSpace(form.Phone) == "":
		return nil, &ValidationError{Field: "phone"}
	case strings.TrimSpace(form.Address) == "":
		return nil, &ValidationError{Field: "address"}
	}
	if c == nil || c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	lines := c.Lines()
	items := make([]order.Item, len(lines))
	for i, l := range lines {
		items[i] = order.Item{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Price:       l.Price,
			Quantity:    l.Quantity,
			Unit:        l.Unit,
		}
	}

	return &order.Submission{
		OrderNumber:      newOrderNumber(now),
		BusinessName:     form.BusinessName,
		ContactName:      form.ContactName,
		Phone:            form.Phone,
		City:             form.City,
		Address:          form.Address,
		TransportCarrier: form.TransportCarrier,
		TotalAmount:      c.Subtotal(),
		Items:            items,
	}, nil
}

// newOrderNumber issues a human-readable order number, e.g.
// ORD-20250901-3FA29C1D. The random token makes numbers issued in the
// same millisecond distinct, which a pure timestamp cannot guarantee.
func newOrderNumber(now time.Time) string {
	token := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), token)
}
