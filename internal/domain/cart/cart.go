// Package cart implements the buyer's session cart: an ordered set of
// product lines accumulated before checkout, with at most one line per
// product.
package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/thokbazar/wholesale-core/internal/domain/catalog"
)

// Line is one product's accumulated purchase intent within a Cart.
// Name, price and unit are snapshots taken at add time and are never
// re-fetched from the live catalog.
//
// The JSON field names are the persisted wire format for session carts;
// carts already saved depend on them, so they must not change.
type Line struct {
	ProductID      string          `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Unit           catalog.Unit    `json:"priceUnit"`
	PackagingCount int             `json:"packagingCount"`
	Quantity       int             `json:"quantity"`
}

// Increment returns the packaging increment for this line's unit.
func (l Line) Increment() int {
	return catalog.Increment(l.Unit, l.PackagingCount)
}

// Subtotal returns price multiplied by quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered sequence of Lines keyed by product id.
// All mutations are in-memory; persistence is the Store's concern.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add records purchase intent for a product. The first add creates a
// line with explicitQty, or the packaging increment when explicitQty is
// not positive. Subsequent adds for the same product merge by adding
// one full increment to the existing quantity, so repeated add-to-cart
// clicks accumulate by whole cartons (or 40 kg lots), never by one.
func (c *Cart) Add(p catalog.Product, explicitQty int) {
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity += p.Increment()
			return
		}
	}

	qty := explicitQty
	if qty <= 0 {
		qty = p.Increment()
	}
	c.lines = append(c.lines, Line{
		ProductID:      p.ID,
		Name:           p.Name,
		Price:          p.Price,
		Unit:           p.Unit,
		PackagingCount: p.PackagingCount,
		Quantity:       qty,
	})
}

// UpdateQuantity sets the quantity of an existing line to max(1, qty).
// Values below one clamp to one rather than removing the line. Manual
// edits deliberately do not enforce the packaging increment; only the
// add path does. Unknown product ids are ignored.
func (c *Cart) UpdateQuantity(productID string, qty int) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = max(1, qty)
			return
		}
	}
}

// Remove deletes the line for productID. Removing an absent product is
// a no-op.
func (c *Cart) Remove(productID string) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Count returns the sum of all line quantities. It is recomputed on
// every call, never cached.
func (c *Cart) Count() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// Subtotal returns the sum of line subtotals.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// MarshalJSON encodes the cart as a flat array of lines. An empty cart
// encodes as [] rather than null.
func (c *Cart) MarshalJSON() ([]byte, error) {
	lines := c.lines
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(lines)
}

// UnmarshalJSON decodes a flat array of lines.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	c.lines = lines
	return nil
}
