package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Unit enumerates how a product is priced and packed.
type Unit string

const (
	// UnitKg is bulk-by-weight pricing; goods move in fixed weight lots.
	UnitKg Unit = "kg"
	// UnitPcs is per-piece pricing; goods move in whole cartons.
	UnitPcs Unit = "pcs"
	// UnitSet is per-set pricing; sets move in whole cartons like pieces.
	UnitSet Unit = "set"
)

// IsValid reports whether u is a known price unit.
func (u Unit) IsValid() bool {
	switch u {
	case UnitKg, UnitPcs, UnitSet:
		return true
	default:
		return false
	}
}

// MinWeightKg is the minimum wholesale order weight for kg-priced goods.
const MinWeightKg = 40

// Product represents a catalog item available for wholesale purchase.
// The core treats the catalog as read-only reference data.
type Product struct {
	ID             string
	Name           string
	Price          decimal.Decimal
	Unit           Unit
	PackagingCount int
	ImageURL       string
}

// Increment returns the minimum orderable step for goods priced in the
// given unit. Weight goods move in fixed MinWeightKg lots; piece and set
// goods move in cartons of packagingCount units, defaulting to single
// pieces when the carton size is absent or non-positive. Unknown units
// are treated piece-wise. The result is always >= 1.
//
// Both the cart (sizing the first add) and checkout (carton messaging)
// consult this function, so it is the single source of that rule.
func Increment(unit Unit, packagingCount int) int {
	switch unit {
	case UnitKg:
		return MinWeightKg
	case UnitPcs, UnitSet:
		if packagingCount > 0 {
			return packagingCount
		}
		return 1
	default:
		return 1
	}
}

// Increment returns the product's own packaging increment.
func (p Product) Increment() int {
	return Increment(p.Unit, p.PackagingCount)
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}
