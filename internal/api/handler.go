// Package api exposes the cart, checkout, profile and admin order
// operations over HTTP.
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thokbazar/wholesale-core/internal/domain/cart"
	"github.com/thokbazar/wholesale-core/internal/domain/catalog"
	"github.com/thokbazar/wholesale-core/internal/domain/checkout"
	"github.com/thokbazar/wholesale-core/internal/domain/customer"
	"github.com/thokbazar/wholesale-core/internal/domain/order"
)

// Handler carries the domain dependencies for all HTTP handlers.
type Handler struct {
	products  catalog.Repository
	carts     *cart.Store
	customers customer.Repository
	checkout  *checkout.Service
	orders    *order.Service
	lg        *zap.Logger
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	products catalog.Repository,
	carts *cart.Store,
	customers customer.Repository,
	checkoutSvc *checkout.Service,
	orders *order.Service,
	lg *zap.Logger,
) *Handler {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Handler{
		products:  products,
		carts:     carts,
		customers: customers,
		checkout:  checkoutSvc,
		orders:    orders,
		lg:        lg,
	}
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}
