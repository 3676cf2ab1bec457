package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/thokbazar/wholesale-core/internal/domain/checkout"
	"github.com/thokbazar/wholesale-core/internal/domain/order"
)

type checkoutRequest struct {
	BusinessName     string `json:"businessName"`
	ContactName      string `json:"name"`
	Phone            string `json:"phone"`
	City             string `json:"city"`
	Address          string `json:"address"`
	TransportCarrier string `json:"transport"`
}

type checkoutResponse struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	TotalAmount string `json:"totalAmount"`
}

// Checkout handles POST /api/checkout: it converts the session cart
// into a durable order and returns the confirmation ids.
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.checkout.PlaceOrder(c.Request.Context(), sessionID(c), userID(c), checkout.ShippingForm{
		BusinessName:     req.BusinessName,
		ContactName:      req.ContactName,
		Phone:            req.Phone,
		City:             req.City,
		Address:          req.Address,
		TransportCarrier: req.TransportCarrier,
	})
	if err != nil {
		h.checkoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, checkoutResponse{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		TotalAmount: o.TotalAmount.StringFixed(2),
	})
}

// checkoutError maps checkout failures onto HTTP statuses. Validation
// problems are the buyer's to fix; submission failures are surfaced as
// retryable server errors with the cart intact.
func (h *Handler) checkoutError(c *gin.Context, err error) {
	var vErr *checkout.ValidationError
	if errors.As(err, &vErr) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorResponse{
			Error: vErr.Error(),
			Field: vErr.Field,
		})
		return
	}
	if errors.Is(err, checkout.ErrEmptyCart) {
		abortError(c, http.StatusBadRequest, "cart is empty")
		return
	}

	var sErr *order.SubmissionError
	if errors.As(err, &sErr) {
		h.lg.Error("order submission failed",
			zap.String("stage", string(sErr.Stage)),
			zap.Bool("compensated", sErr.Compensated),
			zap.Error(sErr.Err),
		)
		abortError(c, http.StatusBadGateway, "order could not be placed, please retry")
		return
	}

	h.lg.Error("checkout failed", zap.Error(err))
	abortError(c, http.StatusInternalServerError, "internal error")
}
