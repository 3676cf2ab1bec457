package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/thokbazar/wholesale-core/internal/domain/order"
)

// AdminListOrders handles GET /api/admin/orders: all orders, newest
// first.
func (h *Handler) AdminListOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		h.lg.Error("admin list orders", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	c.JSON(http.StatusOK, out)
}

// AdminGetOrder handles GET /api/admin/orders/:id.
func (h *Handler) AdminGetOrder(c *gin.Context) {
	detail, err := h.orders.GetOrderDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			abortError(c, http.StatusNotFound, "order not found")
			return
		}
		h.lg.Error("admin get order", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, toOrderDetailResponse(detail))
}

type updateStatusRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// AdminUpdateStatus handles PATCH /api/admin/orders/:id/status. It
// assigns a single status field; reapplying the current value succeeds
// without changing anything.
func (h *Handler) AdminUpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), order.StatusField(req.Field), req.Value)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			abortError(c, http.StatusNotFound, "order not found")
			return
		}
		var invErr *order.InvalidStatusError
		if errors.As(err, &invErr) {
			abortError(c, http.StatusUnprocessableEntity, invErr.Error())
			return
		}
		var denErr *order.TransitionDeniedError
		if errors.As(err, &denErr) {
			abortError(c, http.StatusConflict, denErr.Error())
			return
		}
		h.lg.Error("admin update status", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(http.StatusNoContent)
}
