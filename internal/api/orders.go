package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/thokbazar/wholesale-core/internal/domain/order"
)

type orderResponse struct {
	ID               string `json:"id"`
	OrderNumber      string `json:"orderNumber"`
	BusinessName     string `json:"businessName,omitempty"`
	ContactName      string `json:"name"`
	Phone            string `json:"phone"`
	City             string `json:"city,omitempty"`
	Address          string `json:"address"`
	TransportCarrier string `json:"transport,omitempty"`
	TotalAmount      string `json:"totalAmount"`
	OrderStatus      string `json:"orderStatus"`
	PaymentStatus    string `json:"paymentStatus"`
	PaymentMethod    string `json:"paymentMethod"`
	CreatedAt        string `json:"createdAt"`
}

type orderItemResponse struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"unit"`
}

type orderDetailResponse struct {
	orderResponse
	Items []orderItemResponse `json:"items"`
}

func toOrderResponse(o order.Order) orderResponse {
	return orderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		BusinessName:     o.BusinessName,
		ContactName:      o.ContactName,
		Phone:            o.Phone,
		City:             o.City,
		Address:          o.Address,
		TransportCarrier: o.TransportCarrier,
		TotalAmount:      o.TotalAmount.StringFixed(2),
		OrderStatus:      string(o.Status),
		PaymentStatus:    string(o.PaymentStatus),
		PaymentMethod:    o.PaymentMethod,
		CreatedAt:        o.CreatedAt.Format(time.RFC3339),
	}
}

func toOrderDetailResponse(d *order.Detail) orderDetailResponse {
	items := make([]orderItemResponse, len(d.Items))
	for i, it := range d.Items {
		items[i] = orderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price.StringFixed(2),
			Quantity:    it.Quantity,
			Unit:        string(it.Unit),
		}
	}
	return orderDetailResponse{
		orderResponse: toOrderResponse(d.Order),
		Items:         items,
	}
}

// ListMyOrders handles GET /api/orders: the buyer's own history,
// newest first.
func (h *Handler) ListMyOrders(c *gin.Context) {
	orders, err := h.orders.CustomerOrders(c.Request.Context(), userID(c))
	if err != nil {
		h.lg.Error("list customer orders", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	c.JSON(http.StatusOK, out)
}

// GetMyOrder handles GET /api/orders/:id. Buyers may only read their
// own orders.
func (h *Handler) GetMyOrder(c *gin.Context) {
	detail, err := h.orders.GetOrderDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			abortError(c, http.StatusNotFound, "order not found")
			return
		}
		h.lg.Error("get order detail", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "internal error")
		return
	}

	if detail.Order.CustomerID != userID(c) {
		abortError(c, http.StatusForbidden, "access denied")
		return
	}
	c.JSON(http.StatusOK, toOrderDetailResponse(detail))
}
