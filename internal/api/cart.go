package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/thokbazar/wholesale-core/internal/domain/cart"
	"github.com/thokbazar/wholesale-core/internal/domain/catalog"
)

// cartResponse is the session cart view: the raw lines plus the derived
// count and subtotal, recomputed on every response.
type cartResponse struct {
	Lines    []cart.Line     `json:"lines"`
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func toCartResponse(c *cart.Cart) cartResponse {
	return cartResponse{
		Lines:    c.Lines(),
		Count:    c.Count(),
		Subtotal: c.Subtotal(),
	}
}

// GetCart handles GET /api/cart.
func (h *Handler) GetCart(c *gin.Context) {
	crt, err := h.carts.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		h.lg.Error("get cart", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, toCartResponse(crt))
}

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	// Quantity overrides the packaging increment on the first add only.
	// Merges always accumulate by the increment.
	Quantity int `json:"quantity"`
}

// AddCartItem handles POST /api/cart/items.
func (h *Handler) AddCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.products.GetByID(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			abortError(c, http.StatusUnprocessableEntity, "product not found")
			return
		}
		h.lg.Error("get product for cart add", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "internal error")
		return
	}

	crt, err := h.carts.Add(c.Request.Context(), sessionID(c), *p, req.Quantity)
	if err != nil {
		h.lg.Error("add cart item", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, toCartResponse(crt))
}

type updateCartItemRequest struct {
	// Zero and negative values are accepted and clamp to one downstream.
	Quantity int `json:"quantity"`
}

// UpdateCartItem handles PUT /api/cart/items/:productId. Quantities
// below one clamp to one; the packaging increment is not enforced on
// manual edits.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	crt, err := h.carts.UpdateQuantity(c.Request.Context(), sessionID(c), c.Param("productId"), req.Quantity)
	if err != nil {
		h.lg.Error("update cart item", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, toCartResponse(crt))
}

// RemoveCartItem handles DELETE /api/cart/items/:productId. Removing a
// product that is not in the cart succeeds with the unchanged cart.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	crt, err := h.carts.Remove(c.Request.Context(), sessionID(c), c.Param("productId"))
	if err != nil {
		h.lg.Error("remove cart item", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, toCartResponse(crt))
}
