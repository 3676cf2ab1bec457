package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/thokbazar/wholesale-core/internal/domain/catalog"
)

// productResponse is the catalog view exposed to buyers. Increment is
// the resolved packaging increment, so the client can render carton
// messaging without duplicating the rule.
type productResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	PriceUnit      catalog.Unit    `json:"priceUnit"`
	PackagingCount int             `json:"packagingCount"`
	Increment      int             `json:"increment"`
	ImageURL       string          `json:"imageUrl,omitempty"`
}

func toProductResponse(p catalog.Product) productResponse {
	return productResponse{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		PriceUnit:      p.Unit,
		PackagingCount: p.PackagingCount,
		Increment:      p.Increment(),
		ImageURL:       p.ImageURL,
	}
}

// ListProducts handles GET /api/products.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.lg.Error("list products", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	c.JSON(http.StatusOK, out)
}

// GetProduct handles GET /api/products/:id.
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			abortError(c, http.StatusNotFound, "product not found")
			return
		}
		h.lg.Error("get product", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*p))
}
