package api

import (
	"github.com/gin-gonic/gin"
)

// RouterConfig holds non-dependency configuration for the router.
type RouterConfig struct {
	// AdminToken guards the /api/admin endpoints.
	AdminToken string
	// ReleaseMode switches gin out of debug logging.
	ReleaseMode bool
}

// NewRouter wires all routes onto a gin engine. Process-wide middleware
// (recovery, request ids, CORS, rate limiting, logging) wraps the
// returned engine at the http.Server level.
func NewRouter(cfg RouterConfig, h *Handler) *gin.Engine {
	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	v := router.Group("/api")
	{
		v.GET("/products", h.ListProducts)
		v.GET("/products/:id", h.GetProduct)

		carts := v.Group("/cart", RequireSession())
		{
			carts.GET("", h.GetCart)
			carts.POST("/items", h.AddCartItem)
			carts.PUT("/items/:productId", h.UpdateCartItem)
			carts.DELETE("/items/:productId", h.RemoveCartItem)
		}

		buyer := v.Group("", RequireUser())
		{
			buyer.GET("/profile", h.GetProfile)
			buyer.PUT("/profile", h.UpdateProfile)
			buyer.POST("/checkout", RequireSession(), h.Checkout)
			buyer.GET("/orders", h.ListMyOrders)
			buyer.GET("/orders/:id", h.GetMyOrder)
		}

		admin := v.Group("/admin", AdminAuth(cfg.AdminToken))
		{
			admin.GET("/orders", h.AdminListOrders)
			admin.GET("/orders/:id", h.AdminGetOrder)
			admin.PATCH("/orders/:id/status", h.AdminUpdateStatus)
		}
	}

	return router
}
