package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/thokbazar/wholesale-core/internal/domain/customer"
)

type profileResponse struct {
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
	BusinessName string `json:"businessName"`
	Address      string `json:"address"`
	City         string `json:"city"`
	PinCode      string `json:"pinCode"`
}

// GetProfile handles GET /api/profile. The checkout form is pre-filled
// from this.
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.customers.GetByUserID(c.Request.Context(), userID(c))
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			abortError(c, http.StatusNotFound, "profile not found")
			return
		}
		h.lg.Error("get profile", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		Name:         p.Name,
		Mobile:       p.Mobile,
		BusinessName: p.BusinessName,
		Address:      p.Address,
		City:         p.City,
		PinCode:      p.PinCode,
	})
}

type updateProfileRequest struct {
	Name         string `json:"name" binding:"required"`
	Mobile       string `json:"mobile" binding:"required"`
	BusinessName string `json:"businessName"`
	Address      string `json:"address"`
	City         string `json:"city"`
	PinCode      string `json:"pinCode"`
}

// UpdateProfile handles PUT /api/profile, creating the profile on first
// write.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.customers.Upsert(c.Request.Context(), &customer.Customer{
		UserID:       userID(c),
		Name:         req.Name,
		Mobile:       req.Mobile,
		BusinessName: req.BusinessName,
		Address:      req.Address,
		City:         req.City,
		PinCode:      req.PinCode,
	})
	if err != nil {
		h.lg.Error("upsert profile", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(http.StatusNoContent)
}
