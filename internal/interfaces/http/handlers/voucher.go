// internal/interfaces/http/handlers/voucher.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/fooddelivery-backend/internal/config"
	"github.com/your-org/fooddelivery-backend/internal/domain/voucher"
	"gorm.io/gorm"
)

// VoucherHandler handles voucher endpoints
type VoucherHandler struct {
	voucherService *voucher.Service
	config         *config.Config
}

// NewVoucherHandler creates a new voucher handler
func NewVoucherHandler(db *gorm.DB, cfg *config.Config) *VoucherHandler {
	return &VoucherHandler{
		voucherService: voucher.NewService(db),
		config:         cfg,
	}
}

// ListVouchers handles GET /vouchers?tab=active|used|expired
func (h *VoucherHandler) ListVouchers(c *gin.Context) {
	tab := voucher.VoucherStatus(c.Query("tab"))

	vouchers, err := h.voucherService.List(c.Request.Context(), tab)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve vouchers",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vouchers retrieved successfully",
		"data": gin.H{
			"vouchers": vouchers,
		},
	})
}

// GetVoucher handles GET /vouchers/:code
func (h *VoucherHandler) GetVoucher(c *gin.Context) {
	code := c.Param("code")

	v, err := h.voucherService.GetByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, voucher.ErrVoucherNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Voucher not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve voucher",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Voucher retrieved successfully",
		"data":    v,
	})
}

// PreviewDiscount handles POST /vouchers/preview so the client can show
// the discount before checkout
func (h *VoucherHandler) PreviewDiscount(c *gin.Context) {
	var req struct {
		Code     string `json:"code" binding:"required"`
		Subtotal int64  `json:"subtotal" binding:"required,min=0"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	discount, err := h.voucherService.Discount(c.Request.Context(), req.Code, req.Subtotal)
	if err != nil {
		switch {
		case errors.Is(err, voucher.ErrVoucherNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Voucher not found",
			})
		case errors.Is(err, voucher.ErrVoucherNotActive),
			errors.Is(err, voucher.ErrMinOrderNotMet):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to resolve voucher",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"code":     req.Code,
			"discount": discount,
			"total":    req.Subtotal + discount,
		},
	})
}
