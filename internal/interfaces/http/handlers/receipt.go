// internal/interfaces/http/handlers/receipt.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/fooddelivery-backend/internal/config"
	"github.com/your-org/fooddelivery-backend/internal/domain/order"
	"github.com/your-org/fooddelivery-backend/internal/interfaces/http/middleware"
	"github.com/your-org/fooddelivery-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// ReceiptHandler handles order receipt endpoints
type ReceiptHandler struct {
	orderService *order.Service
	pdfService   *pdf.Service
	config       *config.Config
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(db *gorm.DB, cfg *config.Config) *ReceiptHandler {
	return &ReceiptHandler{
		orderService: order.NewService(db, cfg, nil, nil, logrus.StandardLogger()),
		pdfService:   pdf.NewService(cfg),
		config:       cfg,
	}
}

// GenerateReceipt handles GET /orders/:id/receipt
func (h *ReceiptHandler) GenerateReceipt(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	ord, err := h.orderService.GetOrder(c.Request.Context(), uint(orderID))
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order",
		})
		return
	}

	if !h.callerOwnsOrder(c, ord) {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied",
		})
		return
	}

	pdfBuffer, err := h.pdfService.GenerateReceipt(ord)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	// Set headers for PDF download
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", ord.OrderNumber))
	c.Header("Content-Length", strconv.Itoa(len(pdfBuffer.Bytes())))

	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}

func (h *ReceiptHandler) callerOwnsOrder(c *gin.Context, ord *order.Order) bool {
	if middleware.IsAdminFromContext(c) {
		return true
	}
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		if ord.UserID != nil && *ord.UserID == userID {
			return true
		}
	}
	if cartKey, ok := middleware.GetCartKeyFromContext(c); ok {
		return ord.CartKey == cartKey
	}
	return false
}
