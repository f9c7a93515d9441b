// internal/interfaces/http/handlers/review.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/fooddelivery-backend/internal/config"
	"github.com/your-org/fooddelivery-backend/internal/domain/order"
	"github.com/your-org/fooddelivery-backend/internal/domain/review"
	"github.com/your-org/fooddelivery-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	reviewService *review.Service
	config        *config.Config
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(db *gorm.DB, cfg *config.Config) *ReviewHandler {
	return &ReviewHandler{
		reviewService: review.NewService(db),
		config:        cfg,
	}
}

// CreateReview handles POST /reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	ownerKey, exists := middleware.GetCartKeyFromContext(c)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart key required",
		})
		return
	}

	var req review.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	rev, err := h.reviewService.Create(c.Request.Context(), ownerKey, &req)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, review.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, review.ErrOrderNotDelivered):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, review.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create review",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"data":    rev,
	})
}

// GetOrderReview handles GET /orders/:id/review
func (h *ReviewHandler) GetOrderReview(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	rev, err := h.reviewService.GetByOrder(c.Request.Context(), uint(orderID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve review",
		})
		return
	}
	if rev == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No review for this order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review retrieved successfully",
		"data":    rev,
	})
}
