// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/fooddelivery-backend/internal/config"
	"github.com/your-org/fooddelivery-backend/internal/domain/cart"
	"github.com/your-org/fooddelivery-backend/internal/domain/catalog"
	"github.com/your-org/fooddelivery-backend/internal/domain/order"
	"github.com/your-org/fooddelivery-backend/internal/domain/voucher"
	redisdb "github.com/your-org/fooddelivery-backend/internal/infrastructure/database/redis"
	"github.com/your-org/fooddelivery-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService *order.Service
	config       *config.Config
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config) *OrderHandler {
	catalogService := catalog.NewService(db, redisClient, cfg)

	var broadcaster cart.Broadcaster
	if redisClient != nil {
		broadcaster = cart.NewRedisBroadcaster(redisClient.GetClient(), logrus.StandardLogger())
	}

	cartService := cart.NewService(db, catalogService, broadcaster, cfg)
	voucherService := voucher.NewService(db)
	orderService := order.NewService(db, cfg, cartService, voucherService, logrus.StandardLogger())

	return &OrderHandler{
		orderService: orderService,
		config:       cfg,
	}
}

// PlaceOrder handles POST /orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	cartKey, exists := middleware.GetCartKeyFromContext(c)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart key required",
		})
		return
	}

	var req order.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	// Attach the order to the account when the caller is logged in
	var userID *uint
	if id, ok := middleware.GetUserIDFromContext(c); ok {
		userID = &id
	}

	createdOrder, err := h.orderService.PlaceOrder(c.Request.Context(), cartKey, userID, &req)
	if err != nil {
		status := statusForOrderError(err)
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    createdOrder,
	})
}

// GetOrders handles GET /orders (caller's own orders)
func (h *OrderHandler) GetOrders(c *gin.Context) {
	cartKey, _ := middleware.GetCartKeyFromContext(c)

	var userID *uint
	if id, ok := middleware.GetUserIDFromContext(c); ok {
		userID = &id
	}

	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.orderService.ListOrders(c.Request.Context(), cartKey, userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    response,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	ord, ok := h.loadOwnedOrder(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    ord,
	})
}

// TrackOrder handles GET /orders/:id/track
func (h *OrderHandler) TrackOrder(c *gin.Context) {
	ord, ok := h.loadOwnedOrder(c)
	if !ok {
		return
	}

	tracking, err := h.orderService.Track(c.Request.Context(), ord.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to track order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order tracking retrieved successfully",
		"data":    tracking,
	})
}

// CancelOrder handles POST /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	ord, ok := h.loadOwnedOrder(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	// A body is optional for cancellation
	_ = c.ShouldBindJSON(&req)

	cancelled, err := h.orderService.CancelOrder(c.Request.Context(), ord.ID, req.Reason)
	if err != nil {
		if errors.Is(err, order.ErrInvalidStatusTransition) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Order can no longer be cancelled",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to cancel order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"data":    cancelled,
	})
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.orderService.UpdateStatus(c.Request.Context(), uint(orderID), req.Status, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, order.ErrInvalidStatusTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update order status",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    updated,
	})
}

// loadOwnedOrder resolves the :id parameter and enforces that the caller
// owns the order, either through their account or their cart key.
func (h *OrderHandler) loadOwnedOrder(c *gin.Context) (*order.Order, bool) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return nil, false
	}

	ord, err := h.orderService.GetOrder(c.Request.Context(), uint(orderID))
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order",
		})
		return nil, false
	}

	if !h.callerOwnsOrder(c, ord) {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied",
		})
		return nil, false
	}

	return ord, true
}

func (h *OrderHandler) callerOwnsOrder(c *gin.Context, ord *order.Order) bool {
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

func statusForOrderError(err error) int {
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, order.ErrAmbiguousRestaurant),
		errors.Is(err, order.ErrUnresolvedRestaurant):
		return http.StatusConflict
	case errors.Is(err, voucher.ErrVoucherNotFound):
		return http.StatusNotFound
	case errors.Is(err, voucher.ErrVoucherNotActive),
		errors.Is(err, voucher.ErrMinOrderNotMet):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
