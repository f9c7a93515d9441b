// internal/interfaces/http/handlers/cart.go
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
	redisdb "github.com/your-org/fooddelivery-backend/internal/infrastructure/database/redis"
	"github.com/your-org/fooddelivery-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CartHandler handles shopping cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config) *CartHandler {
	catalogService := catalog.NewService(db, redisClient, cfg)

	var broadcaster cart.Broadcaster
	if redisClient != nil {
		broadcaster = cart.NewRedisBroadcaster(redisClient.GetClient(), logrus.StandardLogger())
	}

	return &CartHandler{
		cartService: cart.NewService(db, catalogService, broadcaster, cfg),
		config:      cfg,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cartKey, exists := middleware.GetCartKeyFromContext(c)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart key required",
		})
		return
	}

	response, err := h.cartService.GetCart(c.Request.Context(), cartKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    response,
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	cartKey, exists := middleware.GetCartKeyFromContext(c)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart key required",
		})
		return
	}

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	response, err := h.cartService.AddOrMerge(c.Request.Context(), cartKey, &req)
	if err != nil {
		if errors.Is(err, cart.ErrInvalidProduct) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Food item not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add item to cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart",
		"data":    response,
	})
}

// UpdateCartLine handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartLine(c *gin.Context) {
	cartKey, exists := middleware.GetCartKeyFromContext(c)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart key required",
		})
		return
	}

	lineID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cart line ID",
		})
		return
	}

	var req cart.UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	response, err := h.cartService.SetQuantity(c.Request.Context(), cartKey, uint(lineID), req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Cart line not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart line",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated successfully",
		"data":    response,
	})
}

// RemoveCartLine handles DELETE /cart/items/:id
func (h *CartHandler) RemoveCartLine(c *gin.Context) {
	cartKey, exists := middleware.GetCartKeyFromContext(c)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart key required",
		})
		return
	}

	lineID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cart line ID",
		})
		return
	}

	response, err := h.cartService.Remove(c.Request.Context(), cartKey, uint(lineID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove cart line",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"data":    response,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	cartKey, exists := middleware.GetCartKeyFromContext(c)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart key required",
		})
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), cartKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// GetCartCount handles GET /cart/count for the cart badge
func (h *CartHandler) GetCartCount(c *gin.Context) {
	cartKey, exists := middleware.GetCartKeyFromContext(c)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart key required",
		})
		return
	}

	count, err := h.cartService.GetCartItemCount(c.Request.Context(), cartKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart count",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"count": count,
		},
	})
}
