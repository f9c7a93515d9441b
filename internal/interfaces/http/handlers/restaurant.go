// internal/interfaces/http/handlers/restaurant.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/fooddelivery-backend/internal/config"
	"github.com/your-org/fooddelivery-backend/internal/domain/catalog"
	"github.com/your-org/fooddelivery-backend/internal/domain/review"
	redisdb "github.com/your-org/fooddelivery-backend/internal/infrastructure/database/redis"
	"gorm.io/gorm"
)

// RestaurantHandler handles restaurant endpoints
type RestaurantHandler struct {
	catalogService *catalog.Service
	reviewService  *review.Service
	config         *config.Config
}

// NewRestaurantHandler creates a new restaurant handler
func NewRestaurantHandler(db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config) *RestaurantHandler {
	return &RestaurantHandler{
		catalogService: catalog.NewService(db, redisClient, cfg),
		reviewService:  review.NewService(db),
		config:         cfg,
	}
}

// ListRestaurants handles GET /restaurants
func (h *RestaurantHandler) ListRestaurants(c *gin.Context) {
	var req catalog.ListRestaurantsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	restaurants, total, err := h.catalogService.ListRestaurants(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve restaurants",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Restaurants retrieved successfully",
		"data": gin.H{
			"restaurants": restaurants,
			"total":       total,
		},
	})
}

// GetRestaurant handles GET /restaurants/:id
func (h *RestaurantHandler) GetRestaurant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid restaurant ID",
		})
		return
	}

	restaurant, err := h.catalogService.GetRestaurant(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, catalog.ErrRestaurantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Restaurant not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve restaurant",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Restaurant retrieved successfully",
		"data":    restaurant,
	})
}

// GetRestaurantReviews handles GET /restaurants/:id/reviews
func (h *RestaurantHandler) GetRestaurantReviews(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid restaurant ID",
		})
		return
	}

	reviews, err := h.reviewService.ListForRestaurant(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve reviews",
		})
		return
	}

	average, err := h.reviewService.AverageForRestaurant(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute average rating",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reviews retrieved successfully",
		"data": gin.H{
			"reviews":        reviews,
			"average_rating": average,
		},
	})
}
