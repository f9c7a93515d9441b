// internal/interfaces/http/handlers/food_item.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/fooddelivery-backend/internal/config"
	"github.com/your-org/fooddelivery-backend/internal/domain/catalog"
	redisdb "github.com/your-org/fooddelivery-backend/internal/infrastructure/database/redis"
	"gorm.io/gorm"
)

// FoodItemHandler handles food item endpoints
type FoodItemHandler struct {
	catalogService *catalog.Service
	config         *config.Config
}

// NewFoodItemHandler creates a new food item handler
func NewFoodItemHandler(db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config) *FoodItemHandler {
	return &FoodItemHandler{
		catalogService: catalog.NewService(db, redisClient, cfg),
		config:         cfg,
	}
}

// ListFoodItems handles GET /food-items
func (h *FoodItemHandler) ListFoodItems(c *gin.Context) {
	var req catalog.ListFoodItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	items, total, err := h.catalogService.ListFoodItems(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve food items",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Food items retrieved successfully",
		"data": gin.H{
			"items": items,
			"total": total,
		},
	})
}

// GetFoodItem handles GET /food-items/:id
func (h *FoodItemHandler) GetFoodItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid food item ID",
		})
		return
	}

	item, err := h.catalogService.GetFoodItem(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Food item not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve food item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Food item retrieved successfully",
		"data":    item,
	})
}

// GetFoodItemOptions handles GET /food-items/:id/options
func (h *FoodItemHandler) GetFoodItemOptions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid food item ID",
		})
		return
	}

	mods, err := h.catalogService.OptionModifiers(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve food item options",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Food item options retrieved successfully",
		"data":    mods,
	})
}
