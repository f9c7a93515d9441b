// internal/interfaces/http/handlers/favorite.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/fooddelivery-backend/internal/config"
	"github.com/your-org/fooddelivery-backend/internal/domain/catalog"
	"github.com/your-org/fooddelivery-backend/internal/domain/favorite"
	redisdb "github.com/your-org/fooddelivery-backend/internal/infrastructure/database/redis"
	"github.com/your-org/fooddelivery-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// FavoriteHandler handles favorites endpoints
type FavoriteHandler struct {
	favoriteService *favorite.Service
	config          *config.Config
}

// NewFavoriteHandler creates a new favorites handler
func NewFavoriteHandler(db *gorm.DB, redisClient *redisdb.Client, cfg *config.Config) *FavoriteHandler {
	catalogService := catalog.NewService(db, redisClient, cfg)
	return &FavoriteHandler{
		favoriteService: favorite.NewService(db, catalogService),
		config:          cfg,
	}
}

// ToggleFavorite handles POST /favorites/:itemId/toggle
func (h *FavoriteHandler) ToggleFavorite(c *gin.Context) {
	ownerKey, exists := middleware.GetCartKeyFromContext(c)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart key required",
		})
		return
	}

	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid food item ID",
		})
		return
	}

	response, err := h.favoriteService.Toggle(c.Request.Context(), ownerKey, uint(itemID))
	if err != nil {
		if errors.Is(err, favorite.ErrInvalidItem) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Food item not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to toggle favorite",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Favorite toggled successfully",
		"data":    response,
	})
}

// GetFavorites handles GET /favorites
func (h *FavoriteHandler) GetFavorites(c *gin.Context) {
	ownerKey, exists := middleware.GetCartKeyFromContext(c)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart key required",
		})
		return
	}

	items, err := h.favoriteService.List(c.Request.Context(), ownerKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve favorites",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Favorites retrieved successfully",
		"data": gin.H{
			"items": items,
			"count": len(items),
		},
	})
}

// CheckFavorite handles GET /favorites/:itemId
func (h *FavoriteHandler) CheckFavorite(c *gin.Context) {
	ownerKey, exists := middleware.GetCartKeyFromContext(c)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart key required",
		})
		return
	}

	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid food item ID",
		})
		return
	}

	isFavorite, err := h.favoriteService.IsFavorite(c.Request.Context(), ownerKey, uint(itemID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to check favorite",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"food_item_id": uint(itemID),
			"is_favorite":  isFavorite,
		},
	})
}
