// internal/interfaces/http/handlers/message.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/fooddelivery-backend/internal/config"
	"github.com/your-org/fooddelivery-backend/internal/domain/message"
	"github.com/your-org/fooddelivery-backend/internal/domain/order"
	"github.com/your-org/fooddelivery-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// MessageHandler handles order chat endpoints
type MessageHandler struct {
	messageService *message.Service
	config         *config.Config
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(db *gorm.DB, cfg *config.Config) *MessageHandler {
	return &MessageHandler{
		messageService: message.NewService(db),
		config:         cfg,
	}
}

// SendMessage handles POST /orders/:id/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	senderKey, exists := middleware.GetCartKeyFromContext(c)
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart key required",
		})
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	msg, err := h.messageService.Send(c.Request.Context(), senderKey, &message.SendRequest{
		OrderID: uint(orderID),
		Body:    req.Body,
	})
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, message.ErrEmptyBody):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Message body is empty",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to send message",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent successfully",
		"data":    msg,
	})
}

// GetMessages handles GET /orders/:id/messages
func (h *MessageHandler) GetMessages(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	messages, err := h.messageService.List(c.Request.Context(), uint(orderID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve messages",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Messages retrieved successfully",
		"data": gin.H{
			"messages": messages,
		},
	})
}
