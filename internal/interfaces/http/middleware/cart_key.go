// internal/interfaces/http/middleware/cart_key.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CartKeyHeader is the header mobile clients use to carry their cart identity
	CartKeyHeader = "X-Cart-Key"

	// CartKeyCookie is the fallback cookie for browser clients
	CartKeyCookie = "cart_key"

	cartKeyContextKey = "cart_key"
)

// CartKey resolves the caller's cart key from header or cookie,
// minting a fresh one when neither is present.
func CartKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		cartKey := c.GetHeader(CartKeyHeader)

		if cartKey == "" {
			if cookie, err := c.Cookie(CartKeyCookie); err == nil {
				cartKey = cookie
			}
		}

		if cartKey == "" {
			cartKey = uuid.New().String()
			c.SetCookie(CartKeyCookie, cartKey, 86400*30, "/", "", false, true)
		}

		c.Set(cartKeyContextKey, cartKey)
		c.Header(CartKeyHeader, cartKey)

		c.Next()
	}
}

// GetCartKeyFromContext extracts the resolved cart key from gin context
func GetCartKeyFromContext(c *gin.Context) (string, bool) {
	cartKey, exists := c.Get(cartKeyContextKey)
	if !exists {
		return "", false
	}
	return cartKey.(string), true
}
