package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SplendidSupplies/shop_api/internal/utils"
)

// JWTMiddleware gates mutating endpoints to authenticated administrators.
// Unauthorized callers are short-circuited before any handler or
// persistence I/O runs.
type JWTMiddleware struct{}

func NewJWTMiddleware() *JWTMiddleware {
	return &JWTMiddleware{}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		if claims.Role != "admin" {
			utils.Error(c, 403, "FORBIDDEN", "Admin access required")
			c.Abort()
			return
		}

		c.Set("admin_email", claims.Email)
		c.Next()
	}
}
