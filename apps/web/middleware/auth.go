package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"smartshop/pkg/jwt"
	"smartshop/pkg/response"
)

// AuthMiddleware 校验 Bearer Token，并把会话用户写入请求上下文
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}

		// 格式是 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Error(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		// 供后续 Handler 使用
		c.Set("userId", claims.UserId)
		c.Set("username", claims.Username)

		c.Next()
	}
}
