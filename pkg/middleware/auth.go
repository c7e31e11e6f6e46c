package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/recipe-graph/pkg/response"
)

// TokenParser 从 token 解出用户 id
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// ContextUserKey gin context 里当前用户 id 的 key
const ContextUserKey = "user_id"

// JWTAuth 解析 Bearer token，失败直接 401
func JWTAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			response.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}
		userID, err := parser.ParseToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

// CurrentUser 取当前登录用户 id
func CurrentUser(c *gin.Context) string {
	return c.GetString(ContextUserKey)
}
