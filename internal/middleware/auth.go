package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth 接口密钥鉴权中间件
// 从 X-API-Key 请求头取密钥校验；未配置密钥时直接放行
func APIKeyAuth(expectedKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expectedKey == "" {
			c.Next()
			return
		}

		key := c.GetHeader("X-API-Key")
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(expectedKey)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API 密钥缺失或无效"})
			c.Abort()
			return
		}

		c.Next()
	}
}
