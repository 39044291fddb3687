package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/swft/pkg/configs"
)

// AdminAuthMiddleware 管理接口的 Basic Auth 校验，凭据来自配置.
func AdminAuthMiddleware(cfg configs.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(cfg.AdminUser)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(cfg.AdminPassword)) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="swft admin"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})

			return
		}

		c.Next()
	}
}
