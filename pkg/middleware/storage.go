package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/swft/pkg/context"
	"github.com/yeisme/swft/pkg/internal/storage"
)

// StorageMiddleware 将存储 Manager 注入请求上下文，供 handle/service 层取用.
func StorageMiddleware(manager *storage.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithStorageManager(c.Request.Context(), manager)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
