// Package handle 新增健康检查处理器实现.
package handle

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/swft/pkg/context"
)

// HealthStore 数据目录健康检查.
func HealthStore(c *gin.Context) {
	blob := ctxPkg.GetBlobStore(c.Request.Context())
	if blob == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "store", "status": "unhealthy", "error": "blob store not initialized"})
		return
	}

	if info, err := os.Stat(blob.Dir()); err != nil || !info.IsDir() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "store", "status": "unhealthy", "error": "data dir unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"component": "store", "status": "ok"})
}

// HealthRegistry 链接注册表健康检查.
func HealthRegistry(c *gin.Context) {
	reg := ctxPkg.GetRegistry(c.Request.Context())
	if reg == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "registry", "status": "unhealthy", "error": "registry not initialized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"component": "registry", "status": "ok", "records": reg.Len()})
}

// HealthMQ 消息队列健康检查.
func HealthMQ(c *gin.Context) {
	mqc := ctxPkg.GetMQClient(c.Request.Context())
	if mqc == nil { // publisher 与 subscriber 初始化在 New 中, 判空即可
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "mq", "status": "unhealthy", "error": "mq client not initialized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"component": "mq", "status": "ok"})
}
