package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/swft/pkg/internal/handle"
)

// RegisterHealthCheckRoute 注册健康检查路由.
func RegisterHealthCheckRoute(engine *gin.Engine) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	healthRoutes := engine.Group("/health")
	{
		healthRoutes.GET("/store", handle.HealthStore)
		healthRoutes.GET("/registry", handle.HealthRegistry)
		healthRoutes.GET("/mq", handle.HealthMQ)
	}
}
