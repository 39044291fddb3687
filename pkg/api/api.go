// Package api 汇总对外 HTTP 接口的路由注册.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/swft/pkg/configs"
	"github.com/yeisme/swft/pkg/internal/router"
)

// RegisterRoutes 将全部路由绑定到 gin 引擎：
// 分享上传/取回挂在根路径，管理接口在 /api/v1/admin 下走 Basic Auth，
// 健康检查在 /healthz 与 /health 下.
func RegisterRoutes(e *gin.Engine, cfg *configs.AppConfig) *gin.Engine {
	router.RegisterShareRoutes(e)
	router.RegisterAdminRoutes(e, cfg.Server)
	router.RegisterHealthCheckRoute(e)

	return e
}
