// Package router 管理路由配置，用于设置HTTP服务的路由规则.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/swft/pkg/configs"
	"github.com/yeisme/swft/pkg/internal/handle"
	"github.com/yeisme/swft/pkg/middleware"
)

// RegisterShareRoutes 注册分享核心路由：上传与取回挂在根路径上.
//
//	POST /        -> 上传文件，返回分享地址
//	GET  /:link   -> 按链接取回文件
func RegisterShareRoutes(engine *gin.Engine) {
	engine.POST("/", handle.UploadShare)
	engine.GET("/:link", handle.DownloadShare)
}

// RegisterAdminRoutes 注册管理端路由，整组走 Basic Auth.
//
//	GET    /api/v1/admin/shares        -> 活跃分享列表
//	DELETE /api/v1/admin/shares/:link  -> 提前删除分享
//	GET    /api/v1/admin/jobs          -> 调度器任务状态
func RegisterAdminRoutes(engine *gin.Engine, cfg configs.ServerConfig) {
	adminRoutes := engine.Group("/api/v1/admin", middleware.AdminAuthMiddleware(cfg))
	{
		adminRoutes.GET("/shares", handle.AdminListShares)
		adminRoutes.DELETE("/shares/:link", handle.AdminDeleteShare)
		adminRoutes.GET("/jobs", handle.SchedulerJobs)
	}
}
