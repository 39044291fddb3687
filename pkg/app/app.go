// Package app 提供应用程序的初始化和配置功能.
package app

import (
	contextPkg "context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/swft/pkg/api"
	"github.com/yeisme/swft/pkg/configs"
	"github.com/yeisme/swft/pkg/context"
	"github.com/yeisme/swft/pkg/internal/jobs"
	"github.com/yeisme/swft/pkg/internal/storage"
	"github.com/yeisme/swft/pkg/log"
	"github.com/yeisme/swft/pkg/metrics"
	"github.com/yeisme/swft/pkg/middleware"
	"github.com/yeisme/swft/pkg/scheduler"
	"github.com/yeisme/swft/pkg/tracing"
)

type App struct {
	Engine    *gin.Engine
	config    *configs.AppConfig
	manager   *storage.Manager
	scheduler *scheduler.Scheduler
}

func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()

	if !config.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// 初始化追踪
	if err := tracing.InitTracer(config.Tracing); err != nil {
		fmt.Printf("Error initializing tracing: %v\n", err)
		os.Exit(1)
	}

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	// 调度器承载过期清扫任务
	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error initializing scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.RegisterCronJobs(sched, manager); err != nil {
		fmt.Printf("Error registering jobs: %v\n", err)
		os.Exit(1)
	}

	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.RateLimitMiddleware(config.RateLimit),
		middleware.CircuitBreakerMiddleware(config.CircuitBreaker),
		middleware.StorageMiddleware(manager),
		middleware.SchedulerMiddleware(sched),
	)

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	api.RegisterRoutes(engine, config)

	return &App{
		Engine:    engine,
		config:    config,
		manager:   manager,
		scheduler: sched,
	}
}

// Run 启动调度器与 HTTP 服务，阻塞直至服务退出.
func (a *App) Run() error {
	a.scheduler.Start()

	defer a.shutdown()

	return a.Engine.Run(fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port))
}

// shutdown 停止调度器、MQ 与追踪，尽力而为.
func (a *App) shutdown() {
	if err := a.scheduler.Shutdown(); err != nil {
		log.Logger().Error().Err(err).Msg("scheduler shutdown failed")
	}

	if err := a.manager.Close(); err != nil {
		log.Logger().Error().Err(err).Msg("storage close failed")
	}

	ctx, cancel := contextPkg.WithTimeout(contextPkg.Background(), 5*time.Second)
	defer cancel()

	if err := tracing.ShutdownTracer(ctx); err != nil {
		log.Logger().Error().Err(err).Msg("tracer shutdown failed")
	}
}

// BaseContext 返回注入了存储管理器的基础 context，供一次性命令使用.
func (a *App) BaseContext() contextPkg.Context {
	return context.WithStorageManager(contextPkg.Background(), a.manager)
}
