// Package jobs 负责注册与实现业务定时任务（基于 scheduler）.
package jobs

import (
	"context"
	"fmt"

	"github.com/yeisme/swft/pkg/configs"
	ctxPkg "github.com/yeisme/swft/pkg/context"
	"github.com/yeisme/swft/pkg/internal/service"
	"github.com/yeisme/swft/pkg/internal/storage"
	"github.com/yeisme/swft/pkg/log"
	"github.com/yeisme/swft/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 按配置周期（默认 60s）执行过期分享清扫
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)
	interval := configs.GetConfig().Share.ReapInterval()

	if err := sched.AddInterval(JobShareReap, interval, func(ctx context.Context) {
		runShareReap(ctx)
	}, baseCtx); err != nil {
		return fmt.Errorf("register reap job: %w", err)
	}

	return nil
}

// runShareReap 执行一轮清扫.
func runShareReap(ctx context.Context) {
	l := log.Logger().With().Str("job", JobShareReap).Logger()

	svc := service.NewShareService(ctx)

	if _, err := svc.Reap(ctx); err != nil {
		l.Error().Err(err).Msg("reap cycle failed")
	}
}
