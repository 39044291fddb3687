package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/swft/pkg/configs"
	ctxPkg "github.com/yeisme/swft/pkg/context"
	"github.com/yeisme/swft/pkg/internal/service"
	"github.com/yeisme/swft/pkg/internal/storage"
)

// reapCmd 一次性执行过期清扫后退出，便于外部定时器或手工运维.
var reapCmd = &cobra.Command{
	Use:   "reap",
	Short: "run a single expiry sweep and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := configs.InitConfig(configPath); err != nil {
			return fmt.Errorf("init config: %w", err)
		}

		mgr, err := storage.Init(cmd.Context())
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		defer mgr.Close()

		ctx := ctxPkg.WithStorageManager(context.Background(), mgr)

		svc := service.NewShareService(ctx)

		stats, err := svc.Reap(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "expired=%d orphaned=%d untracked=%d\n",
			stats.Expired, stats.Orphaned, stats.Untracked)

		return nil
	},
}

// registerReapCommands 注册清扫命令.
func registerReapCommands() {
	rootCmd.AddCommand(reapCmd)
}
