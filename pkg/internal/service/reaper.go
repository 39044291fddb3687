package service

import (
	"context"
	"time"

	"github.com/yeisme/swft/pkg/internal/model"
	"github.com/yeisme/swft/pkg/internal/types"
	nlog "github.com/yeisme/swft/pkg/log"
	"github.com/yeisme/swft/pkg/metrics"
	"github.com/yeisme/swft/pkg/queue"
)

// Reap 执行一轮过期清扫：
//   - 过期记录：先删 blob 再删注册表条目，blob 删除失败则保留条目下轮重试
//   - 孤儿记录（blob 已缺失）：直接丢弃条目
//   - 无记录的 blob：只告警，永不自动删除（可能是外部放进来的文件）
//
// 整轮只写出一次注册表快照.
func (s *ShareService) Reap(ctx context.Context) (*types.ReapStats, error) {
	now := time.Now()
	stats := &types.ReapStats{}

	var removeLinks []string

	tracked := make(map[string]struct{})

	for _, rec := range s.registry.List() {
		tracked[rec.StorageName] = struct{}{}

		switch {
		case rec.Expired(now):
			if err := s.blobStore.Delete(rec.StorageName); err != nil {
				nlog.Logger().Error().Err(err).Str("link", rec.Link).
					Msg("reap: delete blob failed, retry next cycle")

				continue
			}

			removeLinks = append(removeLinks, rec.Link)
			stats.Expired++

			s.publishReaped(rec, "expired")
		case !s.blobStore.Exists(rec.StorageName):
			removeLinks = append(removeLinks, rec.Link)
			stats.Orphaned++

			nlog.Logger().Warn().Str("link", rec.Link).Str("storage_name", rec.StorageName).
				Msg("reap: blob missing, dropping orphaned record")

			s.publishReaped(rec, "orphaned")
		}
	}

	if _, err := s.registry.RemoveBatch(removeLinks); err != nil {
		return stats, err
	}

	// 盘面上没有对应记录的 blob 只上报，不动文件
	if names, err := s.blobStore.Names(); err == nil {
		for _, name := range names {
			if _, ok := tracked[name]; !ok {
				stats.Untracked++

				nlog.Logger().Warn().Str("storage_name", name).Msg("reap: untracked blob on disk")
			}
		}
	}

	metrics.ActiveRecords.Set(float64(s.registry.Len()))

	if usage, err := s.Usage(); err == nil {
		metrics.StoreUsageBytes.Set(float64(usage))
	}

	if stats.Expired+stats.Orphaned > 0 {
		nlog.Logger().Info().
			Int("expired", stats.Expired).
			Int("orphaned", stats.Orphaned).
			Int("untracked", stats.Untracked).
			Msg("清扫完成")
	}

	return stats, nil
}

// publishReaped 发布清扫事件并计数.
func (s *ShareService) publishReaped(rec model.FileRecord, reason string) {
	metrics.ReapedTotal.WithLabelValues(reason).Inc()

	s.publish(queue.TopicShareReaped, queue.ShareReapedPayload{
		Share:  shareRef(rec),
		Reason: reason,
	})
}
