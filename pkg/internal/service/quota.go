package service

import (
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/yeisme/swft/pkg/configs"
	"github.com/yeisme/swft/pkg/metrics"
	"github.com/yeisme/swft/pkg/queue"
)

// usageGroup 合并并发的磁盘占用统计：同一时刻只有一次目录扫描在跑，
// 其余调用共享结果. 占用永远从磁盘重算，不维护增量计数，容忍外部漂移.
var usageGroup singleflight.Group

// Usage 返回数据目录当前占用字节数.
func (s *ShareService) Usage() (int64, error) {
	v, err, _ := usageGroup.Do("usage", func() (any, error) {
		return s.blobStore.Usage()
	})
	if err != nil {
		return 0, fmt.Errorf("compute store usage: %w", err)
	}

	usage, _ := v.(int64)
	metrics.StoreUsageBytes.Set(float64(usage))

	return usage, nil
}

// admit 判断一个 size 字节的上传是否可被接纳.
// 软配额：检查与写入之间不持锁，并发上传可能短暂超出容量上限.
func (s *ShareService) admit(size int64) error {
	cfg := configs.GetConfig().Store

	if size > cfg.MaxUploadBytes() {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, cfg.MaxUploadBytes())
	}

	usage, err := s.Usage()
	if err != nil {
		return err
	}

	if usage+size > cfg.CapacityBytes() {
		s.publishStoreFull(usage, cfg.CapacityBytes(), size)

		return fmt.Errorf("%w: %d + %d exceeds %d bytes",
			ErrCapacityExceeded, usage, size, cfg.CapacityBytes())
	}

	return nil
}

// publishStoreFull 容量拒绝时发布事件，供告警消费.
func (s *ShareService) publishStoreFull(usage, capacity, rejected int64) {
	s.publish(queue.TopicStoreFull, queue.StoreFullPayload{
		UsageBytes:    usage,
		CapacityBytes: capacity,
		RejectedSize:  rejected,
	})
}
