package service

import (
	"context"
	"strings"
	"time"

	"github.com/yeisme/swft/pkg/internal/types"
	nlog "github.com/yeisme/swft/pkg/log"
	"github.com/yeisme/swft/pkg/metrics"
	"github.com/yeisme/swft/pkg/queue"
)

// ListShares 返回全部活跃分享，供管理端展示.
func (s *ShareService) ListShares(ctx context.Context) (*types.AdminListResponse, error) {
	now := time.Now()
	records := s.registry.List()

	usage, err := s.Usage()
	if err != nil {
		return nil, err
	}

	shares := make([]types.ShareInfo, 0, len(records))
	for _, rec := range records {
		shares = append(shares, types.ShareInfo{
			Link:             rec.Link,
			StorageName:      rec.StorageName,
			OriginalFilename: rec.OriginalFilename,
			SizeBytes:        rec.SizeBytes,
			CreatedAt:        rec.CreatedAt,
			ExpiresAt:        rec.ExpiresAt,
			RemainingSeconds: int64(rec.TTL(now).Seconds()),
		})
	}

	return &types.AdminListResponse{
		Total:      len(shares),
		UsageBytes: usage,
		Shares:     shares,
	}, nil
}

// DeleteShare 管理端提前删除一条分享：先删 blob 再删条目，与清扫器同序.
func (s *ShareService) DeleteShare(ctx context.Context, link, actor string) error {
	link = strings.ToLower(strings.TrimSpace(link))

	rec, err := s.registry.Lookup(link)
	if err != nil {
		return err
	}

	if err := s.blobStore.Delete(rec.StorageName); err != nil {
		return err
	}

	if err := s.registry.Remove(link); err != nil {
		return err
	}

	metrics.ReapedTotal.WithLabelValues("admin").Inc()
	metrics.ActiveRecords.Set(float64(s.registry.Len()))

	s.publish(queue.TopicShareDeleted, queue.ShareDeletedPayload{
		Share: shareRef(rec),
		Actor: actor,
	})

	nlog.Logger().Info().Str("link", link).Str("actor", actor).Msg("分享已被管理员删除")

	return nil
}
