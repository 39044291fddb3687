package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yeisme/swft/pkg/configs"
	"github.com/yeisme/swft/pkg/internal/model"
	"github.com/yeisme/swft/pkg/internal/storage/blob"
	"github.com/yeisme/swft/pkg/internal/types"
	nlog "github.com/yeisme/swft/pkg/log"
	"github.com/yeisme/swft/pkg/metrics"
	"github.com/yeisme/swft/pkg/queue"
)

// maxAllocateRetries 并发撞名时重新分配落盘名的次数上限.
const maxAllocateRetries = 8

// Ingest 执行一次完整的上传：分配落盘名、配额检查、写入 blob、注册链接.
// 注册成功后记录立即可取回；任一步失败都不留半成品（blob 回滚删除）.
func (s *ShareService) Ingest(ctx context.Context, req *types.IngestRequest) (*types.IngestResponse, error) {
	rec, err := s.ingest(ctx, req)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(uploadOutcome(err)).Inc()

		return nil, err
	}

	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	metrics.ActiveRecords.Set(float64(s.registry.Len()))

	shareURL := shareURL(rec.Link)

	s.publish(queue.TopicShareStored, queue.ShareStoredPayload{
		Share:  shareRef(*rec),
		Source: "upload",
	})
	s.notifyAsync(req.Email, *rec, shareURL)

	nlog.Logger().Info().
		Str("link", rec.Link).
		Str("storage_name", rec.StorageName).
		Int64("size", rec.SizeBytes).
		Time("expires_at", rec.ExpiresAt).
		Msg("分享已创建")

	return &types.IngestResponse{
		Link:     rec.Link,
		URL:      shareURL,
		FileName: rec.OriginalFilename,
		Size:     rec.SizeBytes,
		Expiry:   rec.ExpiresAt,
	}, nil
}

func (s *ShareService) ingest(ctx context.Context, req *types.IngestRequest) (*model.FileRecord, error) {
	if req == nil || req.FileName == "" || req.Body == nil {
		return nil, ErrNoFile
	}

	shareCfg := configs.GetConfig().Share

	ttlHours := req.TTLHours
	if ttlHours < 0 {
		return nil, fmt.Errorf("%w: %v hours", ErrInvalidTTL, ttlHours)
	}

	if ttlHours > shareCfg.MaxTTLHours {
		ttlHours = shareCfg.MaxTTLHours
	}

	// 自定义链接在读请求体之前预检：保留字或已占用的链接不应碰到磁盘
	link := strings.TrimSpace(req.Link)
	if link != "" {
		link = SanitizeToken(link)

		if err := s.checkLink(link); err != nil {
			return nil, err
		}
	}

	if err := s.admit(req.Size); err != nil {
		return nil, err
	}

	storageName, size, err := s.saveBlob(req)
	if err != nil {
		return nil, err
	}

	if link == "" {
		link = storageName
	}

	now := time.Now()
	rec := model.FileRecord{
		Link:             link,
		StorageName:      storageName,
		OriginalFilename: req.FileName,
		SizeBytes:        size,
		CreatedAt:        now,
		ExpiresAt:        now.Add(time.Duration(ttlHours * float64(time.Hour))),
	}

	if err := s.registry.Register(rec); err != nil {
		// 注册失败则回滚 blob，维持"blob 存在 iff 记录存在"
		if derr := s.blobStore.Delete(storageName); derr != nil {
			nlog.Logger().Error().Err(derr).Str("storage_name", storageName).
				Msg("rollback blob failed, reaper will flag it")
		}

		return nil, err
	}

	return &rec, nil
}

// checkLink 建议性预检：保留字与当前已占用的链接直接拒绝.
// 预检与注册之间不持锁，并发窗口仍由 Register 兜底.
func (s *ShareService) checkLink(link string) error {
	if s.registry.Reserved(link) {
		return fmt.Errorf("%w: %q is reserved", ErrLinkTaken, link)
	}

	if _, err := s.registry.Lookup(link); err == nil {
		return fmt.Errorf("%w: %q", ErrLinkTaken, link)
	}

	return nil
}

// saveBlob 分配落盘名并写入. 名称探测只是建议性的，写入本身是 create-if-absent：
// 占位在读取请求体之前完成，撞名重试不会丢失数据流.
func (s *ShareService) saveBlob(req *types.IngestRequest) (string, int64, error) {
	for range maxAllocateRetries {
		name, err := AllocateName(req.FileName, s.blobStore.Exists)
		if err != nil {
			return "", 0, err
		}

		size, err := s.blobStore.Save(name, req.Body)
		if err == nil {
			return name, size, nil
		}

		if errors.Is(err, blob.ErrBlobExists) {
			continue
		}

		return "", 0, err
	}

	return "", 0, fmt.Errorf("allocate storage name for %q: too many collisions", req.FileName)
}

// shareURL 拼接对外分享地址.
func shareURL(link string) string {
	base := strings.TrimSuffix(configs.GetConfig().Server.BaseURL, "/")

	return base + "/" + link
}

// uploadOutcome 将摄入错误映射为指标标签.
func uploadOutcome(err error) string {
	switch {
	case errors.Is(err, ErrLinkTaken):
		return "link_taken"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity"
	case errors.Is(err, ErrFileTooLarge):
		return "too_large"
	case errors.Is(err, ErrInvalidTTL):
		return "invalid_ttl"
	case errors.Is(err, ErrNoFile):
		return "no_file"
	default:
		return "error"
	}
}
