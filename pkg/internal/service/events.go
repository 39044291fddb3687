package service

import (
	"context"
	"time"

	"github.com/yeisme/swft/pkg/internal/model"
	nlog "github.com/yeisme/swft/pkg/log"
	"github.com/yeisme/swft/pkg/queue"
)

// publishTimeout 事件发布的兜底超时，避免 broker 不可用时拖住业务路径.
const publishTimeout = 5 * time.Second

// publish 发布一条生命周期事件. 发布失败只记日志，不影响业务结果.
func (s *ShareService) publish(topic string, payload any) {
	if s.mqClient == nil {
		return
	}

	msg, err := queue.NewWatermillMessage(topic, payload, queue.WithProducer("swft"))
	if err != nil {
		nlog.Logger().Error().Err(err).Str("topic", topic).Msg("encode event failed")

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := s.mqClient.Publish(ctx, topic, msg); err != nil {
		nlog.Logger().Error().Err(err).Str("topic", topic).Msg("publish event failed")
	}
}

// shareRef 从记录构造事件引用.
func shareRef(rec model.FileRecord) queue.ShareRef {
	return queue.ShareRef{
		Link:        rec.Link,
		StorageName: rec.StorageName,
		FileName:    rec.OriginalFilename,
		Size:        rec.SizeBytes,
		CreatedAt:   rec.CreatedAt,
		ExpiresAt:   rec.ExpiresAt,
	}
}
