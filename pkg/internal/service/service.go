package service

import (
	"context"

	ctxPkg "github.com/yeisme/swft/pkg/context"
	"github.com/yeisme/swft/pkg/internal/storage/blob"
	"github.com/yeisme/swft/pkg/internal/storage/mq"
	"github.com/yeisme/swft/pkg/internal/storage/registry"
)

// ShareService 承载分享生命周期的全部业务操作：摄入、取回、清扫、管理删除.
type ShareService struct {
	blobStore *blob.Store
	registry  *registry.Registry
	mqClient  *mq.Client
	notifier  Notifier
}

// NewShareService 从请求上下文取出存储资源构造服务.
func NewShareService(c context.Context) *ShareService {
	return &ShareService{
		blobStore: ctxPkg.GetBlobStore(c),
		registry:  ctxPkg.GetRegistry(c),
		mqClient:  ctxPkg.GetMQClient(c),
		notifier:  defaultNotifier(),
	}
}
