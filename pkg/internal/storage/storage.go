// Package storage 聚合分享服务的全部存储资源：blob 目录、链接注册表与消息队列.
//
// Example:
//
// 初始化
//
//	 ctx := context.Background()
//	 mgr, err := storage.Init(ctx)
//
//		if err != nil {
//		    // 处理错误
//		}
//
// 获取存储客户端
//
//	blobStore := mgr.GetBlobStore()
//	registry := mgr.GetRegistry()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/swft/pkg/configs"
	blobc "github.com/yeisme/swft/pkg/internal/storage/blob"
	mqc "github.com/yeisme/swft/pkg/internal/storage/mq"
	regc "github.com/yeisme/swft/pkg/internal/storage/registry"
	nlog "github.com/yeisme/swft/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	Blob     *blobc.Store
	Registry *regc.Registry
	MQ       *mqc.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置. 重复调用只返回已初始化实例.
// 启动时从快照恢复注册表，blob 缺失的记录在恢复时被丢弃.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		// Blob
		blob, e := blobc.NewStore(cfg.Store.DataDir)
		if e != nil {
			err = e

			return
		}

		m.Blob = blob

		// Registry
		reg := regc.New(cfg.Store.RegistryPath(), cfg.Share.ReservedLinks)

		dropped, e := reg.Restore(blob.Exists)
		if e != nil {
			err = e

			return
		}

		if dropped > 0 {
			nlog.Logger().Warn().Int("dropped", dropped).Msg("注册表恢复：丢弃缺失 blob 的记录")
		}

		m.Registry = reg

		// MQ
		mq, e := mqc.New(ctx)
		if e != nil {
			err = e

			return
		}

		m.MQ = mq

		mgr = m

		nlog.Logger().Info().
			Str("data_dir", cfg.Store.DataDir).
			Int("records", reg.Len()).
			Msg("storage manager initialized")
	})

	return mgr, err
}

// GetBlobStore 获取 blob 存储.
func (m *Manager) GetBlobStore() *blobc.Store {
	return m.Blob
}

// GetRegistry 获取链接注册表.
func (m *Manager) GetRegistry() *regc.Registry {
	return m.Registry
}

// GetMQClient 获取 MQ 客户端.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// Close 关闭所有存储资源.
func (m *Manager) Close() error {
	if m == nil || m.MQ == nil {
		return nil
	}

	return m.MQ.Close()
}
