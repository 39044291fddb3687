// Package configs 管理应用程序配置，包括存储目录的配置信息.
package configs

import (
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	DefaultStoreDataDir = "data" // 上传文件存放目录
	// DefaultStoreCapacityMB 目录总容量上限（MB），软配额
	DefaultStoreCapacityMB = 50 * 1024
	// DefaultStoreMaxUploadMB 单个上传文件的大小上限（MB）
	DefaultStoreMaxUploadMB = 100
	// DefaultStoreRegistryFile 链接注册表快照文件名，保存在数据目录旁
	DefaultStoreRegistryFile = "registry.json"

	mb = 1024 * 1024
)

type (
	// StoreConfig 存储目录与容量配置.
	// 容量与注册表路径仅在进程启动时读取，运行期不可变.
	StoreConfig struct {
		DataDir      string `mapstructure:"data_dir"      rule:"required"`
		CapacityMB   int64  `mapstructure:"capacity_mb"   rule:"min=1"`
		MaxUploadMB  int64  `mapstructure:"max_upload_mb" rule:"min=1"`
		RegistryFile string `mapstructure:"registry_file" rule:"required"`
	}
)

// CapacityBytes 返回容量上限（字节）.
func (s *StoreConfig) CapacityBytes() int64 {
	return s.CapacityMB * mb
}

// RegistryPath 返回注册表快照的完整路径.
// 相对路径挂在数据目录的父目录下，避免快照混进 blob 统计.
func (s *StoreConfig) RegistryPath() string {
	if filepath.IsAbs(s.RegistryFile) {
		return s.RegistryFile
	}

	return filepath.Join(filepath.Dir(s.DataDir), s.RegistryFile)
}

// MaxUploadBytes 返回单文件上限（字节）.
func (s *StoreConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB * mb
}

func (s *StoreConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("store.data_dir", DefaultStoreDataDir)
	v.SetDefault("store.capacity_mb", DefaultStoreCapacityMB)
	v.SetDefault("store.max_upload_mb", DefaultStoreMaxUploadMB)
	v.SetDefault("store.registry_file", DefaultStoreRegistryFile)
}
