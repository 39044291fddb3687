// Package configs 管理应用程序配置，包括分享链接与过期策略的配置信息.
package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultShareTTLHours 默认保留时长（小时）；上传时 time 表单字段缺省使用该值
	DefaultShareTTLHours = 3.0
	// DefaultShareMaxTTLHours 最大保留时长（小时），请求值超过时被夹取
	DefaultShareMaxTTLHours = 168.0
	// DefaultShareReapIntervalSeconds 过期清扫周期（秒）
	DefaultShareReapIntervalSeconds = 60
)

type (
	// ShareConfig 分享链接与过期策略配置.
	// TTL 一律以小时为单位（与上传边界的 time 表单字段一致），允许小数.
	ShareConfig struct {
		DefaultTTLHours     float64  `mapstructure:"default_ttl_hours"     rule:"gte=0"`
		MaxTTLHours         float64  `mapstructure:"max_ttl_hours"         rule:"gt=0"`
		ReapIntervalSeconds int      `mapstructure:"reap_interval_seconds" rule:"min=1"`
		ReservedLinks       []string `mapstructure:"reserved_links"`
	}
)

// DefaultTTL 返回默认保留时长.
func (s *ShareConfig) DefaultTTL() time.Duration {
	return time.Duration(s.DefaultTTLHours * float64(time.Hour))
}

// MaxTTL 返回最大保留时长.
func (s *ShareConfig) MaxTTL() time.Duration {
	return time.Duration(s.MaxTTLHours * float64(time.Hour))
}

// ReapInterval 返回清扫周期.
func (s *ShareConfig) ReapInterval() time.Duration {
	return time.Duration(s.ReapIntervalSeconds) * time.Second
}

func (s *ShareConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("share.default_ttl_hours", DefaultShareTTLHours)
	v.SetDefault("share.max_ttl_hours", DefaultShareMaxTTLHours)
	v.SetDefault("share.reap_interval_seconds", DefaultShareReapIntervalSeconds)
	// 被周边应用占用、不可注册为自定义链接的路径段
	v.SetDefault("share.reserved_links", []string{
		"about",
		"admin",
		"api",
		"health",
		"healthz",
		"metrics",
		"shared",
		"static",
		"robots.txt",
		"sitemap.xml",
		"security.txt",
		"favicon.ico",
	})
}
