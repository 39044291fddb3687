// Package configs 管理应用程序配置，包括邮件通知的配置信息.
package configs

import "github.com/spf13/viper"

const (
	DefaultSMTPPort = 587
)

type (
	// SMTPConfig 邮件通知配置. Enabled 为 false 时通知器退化为 no-op.
	SMTPConfig struct {
		Enabled  bool   `mapstructure:"enabled"`
		Server   string `mapstructure:"server"`
		Port     int    `mapstructure:"port"     rule:"min=1,max=65535"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		// From 发件人地址，形如 "SWFT <swft@example.com>"
		From string `mapstructure:"from"`
	}
)

func (s *SMTPConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("smtp.enabled", false)
	v.SetDefault("smtp.server", "smtp.gmail.com")
	v.SetDefault("smtp.port", DefaultSMTPPort)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
}
