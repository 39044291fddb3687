// Package configs 管理应用程序配置，包括消息队列的配置信息.
// 消息队列用于发布分享事件（写入、访问、清理），默认走进程内通道.
package configs

import "github.com/spf13/viper"

// MQType 消息队列类型.
type MQType string

const (
	// MQTypeMemory 进程内 gochannel，单机默认
	MQTypeMemory MQType = "memory"
	// MQTypeNATS 外部 NATS，可选 JetStream 持久化
	MQTypeNATS MQType = "nats"
)

const (
	DefaultMQMaxReconnects = 5
	DefaultMQReconnectWait = 2  // 秒
	DefaultMQPingInterval  = 20 // 秒
)

type (
	// MQConfig 消息队列配置.
	MQConfig struct {
		Type     MQType `mapstructure:"type"      rule:"oneof=memory nats"`
		URL      string `mapstructure:"url"`
		ClientID string `mapstructure:"client_id"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`

		MaxReconnects int `mapstructure:"max_reconnects"`
		ReconnectWait int `mapstructure:"reconnect_wait"`
		PingInterval  int `mapstructure:"ping_interval"`

		JetStreamEnabled       bool   `mapstructure:"jetstream_enabled"`
		JetStreamAutoProvision bool   `mapstructure:"jetstream_auto_provision"`
		JetStreamDurablePrefix string `mapstructure:"jetstream_durable_prefix"`
	}
)

// GetMQType 返回消息队列类型.
func (m *MQConfig) GetMQType() MQType {
	return m.Type
}

func (m *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.type", string(MQTypeMemory))
	v.SetDefault("mq.url", "nats://localhost:4222")
	v.SetDefault("mq.client_id", "swft")
	v.SetDefault("mq.user", "")
	v.SetDefault("mq.password", "")
	v.SetDefault("mq.max_reconnects", DefaultMQMaxReconnects)
	v.SetDefault("mq.reconnect_wait", DefaultMQReconnectWait)
	v.SetDefault("mq.ping_interval", DefaultMQPingInterval)
	v.SetDefault("mq.jetstream_enabled", false)
	v.SetDefault("mq.jetstream_auto_provision", true)
	v.SetDefault("mq.jetstream_durable_prefix", "swft")
}
