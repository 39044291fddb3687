// Package mq 提供进程内消息队列实现.
// gochannel 无外部依赖，发布与订阅都在本进程内完成，是单机部署的默认选择.
package mq

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/yeisme/swft/pkg/configs"
)

// init 注册 memory 工厂.
func init() {
	RegisterFactory(configs.MQTypeMemory, memoryFactory)
}

// memoryFactory 创建进程内 Publisher & Subscriber.
// gochannel 的 Publisher 与 Subscriber 是同一个对象.
func memoryFactory(
	ctx context.Context,
	cfg *configs.MQConfig,
	logger watermill.LoggerAdapter) (
	message.Publisher, message.Subscriber, error) {
	ch := gochannel.NewGoChannel(gochannel.Config{}, logger)

	return ch, ch, nil
}
