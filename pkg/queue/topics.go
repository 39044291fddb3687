// Package queue 定义消息主题常量，供发布/订阅使用.
package queue

// 主题命名规范：swft.<域>.<动作>，尽量稳定且向后兼容.
// 域：share(分享生命周期)、store(存储容量)
// 动作：stored/accessed/reaped/deleted/full

const (
	// 分享生命周期领域.
	TopicShareStored   = "swft.share.stored"   // 文件已落盘并注册链接
	TopicShareAccessed = "swft.share.accessed" // 链接被成功下载（用于热度统计）
	TopicShareReaped   = "swft.share.reaped"   // 清扫器删除过期或孤儿记录
	TopicShareDeleted  = "swft.share.deleted"  // 管理端手动删除

	// 存储容量领域.
	TopicStoreFull = "swft.store.full" // 配额拒绝上传，存储接近容量上限
)
