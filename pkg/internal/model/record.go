// Package model 定义核心数据模型.
package model

import "time"

// FileRecord 一条活跃分享：公开链接到磁盘文件的权威映射.
// 注册表以规范化后的 Link 为键；StorageName 在数据目录内唯一.
// 记录存在 iff 对应 blob 存在，该双射由摄入管线与清扫器共同维护.
type FileRecord struct {
	// Link 公开链接（路径段），已小写规范化
	Link string `json:"link"`
	// StorageName 落盘文件名，与 Link 和原始文件名解耦
	StorageName string `json:"storage_name"`
	// OriginalFilename 上传时的原始文件名，仅用于展示与附件命名
	OriginalFilename string `json:"original_filename"`
	// SizeBytes 注册时刻的文件大小，之后不可变
	SizeBytes int64 `json:"size_bytes"`
	// CreatedAt 注册时间
	CreatedAt time.Time `json:"created_at"`
	// ExpiresAt 过期时间，CreatedAt + 请求 TTL（夹取到 [0, maxTTL]）
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired 判断记录在 now 时刻是否已过期.
func (r *FileRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// TTL 返回剩余存活时长，已过期时为负.
func (r *FileRecord) TTL(now time.Time) time.Duration {
	return r.ExpiresAt.Sub(now)
}
