package types

import (
	"io"
	"time"
)

// IngestRequest 一次上传的全部输入.
type IngestRequest struct {
	FileName string    // 原始文件名，不能为空
	Body     io.Reader // 文件内容
	Size     int64     // 声明的字节数，用于配额预检
	Link     string    // 自定义链接，空则使用落盘文件名
	TTLHours float64   // 保留小时数，负数非法，超上限被夹取
	Email    string    // 可选：上传完成后通知的邮箱
}

// IngestResponse 上传成功的结果.
type IngestResponse struct {
	Link     string    `json:"link"`
	URL      string    `json:"url"`
	FileName string    `json:"file_name"`
	Size     int64     `json:"size"`
	Expiry   time.Time `json:"expiry"`
}

// ShareInfo 管理端看到的一条活跃分享.
type ShareInfo struct {
	Link             string    `json:"link"`
	StorageName      string    `json:"storage_name"`
	OriginalFilename string    `json:"original_filename"`
	SizeBytes        int64     `json:"size_bytes"`
	CreatedAt        time.Time `json:"created_at"`
	ExpiresAt        time.Time `json:"expires_at"`
	// RemainingSeconds 剩余存活秒数，已过期但尚未清扫时为负
	RemainingSeconds int64 `json:"remaining_seconds"`
}

// AdminListResponse 管理端分享列表.
type AdminListResponse struct {
	Total      int         `json:"total"`
	UsageBytes int64       `json:"usage_bytes"`
	Shares     []ShareInfo `json:"shares"`
}

// ReapStats 一轮清扫的统计结果.
type ReapStats struct {
	Expired   int `json:"expired"`   // 过期删除的记录数
	Orphaned  int `json:"orphaned"`  // blob 缺失被丢弃的记录数
	Untracked int `json:"untracked"` // 发现的无记录 blob 数（仅告警，不删除）
}
