package queue

import "time"

// ShareRef 指向一条分享记录的引用信息.
type ShareRef struct {
	Link        string    `json:"link"`
	StorageName string    `json:"storage_name"`
	FileName    string    `json:"file_name,omitempty"`
	Size        int64     `json:"size,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// ShareStoredPayload 文件上传完成事件负载.
type ShareStoredPayload struct {
	Share  ShareRef `json:"share"`
	Source string   `json:"source,omitempty"`
}

// ShareAccessedPayload 下载事件负载.
type ShareAccessedPayload struct {
	Share    ShareRef `json:"share"`
	ClientIP string   `json:"client_ip,omitempty"`
}

// ShareReapedPayload 清扫事件负载. Reason 取值 expired / orphaned.
type ShareReapedPayload struct {
	Share  ShareRef `json:"share"`
	Reason string   `json:"reason"`
}

// ShareDeletedPayload 管理端删除事件负载.
type ShareDeletedPayload struct {
	Share ShareRef `json:"share"`
	Actor string   `json:"actor,omitempty"`
}

// StoreFullPayload 配额拒绝事件负载.
type StoreFullPayload struct {
	UsageBytes    int64 `json:"usage_bytes"`
	CapacityBytes int64 `json:"capacity_bytes"`
	RejectedSize  int64 `json:"rejected_size"`
}
