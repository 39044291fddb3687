package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/yeisme/swft/pkg/internal/model"
	"github.com/yeisme/swft/pkg/metrics"
	"github.com/yeisme/swft/pkg/queue"
)

// inlineExtensions 浏览器可直接渲染的图片扩展名.
// 命中时以 inline 方式返回，其余一律作为附件下载.
var inlineExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
	".svg":  {},
	".bmp":  {},
	".ico":  {},
	".apng": {},
	".avif": {},
	".jpe":  {},
	".jfif": {},
	".jif":  {},
}

// InlineDisposition 判断文件是否应在浏览器内联展示.
func InlineDisposition(filename string) bool {
	_, ok := inlineExtensions[strings.ToLower(filepath.Ext(filename))]

	return ok
}

// Retrieve 按链接取回分享：返回记录与已打开的文件流，调用方负责 Close.
// 链接在查询前做与注册时相同的大小写规范化.
// 已过期但尚未被清扫的记录照常可取，以清扫为准.
func (s *ShareService) Retrieve(ctx context.Context, link, clientIP string) (model.FileRecord, *os.File, error) {
	link = strings.ToLower(strings.TrimSpace(link))

	rec, err := s.registry.Lookup(link)
	if err != nil {
		metrics.DownloadsTotal.WithLabelValues("not_found").Inc()

		return model.FileRecord{}, nil, err
	}

	f, err := s.blobStore.Open(rec.StorageName)
	if err != nil {
		// 记录在而 blob 不在：对外等同不存在，孤儿记录留给清扫器回收
		if os.IsNotExist(err) {
			metrics.DownloadsTotal.WithLabelValues("not_found").Inc()

			return model.FileRecord{}, nil, ErrNotFound
		}

		metrics.DownloadsTotal.WithLabelValues("error").Inc()

		return model.FileRecord{}, nil, err
	}

	metrics.DownloadsTotal.WithLabelValues("ok").Inc()

	s.publish(queue.TopicShareAccessed, queue.ShareAccessedPayload{
		Share:    shareRef(rec),
		ClientIP: clientIP,
	})

	return rec, f, nil
}
