package service

import (
	"errors"

	"github.com/yeisme/swft/pkg/internal/storage/registry"
)

var (
	// ErrLinkTaken 链接被占用或命中保留字.
	ErrLinkTaken = registry.ErrLinkTaken
	// ErrNotFound 链接不存在或已被清扫.
	ErrNotFound = registry.ErrNotFound

	// ErrNoFile 上传请求缺少文件或文件名为空.
	ErrNoFile = errors.New("no file provided")
	// ErrInvalidTTL 保留时长为负.
	ErrInvalidTTL = errors.New("invalid retention time")
	// ErrFileTooLarge 单个文件超出上限.
	ErrFileTooLarge = errors.New("file exceeds upload size limit")
	// ErrCapacityExceeded 接纳该文件会超过数据目录软配额.
	ErrCapacityExceeded = errors.New("server storage full")
)
