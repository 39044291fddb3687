package service

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SanitizeToken 规范化一个名字片段：小写、空白折叠为下划线、
// 其余非字母数字字符一律替换为下划线.
// 自定义链接与落盘文件名的主干都经过这一步，保证 URL 与文件系统安全.
func SanitizeToken(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))

	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	return b.String()
}

// splitExt 拆分文件名主干与扩展名. 扩展名本身也会被规范化：
// 只保留小写字母数字，防止扩展名携带路径或控制字符.
func splitExt(filename string) (base, ext string) {
	filename = filepath.Base(filename)
	ext = filepath.Ext(filename)
	base = strings.TrimSuffix(filename, ext)

	if ext != "" {
		cleaned := SanitizeToken(strings.TrimPrefix(ext, "."))
		if cleaned == "" {
			ext = ""
		} else {
			ext = "." + cleaned
		}
	}

	return base, ext
}

// SanitizeFilename 规范化落盘文件名，主干与扩展名分别处理，点号只保留扩展名分隔符.
func SanitizeFilename(filename string) string {
	base, ext := splitExt(filename)

	return SanitizeToken(base) + ext
}

// AllocateName 为上传文件挑选一个未占用的落盘名：
// 基础名可用时直接使用，否则追加 _1、_2 … 递增计数器.
// exists 只是建议性探测，最终以 blob 写入的 create-if-absent 为准，
// 并发撞名时调用方重新分配即可.
func AllocateName(filename string, exists func(name string) bool) (string, error) {
	base, ext := splitExt(filename)

	base = SanitizeToken(base)
	if base == "" && ext == "" {
		return "", fmt.Errorf("%w: unusable filename %q", ErrNoFile, filename)
	}

	if base == "" {
		base = "file"
	}

	name := base + ext
	for counter := 1; exists(name); counter++ {
		name = fmt.Sprintf("%s_%d%s", base, counter, ext)
	}

	return name, nil
}
