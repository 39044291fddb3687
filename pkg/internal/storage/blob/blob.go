// Package blob 管理上传文件的落盘存储.
// Store 独占一个数据目录：写入采用"临时文件 + rename"的原子发布方式，
// 并发读者永远不会在最终文件名下看到半写状态的文件.
package blob

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// stagedPrefix 暂存文件前缀，Usage/Names 会跳过这些文件.
const stagedPrefix = ".staged-"

var (
	// ErrBlobExists 最终文件名已被占用；Save 是 create-if-absent 语义，
	// 名称分配器的存在性探测只是建议性的，这里才是权威.
	ErrBlobExists = errors.New("blob already exists")
	// ErrInvalidName 文件名含路径分隔符或为保留的暂存名.
	ErrInvalidName = errors.New("invalid blob name")
)

// Store 拥有数据目录中的所有字节；其它组件只能通过它访问 blob.
type Store struct {
	dir string
}

// NewStore 创建或打开数据目录. 目录不可用是唯一的启动致命错误.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir %s: %w", dir, err)
	}

	return &Store{dir: dir}, nil
}

// Dir 返回数据目录路径.
func (s *Store) Dir() string {
	return s.dir
}

// Path 返回 name 对应的绝对路径；name 不合法时返回错误.
func (s *Store) Path(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}

	return filepath.Join(s.dir, name), nil
}

// Save 以 create-if-absent 语义写入一个 blob：
// 先用 O_EXCL 占住最终文件名，再写入同目录暂存文件，最后 rename 覆盖占位.
// 任一步失败都会清理暂存文件与占位，不留半写文件.
func (s *Store) Save(name string, r io.Reader) (int64, error) {
	final, err := s.Path(name)
	if err != nil {
		return 0, err
	}

	// 占位：并发同名 Save 只有一个能成功
	placeholder, err := os.OpenFile(final, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return 0, ErrBlobExists
		}

		return 0, fmt.Errorf("reserve %s: %w", name, err)
	}

	_ = placeholder.Close()

	n, err := s.writeStaged(final, r)
	if err != nil {
		// 回收占位，保持目录无残留
		_ = os.Remove(final)

		return 0, err
	}

	return n, nil
}

// writeStaged 写入暂存文件并 rename 到 final.
func (s *Store) writeStaged(final string, r io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(s.dir, stagedPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("create staged file: %w", err)
	}

	tmpName := tmp.Name()

	n, err := io.Copy(tmp, r)
	if err == nil {
		err = tmp.Sync()
	}

	if cerr := tmp.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		_ = os.Remove(tmpName)

		return 0, fmt.Errorf("write staged file: %w", err)
	}

	if err := os.Rename(tmpName, final); err != nil {
		_ = os.Remove(tmpName)

		return 0, fmt.Errorf("publish %s: %w", filepath.Base(final), err)
	}

	return n, nil
}

// Open 打开一个已发布的 blob 供流式读取，调用方负责 Close.
func (s *Store) Open(name string) (*os.File, error) {
	p, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	return os.Open(p)
}

// Delete 删除一个 blob；文件不存在不视为错误.
func (s *Store) Delete(name string) error {
	p, err := s.Path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", name, err)
	}

	return nil
}

// Exists 判断 blob 是否存在.
func (s *Store) Exists(name string) bool {
	p, err := s.Path(name)
	if err != nil {
		return false
	}

	info, err := os.Stat(p)

	return err == nil && info.Mode().IsRegular()
}

// Size 返回 blob 的当前字节数.
func (s *Store) Size(name string) (int64, error) {
	p, err := s.Path(name)
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(p)
	if err != nil {
		return 0, err
	}

	return info.Size(), nil
}

// Usage 重新统计目录内所有已发布 blob 的总字节数.
// 每次调用都从磁盘重算，以容忍外部漂移（手工删除、磁盘回收等）.
func (s *Store) Usage() (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read blob dir: %w", err)
	}

	var total int64

	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), stagedPrefix) {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		total += info.Size()
	}

	return total, nil
}

// Names 列出所有已发布 blob 的名称，供孤儿检查使用.
func (s *Store) Names() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read blob dir: %w", err)
	}

	names := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), stagedPrefix) {
			continue
		}

		names = append(names, e.Name())
	}

	return names, nil
}

// checkName 拒绝路径穿越与暂存前缀.
func checkName(name string) error {
	if name == "" ||
		name != filepath.Base(name) ||
		strings.ContainsAny(name, `/\`) ||
		strings.HasPrefix(name, stagedPrefix) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return nil
}
