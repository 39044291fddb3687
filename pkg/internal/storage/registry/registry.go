// Package registry 实现链接注册表：公开链接到 FileRecord 的权威映射.
// 映射由互斥锁保护，每次变更后都会把完整快照序列化到数据目录旁的 JSON 文件，
// 进程重启时从快照恢复，缺失 blob 的记录在恢复时被丢弃.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/yeisme/swft/pkg/internal/model"
)

var (
	// ErrLinkTaken 链接已被活跃记录占用，或命中保留字.
	ErrLinkTaken = errors.New("link already taken")
	// ErrNotFound 链接不存在（包含已过期被清扫的情形）.
	ErrNotFound = errors.New("link not found")
)

// snapshot 持久化文件的结构.
type snapshot struct {
	Records []model.FileRecord `json:"records"`
}

// Registry 是链接空间的唯一持有者.
// 所有方法并发安全；Register 对同一链接的并发调用只有一个会成功.
type Registry struct {
	mu       sync.RWMutex
	records  map[string]model.FileRecord
	path     string
	reserved map[string]struct{}
}

// New 创建注册表. path 为快照文件路径，reserved 为不可注册的保留链接集合.
func New(path string, reserved []string) *Registry {
	rs := make(map[string]struct{}, len(reserved))
	for _, w := range reserved {
		rs[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}

	return &Registry{
		records:  make(map[string]model.FileRecord),
		path:     path,
		reserved: rs,
	}
}

// Reserved 判断链接是否为保留字（大小写规范化后比较）.
func (r *Registry) Reserved(link string) bool {
	_, ok := r.reserved[strings.ToLower(link)]

	return ok
}

// Register 注册一条记录. 链接冲突或命中保留字返回 ErrLinkTaken；
// 插入与快照写出在同一临界区内完成.
func (r *Registry) Register(rec model.FileRecord) error {
	key := strings.ToLower(rec.Link)
	if r.Reserved(key) {
		return fmt.Errorf("%w: %q is reserved", ErrLinkTaken, rec.Link)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[key]; exists {
		return fmt.Errorf("%w: %q", ErrLinkTaken, rec.Link)
	}

	rec.Link = key
	r.records[key] = rec

	return r.persistLocked()
}

// Lookup 查询链接对应的记录.
func (r *Registry) Lookup(link string) (model.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[strings.ToLower(link)]
	if !ok {
		return model.FileRecord{}, ErrNotFound
	}

	return rec, nil
}

// Remove 删除链接并写出快照. 删除不存在的链接是 no-op，不报错.
func (r *Registry) Remove(link string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(link)
	if _, ok := r.records[key]; !ok {
		return nil
	}

	delete(r.records, key)

	return r.persistLocked()
}

// RemoveBatch 删除一批链接，只写出一次快照（供清扫周期使用）.
// 返回实际删除的数量.
func (r *Registry) RemoveBatch(links []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0

	for _, link := range links {
		key := strings.ToLower(link)
		if _, ok := r.records[key]; ok {
			delete(r.records, key)
			removed++
		}
	}

	if removed == 0 {
		return 0, nil
	}

	return removed, r.persistLocked()
}

// List 返回所有记录的副本，按链接排序，供清扫与管理端使用.
func (r *Registry) List() []model.FileRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.FileRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Link < out[j].Link })

	return out
}

// Len 返回活跃记录数.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.records)
}

// Persist 强制写出一次快照.
func (r *Registry) Persist() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.persistLocked()
}

// Restore 从快照加载注册表. blobExists 用于校验记录对应的 blob；
// blob 缺失的记录被直接丢弃（自愈），丢弃数量通过返回值上报.
// 快照文件不存在视为空注册表.
func (r *Registry) Restore(blobExists func(storageName string) bool) (dropped int, err error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}

		return 0, fmt.Errorf("read registry snapshot: %w", err)
	}

	var snap snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		return 0, fmt.Errorf("decode registry snapshot: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = make(map[string]model.FileRecord, len(snap.Records))

	for _, rec := range snap.Records {
		if blobExists != nil && !blobExists(rec.StorageName) {
			dropped++

			continue
		}

		r.records[strings.ToLower(rec.Link)] = rec
	}

	if dropped > 0 {
		if err := r.persistLocked(); err != nil {
			return dropped, err
		}
	}

	return dropped, nil
}

// persistLocked 序列化全量快照并原子替换文件. 调用方必须持有写锁.
func (r *Registry) persistLocked() error {
	snap := snapshot{Records: make([]model.FileRecord, 0, len(r.records))}
	for _, rec := range r.records {
		snap.Records = append(snap.Records, rec)
	}

	sort.Slice(snap.Records, func(i, j int) bool { return snap.Records[i].Link < snap.Records[j].Link })

	data, err := sonic.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)

	tmp, err := os.CreateTemp(dir, ".registry-*")
	if err != nil {
		return fmt.Errorf("create snapshot temp: %w", err)
	}

	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}

	if cerr := tmp.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("write snapshot: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("replace snapshot: %w", err)
	}

	return nil
}
