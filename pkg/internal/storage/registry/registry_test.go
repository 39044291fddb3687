package registry_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yeisme/swft/pkg/internal/model"
	"github.com/yeisme/swft/pkg/internal/storage/registry"
)

func newRegistry(t *testing.T, reserved []string) (*registry.Registry, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "registry.json")

	return registry.New(path, reserved), path
}

func record(link, name string, ttl time.Duration) model.FileRecord {
	now := time.Now()

	return model.FileRecord{
		Link:             link,
		StorageName:      name,
		OriginalFilename: name,
		SizeBytes:        1,
		CreatedAt:        now,
		ExpiresAt:        now.Add(ttl),
	}
}

// TestRegisterAndLookup 注册后可查，链接大小写不敏感.
func TestRegisterAndLookup(t *testing.T) {
	r, _ := newRegistry(t, nil)

	if err := r.Register(record("Demo", "demo.txt", time.Hour)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	rec, err := r.Lookup("DEMO")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	if rec.Link != "demo" {
		t.Errorf("stored link = %q, want normalized %q", rec.Link, "demo")
	}

	if _, err := r.Lookup("missing"); !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestRegisterConflicts 重复链接与保留字都返回 ErrLinkTaken.
func TestRegisterConflicts(t *testing.T) {
	r, _ := newRegistry(t, []string{"admin"})

	if err := r.Register(record("demo", "a.txt", time.Hour)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := r.Register(record("DEMO", "b.txt", time.Hour)); !errors.Is(err, registry.ErrLinkTaken) {
		t.Errorf("duplicate link: expected ErrLinkTaken, got %v", err)
	}

	if err := r.Register(record("admin", "c.txt", time.Hour)); !errors.Is(err, registry.ErrLinkTaken) {
		t.Errorf("reserved link: expected ErrLinkTaken, got %v", err)
	}
}

// TestRegisterConcurrent 同一链接的并发注册恰好一个成功，其余都看到 ErrLinkTaken.
func TestRegisterConcurrent(t *testing.T) {
	r, _ := newRegistry(t, nil)

	const n = 32

	var wg sync.WaitGroup

	var success, taken atomic.Int32

	for i := range n {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			err := r.Register(record("hot", fmt.Sprintf("hot_%d.txt", i), time.Hour))

			switch {
			case err == nil:
				success.Add(1)
			case errors.Is(err, registry.ErrLinkTaken):
				taken.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}

	wg.Wait()

	if success.Load() != 1 {
		t.Errorf("successes = %d, want exactly 1", success.Load())
	}

	if taken.Load() != n-1 {
		t.Errorf("ErrLinkTaken count = %d, want %d", taken.Load(), n-1)
	}

	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

// TestRemove 删除幂等，删除后快照也随之更新.
func TestRemove(t *testing.T) {
	r, _ := newRegistry(t, nil)

	if err := r.Register(record("x", "x.txt", time.Hour)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := r.Remove("x"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if err := r.Remove("x"); err != nil {
		t.Errorf("second Remove should be no-op, got %v", err)
	}

	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

// TestRemoveBatch 批量删除只统计真实存在的链接.
func TestRemoveBatch(t *testing.T) {
	r, _ := newRegistry(t, nil)

	for _, l := range []string{"a", "b", "c"} {
		if err := r.Register(record(l, l+".txt", time.Hour)); err != nil {
			t.Fatalf("Register %s: %v", l, err)
		}
	}

	removed, err := r.RemoveBatch([]string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("RemoveBatch: %v", err)
	}

	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

// TestPersistAndRestore 重启后从快照恢复，blob 缺失的记录被丢弃.
func TestPersistAndRestore(t *testing.T) {
	r, path := newRegistry(t, nil)

	if err := r.Register(record("keep", "keep.txt", time.Hour)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := r.Register(record("gone", "gone.txt", time.Hour)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// 新实例模拟进程重启
	r2 := registry.New(path, nil)

	dropped, err := r2.Restore(func(name string) bool { return name == "keep.txt" })
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}

	if _, err := r2.Lookup("keep"); err != nil {
		t.Errorf("keep should survive restore: %v", err)
	}

	if _, err := r2.Lookup("gone"); !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("gone should be dropped, got %v", err)
	}
}

// TestRestoreMissingSnapshot 快照文件不存在时视为空注册表.
func TestRestoreMissingSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")
	r := registry.New(path, nil)

	dropped, err := r.Restore(nil)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if dropped != 0 || r.Len() != 0 {
		t.Errorf("expected empty registry, dropped=%d len=%d", dropped, r.Len())
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("restore should not create a snapshot file")
	}
}
