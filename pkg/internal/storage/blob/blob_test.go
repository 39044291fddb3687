package blob_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yeisme/swft/pkg/internal/storage/blob"
)

func newStore(t *testing.T) *blob.Store {
	t.Helper()

	s, err := blob.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	return s
}

// TestSaveAndOpen 写入后可读回相同内容.
func TestSaveAndOpen(t *testing.T) {
	s := newStore(t)

	n, err := s.Save("hello.txt", strings.NewReader("hello world"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if n != int64(len("hello world")) {
		t.Errorf("Save returned %d bytes, want %d", n, len("hello world"))
	}

	f, err := s.Open("hello.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	if string(data) != "hello world" {
		t.Errorf("got %q, want %q", data, "hello world")
	}
}

// TestSaveExisting 同名二次写入返回 ErrBlobExists，且不破坏已有内容.
func TestSaveExisting(t *testing.T) {
	s := newStore(t)

	if _, err := s.Save("a.txt", strings.NewReader("first")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, err := s.Save("a.txt", strings.NewReader("second"))
	if !errors.Is(err, blob.ErrBlobExists) {
		t.Fatalf("expected ErrBlobExists, got %v", err)
	}

	f, err := s.Open("a.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	data, _ := io.ReadAll(f)
	if string(data) != "first" {
		t.Errorf("existing blob overwritten: %q", data)
	}
}

// TestDeleteIdempotent 删除不存在的 blob 不报错.
func TestDeleteIdempotent(t *testing.T) {
	s := newStore(t)

	if _, err := s.Save("x.bin", strings.NewReader("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.Delete("x.bin"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if s.Exists("x.bin") {
		t.Error("blob still exists after delete")
	}

	if err := s.Delete("x.bin"); err != nil {
		t.Errorf("second Delete should be no-op, got %v", err)
	}
}

// TestUsageSkipsStaged 暂存文件不计入占用，也不出现在名称列表里.
func TestUsageSkipsStaged(t *testing.T) {
	s := newStore(t)

	if _, err := s.Save("a.txt", strings.NewReader("aaaa")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// 模拟一个残留的暂存文件
	staged := filepath.Join(s.Dir(), ".staged-leftover")
	if err := os.WriteFile(staged, []byte("junk"), 0o644); err != nil {
		t.Fatalf("write staged: %v", err)
	}

	usage, err := s.Usage()
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}

	if usage != 4 {
		t.Errorf("usage = %d, want 4", usage)
	}

	names, err := s.Names()
	if err != nil {
		t.Fatalf("Names: %v", err)
	}

	if len(names) != 1 || names[0] != "a.txt" {
		t.Errorf("names = %v, want [a.txt]", names)
	}
}

// TestInvalidNames 路径穿越与暂存前缀一律拒绝.
func TestInvalidNames(t *testing.T) {
	s := newStore(t)

	for _, name := range []string{"", "../evil", "a/b.txt", `a\b.txt`, ".staged-x"} {
		if _, err := s.Save(name, strings.NewReader("x")); !errors.Is(err, blob.ErrInvalidName) {
			t.Errorf("Save(%q): expected ErrInvalidName, got %v", name, err)
		}
	}
}
