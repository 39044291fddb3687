package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yeisme/swft/pkg/internal/model"
	"github.com/yeisme/swft/pkg/internal/service"
	"github.com/yeisme/swft/pkg/internal/storage/registry"
)

// seedRecord 直接在注册表与 blob 里放置一条记录，绕过摄入管线.
func seedRecord(t *testing.T, env *testEnv, link string, ttl time.Duration, withBlob bool) {
	t.Helper()

	name := link + ".txt"

	if withBlob {
		if _, err := env.store.Save(name, strings.NewReader("data")); err != nil {
			t.Fatalf("seed blob: %v", err)
		}
	}

	now := time.Now()

	err := env.reg.Register(model.FileRecord{
		Link:             link,
		StorageName:      name,
		OriginalFilename: name,
		SizeBytes:        4,
		CreatedAt:        now.Add(-time.Hour),
		ExpiresAt:        now.Add(ttl),
	})
	if err != nil {
		t.Fatalf("seed register: %v", err)
	}
}

// TestReapExpired 过期记录的 blob 与条目一起被清掉，未过期的保留.
func TestReapExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seedRecord(t, env, "old", -time.Minute, true)
	seedRecord(t, env, "fresh", time.Hour, true)

	stats, err := env.svc.Reap(ctx)
	if err != nil {
		t.Fatalf("Reap: %v", err)
	}

	if stats.Expired != 1 {
		t.Errorf("expired = %d, want 1", stats.Expired)
	}

	if env.store.Exists("old.txt") {
		t.Error("expired blob still on disk")
	}

	if _, err := env.reg.Lookup("old"); !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("expired entry still registered: %v", err)
	}

	if _, err := env.reg.Lookup("fresh"); err != nil {
		t.Errorf("fresh entry should survive: %v", err)
	}

	if !env.store.Exists("fresh.txt") {
		t.Error("fresh blob removed by mistake")
	}
}

// TestReapOrphaned blob 缺失的记录被丢弃.
func TestReapOrphaned(t *testing.T) {
	env := newTestEnv(t)

	seedRecord(t, env, "ghost", time.Hour, false)

	stats, err := env.svc.Reap(context.Background())
	if err != nil {
		t.Fatalf("Reap: %v", err)
	}

	if stats.Orphaned != 1 {
		t.Errorf("orphaned = %d, want 1", stats.Orphaned)
	}

	if _, err := env.reg.Lookup("ghost"); !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("orphaned entry still registered: %v", err)
	}
}

// TestReapUntracked 无记录的 blob 只统计，不删除.
func TestReapUntracked(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.store.Save("stray.txt", strings.NewReader("stray")); err != nil {
		t.Fatalf("seed stray blob: %v", err)
	}

	stats, err := env.svc.Reap(context.Background())
	if err != nil {
		t.Fatalf("Reap: %v", err)
	}

	if stats.Untracked != 1 {
		t.Errorf("untracked = %d, want 1", stats.Untracked)
	}

	if !env.store.Exists("stray.txt") {
		t.Error("untracked blob must never be deleted")
	}
}

// TestDeleteShare 管理删除与清扫同序：blob 先走，条目随后.
func TestDeleteShare(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seedRecord(t, env, "victim", time.Hour, true)

	if err := env.svc.DeleteShare(ctx, "Victim", "admin"); err != nil {
		t.Fatalf("DeleteShare: %v", err)
	}

	if env.store.Exists("victim.txt") {
		t.Error("blob still on disk after admin delete")
	}

	if _, err := env.reg.Lookup("victim"); !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("entry still registered: %v", err)
	}

	if err := env.svc.DeleteShare(ctx, "victim", "admin"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("second delete should report ErrNotFound, got %v", err)
	}
}
