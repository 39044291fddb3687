package model_test

import (
	"testing"
	"time"

	"github.com/yeisme/swft/pkg/internal/model"
)

// TestExpired 到期时刻本身视为已过期.
func TestExpired(t *testing.T) {
	now := time.Now()
	rec := model.FileRecord{ExpiresAt: now}

	if !rec.Expired(now) {
		t.Error("record expiring exactly now should be expired")
	}

	if rec.Expired(now.Add(-time.Second)) {
		t.Error("record should not be expired before its deadline")
	}

	if !rec.Expired(now.Add(time.Second)) {
		t.Error("record should be expired after its deadline")
	}
}

// TestTTL 剩余时长在过期后为负.
func TestTTL(t *testing.T) {
	now := time.Now()
	rec := model.FileRecord{ExpiresAt: now.Add(time.Hour)}

	if got := rec.TTL(now); got != time.Hour {
		t.Errorf("TTL = %v, want %v", got, time.Hour)
	}

	if got := rec.TTL(now.Add(2 * time.Hour)); got >= 0 {
		t.Errorf("TTL after expiry should be negative, got %v", got)
	}
}
