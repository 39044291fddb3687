package service_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yeisme/swft/pkg/configs"
	ctxPkg "github.com/yeisme/swft/pkg/context"
	"github.com/yeisme/swft/pkg/internal/service"
	"github.com/yeisme/swft/pkg/internal/storage"
	"github.com/yeisme/swft/pkg/internal/storage/blob"
	"github.com/yeisme/swft/pkg/internal/storage/registry"
	"github.com/yeisme/swft/pkg/internal/types"
)

// testEnv 一套落在临时目录上的服务实例，并保留底层存储的直接引用.
type testEnv struct {
	svc   *service.ShareService
	store *blob.Store
	reg   *registry.Registry
}

// newTestEnv 通过 Manager + context 注入构造服务，与运行时同路径.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if err := configs.InitConfig(t.TempDir()); err != nil {
		t.Fatalf("InitConfig: %v", err)
	}

	dir := t.TempDir()

	store, err := blob.NewStore(filepath.Join(dir, "data"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	reg := registry.New(filepath.Join(dir, "registry.json"), []string{"admin", "healthz"})

	mgr := &storage.Manager{Blob: store, Registry: reg}
	ctx := ctxPkg.WithStorageManager(context.Background(), mgr)

	return &testEnv{
		svc:   service.NewShareService(ctx),
		store: store,
		reg:   reg,
	}
}

func ingestReq(name, content string) *types.IngestRequest {
	return &types.IngestRequest{
		FileName: name,
		Body:     strings.NewReader(content),
		Size:     int64(len(content)),
		TTLHours: configs.GetConfig().Share.DefaultTTLHours,
	}
}

// trackingReader 记录请求体是否被读取过.
type trackingReader struct {
	r    io.Reader
	read bool
}

func (tr *trackingReader) Read(p []byte) (int, error) {
	tr.read = true

	return tr.r.Read(p)
}

// TestIngestDefaults 缺省链接使用规范化后的落盘名，过期时间取默认 TTL.
func TestIngestDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	before := time.Now()

	resp, err := env.svc.Ingest(ctx, ingestReq("My File.TXT", "hello"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if resp.Link != "my_file.txt" {
		t.Errorf("link = %q, want %q", resp.Link, "my_file.txt")
	}

	if resp.Size != int64(len("hello")) {
		t.Errorf("size = %d, want %d", resp.Size, len("hello"))
	}

	wantExpiry := before.Add(configs.GetConfig().Share.DefaultTTL())
	if resp.Expiry.Before(wantExpiry.Add(-time.Minute)) || resp.Expiry.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("expiry = %v, want about %v", resp.Expiry, wantExpiry)
	}

	if !env.store.Exists("my_file.txt") {
		t.Error("blob not on disk after ingest")
	}
}

// TestIngestCounterSuffix 同名文件第二次上传得到 _1 后缀.
func TestIngestCounterSuffix(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.svc.Ingest(ctx, ingestReq("report.pdf", "one")); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}

	resp, err := env.svc.Ingest(ctx, ingestReq("report.pdf", "two"))
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}

	if resp.Link != "report_1.pdf" {
		t.Errorf("second link = %q, want %q", resp.Link, "report_1.pdf")
	}
}

// TestIngestCustomLink 自定义链接被规范化后注册.
func TestIngestCustomLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := ingestReq("a.txt", "data")
	req.Link = "My Cool Link!"

	resp, err := env.svc.Ingest(ctx, req)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if resp.Link != "my_cool_link_" {
		t.Errorf("link = %q, want %q", resp.Link, "my_cool_link_")
	}
}

// TestIngestLinkTaken 链接冲突在读请求体之前就被拒绝，磁盘不留痕迹.
func TestIngestLinkTaken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req1 := ingestReq("a.txt", "first")
	req1.Link = "demo"

	if _, err := env.svc.Ingest(ctx, req1); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}

	body := &trackingReader{r: strings.NewReader("second")}
	req2 := &types.IngestRequest{
		FileName: "a.txt",
		Body:     body,
		Size:     int64(len("second")),
		Link:     "demo",
		TTLHours: configs.GetConfig().Share.DefaultTTLHours,
	}

	if _, err := env.svc.Ingest(ctx, req2); !errors.Is(err, service.ErrLinkTaken) {
		t.Fatalf("expected ErrLinkTaken, got %v", err)
	}

	if body.read {
		t.Error("request body consumed before link validation")
	}

	if env.store.Exists("a_1.txt") {
		t.Error("blob written for rejected ingest")
	}
}

// TestIngestReservedLink 保留字在读请求体之前就被拒绝.
func TestIngestReservedLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	body := &trackingReader{r: strings.NewReader("data")}
	req := &types.IngestRequest{
		FileName: "a.txt",
		Body:     body,
		Size:     4,
		Link:     "admin",
		TTLHours: configs.GetConfig().Share.DefaultTTLHours,
	}

	if _, err := env.svc.Ingest(ctx, req); !errors.Is(err, service.ErrLinkTaken) {
		t.Errorf("expected ErrLinkTaken for reserved link, got %v", err)
	}

	if body.read {
		t.Error("request body consumed before reserved-link validation")
	}

	names, err := env.store.Names()
	if err != nil {
		t.Fatalf("Names: %v", err)
	}

	if len(names) != 0 {
		t.Errorf("data dir not empty after rejected ingest: %v", names)
	}
}

// TestIngestInvalidTTL 负的保留时长被拒绝.
func TestIngestInvalidTTL(t *testing.T) {
	env := newTestEnv(t)

	req := ingestReq("a.txt", "data")
	req.TTLHours = -1

	if _, err := env.svc.Ingest(context.Background(), req); !errors.Is(err, service.ErrInvalidTTL) {
		t.Errorf("expected ErrInvalidTTL, got %v", err)
	}
}

// TestIngestTTLClamped 超过上限的保留时长被夹取.
func TestIngestTTLClamped(t *testing.T) {
	env := newTestEnv(t)

	req := ingestReq("a.txt", "data")
	req.TTLHours = 100000

	resp, err := env.svc.Ingest(context.Background(), req)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	max := time.Now().Add(configs.GetConfig().Share.MaxTTL()).Add(time.Minute)
	if resp.Expiry.After(max) {
		t.Errorf("expiry %v exceeds clamped max %v", resp.Expiry, max)
	}
}

// TestIngestQuota 单文件超限与目录容量超限分别报错.
func TestIngestQuota(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cfg := configs.GetConfig()
	cfg.Store.MaxUploadMB = 1
	cfg.Store.CapacityMB = 1

	big := strings.Repeat("x", 2*1024*1024)

	req := ingestReq("big.bin", big)
	if _, err := env.svc.Ingest(ctx, req); !errors.Is(err, service.ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}

	// 两个 0.7MB 的文件：第一个进得去，第二个撞容量
	small := strings.Repeat("y", 700*1024)
	if _, err := env.svc.Ingest(ctx, ingestReq("a.bin", small)); err != nil {
		t.Fatalf("first small Ingest: %v", err)
	}

	if _, err := env.svc.Ingest(ctx, ingestReq("b.bin", small)); !errors.Is(err, service.ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
}

// TestIngestQuotaBoundary 恰好填满容量的文件被接纳，再多一个字节就被拒绝.
func TestIngestQuotaBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cfg := configs.GetConfig()
	cfg.Store.MaxUploadMB = 2
	cfg.Store.CapacityMB = 1

	capacity := int(cfg.Store.CapacityBytes())

	// usage = 0，size = C：usage + size == C，不超限
	exact := strings.Repeat("x", capacity)
	if _, err := env.svc.Ingest(ctx, ingestReq("exact.bin", exact)); err != nil {
		t.Fatalf("exact-fit Ingest: %v", err)
	}

	// usage = C，size = 1：usage + size == C + 1，超限
	if _, err := env.svc.Ingest(ctx, ingestReq("one.bin", "x")); !errors.Is(err, service.ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded one byte over capacity, got %v", err)
	}

	// 空目录下 C + 1 字节同样被拒
	env2 := newTestEnv(t)
	cfg2 := configs.GetConfig()
	cfg2.Store.MaxUploadMB = 2
	cfg2.Store.CapacityMB = 1

	over := strings.Repeat("x", capacity+1)
	if _, err := env2.svc.Ingest(ctx, ingestReq("over.bin", over)); !errors.Is(err, service.ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded for C+1 bytes, got %v", err)
	}
}

// TestRetrieve 取回内容一致，大小写不同的链接也可命中.
func TestRetrieve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := ingestReq("pic.png", "pngbytes")
	req.Link = "mypic"

	if _, err := env.svc.Ingest(ctx, req); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	rec, f, err := env.svc.Retrieve(ctx, "MyPic", "127.0.0.1")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	defer f.Close()

	data, _ := io.ReadAll(f)
	if string(data) != "pngbytes" {
		t.Errorf("content = %q, want %q", data, "pngbytes")
	}

	if !service.InlineDisposition(rec.StorageName) {
		t.Errorf("%s should be inline", rec.StorageName)
	}

	if _, _, err := env.svc.Retrieve(ctx, "missing", ""); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
