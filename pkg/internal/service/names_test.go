package service_test

import (
	"testing"

	"github.com/yeisme/swft/pkg/internal/service"
)

// TestSanitizeToken 小写、空白与特殊字符折叠为下划线.
func TestSanitizeToken(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Hello World", "hello_world"},
		{"  trimmed  ", "trimmed"},
		{"My-File (1)", "my_file__1_"},
		{"already_ok", "already_ok"},
		{"数据", "__"},
		{"", ""},
	}

	for _, c := range cases {
		if got := service.SanitizeToken(c.in); got != c.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// TestSanitizeFilename 主干被规范化，扩展名分隔符保留.
func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"My Report.PDF", "my_report.pdf"},
		{"weird..name.txt", "weird__name.txt"},
		{"no_ext", "no_ext"},
		{"/etc/passwd", "passwd"},
		{"evil.t/xt", "xt"},
	}

	for _, c := range cases {
		if got := service.SanitizeFilename(c.in); got != c.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// TestAllocateName 基础名可用时直接用，占用时追加递增计数器.
func TestAllocateName(t *testing.T) {
	taken := map[string]bool{
		"report.pdf":   true,
		"report_1.pdf": true,
	}

	got, err := service.AllocateName("Report.pdf", func(n string) bool { return taken[n] })
	if err != nil {
		t.Fatalf("AllocateName: %v", err)
	}

	if got != "report_2.pdf" {
		t.Errorf("AllocateName = %q, want %q", got, "report_2.pdf")
	}

	got, err = service.AllocateName("fresh.txt", func(string) bool { return false })
	if err != nil {
		t.Fatalf("AllocateName: %v", err)
	}

	if got != "fresh.txt" {
		t.Errorf("AllocateName = %q, want %q", got, "fresh.txt")
	}
}

// TestInlineDisposition 图片扩展名内联，其余附件下载.
func TestInlineDisposition(t *testing.T) {
	for _, name := range []string{"cat.png", "photo.JPG", "anim.gif", "icon.svg"} {
		if !service.InlineDisposition(name) {
			t.Errorf("%s should be inline", name)
		}
	}

	for _, name := range []string{"doc.pdf", "archive.zip", "script.sh", "noext"} {
		if service.InlineDisposition(name) {
			t.Errorf("%s should be attachment", name)
		}
	}
}
