package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/yeisme/swft/pkg/configs"
	"github.com/yeisme/swft/pkg/internal/model"
	nlog "github.com/yeisme/swft/pkg/log"
	"github.com/yeisme/swft/pkg/rule"
)

// Notifier 上传成功后的邮件通知. 通知是尽力而为的：
// 失败只记日志，永远不影响上传结果.
type Notifier interface {
	Notify(ctx context.Context, email string, rec model.FileRecord, shareURL string) error
}

// noopNotifier SMTP 未启用时的空实现.
type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string, model.FileRecord, string) error { return nil }

// smtpNotifier 通过 net/smtp 发送通知，外层套熔断器：
// SMTP 服务器持续失败时快速放弃，避免每次上传都等一次完整超时.
type smtpNotifier struct {
	cfg     configs.SMTPConfig
	breaker *gobreaker.CircuitBreaker
}

var (
	notifierOnce sync.Once
	notifierInst Notifier
)

// defaultNotifier 按全局配置构造通知器（单例）.
func defaultNotifier() Notifier {
	notifierOnce.Do(func() {
		cfg := configs.GetConfig().SMTP
		if !cfg.Enabled || cfg.Server == "" {
			notifierInst = noopNotifier{}

			return
		}

		cbCfg := configs.GetConfig().CircuitBreaker
		settings := gobreaker.Settings{
			Name:        "smtp-notify",
			MaxRequests: cbCfg.MaxRequestsInHalf,
			Interval:    time.Duration(cbCfg.IntervalSeconds) * time.Second,
			Timeout:     time.Duration(cbCfg.TimeoutSeconds) * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < cbCfg.MinRequests {
					return false
				}

				return float64(counts.TotalFailures)/float64(counts.Requests) >= cbCfg.FailureRate
			},
		}

		notifierInst = &smtpNotifier{cfg: cfg, breaker: gobreaker.NewCircuitBreaker(settings)}
	})

	return notifierInst
}

// Notify 同步发送一封通知邮件.
func (n *smtpNotifier) Notify(ctx context.Context, email string, rec model.FileRecord, shareURL string) error {
	_, err := n.breaker.Execute(func() (any, error) {
		return nil, n.send(email, rec, shareURL)
	})

	return err
}

// send 组装并发送 RFC 5322 格式邮件.
func (n *smtpNotifier) send(email string, rec model.FileRecord, shareURL string) error {
	from := n.cfg.From
	if from == "" {
		from = n.cfg.Username
	}

	hours := rec.ExpiresAt.Sub(rec.CreatedAt).Hours()

	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", email)
	fmt.Fprintf(&b, "Subject: Your file %s is ready\r\n", rec.OriginalFilename)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Your file is available at %s\r\n", shareURL)
	fmt.Fprintf(&b, "It will be deleted after %.1f hours.\r\n", hours)

	addr := fmt.Sprintf("%s:%d", n.cfg.Server, n.cfg.Port)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Server)
	}

	if err := smtp.SendMail(addr, auth, from, []string{email}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}

	return nil
}

// notifyAsync 异步触发通知. 无效邮箱直接忽略.
func (s *ShareService) notifyAsync(email string, rec model.FileRecord, shareURL string) {
	if email == "" || s.notifier == nil {
		return
	}

	if !rule.ValidEmail(email) {
		nlog.Logger().Debug().Str("link", rec.Link).Msg("skip notify: invalid email")

		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.notifier.Notify(ctx, email, rec, shareURL); err != nil {
			nlog.Logger().Warn().Err(err).Str("link", rec.Link).Msg("email notify failed")
		}
	}()
}
