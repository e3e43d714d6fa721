package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"feedbackboard/internal/config"

	"go.uber.org/zap"
)

// Sender delivers sign-in codes.
type Sender interface {
	SendCode(ctx context.Context, to, code string, ttl time.Duration) error
}

// New returns an SMTP sender when SMTP is configured and a logging sender
// otherwise.
func New(cfg *config.Config, logger *zap.Logger) Sender {
	if cfg.SMTPHost == "" || cfg.SMTPFrom == "" {
		logger.Warn("SMTP not configured, sign-in codes will be logged")
		return &LogSender{logger: logger.Sugar()}
	}
	return &SMTPSender{
		addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		from: cfg.SMTPFrom,
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost),
		send: smtp.SendMail,
	}
}

type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (s *SMTPSender) SendCode(_ context.Context, to, code string, ttl time.Duration) error {
	msg := buildMessage(s.from, to, code, ttl)
	if err := s.send(s.addr, s.auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("send sign-in code: %w", err)
	}
	return nil
}

func buildMessage(from, to, code string, ttl time.Duration) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "From: %s\r\n", from)
	b.WriteString("Subject: Your sign-in code\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	fmt.Fprintf(&b, "Your sign-in code is %s.\r\n", code)
	fmt.Fprintf(&b, "It expires in %d minutes.\r\n", int(ttl.Minutes()))
	return []byte(b.String())
}

type LogSender struct {
	logger *zap.SugaredLogger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger.Sugar()}
}

func (l *LogSender) SendCode(_ context.Context, to, code string, ttl time.Duration) error {
	l.logger.Infow("Sign-in code issued", "email", to, "code", code, "expires_in", ttl.String())
	return nil
}
