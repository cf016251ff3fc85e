package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/dashtam/core/internal/infrastructure/jobs/tasks"
)

// SMTPConfig holds the outbound mail server configuration.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// SMTPSender implements tasks.AuthEmailSender over plain SMTP with
// PLAIN auth. It renders a short plain-text body per AuthEmailKind; no
// HTML templating, matching the minimal single-message-per-kind shape
// of AuthEmailPayload.
type SMTPSender struct {
	cfg  SMTPConfig
	auth smtp.Auth
}

// NewSMTPSender creates an SMTPSender. auth is omitted (nil) when cfg.User
// is empty, for talking to local/relay servers that don't require it.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}
	return &SMTPSender{cfg: cfg, auth: auth}
}

// Send implements tasks.AuthEmailSender.
func (s *SMTPSender) Send(ctx context.Context, payload tasks.AuthEmailPayload) error {
	subject, body := render(payload)

	msg := strings.Builder{}
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", payload.To))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	return smtp.SendMail(addr, s.auth, s.cfg.From, []string{payload.To}, []byte(msg.String()))
}

func render(payload tasks.AuthEmailPayload) (subject, body string) {
	switch payload.Kind {
	case tasks.AuthEmailWelcome:
		return "Verify your email", fmt.Sprintf("Welcome. Verify your account with this token: %s", payload.Token)
	case tasks.AuthEmailPasswordChanged:
		return "Your password was changed", "Your password was just changed. If this wasn't you, reset your password immediately."
	case tasks.AuthEmailPasswordReset:
		return "Reset your password", fmt.Sprintf("Use this token to reset your password: %s", payload.Token)
	case tasks.AuthEmailPasswordResetted:
		return "Your password was reset", "Your password was just reset. If this wasn't you, contact support immediately."
	default:
		return "Account notification", "An account event occurred on your account."
	}
}
