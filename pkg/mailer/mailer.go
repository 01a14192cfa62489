package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ikkim/bookshelf-backend/config"
	"github.com/ikkim/bookshelf-backend/pkg/logger"
)

const passwordResetSubject = "Reset your Bookshelf password"

// Sender delivers account notifications. Implementations must be safe for
// concurrent use.
type Sender interface {
	SendPasswordReset(ctx context.Context, to, resetLink string) error
}

// NewSender returns an SMTP sender when credentials are configured and a
// log-only sender otherwise.
func NewSender(cfg config.MailConfig) Sender {
	if !cfg.Enabled() {
		logger.Warn("SMTP credentials not configured, password reset links will only be logged")
		return NewLogSender()
	}
	return NewSMTPSender(cfg)
}

// sendMailFunc matches smtp.SendMail so tests can capture outgoing messages.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPSender struct {
	cfg      config.MailConfig
	sendMail sendMailFunc
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPSender{
		cfg:      cfg,
		sendMail: smtp.SendMail,
	}
}

func (s *SMTPSender) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := buildPasswordResetMessage(s.cfg.From, to, resetLink)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if err := s.sendMail(s.cfg.Host+":"+s.cfg.Port, auth, s.cfg.From, []string{to}, message); err != nil {
		logger.Error("Failed to send password reset email", err, map[string]interface{}{
			"to":   to,
			"host": s.cfg.Host,
		})
		return fmt.Errorf("send password reset email: %w", err)
	}

	logger.Info("Password reset email sent", map[string]interface{}{
		"to": to,
	})
	return nil
}

// LogSender writes the reset link to the application log instead of mailing it.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (LogSender) SendPasswordReset(_ context.Context, to, resetLink string) error {
	logger.Info("[DEV MODE] Password reset link", map[string]interface{}{
		"to":         to,
		"reset_link": resetLink,
	})
	return nil
}

func buildPasswordResetMessage(from, to, resetLink string) []byte {
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<h1>Password reset</h1>
	<p>We received a request to reset the password for your account.</p>
	<p><a href="%s">Click here to choose a new password</a></p>
	<p>This link is valid for one hour and can be used once.</p>
	<p>If you did not request a reset, you can ignore this email.</p>
</body>
</html>
`, resetLink)

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + passwordResetSubject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
