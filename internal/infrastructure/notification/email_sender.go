package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/shop/backend/internal/domain/shared"
)

// EmailConfig holds SMTP delivery settings
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// EmailSender delivers order notifications over SMTP
type EmailSender struct {
	config EmailConfig
	// send is swapped in tests
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailSender creates an SMTP-backed sender
func NewEmailSender(config EmailConfig) *EmailSender {
	return &EmailSender{
		config: config,
		send:   smtp.SendMail,
	}
}

// Name identifies the channel in logs
func (s *EmailSender) Name() string {
	return "email"
}

// Send delivers a plain-text message to the configured recipient
func (s *EmailSender) Send(ctx context.Context, subject, body string) error {
	if s.config.Host == "" || s.config.From == "" || s.config.To == "" {
		return fmt.Errorf("%w: smtp host, from and to are required", shared.ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	msg := buildMessage(s.config.From, s.config.To, subject, body)

	if err := s.send(addr, auth, s.config.From, []string{s.config.To}, msg); err != nil {
		return fmt.Errorf("email: failed to send via %s: %w", addr, err)
	}
	return nil
}

// buildMessage assembles an RFC 5322 plain-text message
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
