// Package mailer sends plain-text notification mail over SMTP.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// Config holds the SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer delivers messages through a single SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New creates a new Mailer.
func New(cfg Config) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host cannot be empty")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("sender email address cannot be empty")
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}, nil
}

// buildMessage validates the arguments and assembles the message.
// Bodies containing basic HTML tags are sent as text/html.
func (m *Mailer) buildMessage(to []string, subject, body string) (*gomail.Message, error) {
	if len(to) == 0 {
		return nil, fmt.Errorf("recipient email address cannot be empty")
	}
	if subject == "" {
		return nil, fmt.Errorf("email subject cannot be empty")
	}

	contentType := "text/plain"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html"
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody(contentType, body)
	return msg, nil
}

// Send delivers the message. The context is checked before dialing; gomail
// itself does not support cancellation.
func (m *Mailer) Send(ctx context.Context, to []string, subject, body string) error {
	msg, err := m.buildMessage(to, subject, body)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
