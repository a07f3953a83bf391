// Package mail delivers plain-text notifications.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Sender delivers one message. Callers treat failures as best effort.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Settings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender sends mail over SMTP with STARTTLS when the server offers it.
type SMTPSender struct {
	dialer   dialer
	from     string
	fromName string
}

func NewSMTPSender(s Settings) (*SMTPSender, error) {
	if strings.TrimSpace(s.Host) == "" {
		return nil, errors.New("smtp host is required")
	}
	if strings.TrimSpace(s.From) == "" {
		return nil, errors.New("sender address is required")
	}
	if s.Port == 0 {
		s.Port = 587
	}

	return &SMTPSender{
		dialer:   gomail.NewDialer(s.Host, s.Port, s.Username, s.Password),
		from:     s.From,
		fromName: s.FromName,
	}, nil
}

func (s *SMTPSender) Send(_ context.Context, to, subject, body string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("recipient is required")
	}

	m := gomail.NewMessage()
	if s.fromName != "" {
		m.SetAddressHeader("From", s.from, s.fromName)
	} else {
		m.SetHeader("From", s.from)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}

// LogSender only logs messages. It is used when mail delivery is disabled.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(_ context.Context, to, subject, _ string) error {
	if s.Logger != nil {
		s.Logger.Info("mail delivery disabled, skipping message", zap.String("to", to), zap.String("subject", subject))
	}
	return nil
}
