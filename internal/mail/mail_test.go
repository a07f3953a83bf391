package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	gomail "gopkg.in/gomail.v2"
)

type recordingDialer struct {
	messages []*gomail.Message
	err      error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.messages = append(d.messages, m...)
	return d.err
}

func TestSMTPSenderBuildsMessage(t *testing.T) {
	d := &recordingDialer{}
	s := &SMTPSender{dialer: d, from: "hr@example.com", fromName: "Hiring Team"}

	if err := s.Send(context.Background(), " jane@example.com ", "Shortlisted", "Hello Jane"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(d.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(d.messages))
	}

	m := d.messages[0]
	if got := m.GetHeader("To"); len(got) != 1 || got[0] != "jane@example.com" {
		t.Fatalf("unexpected recipient: %v", got)
	}
	if got := m.GetHeader("Subject"); len(got) != 1 || got[0] != "Shortlisted" {
		t.Fatalf("unexpected subject: %v", got)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("rendering message: %v", err)
	}
	if !strings.Contains(buf.String(), "Hello Jane") || !strings.Contains(buf.String(), "Hiring Team") {
		t.Fatalf("unexpected message:\n%s", buf.String())
	}
}

func TestSMTPSenderErrors(t *testing.T) {
	s := &SMTPSender{dialer: &recordingDialer{err: errors.New("auth failed")}, from: "hr@example.com"}

	if err := s.Send(context.Background(), "jane@example.com", "s", "b"); err == nil {
		t.Fatal("expected dial error")
	}
	if err := s.Send(context.Background(), "  ", "s", "b"); err == nil {
		t.Fatal("expected missing recipient error")
	}
}

func TestNewSMTPSenderValidates(t *testing.T) {
	if _, err := NewSMTPSender(Settings{From: "hr@example.com"}); err == nil {
		t.Fatal("expected missing host error")
	}
	if _, err := NewSMTPSender(Settings{Host: "smtp.example.com"}); err == nil {
		t.Fatal("expected missing sender error")
	}
	if _, err := NewSMTPSender(Settings{Host: "smtp.example.com", From: "hr@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
