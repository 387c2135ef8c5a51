package mail

import (
	"context"
	"strings"
	"testing"

	"github.com/notepath-api/internal/config"
	"github.com/notepath-api/internal/models"
	"github.com/rs/zerolog"
)

func TestNewSender(t *testing.T) {
	if _, ok := NewSender(&config.MailConfig{}, zerolog.Nop()).(*LogSender); !ok {
		t.Error("Expected LogSender without SMTP host")
	}
	if _, ok := NewSender(&config.MailConfig{Host: "smtp.example.com", Port: 587}, zerolog.Nop()).(*SMTPSender); !ok {
		t.Error("Expected SMTPSender with SMTP host")
	}
}

func TestMessages(t *testing.T) {
	msg := VerificationMessage("reader@example.com", "123456")
	if msg.Kind != models.MailKindVerification || msg.To != "reader@example.com" {
		t.Errorf("unexpected verification message: %+v", msg)
	}
	if !strings.Contains(msg.HTMLBody, "<b>123456</b>") {
		t.Errorf("Expected code in body, got %s", msg.HTMLBody)
	}

	reset := PasswordResetMessage("reader@example.com", "654321")
	if reset.Kind != models.MailKindPasswordReset || !strings.Contains(reset.HTMLBody, "654321") {
		t.Errorf("unexpected reset message: %+v", reset)
	}
}

func TestLogSender(t *testing.T) {
	s := &LogSender{log: zerolog.Nop()}
	if err := s.Send(context.Background(), VerificationMessage("a@b.co", "000000")); err != nil {
		t.Errorf("LogSender.Send failed: %v", err)
	}
}
