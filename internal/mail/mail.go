package mail

import (
	"context"
	"fmt"
	"html"

	"github.com/notepath-api/internal/config"
	"github.com/notepath-api/internal/models"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Sender delivers a single email
type Sender interface {
	Send(ctx context.Context, msg models.MailMessage) error
}

// NewSender returns an SMTP sender, or a logging sender when no SMTP host is configured
func NewSender(cfg *config.MailConfig, log zerolog.Logger) Sender {
	if cfg.Host == "" {
		log.Warn().Msg("SMTP_HOST not set, outgoing mail will only be logged")
		return &LogSender{log: log.With().Str("component", "mail").Logger()}
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SMTPSender sends mail through an SMTP relay
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// Send dials the relay and delivers msg
func (s *SMTPSender) Send(ctx context.Context, msg models.MailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %s mail: %w", msg.Kind, err)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them (development)
type LogSender struct {
	log zerolog.Logger
}

// Send logs msg
func (s *LogSender) Send(ctx context.Context, msg models.MailMessage) error {
	s.log.Info().
		Str("kind", string(msg.Kind)).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.HTMLBody).
		Msg("Mail not sent (no SMTP host)")
	return nil
}

// VerificationMessage builds the sign-up confirmation email
func VerificationMessage(to, code string) models.MailMessage {
	return models.MailMessage{
		Kind:     models.MailKindVerification,
		To:       to,
		Subject:  "Your NotePath verification code",
		HTMLBody: "Hello,<br>Your verification code is: <b>" + html.EscapeString(code) + "</b>",
	}
}

// PasswordResetMessage builds the password reset email
func PasswordResetMessage(to, code string) models.MailMessage {
	return models.MailMessage{
		Kind:    models.MailKindPasswordReset,
		To:      to,
		Subject: "Reset your NotePath password",
		HTMLBody: "Hello,<br>Use this code to reset your password: <b>" + html.EscapeString(code) +
			"</b><br>If you did not ask for a reset you can ignore this email.",
	}
}
