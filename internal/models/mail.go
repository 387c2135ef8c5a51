package models

import (
	"time"
)

// MailKind identifies the purpose of an outgoing email
type MailKind string

const (
	MailKindVerification  MailKind = "verification"
	MailKindPasswordReset MailKind = "password_reset"
)

// MailMessage is a queued outgoing email
type MailMessage struct {
	ID       string    `json:"id"`
	Kind     MailKind  `json:"kind"`
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	HTMLBody string    `json:"-"`
	QueuedAt time.Time `json:"queued_at"`
}
