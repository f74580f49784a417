package core

import "net/mail"

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		// plain text/plain content; the notification emails sent by the
		// platform (approvals, rejections, teaching assignments) are text-only
		Body string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently; delivery is best-effort
		// and must never fail the request that triggered it
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.Body != "" }
