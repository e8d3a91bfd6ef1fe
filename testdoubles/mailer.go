package testdoubles

import (
	"context"
	"sync"
	"testing"

	"github.com/zeroprod/newsletter/types"
)

type SentEmail struct {
	Recipient string
	Subject   string
	HtmlBody  string
	TextBody  string
}

// Mailer records every email.Mailer.SendEmail call.
type Mailer struct {
	mu              sync.Mutex
	Sent            []*SentEmail
	RecipientErrors map[string]error
}

func NewMailer() *Mailer {
	return &Mailer{
		Sent:            make([]*SentEmail, 0, 10),
		RecipientErrors: make(map[string]error, 10),
	}
}

func (m *Mailer) SendEmail(
	_ context.Context,
	recipient types.SubscriberEmail,
	subject, htmlBody, textBody string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.RecipientErrors[recipient.String()]; err != nil {
		return err
	}
	m.Sent = append(m.Sent, &SentEmail{
		recipient.String(), subject, htmlBody, textBody,
	})
	return nil
}

func (m *Mailer) GetMessageTo(t *testing.T, recipient string) *SentEmail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sent := range m.Sent {
		if sent.Recipient == recipient {
			return sent
		}
	}
	t.Fatalf("did not receive a message to %s", recipient)
	return nil
}

func (m *Mailer) AssertNoMessageSent(t *testing.T) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Sent) != 0 {
		t.Fatalf("expected no messages, got: %+v", m.Sent)
	}
}
