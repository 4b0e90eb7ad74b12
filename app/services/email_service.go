// Package services provides external service integrations and technical concerns like email and tokens
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/resend/resend-go/v2"
)

// EmailService sends transactional email to a single recipient. Implementations
// must be safe for concurrent use.
type EmailService interface {
	Send(ctx context.Context, to, subject, html string) (messageID string, err error)
}

// ResendEmailService delivers email through the Resend API
type ResendEmailService struct {
	client   *resend.Client
	from     string
	fromName string
	timeout  time.Duration
}

// NewResendEmailService creates a Resend-backed email service. A timeout of
// zero disables the per-send deadline.
func NewResendEmailService(apiKey, fromEmail, fromName string, timeout time.Duration) *ResendEmailService {
	return &ResendEmailService{
		client:   resend.NewClient(apiKey),
		from:     fromEmail,
		fromName: fromName,
		timeout:  timeout,
	}
}

func (s *ResendEmailService) Send(ctx context.Context, to, subject, html string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	from := s.from
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.from)
	}

	res, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return res.Id, nil
}

// SentEmail records one call to MockEmailService.Send
type SentEmail struct {
	To      string
	Subject string
	HTML    string
}

// MockEmailService is an in-memory EmailService for tests and local development
type MockEmailService struct {
	mu      sync.Mutex
	sent    []SentEmail
	FailFor map[string]bool // recipients whose sends should fail
}

func NewMockEmailService() *MockEmailService {
	return &MockEmailService{FailFor: make(map[string]bool)}
}

func (m *MockEmailService) Send(ctx context.Context, to, subject, html string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailFor[to] {
		return "", fmt.Errorf("mock email failure for %s", to)
	}

	m.sent = append(m.sent, SentEmail{To: to, Subject: subject, HTML: html})
	return fmt.Sprintf("mock-%d", len(m.sent)), nil
}

// Sent returns a copy of the recorded sends
func (m *MockEmailService) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}
