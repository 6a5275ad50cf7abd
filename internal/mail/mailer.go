// Package mail renders and delivers the portal's transactional email.
package mail

import (
	"context"
	"errors"
	"strings"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("mail delivery not configured")

type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ResendMailer delivers through the Resend API.
type ResendMailer struct {
	client *resend.Client
	logger *zap.Logger
}

// NewMailer returns a Resend mailer, or one that refuses every send when no
// API key is configured.
func NewMailer(apiKey string, logger *zap.Logger) Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		logger.Warn("RESEND_API_KEY not set, outgoing mail disabled")
		return disabledMailer{}
	}
	return &ResendMailer{client: resend.NewClient(apiKey), logger: logger}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	req := &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if msg.ReplyTo != "" {
		req.ReplyTo = msg.ReplyTo
	}

	sent, err := m.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return err
	}
	m.logger.Debug("mail sent", zap.String("id", sent.Id), zap.String("subject", msg.Subject))
	return nil
}

type disabledMailer struct{}

func (disabledMailer) Send(context.Context, Message) error {
	return ErrNotConfigured
}
