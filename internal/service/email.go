package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
)

type sendgridEmailService struct {
	fromEmail string
	fromName  string
	send      func(ctx context.Context, m *mail.SGMailV3) (*rest.Response, error)
}

// NewEmailService returns a SendGrid sender, or a log-only sender when no API key is configured
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	if apiKey == "" {
		logger.Warn("SendGrid API key not configured, emails will only be logged")
		return &logEmailService{}
	}
	client := sendgrid.NewSendClient(apiKey)
	return &sendgridEmailService{
		fromEmail: fromEmail,
		fromName:  fromName,
		send:      client.SendWithContext,
	}
}

func (s *sendgridEmailService) SendDailyDigest(ctx context.Context, recipients []string, digest DailyDigest) error {
	if len(recipients) == 0 {
		return nil
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(s.fromName, s.fromEmail))
	message.Subject = digest.Subject()

	p := mail.NewPersonalization()
	for _, to := range recipients {
		p.AddTos(mail.NewEmail("", strings.TrimSpace(to)))
	}
	message.AddPersonalizations(p)

	text := digest.PlainText()
	message.AddContent(
		mail.NewContent("text/plain", text),
		mail.NewContent("text/html", "<pre>"+html.EscapeString(text)+"</pre>"),
	)

	logger.ExternalServiceCall(ctx, "sendgrid", "SendDailyDigest", "recipients", len(recipients))
	response, err := s.send(ctx, message)
	if err != nil {
		err = fmt.Errorf("failed to send daily digest: %w", err)
		logger.ExternalServiceResult(ctx, "sendgrid", "SendDailyDigest", err)
		return err
	}
	if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult(ctx, "sendgrid", "SendDailyDigest", err)
		return err
	}
	logger.ExternalServiceResult(ctx, "sendgrid", "SendDailyDigest", nil, "status", response.StatusCode)
	return nil
}

type logEmailService struct{}

func (s *logEmailService) SendDailyDigest(ctx context.Context, recipients []string, digest DailyDigest) error {
	logger.InfoContext(ctx, "Daily digest (not sent)",
		"recipients", recipients,
		"subject", digest.Subject(),
		"starting_today", len(digest.StartingToday),
		"ending_today", len(digest.EndingToday),
		"overdue", len(digest.Overdue))
	return nil
}
