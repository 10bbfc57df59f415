package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"evinstallers_backend/platform/config"
)

const sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

// SendGridSender implements the Sender interface via the SendGrid v3 HTTP API.
type SendGridSender struct {
	apiKey    string
	fromName  string
	fromEmail string
	client    *http.Client
}

// NewSendGridSender creates a SendGrid-backed sender.
func NewSendGridSender(cfg config.EmailConfig) *SendGridSender {
	return &SendGridSender{
		apiKey:    cfg.GetSendGridAPIKey(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SendGridSender) Provider() string { return "sendgrid" }

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridRequest struct {
	Personalizations []struct {
		To []sendGridAddress `json:"to"`
	} `json:"personalizations"`
	From    sendGridAddress `json:"from"`
	Subject string          `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func (s *SendGridSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	payload := sendGridRequest{
		From:    sendGridAddress{Email: s.fromEmail, Name: s.fromName},
		Subject: subject,
	}
	payload.Personalizations = []struct {
		To []sendGridAddress `json:"to"`
	}{{To: []sendGridAddress{{Email: toEmail}}}}
	payload.Content = []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{{Type: "text/html", Value: htmlContent}}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendGridEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sendgrid send failed: status %d: %s", resp.StatusCode, string(data))
	}

	return nil
}

func (s *SendGridSender) SendQuoteConfirmationEmail(ctx context.Context, toEmail, name string) error {
	subject, content, err := renderQuoteConfirmation(name)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SendGridSender) SendLeadNotificationEmail(ctx context.Context, toEmail, businessName string, lead LeadSummary) error {
	subject, content, err := renderLeadNotification(businessName, lead)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SendGridSender) SendInstallerWelcomeEmail(ctx context.Context, toEmail, businessName, directoryURL string) error {
	subject, content, err := renderInstallerWelcome(businessName, directoryURL)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SendGridSender) SendFollowUpEmail(ctx context.Context, toEmail, name, quoteURL string) error {
	subject, content, err := renderFollowUp(name, quoteURL)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SendGridSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return s.send(ctx, toEmail, subject, htmlContent)
}
