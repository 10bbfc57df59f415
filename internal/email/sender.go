// Package email renders and delivers transactional emails for the lead
// pipeline and installer outreach.
package email

import (
	"context"

	"evinstallers_backend/platform/config"
)

// Template identifiers recorded in email_logs.
const (
	TemplateQuoteConfirmation = "quote_confirmation"
	TemplateLeadNotification  = "lead_notification"
	TemplateInstallerWelcome  = "installer_welcome"
	TemplateFollowUp          = "follow_up"
)

// LeadSummary carries the lead fields rendered into installer notifications.
type LeadSummary struct {
	Name         string
	Phone        string
	City         string
	State        string
	ZipCode      string
	Timeline     string
	PropertyType string
	ChargerType  string
	PanelUpgrade bool
}

type Sender interface {
	SendQuoteConfirmationEmail(ctx context.Context, toEmail, name string) error
	SendLeadNotificationEmail(ctx context.Context, toEmail, businessName string, lead LeadSummary) error
	SendInstallerWelcomeEmail(ctx context.Context, toEmail, businessName, directoryURL string) error
	SendFollowUpEmail(ctx context.Context, toEmail, name, quoteURL string) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
	// Provider identifies the delivery backend for notification records.
	Provider() string
}

type NoopSender struct{}

func (NoopSender) SendQuoteConfirmationEmail(ctx context.Context, toEmail, name string) error {
	return nil
}

func (NoopSender) SendLeadNotificationEmail(ctx context.Context, toEmail, businessName string, lead LeadSummary) error {
	return nil
}

func (NoopSender) SendInstallerWelcomeEmail(ctx context.Context, toEmail, businessName, directoryURL string) error {
	return nil
}

func (NoopSender) SendFollowUpEmail(ctx context.Context, toEmail, name, quoteURL string) error {
	return nil
}

func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}

func (NoopSender) Provider() string { return "noop" }

// NewSender picks the delivery backend from configuration: SendGrid when an
// API key is present, direct SMTP when a host is configured, otherwise a
// no-op sender so the rest of the pipeline keeps working in development.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	if cfg.GetSendGridAPIKey() != "" {
		return NewSendGridSender(cfg), nil
	}

	if cfg.GetSMTPHost() != "" {
		return NewSMTPSender(
			cfg.GetSMTPHost(),
			cfg.GetSMTPPort(),
			cfg.GetSMTPUser(),
			cfg.GetSMTPPass(),
			cfg.GetEmailFromAddress(),
			cfg.GetEmailFromName(),
		), nil
	}

	return NoopSender{}, nil
}
