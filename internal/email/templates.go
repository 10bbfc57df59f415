package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type quoteConfirmationEmailData struct {
	baseEmailData
	Name string
}

type leadNotificationEmailData struct {
	baseEmailData
	BusinessName string
	Lead         LeadSummary
	PanelLabel   string
}

type installerWelcomeEmailData struct {
	baseEmailData
	BusinessName string
}

type followUpEmailData struct {
	baseEmailData
	Name string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderQuoteConfirmation(name string) (subject, content string, err error) {
	content, err = renderEmailTemplate("quote_confirmation.html", quoteConfirmationEmailData{
		baseEmailData: baseEmailData{
			Title:      "Quote request received",
			Heading:    "Thanks for your request!",
			Subheading: "Licensed installers in your area will reach out with quotes.",
		},
		Name: name,
	})
	return subjectQuoteConfirmation, content, err
}

func renderLeadNotification(businessName string, lead LeadSummary) (subject, content string, err error) {
	subject = fmt.Sprintf(subjectLeadNotificationFmt, lead.City, lead.State)
	content, err = renderEmailTemplate("lead_notification.html", leadNotificationEmailData{
		baseEmailData: baseEmailData{
			Title:   "New lead",
			Heading: "A homeowner near you wants an EV charger installed",
		},
		BusinessName: businessName,
		Lead:         lead,
		PanelLabel:   panelUpgradeLabel(lead.PanelUpgrade),
	})
	return subject, content, err
}

func renderInstallerWelcome(businessName, directoryURL string) (subject, content string, err error) {
	content, err = renderEmailTemplate("installer_welcome.html", installerWelcomeEmailData{
		baseEmailData: baseEmailData{
			Title:    "Join EV Installers USA",
			Heading:  "Homeowners in your area are looking for you",
			CTALabel: "Claim your listing",
			CTAURL:   directoryURL,
		},
		BusinessName: businessName,
	})
	return subjectInstallerWelcome, content, err
}

func renderFollowUp(name, quoteURL string) (subject, content string, err error) {
	content, err = renderEmailTemplate("follow_up.html", followUpEmailData{
		baseEmailData: baseEmailData{
			Title:    "Checking in",
			Heading:  "How is your charger project going?",
			CTALabel: "Get fresh quotes",
			CTAURL:   quoteURL,
		},
		Name: name,
	})
	return subjectFollowUp, content, err
}

func panelUpgradeLabel(needed bool) string {
	if needed {
		return "Yes, panel upgrade may be needed"
	}
	return "No panel upgrade expected"
}
