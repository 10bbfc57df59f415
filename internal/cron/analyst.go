package cron

import (
	"context"
	"fmt"
	"strings"
	"time"

	"evinstallers_backend/internal/actionlog"
	"evinstallers_backend/platform/apperr"
)

const staleLeadAge = 24 * time.Hour

// LeadStats is the lead aggregate surface the analyst needs.
type LeadStats interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
	CountUnmatchedOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// EmailStats reports delivery failures.
type EmailStats interface {
	CountFailedSince(ctx context.Context, cutoff time.Time) (int, error)
}

// ReportSender delivers the audit summary to the configured admin address.
type ReportSender interface {
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// AnalystResult is the data audit summary.
type AnalystResult struct {
	LeadsByStatus  map[string]int `json:"leadsByStatus"`
	StaleUnmatched int            `json:"staleUnmatched"`
	FailedEmails24 int            `json:"failedEmails24h"`
}

// Analyst audits pipeline data: lead backlog, stale unmatched leads, and
// recent delivery failures.
type Analyst struct {
	leads       LeadStats
	emails      EmailStats
	actions     ActionLogger
	reporter    ReportSender
	reportEmail string
}

// NewAnalyst creates the data audit job. reportEmail may be empty, in which
// case no summary email is sent.
func NewAnalyst(leads LeadStats, emails EmailStats, actions ActionLogger, reporter ReportSender, reportEmail string) *Analyst {
	return &Analyst{
		leads:       leads,
		emails:      emails,
		actions:     actions,
		reporter:    reporter,
		reportEmail: reportEmail,
	}
}

// Run gathers the audit counts. Stale unmatched leads or delivery failures
// degrade the recorded status to warning.
func (a *Analyst) Run(ctx context.Context) (AnalystResult, error) {
	now := time.Now().UTC()

	byStatus, err := a.leads.CountByStatus(ctx)
	if err != nil {
		return AnalystResult{}, apperr.Persistence("failed to count leads", err)
	}

	stale, err := a.leads.CountUnmatchedOlderThan(ctx, now.Add(-staleLeadAge))
	if err != nil {
		return AnalystResult{}, apperr.Persistence("failed to count stale leads", err)
	}

	failed, err := a.emails.CountFailedSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return AnalystResult{}, apperr.Persistence("failed to count email failures", err)
	}

	result := AnalystResult{
		LeadsByStatus:  byStatus,
		StaleUnmatched: stale,
		FailedEmails24: failed,
	}

	status := actionlog.StatusSuccess
	if stale > 0 || failed > 0 {
		status = actionlog.StatusWarning
	}
	a.actions.Log(ctx, actionlog.AgentAnalyst, "data_audit", status, map[string]any{
		"staleUnmatched":  stale,
		"failedEmails24h": failed,
	})

	a.sendReport(ctx, result, status)

	return result, nil
}

// sendReport emails the summary to the admin address. A failed report never
// fails the audit run.
func (a *Analyst) sendReport(ctx context.Context, result AnalystResult, status string) {
	if a.reporter == nil || a.reportEmail == "" {
		return
	}

	subject := "Daily data audit: all clear"
	if status == actionlog.StatusWarning {
		subject = "Daily data audit: attention needed"
	}

	var b strings.Builder
	b.WriteString("<h2>Lead pipeline audit</h2><ul>")
	for _, leadStatus := range []string{"new", "matched", "contacted", "closed"} {
		fmt.Fprintf(&b, "<li>%s leads: %d</li>", leadStatus, result.LeadsByStatus[leadStatus])
	}
	fmt.Fprintf(&b, "<li>unmatched leads older than 24h: %d</li>", result.StaleUnmatched)
	fmt.Fprintf(&b, "<li>failed emails in the last 24h: %d</li>", result.FailedEmails24)
	b.WriteString("</ul>")

	if err := a.reporter.SendCustomEmail(ctx, a.reportEmail, subject, b.String()); err != nil {
		a.actions.Log(ctx, actionlog.AgentAnalyst, "audit_report", actionlog.StatusWarning, map[string]any{
			"recipient": a.reportEmail,
			"error":     err.Error(),
		})
	}
}
