package cron

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeLeadStats struct {
	byStatus map[string]int
	stale    int
	err      error
}

func (f *fakeLeadStats) CountByStatus(_ context.Context) (map[string]int, error) {
	return f.byStatus, f.err
}

func (f *fakeLeadStats) CountUnmatchedOlderThan(_ context.Context, _ time.Time) (int, error) {
	return f.stale, f.err
}

type fakeEmailStats struct {
	failed int
	err    error
}

func (f *fakeEmailStats) CountFailedSince(_ context.Context, _ time.Time) (int, error) {
	return f.failed, f.err
}

func TestAnalystGathersCounts(t *testing.T) {
	actions := &fakeActionLogger{}
	a := NewAnalyst(
		&fakeLeadStats{byStatus: map[string]int{"new": 2, "matched": 7}, stale: 1},
		&fakeEmailStats{failed: 3},
		actions,
		nil,
		"",
	)

	result, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.LeadsByStatus["matched"] != 7 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.StaleUnmatched != 1 || result.FailedEmails24 != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(actions.entries) != 1 || actions.entries[0] != "analyst/data_audit/warning" {
		t.Fatalf("unexpected log entries: %v", actions.entries)
	}
}

func TestAnalystHealthyRunLogsSuccess(t *testing.T) {
	actions := &fakeActionLogger{}
	a := NewAnalyst(&fakeLeadStats{byStatus: map[string]int{}}, &fakeEmailStats{}, actions, nil, "")

	if _, err := a.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actions.entries[0] != "analyst/data_audit/success" {
		t.Fatalf("unexpected log entry: %v", actions.entries)
	}
}

func TestAnalystPropagatesQueryFailure(t *testing.T) {
	a := NewAnalyst(&fakeLeadStats{err: errors.New("down")}, &fakeEmailStats{}, &fakeActionLogger{}, nil, "")

	if _, err := a.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

type fakeReporter struct {
	to      string
	subject string
	body    string
	err     error
}

func (f *fakeReporter) SendCustomEmail(_ context.Context, toEmail, subject, htmlContent string) error {
	f.to = toEmail
	f.subject = subject
	f.body = htmlContent
	return f.err
}

func TestAnalystEmailsReportWhenConfigured(t *testing.T) {
	reporter := &fakeReporter{}
	a := NewAnalyst(
		&fakeLeadStats{byStatus: map[string]int{"new": 4}, stale: 2},
		&fakeEmailStats{},
		&fakeActionLogger{},
		reporter,
		"ops@evinstallers.test",
	)

	if _, err := a.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reporter.to != "ops@evinstallers.test" {
		t.Fatalf("report sent to %q", reporter.to)
	}
	if !strings.Contains(reporter.subject, "attention needed") {
		t.Fatalf("unexpected subject: %q", reporter.subject)
	}
	if !strings.Contains(reporter.body, "new leads: 4") {
		t.Fatalf("body missing counts: %q", reporter.body)
	}
}

func TestAnalystReportFailureDoesNotFailRun(t *testing.T) {
	actions := &fakeActionLogger{}
	a := NewAnalyst(
		&fakeLeadStats{byStatus: map[string]int{}},
		&fakeEmailStats{},
		actions,
		&fakeReporter{err: errors.New("smtp down")},
		"ops@evinstallers.test",
	)

	if _, err := a.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions.entries) != 2 || actions.entries[1] != "analyst/audit_report/warning" {
		t.Fatalf("unexpected log entries: %v", actions.entries)
	}
}
