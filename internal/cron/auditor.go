package cron

import (
	"context"
	"net/http"
	"time"

	"evinstallers_backend/internal/actionlog"
)

// auditedPaths are the public site pages the auditor probes.
var auditedPaths = []string{"/", "/quote", "/installers"}

const auditRequestTimeout = 10 * time.Second

// PageCheck is the outcome of probing one page.
type PageCheck struct {
	Path       string `json:"path"`
	StatusCode int    `json:"statusCode"`
	LatencyMS  int64  `json:"latencyMs"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

// AuditorResult summarizes a site health run.
type AuditorResult struct {
	Checked int         `json:"checked"`
	Healthy int         `json:"healthy"`
	Checks  []PageCheck `json:"checks"`
}

// Auditor probes the public site and records the outcome.
type Auditor struct {
	client  *http.Client
	baseURL string
	actions ActionLogger
}

// NewAuditor creates the site health job.
func NewAuditor(baseURL string, actions ActionLogger) *Auditor {
	return &Auditor{
		client:  &http.Client{Timeout: auditRequestTimeout},
		baseURL: baseURL,
		actions: actions,
	}
}

// Run probes every audited page. A failing page degrades the recorded status
// but does not fail the run.
func (a *Auditor) Run(ctx context.Context) (AuditorResult, error) {
	result := AuditorResult{Checked: len(auditedPaths)}

	for _, path := range auditedPaths {
		result.Checks = append(result.Checks, a.check(ctx, path))
	}
	for _, check := range result.Checks {
		if check.OK {
			result.Healthy++
		}
	}

	status := actionlog.StatusSuccess
	if result.Healthy < result.Checked {
		status = actionlog.StatusWarning
	}
	if result.Healthy == 0 {
		status = actionlog.StatusError
	}

	a.actions.Log(ctx, actionlog.AgentAuditor, "site_check", status, map[string]any{
		"checked": result.Checked,
		"healthy": result.Healthy,
	})

	return result, nil
}

func (a *Auditor) check(ctx context.Context, path string) PageCheck {
	check := PageCheck{Path: path}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		check.Error = err.Error()
		return check
	}

	start := time.Now()
	resp, err := a.client.Do(req)
	check.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		check.Error = err.Error()
		return check
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	check.StatusCode = resp.StatusCode
	check.OK = resp.StatusCode >= 200 && resp.StatusCode < 400
	return check
}
