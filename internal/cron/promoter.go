package cron

import (
	"context"
	"math/rand"

	"evinstallers_backend/internal/actionlog"
	instrepo "evinstallers_backend/internal/installers/repository"
	"evinstallers_backend/internal/notification"
	"evinstallers_backend/platform/apperr"
)

// ActionLogger records job outcomes in agent_logs.
type ActionLogger interface {
	Log(ctx context.Context, agent, actionType, status string, details map[string]any)
}

// OutreachCandidates lists installers eligible for promotion outreach.
type OutreachCandidates interface {
	ListOutreachCandidates(ctx context.Context) ([]instrepo.Installer, error)
}

// WelcomeSender delivers the outreach email.
type WelcomeSender interface {
	SendInstallerWelcome(ctx context.Context, installer instrepo.Installer) notification.Record
}

// PromoterResult summarizes one outreach run.
type PromoterResult struct {
	Candidates int    `json:"candidates"`
	Picked     string `json:"picked,omitempty"`
	EmailSent  bool   `json:"emailSent"`
}

// Promoter picks one outreach target per run, weighted by rating so
// better-reviewed installers are contacted first.
type Promoter struct {
	installers OutreachCandidates
	sender     WelcomeSender
	actions    ActionLogger
	pick       func(weights []float64) int
}

// NewPromoter creates the outreach job.
func NewPromoter(installers OutreachCandidates, sender WelcomeSender, actions ActionLogger) *Promoter {
	return &Promoter{
		installers: installers,
		sender:     sender,
		actions:    actions,
		pick:       weightedPick,
	}
}

// Run sends the installer_welcome email to one weighted-random candidate.
// An empty candidate pool is a normal outcome.
func (p *Promoter) Run(ctx context.Context) (PromoterResult, error) {
	candidates, err := p.installers.ListOutreachCandidates(ctx)
	if err != nil {
		p.actions.Log(ctx, actionlog.AgentPromoter, "outreach", actionlog.StatusError, map[string]any{
			"error": err.Error(),
		})
		return PromoterResult{}, apperr.Persistence("failed to list outreach candidates", err)
	}

	result := PromoterResult{Candidates: len(candidates)}
	if len(candidates) == 0 {
		p.actions.Log(ctx, actionlog.AgentPromoter, "outreach", actionlog.StatusInfo, map[string]any{
			"candidates": 0,
		})
		return result, nil
	}

	weights := make([]float64, len(candidates))
	for i, c := range candidates {
		weights[i] = outreachWeight(c)
	}

	target := candidates[p.pick(weights)]
	record := p.sender.SendInstallerWelcome(ctx, target)

	result.Picked = target.BusinessName
	result.EmailSent = record.Status == notification.StatusSent

	status := actionlog.StatusSuccess
	if !result.EmailSent {
		status = actionlog.StatusWarning
	}
	p.actions.Log(ctx, actionlog.AgentPromoter, "outreach", status, map[string]any{
		"candidates": result.Candidates,
		"picked":     target.BusinessName,
		"emailSent":  result.EmailSent,
	})

	return result, nil
}

// outreachWeight favors rated installers; unrated ones still get a baseline
// chance.
func outreachWeight(i instrepo.Installer) float64 {
	if i.Rating == nil || *i.Rating <= 0 {
		return 1
	}
	return *i.Rating
}

func weightedPick(weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}

	target := rand.Float64() * total
	for i, w := range weights {
		target -= w
		if target < 0 {
			return i
		}
	}
	return len(weights) - 1
}
