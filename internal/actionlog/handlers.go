package actionlog

import (
	"context"

	"evinstallers_backend/internal/events"
)

// RegisterHandlers subscribes the recorder to the lead pipeline events so the
// audit trail is written even for paths that do not log explicitly.
func (r *Recorder) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), events.HandlerFunc(r.onLeadCaptured))
	bus.Subscribe(events.LeadMatched{}.EventName(), events.HandlerFunc(r.onLeadMatched))
}

func (r *Recorder) onLeadCaptured(ctx context.Context, event events.Event) error {
	captured, ok := event.(events.LeadCaptured)
	if !ok {
		return nil
	}

	r.Log(ctx, AgentLeadPipeline, "lead_captured", StatusInfo, map[string]any{
		"leadId": captured.LeadID.String(),
		"source": captured.Source,
		"city":   captured.City,
		"state":  captured.State,
	})
	return nil
}

func (r *Recorder) onLeadMatched(ctx context.Context, event events.Event) error {
	matched, ok := event.(events.LeadMatched)
	if !ok {
		return nil
	}

	r.Log(ctx, AgentLeadPipeline, "lead_matched", StatusInfo, map[string]any{
		"leadId":     matched.LeadID.String(),
		"installers": len(matched.InstallerIDs),
	})
	return nil
}
