// Package service orchestrates the lead pipeline: persist, match, notify,
// log. Only the persistence step decides the submitter-facing outcome;
// everything after a successful insert is best-effort.
package service

import (
	"context"
	"time"

	"evinstallers_backend/internal/actionlog"
	"evinstallers_backend/internal/events"
	instrepo "evinstallers_backend/internal/installers/repository"
	"evinstallers_backend/internal/leads/repository"
	"evinstallers_backend/internal/leads/transport"
	"evinstallers_backend/internal/notification"
	"evinstallers_backend/platform/apperr"
	"evinstallers_backend/platform/logger"
	"evinstallers_backend/platform/phone"

	"github.com/google/uuid"
)

const leadSource = "website"

// LeadStore is the repository surface the pipeline needs.
type LeadStore interface {
	Create(ctx context.Context, lead repository.Lead) (repository.Lead, error)
	UpdateAssignment(ctx context.Context, id uuid.UUID, installerIDs []uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	List(ctx context.Context, params repository.ListParams) (repository.ListResult, error)
}

// Matcher finds installers for a lead's location.
type Matcher interface {
	Match(ctx context.Context, city, state string, limit int) ([]instrepo.Installer, error)
}

// Notifier dispatches pipeline emails. Implementations record every attempt
// and never return transport errors.
type Notifier interface {
	SendConfirmation(ctx context.Context, lead repository.Lead) notification.Record
	SendLeadAlerts(ctx context.Context, lead repository.Lead, installers []instrepo.Installer) []notification.Record
}

// FollowUpScheduler enqueues the delayed follow-up email. Nil when no task
// queue is configured.
type FollowUpScheduler interface {
	EnqueueFollowUp(ctx context.Context, leadID uuid.UUID) error
}

// ActionLogger records pipeline outcomes in agent_logs.
type ActionLogger interface {
	Log(ctx context.Context, agent, actionType, status string, details map[string]any)
}

// RequestMeta carries request metadata captured at the HTTP layer.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Service implements the lead pipeline and the admin lead operations.
type Service struct {
	store      LeadStore
	matcher    Matcher
	notifier   Notifier
	scheduler  FollowUpScheduler
	actions    ActionLogger
	bus        events.Bus
	log        *logger.Logger
	matchLimit int
}

// New creates the leads service. scheduler may be nil.
func New(
	store LeadStore,
	matcher Matcher,
	notifier Notifier,
	scheduler FollowUpScheduler,
	actions ActionLogger,
	bus events.Bus,
	log *logger.Logger,
	matchLimit int,
) *Service {
	return &Service{
		store:      store,
		matcher:    matcher,
		notifier:   notifier,
		scheduler:  scheduler,
		actions:    actions,
		bus:        bus,
		log:        log,
		matchLimit: matchLimit,
	}
}

// Submit runs the full intake pipeline for an already validated request.
// The returned error is non-nil only when the lead could not be persisted.
func (s *Service) Submit(ctx context.Context, req transport.SubmitLeadRequest, meta RequestMeta) (transport.SubmitLeadResponse, error) {
	now := time.Now().UTC()
	lead := repository.Lead{
		ID:                     uuid.New(),
		FullName:               req.Name,
		Email:                  req.Email,
		ZipCode:                req.ZipCode,
		ProjectTimeline:        string(req.Timeline),
		PropertyType:           string(req.PropertyType),
		ChargerType:            string(req.ChargerType),
		ElectricalPanelUpgrade: req.ElectricalPanelUpgrade,
		Source:                 leadSource,
		Status:                 repository.StatusNew,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if req.Phone != "" {
		normalized := phone.NormalizeE164(req.Phone)
		lead.Phone = &normalized
	}
	if req.City != "" {
		lead.City = &req.City
	}
	if req.State != "" {
		lead.State = &req.State
	}
	if meta.IPAddress != "" {
		lead.IPAddress = &meta.IPAddress
	}
	if meta.UserAgent != "" {
		lead.UserAgent = &meta.UserAgent
	}

	created, err := s.store.Create(ctx, lead)
	if err != nil {
		s.actions.Log(ctx, actionlog.AgentLeadPipeline, "lead_capture", actionlog.StatusError, map[string]any{
			"email": req.Email,
			"error": err.Error(),
		})
		return transport.SubmitLeadResponse{}, apperr.Persistence("failed to save lead", err)
	}

	s.bus.Publish(ctx, events.LeadCaptured{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    created.ID,
		Email:     created.Email,
		FullName:  created.FullName,
		City:      req.City,
		State:     req.State,
		Source:    created.Source,
	})

	matched := s.matchAndNotify(ctx, created)

	confirmation := s.notifier.SendConfirmation(ctx, created)

	if s.scheduler != nil {
		if err := s.scheduler.EnqueueFollowUp(ctx, created.ID); err != nil {
			s.log.Warn("follow-up enqueue failed", "leadId", created.ID, "error", err)
		}
	}

	s.actions.Log(ctx, actionlog.AgentLeadPipeline, "lead_processed", actionlog.StatusSuccess, map[string]any{
		"leadId":            created.ID.String(),
		"matchedInstallers": len(matched),
		"confirmationSent":  confirmation.Status == notification.StatusSent,
	})

	return transport.SubmitLeadResponse{
		Success: true,
		Message: "Thanks! Up to 3 licensed installers will contact you with quotes.",
	}, nil
}

// matchAndNotify is best-effort: any failure is logged and the pipeline
// carries on, because the lead is already saved.
func (s *Service) matchAndNotify(ctx context.Context, lead repository.Lead) []instrepo.Installer {
	if lead.City == nil || lead.State == nil {
		return nil
	}

	matched, err := s.matcher.Match(ctx, *lead.City, *lead.State, s.matchLimit)
	if err != nil {
		s.log.Error("installer matching failed", "leadId", lead.ID, "error", err)
		s.actions.Log(ctx, actionlog.AgentLeadPipeline, "installer_match", actionlog.StatusError, map[string]any{
			"leadId": lead.ID.String(),
			"error":  err.Error(),
		})
		return nil
	}
	if len(matched) == 0 {
		s.actions.Log(ctx, actionlog.AgentLeadPipeline, "installer_match", actionlog.StatusWarning, map[string]any{
			"leadId": lead.ID.String(),
			"city":   *lead.City,
			"state":  *lead.State,
			"reason": "no eligible installers",
		})
		return nil
	}

	ids := make([]uuid.UUID, 0, len(matched))
	for _, inst := range matched {
		ids = append(ids, inst.ID)
	}

	if err := s.store.UpdateAssignment(ctx, lead.ID, ids); err != nil {
		s.log.Error("lead assignment update failed", "leadId", lead.ID, "error", err)
	} else {
		lead.Status = repository.StatusMatched
		lead.AssignedInstallerIDs = ids
	}

	s.bus.Publish(ctx, events.LeadMatched{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		InstallerIDs: ids,
		City:         *lead.City,
		State:        *lead.State,
	})

	s.notifier.SendLeadAlerts(ctx, lead, matched)

	return matched
}

// List returns a paginated admin listing.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.ListLeadsResponse, error) {
	params := repository.ListParams{Page: req.Page, PageSize: req.PageSize}
	if req.Status != nil {
		params.Status = string(*req.Status)
	}

	result, err := s.store.List(ctx, params)
	if err != nil {
		return transport.ListLeadsResponse{}, apperr.Persistence("failed to list leads", err)
	}

	items := make([]transport.LeadResponse, 0, len(result.Items))
	for _, lead := range result.Items {
		items = append(items, toLeadResponse(lead))
	}

	return transport.ListLeadsResponse{
		Leads:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// GetByID returns one lead for the admin dashboard.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(lead), nil
}

// UpdateStatus moves a lead forward from the admin dashboard.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status transport.LeadStatus) error {
	return s.store.UpdateStatus(ctx, id, string(status))
}

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:                     lead.ID,
		Name:                   lead.FullName,
		Email:                  lead.Email,
		Phone:                  lead.Phone,
		ZipCode:                lead.ZipCode,
		City:                   lead.City,
		State:                  lead.State,
		Timeline:               lead.ProjectTimeline,
		PropertyType:           lead.PropertyType,
		ChargerType:            lead.ChargerType,
		ElectricalPanelUpgrade: lead.ElectricalPanelUpgrade,
		Source:                 lead.Source,
		Status:                 lead.Status,
		AssignedInstallerIDs:   lead.AssignedInstallerIDs,
		CreatedAt:              lead.CreatedAt,
		UpdatedAt:              lead.UpdatedAt,
	}
}
