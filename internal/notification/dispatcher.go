package notification

import (
	"context"
	"sync"
	"time"

	"evinstallers_backend/internal/email"
	"evinstallers_backend/internal/events"
	instrepo "evinstallers_backend/internal/installers/repository"
	leadrepo "evinstallers_backend/internal/leads/repository"
	"evinstallers_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// sendTimeout bounds each transport call so one slow SMTP conversation
	// cannot stall the lead pipeline.
	sendTimeout = 15 * time.Second

	// maxConcurrentAlerts bounds the fan-out when a lead matches several
	// installers.
	maxConcurrentAlerts = 3

	noRecipientMsg = "installer has no email address on file"
)

// RecordStore is the persistence surface the dispatcher needs.
type RecordStore interface {
	Insert(ctx context.Context, rec Record) error
}

// Dispatcher renders and delivers pipeline emails. Every attempt produces a
// Record whether delivery succeeded or not; transport errors are captured in
// the record and never returned.
type Dispatcher struct {
	sender  email.Sender
	store   RecordStore
	bus     events.Bus
	log     *logger.Logger
	baseURL string
}

// NewDispatcher creates a dispatcher. bus may be nil when no event fan-out
// is wanted (scheduler worker).
func NewDispatcher(sender email.Sender, store RecordStore, bus events.Bus, log *logger.Logger, baseURL string) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		store:   store,
		bus:     bus,
		log:     log,
		baseURL: baseURL,
	}
}

// SendConfirmation emails the submitter that their quote request was received.
func (d *Dispatcher) SendConfirmation(ctx context.Context, lead leadrepo.Lead) Record {
	return d.attempt(ctx, lead.Email, email.TemplateQuoteConfirmation, &lead.ID, func(sendCtx context.Context) error {
		return d.sender.SendQuoteConfirmationEmail(sendCtx, lead.Email, lead.FullName)
	})
}

// SendLeadAlerts notifies each matched installer about the lead. Alerts run
// concurrently with a bounded fan-out; one failed recipient never affects the
// others. The returned records are in no particular order.
func (d *Dispatcher) SendLeadAlerts(ctx context.Context, lead leadrepo.Lead, installers []instrepo.Installer) []Record {
	if len(installers) == 0 {
		return nil
	}

	summary := leadSummary(lead)

	var mu sync.Mutex
	records := make([]Record, 0, len(installers))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentAlerts)

	for _, installer := range installers {
		inst := installer
		g.Go(func() error {
			var rec Record
			if inst.Email == nil || *inst.Email == "" {
				rec = d.record(groupCtx, "", email.TemplateLeadNotification, &lead.ID, failedReason(noRecipientMsg))
			} else {
				to := *inst.Email
				rec = d.attempt(groupCtx, to, email.TemplateLeadNotification, &lead.ID, func(sendCtx context.Context) error {
					return d.sender.SendLeadNotificationEmail(sendCtx, to, inst.BusinessName, summary)
				})
			}

			mu.Lock()
			records = append(records, rec)
			mu.Unlock()
			return nil
		})
	}

	// Workers always return nil; the group is only used for bounding.
	_ = g.Wait()

	return records
}

// SendInstallerWelcome sends the directory outreach email (promoter job).
func (d *Dispatcher) SendInstallerWelcome(ctx context.Context, installer instrepo.Installer) Record {
	if installer.Email == nil || *installer.Email == "" {
		return d.record(ctx, "", email.TemplateInstallerWelcome, nil, failedReason(noRecipientMsg))
	}

	to := *installer.Email
	return d.attempt(ctx, to, email.TemplateInstallerWelcome, nil, func(sendCtx context.Context) error {
		return d.sender.SendInstallerWelcomeEmail(sendCtx, to, installer.BusinessName, d.baseURL+"/installers")
	})
}

// SendFollowUp nudges a lead that has not moved past matched (scheduler job).
func (d *Dispatcher) SendFollowUp(ctx context.Context, lead leadrepo.Lead) Record {
	return d.attempt(ctx, lead.Email, email.TemplateFollowUp, &lead.ID, func(sendCtx context.Context) error {
		return d.sender.SendFollowUpEmail(sendCtx, lead.Email, lead.FullName, d.baseURL+"/quote")
	})
}

func (d *Dispatcher) attempt(ctx context.Context, recipient, template string, leadID *uuid.UUID, send func(ctx context.Context) error) Record {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	var reason *string
	if err := send(sendCtx); err != nil {
		msg := err.Error()
		reason = &msg
	}

	rec := d.record(ctx, recipient, template, leadID, reason)
	return rec
}

func (d *Dispatcher) record(ctx context.Context, recipient, template string, leadID *uuid.UUID, errorMessage *string) Record {
	rec := Record{
		ID:             uuid.New(),
		RecipientEmail: recipient,
		Template:       template,
		Status:         StatusSent,
		Provider:       d.sender.Provider(),
		ErrorMessage:   errorMessage,
		LeadID:         leadID,
		SentAt:         time.Now().UTC(),
	}
	if errorMessage != nil {
		rec.Status = StatusFailed
	}

	// The record must survive request cancellation.
	insertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := d.store.Insert(insertCtx, rec); err != nil {
		d.log.Warn("email log insert failed", "template", template, "recipient", recipient, "error", err)
	}

	reason := ""
	if errorMessage != nil {
		reason = *errorMessage
	}
	d.log.EmailEvent(template, recipient, rec.Status == StatusSent, reason)

	if d.bus != nil && leadID != nil {
		d.bus.Publish(ctx, events.NotificationDispatched{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    *leadID,
			Recipient: recipient,
			Template:  template,
			Delivered: rec.Status == StatusSent,
		})
	}

	return rec
}

func failedReason(msg string) *string {
	return &msg
}

func leadSummary(lead leadrepo.Lead) email.LeadSummary {
	summary := email.LeadSummary{
		Name:         lead.FullName,
		ZipCode:      lead.ZipCode,
		Timeline:     lead.ProjectTimeline,
		PropertyType: lead.PropertyType,
		ChargerType:  lead.ChargerType,
		PanelUpgrade: lead.ElectricalPanelUpgrade,
	}
	if lead.Phone != nil {
		summary.Phone = *lead.Phone
	}
	if lead.City != nil {
		summary.City = *lead.City
	}
	if lead.State != nil {
		summary.State = *lead.State
	}
	return summary
}
