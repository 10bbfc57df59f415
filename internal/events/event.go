// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"evinstallers_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCaptured is published when a lead submission has been validated and
// persisted. Downstream handlers (audit trail, follow-up scheduling) must
// never affect the submitter-facing response.
type LeadCaptured struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName"`
	City     string    `json:"city,omitempty"`
	State    string    `json:"state,omitempty"`
	Source   string    `json:"source"`
}

func (e LeadCaptured) EventName() string { return "leads.lead.captured" }

// LeadMatched is published when installers have been assigned to a lead.
type LeadMatched struct {
	BaseEvent
	LeadID       uuid.UUID   `json:"leadId"`
	InstallerIDs []uuid.UUID `json:"installerIds"`
	City         string      `json:"city"`
	State        string      `json:"state"`
}

func (e LeadMatched) EventName() string { return "leads.lead.matched" }

// =============================================================================
// Notification Domain Events
// =============================================================================

// NotificationDispatched is published after a notification attempt has been
// recorded, regardless of delivery outcome.
type NotificationDispatched struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	Recipient string    `json:"recipient"`
	Template  string    `json:"template"`
	Delivered bool      `json:"delivered"`
}

func (e NotificationDispatched) EventName() string { return "notification.dispatched" }
