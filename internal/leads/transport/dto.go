package transport

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Enum values
type Timeline string

const (
	TimelineImmediate    Timeline = "immediate"
	TimelineWithinMonth  Timeline = "within_month"
	TimelineWithin3Month Timeline = "within_3months"
	TimelinePlanning     Timeline = "planning"
)

type PropertyType string

const (
	PropertySingleFamily PropertyType = "single_family"
	PropertyMultiFamily  PropertyType = "multi_family"
	PropertyCommercial   PropertyType = "commercial"
)

type ChargerType string

const (
	ChargerLevel2 ChargerType = "level2"
	ChargerTesla  ChargerType = "tesla"
	ChargerBoth   ChargerType = "both"
	ChargerUnsure ChargerType = "unsure"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusMatched   LeadStatus = "matched"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusClosed    LeadStatus = "closed"
)

// SubmitLeadRequest is the public quote-request payload.
type SubmitLeadRequest struct {
	Name                   string       `json:"name" validate:"required,min=2,max=100"`
	Email                  string       `json:"email" validate:"required,email"`
	Phone                  string       `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	ZipCode                string       `json:"zipCode" validate:"required,min=5,max=10"`
	City                   string       `json:"city,omitempty" validate:"omitempty,max=100"`
	State                  string       `json:"state,omitempty" validate:"omitempty,len=2,alpha"`
	Timeline               Timeline     `json:"timeline,omitempty" validate:"omitempty,oneof=immediate within_month within_3months planning"`
	PropertyType           PropertyType `json:"propertyType,omitempty" validate:"omitempty,oneof=single_family multi_family commercial"`
	ChargerType            ChargerType  `json:"chargerType,omitempty" validate:"omitempty,oneof=level2 tesla both unsure"`
	ElectricalPanelUpgrade bool         `json:"electricalPanelUpgrade,omitempty"`
}

// Normalize trims whitespace and applies the documented enum defaults.
func (r *SubmitLeadRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.ZipCode = strings.TrimSpace(r.ZipCode)
	r.City = strings.TrimSpace(r.City)
	r.State = strings.ToUpper(strings.TrimSpace(r.State))

	if r.Timeline == "" {
		r.Timeline = TimelinePlanning
	}
	if r.PropertyType == "" {
		r.PropertyType = PropertySingleFamily
	}
	if r.ChargerType == "" {
		r.ChargerType = ChargerUnsure
	}
}

// SubmitLeadResponse acknowledges a captured lead. Matching and notification
// results are deliberately not exposed to the submitter.
type SubmitLeadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FieldViolation describes one failed validation rule.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ListLeadsRequest filters the admin lead listing.
type ListLeadsRequest struct {
	Status   *LeadStatus `form:"status" validate:"omitempty,oneof=new matched contacted closed"`
	Page     int         `form:"page" validate:"omitempty,min=1"`
	PageSize int         `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// LeadResponse is the admin representation of a lead.
type LeadResponse struct {
	ID                     uuid.UUID   `json:"id"`
	Name                   string      `json:"name"`
	Email                  string      `json:"email"`
	Phone                  *string     `json:"phone,omitempty"`
	ZipCode                string      `json:"zipCode"`
	City                   *string     `json:"city,omitempty"`
	State                  *string     `json:"state,omitempty"`
	Timeline               string      `json:"timeline"`
	PropertyType           string      `json:"propertyType"`
	ChargerType            string      `json:"chargerType"`
	ElectricalPanelUpgrade bool        `json:"electricalPanelUpgrade"`
	Source                 string      `json:"source"`
	Status                 string      `json:"status"`
	AssignedInstallerIDs   []uuid.UUID `json:"assignedInstallerIds,omitempty"`
	CreatedAt              time.Time   `json:"createdAt"`
	UpdatedAt              time.Time   `json:"updatedAt"`
}

// ListLeadsResponse wraps a paginated admin listing.
type ListLeadsResponse struct {
	Leads      []LeadResponse `json:"leads"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}
