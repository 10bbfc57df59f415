// Package transport defines request/response DTOs for the installers module.
package transport

import (
	"time"

	"evinstallers_backend/internal/installers/repository"

	"github.com/google/uuid"
)

// DirectoryRequest filters the public installer directory.
type DirectoryRequest struct {
	State string `form:"state" validate:"omitempty,len=2,alpha"`
	City  string `form:"city" validate:"omitempty,max=100"`
}

// InstallerResponse is the public representation of an installer. Contact
// email is intentionally omitted from directory listings.
type InstallerResponse struct {
	ID              uuid.UUID `json:"id"`
	BusinessName    string    `json:"businessName"`
	Phone           string    `json:"phone"`
	Website         *string   `json:"website,omitempty"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	ZipCode         string    `json:"zipCode"`
	UtilityProvider *string   `json:"utilityProvider,omitempty"`
	Services        *string   `json:"services,omitempty"`
	Verified        bool      `json:"verified"`
	Featured        bool      `json:"featured"`
	Rating          *float64  `json:"rating,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// DirectoryResponse wraps a directory listing.
type DirectoryResponse struct {
	Installers []InstallerResponse `json:"installers"`
	Total      int                 `json:"total"`
}

// FromInstaller maps a repository installer to its public representation.
func FromInstaller(i repository.Installer) InstallerResponse {
	return InstallerResponse{
		ID:              i.ID,
		BusinessName:    i.BusinessName,
		Phone:           i.Phone,
		Website:         i.Website,
		City:            i.City,
		State:           i.State,
		ZipCode:         i.ZipCode,
		UtilityProvider: i.UtilityProvider,
		Services:        i.Services,
		Verified:        i.Verified,
		Featured:        i.Featured,
		Rating:          i.Rating,
		CreatedAt:       i.CreatedAt,
	}
}

// FromInstallers maps a slice of repository installers.
func FromInstallers(items []repository.Installer) []InstallerResponse {
	out := make([]InstallerResponse, 0, len(items))
	for _, item := range items {
		out = append(out, FromInstaller(item))
	}
	return out
}
