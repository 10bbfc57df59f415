// Package installers provides the installer directory bounded context module.
package installers

import (
	apphttp "evinstallers_backend/internal/http"
	"evinstallers_backend/internal/installers/handler"
	"evinstallers_backend/internal/installers/repository"
	"evinstallers_backend/internal/installers/service"
	"evinstallers_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the installers bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

// NewModule creates and initializes the installers module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repository: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "installers"
}

// Service returns the service layer for cross-module use (lead matching).
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for cross-module use (promoter outreach).
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// RegisterRoutes mounts the public directory routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	directoryGroup := ctx.V1.Group("/installers")
	m.handler.RegisterRoutes(directoryGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
