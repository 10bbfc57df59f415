// Package leads provides the lead intake bounded context module.
package leads

import (
	"evinstallers_backend/internal/events"
	apphttp "evinstallers_backend/internal/http"
	"evinstallers_backend/internal/leads/handler"
	"evinstallers_backend/internal/leads/repository"
	"evinstallers_backend/internal/leads/service"
	"evinstallers_backend/platform/logger"
	"evinstallers_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

// NewModule creates and initializes the leads module. The matcher, notifier
// and scheduler come from their own modules; scheduler may be nil when no
// task queue is configured.
func NewModule(
	pool *pgxpool.Pool,
	matcher service.Matcher,
	notifier service.Notifier,
	scheduler service.FollowUpScheduler,
	actions service.ActionLogger,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
	matchLimit int,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, matcher, notifier, scheduler, actions, bus, log, matchLimit)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repository: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Repository returns the repository for cross-module use (scheduler worker,
// analyst job).
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// RegisterRoutes mounts the public intake endpoint (rate limited) and the
// admin lead endpoints.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	publicGroup := ctx.V1.Group("/leads")
	publicGroup.Use(ctx.LeadRateLimiter.RateLimit())
	m.handler.RegisterPublicRoutes(publicGroup)

	adminGroup := ctx.Admin.Group("/leads")
	m.handler.RegisterAdminRoutes(adminGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
