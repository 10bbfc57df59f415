// Package auth provides the admin authentication module.
package auth

import (
	"evinstallers_backend/internal/auth/handler"
	"evinstallers_backend/internal/auth/service"
	apphttp "evinstallers_backend/internal/http"
	"evinstallers_backend/platform/config"
	"evinstallers_backend/platform/validator"
)

// Module is the auth module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the auth module.
func NewModule(cfg config.AuthConfig, val *validator.Validator) *Module {
	svc := service.New(cfg)
	h := handler.New(svc, val)
	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts the login endpoint behind the strict auth rate limit.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
