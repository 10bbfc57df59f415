package cron

import (
	apphttp "evinstallers_backend/internal/http"
	"evinstallers_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module wires the cron gate and jobs into the /api/cron route group.
type Module struct {
	gate     *Gate
	auditor  *Auditor
	promoter *Promoter
	analyst  *Analyst
}

// NewModule creates the cron module.
func NewModule(gate *Gate, auditor *Auditor, promoter *Promoter, analyst *Analyst) *Module {
	return &Module{gate: gate, auditor: auditor, promoter: promoter, analyst: analyst}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "cron"
}

// RegisterRoutes mounts the gated job endpoints.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Cron
	group.Use(m.gate.Middleware())

	group.GET("/auditor", m.runAuditor)
	group.GET("/promoter", m.runPromoter)
	group.GET("/analyst", m.runAnalyst)
}

func (m *Module) runAuditor(c *gin.Context) {
	result, err := m.auditor.Run(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (m *Module) runPromoter(c *gin.Context) {
	result, err := m.promoter.Run(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (m *Module) runAnalyst(c *gin.Context) {
	result, err := m.analyst.Run(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
