package actionlog

import (
	"net/http"
	"strconv"

	apphttp "evinstallers_backend/internal/http"
	"evinstallers_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module exposes the admin agent-log listing.
type Module struct {
	repo *Repository
}

// NewHTTPModule creates the actionlog HTTP module.
func NewHTTPModule(repo *Repository) *Module {
	return &Module{repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "actionlog"
}

// RegisterRoutes mounts the admin listing endpoint.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Admin.Group("/agent-logs")
	group.GET("", m.list)
}

func (m *Module) list(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid limit", nil)
		return
	}

	entries, err := m.repo.List(c.Request.Context(), limit)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to list agent logs", nil)
		return
	}

	httpkit.OK(c, gin.H{"entries": entries, "total": len(entries)})
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
