// Package settings provides the dashboard settings module.
package settings

import (
	"lead_dashboard_backend/internal/events"
	apphttp "lead_dashboard_backend/internal/http"
	"lead_dashboard_backend/internal/settings/handler"
	"lead_dashboard_backend/internal/settings/repository"
	"lead_dashboard_backend/internal/settings/service"
	"lead_dashboard_backend/platform/logger"
	"lead_dashboard_backend/platform/validator"
)

// Module is the settings module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the settings module over repo.
func NewModule(repo repository.Repository, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, eventBus, val, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "settings"
}

// Service returns the settings service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts /settings.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/settings"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
