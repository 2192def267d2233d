// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"fmt"

	"lead_dashboard_backend/internal/adapters/storage"
	apphttp "lead_dashboard_backend/internal/http"
	"lead_dashboard_backend/internal/leads/export"
	"lead_dashboard_backend/internal/leads/handler"
	"lead_dashboard_backend/internal/leads/management"
	"lead_dashboard_backend/internal/leads/ports"
	"lead_dashboard_backend/internal/leads/reporting"
	"lead_dashboard_backend/internal/leads/store"
	"lead_dashboard_backend/internal/leads/transport"
	"lead_dashboard_backend/platform/config"
	"lead_dashboard_backend/platform/logger"
	"lead_dashboard_backend/platform/phone"
	"lead_dashboard_backend/platform/validator"
)

// Config combines what the leads module reads from the application config.
type Config interface {
	config.LeadsConfig
	GetMinioBucketExports() string
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the leads module with all its dependencies.
// prefs and storageSvc are optional.
func NewModule(leadStore *store.Store, prefs ports.DisplayPreferences, storageSvc storage.StorageService, val *validator.Validator, cfg Config, log *logger.Logger) (*Module, error) {
	if err := transport.RegisterValidations(val); err != nil {
		return nil, fmt.Errorf("register lead validations: %w", err)
	}

	mapper := management.NewMapper(phone.NewNormalizer(cfg.GetPhoneDefaultRegion()))

	// Create focused services (vertical slices)
	mgmtSvc := management.New(leadStore, prefs, mapper, cfg.GetMaxPageSize(), log)
	reportingSvc := reporting.New(leadStore, mapper)
	exportSvc := export.New(leadStore, storageSvc, cfg.GetMinioBucketExports(), log)

	return &Module{
		handler: handler.New(mgmtSvc, reportingSvc, exportSvc, val),
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes mounts leads, dashboard and report routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/leads"))
	m.handler.RegisterReportRoutes(ctx.V1)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
