// Package http holds the composition types shared by cmd/api and the router:
// the App bundle and the Module contract every feature package satisfies.
package http

import (
	"context"

	"lead_dashboard_backend/internal/events"
	"lead_dashboard_backend/platform/config"
	"lead_dashboard_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// RouterConfig is the configuration the router reads.
type RouterConfig interface {
	config.HTTPConfig
}

// HealthChecker pings the snapshot backend for /api/health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Module is a feature package (leads, settings, notifications) that mounts
// its own routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is handed to each Module during registration.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is the /api/v1 group.
	V1 *gin.RouterGroup
}

// App is assembled in cmd/api and passed to router.New.
type App struct {
	Config RouterConfig
	Logger *logger.Logger
	// Health is nil for the memory backend.
	Health   HealthChecker
	EventBus events.Bus
	Modules  []Module
}
