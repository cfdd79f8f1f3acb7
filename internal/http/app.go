// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"
	"net/http"

	"leadscore_backend/platform/config"
	"leadscore_backend/platform/httpkit"
	"leadscore_backend/platform/logger"
)

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Metrics is the observability surface the router needs.
type Metrics interface {
	httpkit.RequestObserver
	Handler() http.Handler
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration.
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness/health checks (e.g., DB ping).
	Health HealthChecker
	// Metrics records request metrics and serves /metrics. Optional.
	Metrics Metrics
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
