// Package leads provides the lead scoring bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	apphttp "leadscore_backend/internal/http"
	"leadscore_backend/internal/leads/encoding"
	"leadscore_backend/internal/leads/handler"
	"leadscore_backend/internal/leads/repository"
	"leadscore_backend/internal/leads/scoring"
	"leadscore_backend/internal/leads/service"
	"leadscore_backend/platform/logger"
	"leadscore_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the scoring pipeline over repo with the loaded artifacts.
func NewModule(repo repository.LeadStore, encoder *encoding.Table, engine *scoring.Engine, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, encoder, engine, val, log)

	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the scoring service for wiring optional collaborators.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts POST /predict at the root and the leads routes
// under /api/v1/leads.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Engine.POST("/predict", m.handler.Predict)

	leadsGroup := ctx.V1.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
