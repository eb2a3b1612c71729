package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"apiexplorer/internal/catalog"
	"apiexplorer/internal/handlers"
	"apiexplorer/internal/handlers/api"
	"apiexplorer/internal/middleware"
)

// Deps are the services the routes are wired to.
type Deps struct {
	Catalog *catalog.Service
	DB      handlers.Pinger
	// Prober runs on-demand link checks; nil disables them.
	Prober api.HealthProber
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, deps Deps) error {
	adminAuth := middleware.NewAdminAuth("/panel/login")

	probeHandler := handlers.NewProbeHandler(deps.DB)
	pageHandler := handlers.NewPageHandler(deps.Catalog, s.Cfg)
	panelHandler := handlers.NewPanelHandler(deps.Catalog, s.Cfg)

	entryAPI := api.NewEntryHandler(deps.Catalog, deps.Prober)
	requestAPI := api.NewRequestHandler(deps.Catalog)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// JSON API
	api.Register(s.App.Group("/api"), entryAPI, requestAPI, adminAuth.RequireAdmin)

	// Optional OIDC sign-in for administrators
	if s.Cfg.IsOIDCEnabled() {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
	} else {
		log.Println("OIDC admin login is disabled. Set OIDC_ISSUER to enable.")
	}
	if !s.Cfg.IsAdminPanelEnabled() && !s.Cfg.IsOIDCEnabled() {
		log.Println("Warning: no admin login configured; moderation is only possible via catalogctl")
	}

	// Public pages
	s.App.Get("/", pageHandler.Index)
	s.App.Post("/apis/:id/vote-up", pageHandler.VoteUp)
	s.App.Post("/apis/:id/vote-down", pageHandler.VoteDown)
	s.App.Get("/submit", pageHandler.SubmitForm)
	s.App.Post("/submit", pageHandler.Submit)

	// Moderation panel
	s.App.Get("/panel/login", panelHandler.LoginForm)
	s.App.Post("/panel/login", panelHandler.Login)
	s.App.Post("/panel/logout", panelHandler.Logout)
	s.App.Get("/panel", adminAuth.RequirePanel, panelHandler.Dashboard)
	s.App.Post("/panel/requests/:id/approve", adminAuth.RequirePanel, panelHandler.Approve)
	s.App.Post("/panel/requests/:id/decline", adminAuth.RequirePanel, panelHandler.Decline)

	return nil
}
