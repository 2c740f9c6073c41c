// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Veerakabilan31/portfolio/internal/metrics"
	"github.com/Veerakabilan31/portfolio/internal/middleware"
)

// Route paths.
const (
	RouteRoot              = "/"
	RouteSendEmail         = "/send-email"
	RouteDashboard         = middleware.DashboardPath
	RouteDeleteMessage     = "/delete_message/{id:[0-9]+}"
	RouteDeleteVisit       = "/delete_visit/{id:[0-9]+}"
	RouteDeleteAllMessages = "/delete_all_messages"
	RouteDeleteAllVisits   = "/delete_all_visits"
	RouteExportMessages    = "/export_messages"
	RouteLogout            = "/logout"
	RouteHealth            = "/health"
	RouteMetrics           = "/metrics"
)

// DefaultRequestTimeout bounds every request except the CSV export.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig holds everything the router mounts.
type RouterConfig struct {
	Contact        *ContactHandler
	Dashboard      *DashboardHandler
	Health         *HealthHandler
	SessionManager *scs.SessionManager
	Visits         *middleware.VisitLogger
	CSRF           func(http.Handler) http.Handler
	Security       middleware.SecurityHeadersConfig
	TrustProxy     bool
	AccessLog      bool
	Metrics        bool
	RequestTimeout time.Duration
}

// NewRouter builds the application router.
func NewRouter(cfg RouterConfig) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	if cfg.AccessLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.SetHeader("Access-Control-Allow-Origin", "*"))
	r.Use(chimw.SetHeader("Access-Control-Allow-Headers", "Content-Type"))
	r.Use(chimw.SetHeader("Access-Control-Allow-Methods", "GET, POST, OPTIONS"))
	r.Use(middleware.SecurityHeaders(cfg.Security))
	r.Use(cfg.SessionManager.LoadAndSave)
	if cfg.Visits != nil {
		r.Use(cfg.Visits.Handler)
	}

	// Public API
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))
		r.Get(RouteRoot, Home)
		r.Options(RouteSendEmail, cfg.Contact.Preflight)
		r.Post(RouteSendEmail, cfg.Contact.Submit)
		if cfg.Health != nil {
			r.Get(RouteHealth, cfg.Health.Health)
		}
	})

	if cfg.Metrics {
		r.Handle(RouteMetrics, metrics.Handler())
	}

	// Login entry point
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))
		if cfg.CSRF != nil {
			r.Use(cfg.CSRF)
		}
		r.Get(RouteDashboard, cfg.Dashboard.Dashboard)
		r.Post(RouteDashboard, cfg.Dashboard.Dashboard)
	})
	r.Get(RouteLogout, cfg.Dashboard.Logout)

	// Admin only
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(cfg.SessionManager))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(timeout))
			r.Get(RouteDeleteMessage, cfg.Dashboard.DeleteMessage)
			r.Get(RouteDeleteVisit, cfg.Dashboard.DeleteVisit)
			r.Get(RouteDeleteAllMessages, cfg.Dashboard.DeleteAllMessages)
			r.Get(RouteDeleteAllVisits, cfg.Dashboard.DeleteAllVisits)
		})
		r.Get(RouteExportMessages, cfg.Dashboard.ExportMessages)
	})

	return r
}
