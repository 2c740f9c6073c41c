// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"

	"github.com/Veerakabilan31/portfolio/internal/auth"
	"github.com/Veerakabilan31/portfolio/internal/logging"
	"github.com/Veerakabilan31/portfolio/internal/metrics"
	"github.com/Veerakabilan31/portfolio/internal/middleware"
	"github.com/Veerakabilan31/portfolio/internal/render"
	"github.com/Veerakabilan31/portfolio/internal/report"
	"github.com/Veerakabilan31/portfolio/internal/session"
	"github.com/Veerakabilan31/portfolio/internal/store"
)

const msgInvalidCredentials = "Invalid credentials"

// DashboardStore is what the admin pages read and delete.
type DashboardStore interface {
	report.Source
	DeleteMessage(ctx context.Context, id int64) error
	DeleteVisit(ctx context.Context, id int64) error
	DeleteAllMessages(ctx context.Context) error
	DeleteAllVisits(ctx context.Context) error
	ForEachMessage(ctx context.Context, fn func(store.Message) error) error
}

// DashboardHandler serves the password-gated admin pages.
type DashboardHandler struct {
	store       DashboardStore
	sm          *scs.SessionManager
	renderer    *render.Renderer
	credentials auth.Credentials
	countries   report.CountryResolver
	logger      *slog.Logger
}

// DashboardConfig wires a DashboardHandler.
type DashboardConfig struct {
	Store          DashboardStore
	SessionManager *scs.SessionManager
	Renderer       *render.Renderer
	Credentials    auth.Credentials
	// Countries is optional.
	Countries report.CountryResolver
	Logger    *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(cfg DashboardConfig) *DashboardHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		store:       cfg.Store,
		sm:          cfg.SessionManager,
		renderer:    cfg.Renderer,
		credentials: cfg.Credentials,
		countries:   cfg.Countries,
		logger:      logger,
	}
}

// Dashboard handles GET and POST /dashboard. Anonymous GETs see the login
// form and anonymous POSTs attempt a login. Authenticated requests of either
// method see the dashboard.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if session.IsAdmin(r.Context(), h.sm) {
		h.showDashboard(w, r)
		return
	}

	if r.Method == http.MethodPost {
		h.login(w, r)
		return
	}

	h.renderLogin(w, r, http.StatusOK, "")
}

func (h *DashboardHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	if !h.credentials.Verify(r.PostFormValue("username"), r.PostFormValue("password")) {
		metrics.RecordAdminLogin(false)
		h.logger.Warn("admin login failed",
			"category", logging.EventCategoryAuth,
			"remote_addr", r.RemoteAddr)
		h.renderLogin(w, r, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	if err := session.Login(r.Context(), h.sm); err != nil {
		logAndInternalError(w, h.logger, "admin login", "error", err)
		return
	}

	metrics.RecordAdminLogin(true)
	h.logger.Info("admin logged in", "remote_addr", r.RemoteAddr)
	http.Redirect(w, r, middleware.DashboardPath, http.StatusSeeOther)
}

func (h *DashboardHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	err := h.renderer.Render(w, r, status, "login", render.TemplateData{
		Title: "Login",
		Error: errMsg,
	})
	if err != nil {
		logAndInternalError(w, h.logger, "rendering login", "error", err)
	}
}

func (h *DashboardHandler) showDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := report.Build(r.Context(), h.store, report.Options{Countries: h.countries})
	if err != nil {
		logAndInternalError(w, h.logger, "building dashboard", "error", err, "category", logging.EventCategoryStorage)
		return
	}

	if err := h.renderer.Render(w, r, http.StatusOK, "dashboard", render.TemplateData{
		Title: "Dashboard",
		Data:  d,
	}); err != nil {
		logAndInternalError(w, h.logger, "rendering dashboard", "error", err)
	}
}

// Logout handles GET /logout.
func (h *DashboardHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := session.Logout(r.Context(), h.sm); err != nil {
		logAndInternalError(w, h.logger, "admin logout", "error", err)
		return
	}
	http.Redirect(w, r, middleware.DashboardPath, http.StatusSeeOther)
}

// DeleteMessage handles GET /delete_message/{id}. Missing ids are not an error.
func (h *DashboardHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "message", h.store.DeleteMessage)
}

// DeleteVisit handles GET /delete_visit/{id}.
func (h *DashboardHandler) DeleteVisit(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "visit", h.store.DeleteVisit)
}

// DeleteAllMessages handles GET /delete_all_messages.
func (h *DashboardHandler) DeleteAllMessages(w http.ResponseWriter, r *http.Request) {
	h.deleteAll(w, r, "messages", h.store.DeleteAllMessages)
}

// DeleteAllVisits handles GET /delete_all_visits.
func (h *DashboardHandler) DeleteAllVisits(w http.ResponseWriter, r *http.Request) {
	h.deleteAll(w, r, "visits", h.store.DeleteAllVisits)
}

func (h *DashboardHandler) deleteByID(w http.ResponseWriter, r *http.Request, entity string, del func(context.Context, int64) error) {
	id, err := parseIDParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := del(r.Context(), id); err != nil {
		logAndInternalError(w, h.logger, "deleting "+entity, "error", err, entity+"_id", id,
			"category", logging.EventCategoryStorage)
		return
	}

	h.logger.Info(entity+" deleted", entity+"_id", id)
	flashAndRedirect(w, r, h.renderer, "Deleted "+entity+" #"+strconv.FormatInt(id, 10), render.FlashSuccess)
}

func (h *DashboardHandler) deleteAll(w http.ResponseWriter, r *http.Request, entity string, del func(context.Context) error) {
	if err := del(r.Context()); err != nil {
		logAndInternalError(w, h.logger, "deleting all "+entity, "error", err,
			"category", logging.EventCategoryStorage)
		return
	}

	h.logger.Info("all " + entity + " deleted")
	flashAndRedirect(w, r, h.renderer, "All "+entity+" deleted", render.FlashSuccess)
}
