// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/Veerakabilan31/portfolio/internal/session"
)

const healthCheckTimeout = 2 * time.Second

// Pinger checks that the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        Pinger
	sm        *scs.SessionManager
	version   string
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db Pinger, sm *scs.SessionManager, version string, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		db:        db,
		sm:        sm,
		version:   version,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthStatusPublic is the minimal health response for anonymous callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus adds details for a logged-in admin.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Version   string    `json:"version,omitempty"`
	Database  Check     `json:"database"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())

	overall := statusOK
	code := http.StatusOK
	if dbCheck.Status != statusOK {
		overall = "unavailable"
		code = http.StatusServiceUnavailable
	}

	if !h.isAdmin(r) {
		writeJSON(w, code, HealthStatusPublic{Status: overall})
		return
	}

	writeJSON(w, code, HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Database:  dbCheck,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("health check database ping failed", "error", err)
		return Check{Status: "unavailable", Message: "database unreachable"}
	}
	return Check{Status: statusOK, Latency: time.Since(start).String()}
}

// isAdmin reports whether the caller has an admin session. The router loads
// the session before this handler runs.
func (h *HealthHandler) isAdmin(r *http.Request) bool {
	if h.sm == nil {
		return false
	}
	return session.IsAdmin(r.Context(), h.sm)
}
