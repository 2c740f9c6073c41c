// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Veerakabilan31/portfolio/internal/middleware"
	"github.com/Veerakabilan31/portfolio/internal/render"
)

// flashAndRedirect sets a flash message and redirects to the dashboard.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, message, messageType string) {
	renderer.SetFlash(r.Context(), message, messageType)
	http.Redirect(w, r, middleware.DashboardPath, http.StatusSeeOther)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logger *slog.Logger, logMsg string, args ...any) {
	logger.Error(logMsg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// parseIDParam reads the numeric {id} route parameter.
func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
