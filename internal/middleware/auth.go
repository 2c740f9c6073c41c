// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for admin access control,
// visit logging, CSRF protection and request handling.
package middleware

import (
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/Veerakabilan31/portfolio/internal/session"
)

// DashboardPath is where anonymous admin requests are sent to log in.
const DashboardPath = "/dashboard"

// RequireAdmin creates middleware that requires an admin session.
// Anonymous requests are redirected to the dashboard login form.
func RequireAdmin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !session.IsAdmin(r.Context(), sm) {
				http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
