// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Veerakabilan31/portfolio/internal/metrics"
)

// visitInsertTimeout bounds a single background visit insert.
const visitInsertTimeout = 5 * time.Second

// VisitRecorder persists a visit.
type VisitRecorder interface {
	InsertVisit(ctx context.Context, addr, userAgent string) (int64, error)
}

// Requests that are never recorded as visits.
var (
	visitExcludedPrefixes = []string{"/static/"}
	// Prefixes excluded only when followed by a numeric id, matching the
	// routed delete endpoints. Anything else under them is a 404 and logged.
	visitExcludedIDPrefixes = []string{
		"/delete_message/",
		"/delete_visit/",
	}
	visitExcludedPaths = map[string]bool{
		"/dashboard":           true,
		"/delete_all_messages": true,
		"/delete_all_visits":   true,
		"/logout":              true,
		"/export_messages":     true,
		"/health":              true,
		"/metrics":             true,
		"/favicon.ico":         true,
	}
	// Paths excluded for one method only. CORS preflights are still visits.
	visitExcludedMethodPaths = map[string]string{
		"/send-email": http.MethodPost,
	}
)

// VisitLogger records one visit per non-excluded request. Inserts run in the
// background and never affect the response.
type VisitLogger struct {
	store  VisitRecorder
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewVisitLogger creates a VisitLogger writing to store.
func NewVisitLogger(store VisitRecorder, logger *slog.Logger) *VisitLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &VisitLogger{store: store, logger: logger}
}

// Handler returns the middleware.
func (v *VisitLogger) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ShouldLogVisit(r.Method, r.URL.Path) {
			v.record(clientIP(r), r.UserAgent())
		}
		next.ServeHTTP(w, r)
	})
}

// Wait blocks until all in-flight visit inserts have finished.
func (v *VisitLogger) Wait() {
	v.wg.Wait()
}

func (v *VisitLogger) record(addr, userAgent string) {
	v.wg.Add(1)
	go func() {
		defer v.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), visitInsertTimeout)
		defer cancel()

		if _, err := v.store.InsertVisit(ctx, addr, userAgent); err != nil {
			metrics.RecordVisit(false)
			v.logger.Warn("visit logging failed", "error", err)
			return
		}
		metrics.RecordVisit(true)
	}()
}

// ShouldLogVisit reports whether a request is recorded as a visit.
// Unknown paths are recorded.
func ShouldLogVisit(method, path string) bool {
	if visitExcludedPaths[path] {
		return false
	}
	if m, ok := visitExcludedMethodPaths[path]; ok && m == method {
		return false
	}
	for _, prefix := range visitExcludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	for _, prefix := range visitExcludedIDPrefixes {
		if id, ok := strings.CutPrefix(path, prefix); ok && isDigits(id) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// clientIP returns the host part of the peer address, falling back to the
// first X-Forwarded-For entry when the peer address is empty.
func clientIP(r *http.Request) string {
	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return host
		}
		// chi's RealIP stores a bare address without a port.
		return strings.Trim(r.RemoteAddr, "[]")
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	return ""
}
