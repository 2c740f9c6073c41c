// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exposes Prometheus counters for contact intake,
// notification delivery, visit logging and admin logins.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultError   = "error"
	ResultFailure = "failure"
)

var (
	// ContactSubmissionsTotal counts contact form submissions by outcome.
	ContactSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_contact_submissions_total",
			Help: "Total number of contact form submissions",
		},
		[]string{"result"},
	)

	// NotificationsTotal counts email sends by kind (owner, reply) and outcome.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_notifications_total",
			Help: "Total number of notification emails attempted",
		},
		[]string{"kind", "result"},
	)

	// NotificationDuration tracks how long each email send took.
	NotificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_notification_duration_seconds",
			Help:    "Duration of notification email sends in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	// VisitsLoggedTotal counts visit inserts by outcome.
	VisitsLoggedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_visits_logged_total",
			Help: "Total number of visits recorded",
		},
		[]string{"result"},
	)

	// AdminLoginsTotal counts dashboard login attempts by outcome.
	AdminLoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_admin_logins_total",
			Help: "Total number of admin login attempts",
		},
		[]string{"result"},
	)
)

// RecordContactSubmission records a contact submission outcome.
func RecordContactSubmission(result string) {
	ContactSubmissionsTotal.WithLabelValues(result).Inc()
}

// RecordNotification records one email send.
func RecordNotification(kind string, ok bool, d time.Duration) {
	result := ResultSuccess
	if !ok {
		result = ResultFailure
	}
	NotificationsTotal.WithLabelValues(kind, result).Inc()
	NotificationDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordVisit records a visit insert outcome.
func RecordVisit(ok bool) {
	if ok {
		VisitsLoggedTotal.WithLabelValues(ResultSuccess).Inc()
		return
	}
	VisitsLoggedTotal.WithLabelValues(ResultFailure).Inc()
}

// RecordAdminLogin records a login attempt.
func RecordAdminLogin(ok bool) {
	if ok {
		AdminLoginsTotal.WithLabelValues(ResultSuccess).Inc()
		return
	}
	AdminLoginsTotal.WithLabelValues(ResultFailure).Inc()
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
