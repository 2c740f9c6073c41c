// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/Veerakabilan31/portfolio/internal/metrics"
)

// Notification kinds, used as log and metric labels.
const (
	KindOwner = "owner"
	KindReply = "reply"
)

// DetailSent is the detail reported for a successful send.
const DetailSent = "sent"

// Config holds the dispatcher settings.
type Config struct {
	// From is the sender, e.g. "Portfolio <onboarding@resend.dev>".
	From string
	// OwnerAddress receives the owner notice.
	OwnerAddress string
	// OwnerName signs the visitor acknowledgment.
	OwnerName string
	// Timeout bounds each send. Zero means 30 seconds.
	Timeout time.Duration
}

// Contact is a stored contact submission to notify about.
type Contact struct {
	ID         int64
	Name       string
	Email      string
	Message    string
	ReceivedAt time.Time
}

// Outcome reports what happened to each of the two notifications.
type Outcome struct {
	OwnerSent   bool
	OwnerDetail string
	ReplySent   bool
	ReplyDetail string
}

// Dispatcher formats notifications and sends them through a Transport
// guarded by a circuit breaker.
type Dispatcher struct {
	transport Transport
	cfg       Config
	breaker   *gobreaker.CircuitBreaker[struct{}]
	logger    *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(transport Transport, cfg Config, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	d := &Dispatcher{
		transport: transport,
		cfg:       cfg,
		logger:    logger,
	}
	d.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "mail-" + transport.Name(),
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("mail circuit breaker state changed",
				"category", "email",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return d
}

// Send delivers one HTML email and reports (true, "sent") or (false, detail).
// It never returns an error; failures are described by the detail string.
func (d *Dispatcher) Send(ctx context.Context, to, subject, html string) (bool, string) {
	if to == "" {
		return false, "no recipient address"
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	_, err := d.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, d.transport.Send(ctx, Email{
			From:    d.cfg.From,
			To:      to,
			Subject: subject,
			HTML:    html,
		})
	})
	if err == nil {
		return true, DetailSent
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return false, "mail transport unavailable: " + err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return false, "mail send timed out after " + d.cfg.Timeout.String()
	default:
		return false, err.Error()
	}
}

// Notify sends the owner notice and then the visitor acknowledgment.
// A failed owner notice does not prevent the acknowledgment.
func (d *Dispatcher) Notify(ctx context.Context, c Contact) Outcome {
	var out Outcome

	ownerHTML, err := RenderOwnerNotice(c)
	if err != nil {
		out.OwnerDetail = err.Error()
	} else {
		out.OwnerSent, out.OwnerDetail = d.send(ctx, KindOwner, c, d.cfg.OwnerAddress, OwnerSubject(c.Name), ownerHTML)
	}

	replyHTML, err := RenderReply(c, d.cfg.OwnerName)
	if err != nil {
		out.ReplyDetail = err.Error()
	} else {
		out.ReplySent, out.ReplyDetail = d.send(ctx, KindReply, c, c.Email, ReplySubject, replyHTML)
	}

	return out
}

func (d *Dispatcher) send(ctx context.Context, kind string, c Contact, to, subject, html string) (bool, string) {
	start := time.Now()
	ok, detail := d.Send(ctx, to, subject, html)
	metrics.RecordNotification(kind, ok, time.Since(start))

	if !ok {
		d.logger.Warn("notification email failed",
			"category", "email",
			"kind", kind,
			"message_id", c.ID,
			"transport", d.transport.Name(),
			"detail", detail,
		)
		return false, detail
	}

	d.logger.Debug("notification email sent", "kind", kind, "message_id", c.ID)
	return true, detail
}
