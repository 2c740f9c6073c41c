// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors warnings and errors
// into the events table so they show up on the admin dashboard.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Veerakabilan31/portfolio/internal/store"
)

// Event levels stored in the events table.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories.
const (
	EventCategoryEmail    = "email"
	EventCategoryVisit    = "visit"
	EventCategoryAuth     = "auth"
	EventCategoryStorage  = "storage"
	EventCategorySecurity = "security"
	EventCategorySystem   = "system"
)

// EventRecorder persists a mirrored log record.
type EventRecorder interface {
	RecordEvent(ctx context.Context, arg store.CreateEventParams) error
}

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// WARN and ERROR level logs to the event log.
type EventLogHandler struct {
	inner    slog.Handler
	recorder EventRecorder
	level    slog.Level // Minimum level to forward (default: WARN)
	attrs    []slog.Attr
	group    string
}

// NewEventLogHandler creates a new EventLogHandler that wraps the given handler.
func NewEventLogHandler(inner slog.Handler, recorder EventRecorder) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, recorder, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a new EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, recorder EventRecorder, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:    inner,
		recorder: recorder,
		level:    level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeToEventLog(ctx, r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	c.inner = h.inner.WithAttrs(attrs)
	for _, a := range attrs {
		c.attrs = append(c.attrs, h.qualify(a))
	}
	return c
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.inner = h.inner.WithGroup(name)
	if c.group != "" {
		c.group += "." + name
	} else {
		c.group = name
	}
	return c
}

func (h *EventLogHandler) clone() *EventLogHandler {
	return &EventLogHandler{
		inner:    h.inner,
		recorder: h.recorder,
		level:    h.level,
		attrs:    append([]slog.Attr(nil), h.attrs...),
		group:    h.group,
	}
}

func (h *EventLogHandler) qualify(a slog.Attr) slog.Attr {
	if h.group == "" {
		return a
	}
	return slog.Attr{Key: h.group + "." + a.Key, Value: a.Value}
}

// writeToEventLog stores the record. Failures are dropped: logging them
// would re-enter this handler.
func (h *EventLogHandler) writeToEventLog(ctx context.Context, r slog.Record) {
	attrs := append([]slog.Attr(nil), h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.qualify(a))
		return true
	})

	// The request may already be finished; the event is still wanted.
	_ = h.recorder.RecordEvent(context.WithoutCancel(ctx), store.CreateEventParams{
		Level:    eventLevel(r.Level),
		Category: extractCategory(r.Message, attrs),
		Message:  r.Message,
		Metadata: extractMetadata(attrs),
	})
}

// eventLevel converts a slog.Level to an event log level.
func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return EventLevelError
	case level >= slog.LevelWarn:
		return EventLevelWarning
	default:
		return EventLevelInfo
	}
}

// extractCategory uses a "category" attribute when present and otherwise
// infers one from the message.
func extractCategory(msg string, attrs []slog.Attr) string {
	for _, a := range attrs {
		if a.Key == "category" {
			return a.Value.String()
		}
	}

	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "email") || strings.Contains(msg, "mail") || strings.Contains(msg, "notification"):
		return EventCategoryEmail
	case strings.Contains(msg, "visit"):
		return EventCategoryVisit
	case strings.Contains(msg, "login") || strings.Contains(msg, "logout") || strings.Contains(msg, "auth"):
		return EventCategoryAuth
	case strings.Contains(msg, "database") || strings.Contains(msg, "storage") || strings.Contains(msg, "store"):
		return EventCategoryStorage
	case strings.Contains(msg, "csrf"):
		return EventCategorySecurity
	default:
		return EventCategorySystem
	}
}

// extractMetadata encodes the attributes, minus category, as a JSON object.
func extractMetadata(attrs []slog.Attr) string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Key == "category" {
			continue
		}
		m[a.Key] = attrValue(a.Value)
	}
	if len(m) == 0 {
		return "{}"
	}

	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func attrValue(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindAny {
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	}
	return v.String()
}
