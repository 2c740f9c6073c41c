// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/Veerakabilan31/portfolio/internal/logging"
	"github.com/Veerakabilan31/portfolio/internal/mail"
	"github.com/Veerakabilan31/portfolio/internal/metrics"
)

// MaxContactBodyBytes caps the contact request body.
const MaxContactBodyBytes = 64 << 10

const (
	msgContactStored = "Message stored; email notifications queued."
	msgInvalidJSON   = "Invalid JSON body"
	msgInternal      = "Internal Server Error"
)

// MessageStore persists contact messages.
type MessageStore interface {
	InsertMessage(ctx context.Context, name, email, body string) (int64, error)
}

// Notifier sends the owner notice and visitor auto-reply for a stored contact.
// Implementations must not block the caller on delivery.
type Notifier interface {
	Notify(ctx context.Context, c mail.Contact)
}

// ContactRequest is the body of POST /send-email.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (c *ContactRequest) trim() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Message = strings.TrimSpace(c.Message)
}

// ContactHandler handles the public contact form API.
type ContactHandler struct {
	store    MessageStore
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(store MessageStore, notifier Notifier, logger *slog.Logger) *ContactHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactHandler{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Preflight handles OPTIONS /send-email.
func (h *ContactHandler) Preflight(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{Status: statusOK})
}

// Submit handles POST /send-email. The message is stored before any email
// is attempted; the response reflects only whether it was stored.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxContactBodyBytes)

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			metrics.RecordContactSubmission(metrics.ResultInvalid)
			writeJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		metrics.RecordContactSubmission(metrics.ResultInvalid)
		writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	req.trim()

	missing, err := failedFields(&req)
	if err != nil {
		metrics.RecordContactSubmission(metrics.ResultError)
		h.logger.Error("validating contact request", "error", err)
		writeJSONError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if len(missing) > 0 {
		metrics.RecordContactSubmission(metrics.ResultInvalid)
		writeJSONError(w, http.StatusBadRequest,
			"Missing fields: "+strings.Join(missing, ", ")+" (name, email, message required)")
		return
	}

	id, err := h.store.InsertMessage(r.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		metrics.RecordContactSubmission(metrics.ResultError)
		h.logger.Error("storing contact message", "error", err, "category", logging.EventCategoryStorage)
		writeJSONError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	metrics.RecordContactSubmission(metrics.ResultSuccess)
	h.logger.Info("contact message stored", "message_id", id)

	if h.notifier != nil {
		h.notifier.Notify(r.Context(), mail.Contact{
			ID:         id,
			Name:       req.Name,
			Email:      req.Email,
			Message:    req.Message,
			ReceivedAt: h.now().UTC(),
		})
	}

	writeJSON(w, http.StatusOK, apiResponse{Status: statusSuccess, Message: msgContactStored, ID: id})
}
