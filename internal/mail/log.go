// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"log/slog"
)

// LogTransport only logs outgoing email. Used in development when no
// provider is configured.
type LogTransport struct {
	logger *slog.Logger
}

// NewLogTransport creates a LogTransport.
func NewLogTransport(logger *slog.Logger) *LogTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogTransport{logger: logger}
}

// Name returns the transport identifier.
func (t *LogTransport) Name() string {
	return "log"
}

// Send logs the email envelope and body size.
func (t *LogTransport) Send(_ context.Context, e Email) error {
	t.logger.Info("email not sent, log transport active",
		"to", e.To,
		"subject", e.Subject,
		"html_bytes", len(e.HTML),
	)
	return nil
}
