// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mail formats and delivers the contact form notifications:
// a notice to the site owner and an acknowledgment to the visitor.
package mail

import (
	"context"
	"fmt"
)

// Email is a single HTML message ready for delivery.
type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Transport delivers an Email through some provider.
type Transport interface {
	Name() string
	Send(ctx context.Context, e Email) error
}

// APIError is returned when a mail provider answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mail provider returned status %d: %s", e.StatusCode, e.Body)
}
