// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// DefaultResendEndpoint is the Resend email API.
const DefaultResendEndpoint = "https://api.resend.com/emails"

// maxErrorBody caps how much of a provider error response is kept.
const maxErrorBody = 4096

// ResendTransport sends email through the Resend HTTP API.
type ResendTransport struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// ResendOption configures a ResendTransport.
type ResendOption func(*ResendTransport)

// WithResendEndpoint overrides the API URL.
func WithResendEndpoint(url string) ResendOption {
	return func(t *ResendTransport) { t.endpoint = url }
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) ResendOption {
	return func(t *ResendTransport) { t.client = c }
}

// NewResendTransport creates a Resend transport authenticated with apiKey.
func NewResendTransport(apiKey string, opts ...ResendOption) *ResendTransport {
	t := &ResendTransport{
		apiKey:   apiKey,
		endpoint: DefaultResendEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the transport identifier.
func (t *ResendTransport) Name() string {
	return "resend"
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send posts the email to the Resend API.
func (t *ResendTransport) Send(ctx context.Context, e Email) error {
	if t.apiKey == "" {
		return errors.New("resend: API key not configured")
	}

	body, err := json.Marshal(resendPayload{
		From:    e.From,
		To:      []string{e.To},
		Subject: e.Subject,
		HTML:    e.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend: marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("resend: creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("resend: sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		respBody = []byte("(failed to read response)")
	}
	return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
}
