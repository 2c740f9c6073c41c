// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testCSRFKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig_Development(t *testing.T) {
	cfg := DefaultCSRFConfig(testCSRFKey, true)

	if len(cfg.AuthKey) != 32 {
		t.Errorf("expected 32-byte AuthKey, got %d bytes", len(cfg.AuthKey))
	}

	expectedOrigins := map[string]bool{
		"localhost:8080": true,
		"127.0.0.1:8080": true,
	}
	if len(cfg.TrustedOrigins) != len(expectedOrigins) {
		t.Errorf("expected %d TrustedOrigins in dev mode, got %d", len(expectedOrigins), len(cfg.TrustedOrigins))
	}

	// The csrf library needs host:port values; full URLs cause "origin invalid".
	for _, origin := range cfg.TrustedOrigins {
		if !expectedOrigins[origin] {
			t.Errorf("unexpected TrustedOrigin: %s", origin)
		}
		if strings.HasPrefix(origin, "http") {
			t.Errorf("TrustedOrigin should be host:port, not full URL: %s", origin)
		}
	}
}

func TestDefaultCSRFConfig_Production(t *testing.T) {
	cfg := DefaultCSRFConfig(testCSRFKey, false)

	if len(cfg.TrustedOrigins) != 0 {
		t.Errorf("expected no TrustedOrigins in production, got %d", len(cfg.TrustedOrigins))
	}
}

func TestCSRF_Requests(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CSRF(DefaultCSRFConfig(testCSRFKey, false))(okHandler)

	tests := []struct {
		name         string
		method       string
		secFetchSite string
		wantStatus   int
	}{
		{"same-origin form post", http.MethodPost, "same-origin", http.StatusOK},
		{"post without fetch metadata", http.MethodPost, "", http.StatusOK},
		{"cross-site get", http.MethodGet, "cross-site", http.StatusOK},
		{"cross-site form post", http.MethodPost, "cross-site", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/dashboard", strings.NewReader("username=a&password=b"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.secFetchSite != "" {
				req.Header.Set("Sec-Fetch-Site", tt.secFetchSite)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestCSRF_WithCustomErrorHandler(t *testing.T) {
	cfg := DefaultCSRFConfig(testCSRFKey, false)

	customCalled := false
	cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		customCalled = true
		http.Error(w, "Custom CSRF Error", http.StatusTeapot)
	})

	handler := CSRF(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("protected handler should not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/dashboard", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if !customCalled {
		t.Error("custom error handler was not called")
	}
	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusTeapot)
	}
}
