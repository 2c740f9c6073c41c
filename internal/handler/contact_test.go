// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veerakabilan31/portfolio/internal/testutil"
)

func decodeAPIResponse(t *testing.T, body string) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", body, err)
	}
	return resp
}

func submit(h *ContactHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, RouteSendEmail, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Submit(w, req)
	return w
}

func TestContactSubmit_Valid(t *testing.T) {
	st := testutil.TestStore(t)
	notifier := &recordingNotifier{}
	h := NewContactHandler(st, notifier, testutil.TestLoggerSilent())

	w := submit(h, `{"name":"  Ana ","email":"ana@example.com","message":"Hello\nthere"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	resp := decodeAPIResponse(t, w.Body.String())
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, msgContactStored, resp.Message)
	assert.NotZero(t, resp.ID)

	n, err := st.CountMessages(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	m, err := st.GetMessage(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", m.Name)
	assert.Equal(t, "Hello\nthere", m.Message)

	calls := notifier.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, resp.ID, calls[0].ID)
	assert.Equal(t, "ana@example.com", calls[0].Email)
	assert.False(t, calls[0].ReceivedAt.IsZero())
}

func TestContactSubmit_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		missing string
	}{
		{"all empty", `{}`, "name, email, message"},
		{"whitespace name", `{"name":"   ","email":"a@x.com","message":"hi"}`, "name"},
		{"missing email", `{"name":"A","message":"hi"}`, "email"},
		{"blank message", `{"name":"A","email":"a@x.com","message":"\n\t "}`, "message"},
		{"email and message", `{"name":"A","email":" ","message":""}`, "email, message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := testutil.TestStore(t)
			notifier := &recordingNotifier{}
			h := NewContactHandler(st, notifier, testutil.TestLoggerSilent())

			w := submit(h, tt.body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			resp := decodeAPIResponse(t, w.Body.String())
			want := fmt.Sprintf("Missing fields: %s (name, email, message required)", tt.missing)
			if resp.Status != "error" || resp.Message != want {
				t.Errorf("response = %+v, want error %q", resp, want)
			}

			n, _ := st.CountMessages(context.Background())
			if n != 0 {
				t.Errorf("messages stored = %d, want 0", n)
			}
			if len(notifier.calls()) != 0 {
				t.Error("notifier called for invalid submission")
			}
		})
	}
}

func TestContactSubmit_InvalidJSON(t *testing.T) {
	h := NewContactHandler(&fakeStore{}, nil, testutil.TestLoggerSilent())

	for _, body := range []string{"", "not json", `{"name":`, `["a"]`} {
		w := submit(h, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, w.Code)
			continue
		}
		if resp := decodeAPIResponse(t, w.Body.String()); resp.Message != msgInvalidJSON {
			t.Errorf("body %q: message = %q", body, resp.Message)
		}
	}
}

func TestContactSubmit_TooLarge(t *testing.T) {
	h := NewContactHandler(&fakeStore{}, nil, testutil.TestLoggerSilent())

	body := `{"name":"A","email":"a@x.com","message":"` + strings.Repeat("x", MaxContactBodyBytes) + `"}`
	w := submit(h, body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestContactSubmit_StorageFailure(t *testing.T) {
	st := &fakeStore{err: errStoreDown}
	notifier := &recordingNotifier{}
	h := NewContactHandler(st, notifier, testutil.TestLoggerSilent())

	w := submit(h, `{"name":"A","email":"a@x.com","message":"hi"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeAPIResponse(t, w.Body.String())
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, msgInternal, resp.Message)
	assert.NotContains(t, w.Body.String(), "locked", "storage details must not leak")
	assert.Empty(t, notifier.calls(), "no email without a stored row")
}

func TestContactSubmit_Concurrent(t *testing.T) {
	st := testutil.TestStore(t)
	h := NewContactHandler(st, nil, testutil.TestLoggerSilent())

	const n = 25
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := submit(h, fmt.Sprintf(`{"name":"n%d","email":"e%d@x.com","message":"m"}`, i, i))
			if w.Code == http.StatusOK {
				var resp apiResponse
				_ = json.Unmarshal(w.Body.Bytes(), &resp)
				ids <- resp.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %d", id)
		}
		seen[id] = true
	}
	assert.Len(t, seen, n)

	count, err := st.CountMessages(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, n, count)
}

func TestContactPreflight(t *testing.T) {
	app := newTestApp(t, &fakeStore{})

	resp, body := app.do(t, http.MethodOptions, RouteSendEmail, "", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeAPIResponse(t, body).Status)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type", resp.Header.Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "GET, POST, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
}

func TestContactPreflightIsLoggedAsVisit(t *testing.T) {
	st := &fakeStore{}
	app := newTestApp(t, st)

	resp, _ := app.do(t, http.MethodOptions, RouteSendEmail, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, st.visits, 1)
}

func TestContactThroughRouter(t *testing.T) {
	st := &fakeStore{}
	app := newTestApp(t, st)

	resp, body := app.do(t, http.MethodPost, RouteSendEmail,
		`{"name":"A","email":"a@x.com","message":"hi"}`, "text/plain")

	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Len(t, app.notifier.calls(), 1)
	assert.Empty(t, st.visits, "POST /send-email is never logged as a visit")
}
