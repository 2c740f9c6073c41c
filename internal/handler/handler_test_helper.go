// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/Veerakabilan31/portfolio/internal/auth"
	"github.com/Veerakabilan31/portfolio/internal/mail"
	"github.com/Veerakabilan31/portfolio/internal/middleware"
	"github.com/Veerakabilan31/portfolio/internal/render"
	"github.com/Veerakabilan31/portfolio/internal/store"
	"github.com/Veerakabilan31/portfolio/internal/testutil"
	"github.com/Veerakabilan31/portfolio/web"
)

const (
	testAdminUser = "admin"
	testAdminPass = "correct horse battery staple"
	testSecretKey = "0123456789abcdef0123456789abcdef"
)

var errStoreDown = errors.New("database is locked")

// appStore is the union of the store methods the router needs.
type appStore interface {
	DashboardStore
	MessageStore
	middleware.VisitRecorder
	Pinger
}

// fakeStore is an in-memory store whose operations can be made to fail.
type fakeStore struct {
	mu       sync.Mutex
	messages []store.Message
	visits   []store.Visit
	nextID   int64
	err      error
}

func (f *fakeStore) InsertMessage(_ context.Context, name, email, body string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	f.messages = append(f.messages, store.Message{ID: f.nextID, Name: name, Email: email, Message: body, CreatedAt: time.Now().UTC()})
	return f.nextID, nil
}

func (f *fakeStore) InsertVisit(_ context.Context, addr, ua string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	f.visits = append(f.visits, store.Visit{ID: f.nextID, IP: addr, UserAgent: ua, CreatedAt: time.Now().UTC()})
	return f.nextID, nil
}

func (f *fakeStore) Ping(context.Context) error { return f.err }

func (f *fakeStore) CountVisits(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.visits)), f.err
}

func (f *fakeStore) CountUniqueVisitSources(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	for _, v := range f.visits {
		seen[v.IP] = true
	}
	return int64(len(seen)), f.err
}

func (f *fakeStore) CountMessages(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.messages)), f.err
}

func (f *fakeStore) ListMessages(context.Context, int, store.Order) ([]store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.Message(nil), f.messages...), f.err
}

func (f *fakeStore) ListVisits(context.Context, int, store.Order) ([]store.Visit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.Visit(nil), f.visits...), f.err
}

func (f *fakeStore) DailyCounts(context.Context, store.Table, int) ([]store.DailyCount, error) {
	return nil, f.err
}

func (f *fakeStore) RecentEvents(context.Context, int) ([]store.Event, error) {
	return nil, f.err
}

func (f *fakeStore) ForEachMessage(_ context.Context, fn func(store.Message) error) error {
	if f.err != nil {
		return f.err
	}
	for _, m := range f.messages {
		if err := fn(m); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) DeleteMessage(context.Context, int64) error { return f.err }
func (f *fakeStore) DeleteVisit(context.Context, int64) error   { return f.err }
func (f *fakeStore) DeleteAllMessages(context.Context) error    { return f.err }
func (f *fakeStore) DeleteAllVisits(context.Context) error      { return f.err }
func (f *fakeStore) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// recordingNotifier captures contacts handed to it.
type recordingNotifier struct {
	mu       sync.Mutex
	contacts []mail.Contact
}

func (n *recordingNotifier) Notify(_ context.Context, c mail.Contact) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.contacts = append(n.contacts, c)
}

func (n *recordingNotifier) calls() []mail.Contact {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]mail.Contact(nil), n.contacts...)
}

// testApp is a running router backed by st.
type testApp struct {
	server   *httptest.Server
	client   *http.Client
	visits   *middleware.VisitLogger
	notifier *recordingNotifier
}

func newTestApp(t *testing.T, st appStore) *testApp {
	t.Helper()

	logger := testutil.TestLoggerSilent()

	sm := scs.New()
	sm.Store = memstore.New()

	renderer, err := render.New(render.Config{TemplatesFS: web.TemplatesFS(), SessionManager: sm, IsDev: true})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	notifier := &recordingNotifier{}
	visits := middleware.NewVisitLogger(st, logger)

	router := NewRouter(RouterConfig{
		Contact: NewContactHandler(st, notifier, logger),
		Dashboard: NewDashboardHandler(DashboardConfig{
			Store:          st,
			SessionManager: sm,
			Renderer:       renderer,
			Credentials:    auth.Credentials{Username: testAdminUser, Password: testAdminPass},
			Logger:         logger,
		}),
		Health:         NewHealthHandler(st, sm, "test", logger),
		SessionManager: sm,
		Visits:         visits,
		CSRF:           middleware.CSRF(middleware.DefaultCSRFConfig([]byte(testSecretKey), true)),
		Security:       middleware.DefaultSecurityHeadersConfig(true),
		Metrics:        true,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	t.Cleanup(visits.Wait)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}

	return &testApp{
		server: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		visits:   visits,
		notifier: notifier,
	}
}

func (a *testApp) do(t *testing.T, method, path string, body string, contentType string) (*http.Response, string) {
	t.Helper()

	var req *http.Request
	var err error
	if body != "" {
		req, err = http.NewRequest(method, a.server.URL+path, strings.NewReader(body))
	} else {
		req, err = http.NewRequest(method, a.server.URL+path, nil)
	}
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	a.visits.Wait()
	return resp, string(data)
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	return a.do(t, http.MethodGet, path, "", "")
}

func (a *testApp) login(t *testing.T, user, pass string) (*http.Response, string) {
	t.Helper()
	form := url.Values{"username": {user}, "password": {pass}}
	return a.do(t, http.MethodPost, RouteDashboard, form.Encode(), "application/x-www-form-urlencoded")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
