// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/Veerakabilan31/portfolio/internal/report"
	"github.com/Veerakabilan31/portfolio/internal/store"
	"github.com/Veerakabilan31/portfolio/web"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}<title>{{.Title}}</title>{{if .Flash}}<p class="{{.FlashType}}">{{.Flash}}</p>{{end}}{{template "content" .}}{{end}}`)},
		"pages/hello.html":  {Data: []byte(`{{define "content"}}hello {{.Data}} {{truncate "abcdef" 3}}{{end}}`)},
	}
}

func TestNew(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !r.Has("hello") {
		t.Error("expected hello template")
	}
	if r.Has("missing") {
		t.Error("unexpected template")
	}
}

func TestNew_NoPages(t *testing.T) {
	_, err := New(Config{TemplatesFS: fstest.MapFS{"layouts/base.html": {Data: []byte(`{{define "base"}}{{end}}`)}}})
	if err == nil {
		t.Fatal("expected error without pages")
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	r, err := New(Config{TemplatesFS: web.TemplatesFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	rec := httptest.NewRecorder()
	if err := r.Render(rec, req, http.StatusUnauthorized, "login", TemplateData{Title: "Login", Error: "Invalid credentials"}); err != nil {
		t.Fatalf("Render login: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Invalid credentials") {
		t.Error("login page missing error message")
	}

	d := &report.Dashboard{
		TotalVisits:  3,
		Messages:     []store.Message{{ID: 7, Name: "Ada", Email: "ada@x.com", Message: "hi"}},
		VisitsPerDay: report.Series{{Day: "2026-01-01", Count: 3}},
	}
	rec = httptest.NewRecorder()
	if err := r.Render(rec, req, http.StatusOK, "dashboard", TemplateData{Title: "Dashboard", Data: d}); err != nil {
		t.Fatalf("Render dashboard: %v", err)
	}
	body := rec.Body.String()
	for _, want := range []string{"/delete_message/7", "ada@x.com", "/export_messages", "2026-01-01"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestRender(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := r.Render(rec, req, http.StatusUnauthorized, "hello", TemplateData{Title: "T", Data: "<world>"}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "hello &lt;world&gt;") {
		t.Errorf("body not escaped: %s", body)
	}
	if !strings.Contains(body, "abc...") {
		t.Errorf("truncate not applied: %s", body)
	}
}

func TestRender_Missing(t *testing.T) {
	r, _ := New(Config{TemplatesFS: testFS()})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if err := r.Render(rec, req, http.StatusOK, "nope", TemplateData{}); err == nil {
		t.Fatal("expected error for missing template")
	}
	if rec.Body.Len() != 0 {
		t.Error("nothing should be written on error")
	}
}

func TestFlash(t *testing.T) {
	sm := scs.New()
	sm.Store = memstore.New()
	r, err := New(Config{TemplatesFS: testFS(), SessionManager: sm})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/set", func(w http.ResponseWriter, req *http.Request) {
		r.SetFlash(req.Context(), "Message deleted", FlashSuccess)
	})
	mux.HandleFunc("/show", func(w http.ResponseWriter, req *http.Request) {
		_ = r.Render(w, req, http.StatusOK, "hello", TemplateData{})
	})
	h := sm.LoadAndSave(mux)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/set", nil))
	cookies := rec.Result().Cookies()

	show := func() string {
		req := httptest.NewRequest(http.MethodGet, "/show", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Body.String()
	}

	if body := show(); !strings.Contains(body, `<p class="success">Message deleted</p>`) {
		t.Errorf("first render missing flash: %s", body)
	}
	if body := show(); strings.Contains(body, "Message deleted") {
		t.Errorf("flash shown twice: %s", body)
	}
}

func TestTemplateFuncs(t *testing.T) {
	funcs := templateFuncs()

	format := funcs["formatDateTime"].(func(time.Time) string)
	if got := format(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)); got != "2026-01-02 03:04:05" {
		t.Errorf("formatDateTime = %q", got)
	}
	if got := format(time.Time{}); got != "" {
		t.Errorf("formatDateTime(zero) = %q, want empty", got)
	}

	truncate := funcs["truncate"].(func(string, int) string)
	if got := truncate("héllo", 2); got != "hé..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("hi", 5); got != "hi" {
		t.Errorf("truncate = %q", got)
	}
}
