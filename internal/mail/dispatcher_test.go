// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeTransport records sent emails and fails for configured recipients.
type fakeTransport struct {
	mu     sync.Mutex
	sent   []Email
	failTo map[string]error
	block  bool
}

func (f *fakeTransport) Name() string { return "fake" }

func (f *fakeTransport) Send(ctx context.Context, e Email) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failTo[e.To]; err != nil {
		return err
	}
	f.sent = append(f.sent, e)
	return nil
}

func (f *fakeTransport) emails() []Email {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Email(nil), f.sent...)
}

func testConfig() Config {
	return Config{
		From:         "Portfolio <onboarding@resend.dev>",
		OwnerAddress: "owner@example.com",
		OwnerName:    "Veerakabilan",
		Timeout:      time.Second,
	}
}

func testContact() Contact {
	return Contact{
		ID:         7,
		Name:       "Ada",
		Email:      "ada@example.org",
		Message:    "Hello there\nSecond line",
		ReceivedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestDispatcher_Send(t *testing.T) {
	tr := &fakeTransport{}
	d := NewDispatcher(tr, testConfig(), nil)

	ok, detail := d.Send(context.Background(), "someone@example.com", "Subject", "<p>x</p>")
	if !ok || detail != DetailSent {
		t.Fatalf("Send = (%v, %q), want (true, %q)", ok, detail, DetailSent)
	}

	sent := tr.emails()
	if len(sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sent))
	}
	if sent[0].From != "Portfolio <onboarding@resend.dev>" {
		t.Errorf("From = %q", sent[0].From)
	}
}

func TestDispatcher_SendFailure(t *testing.T) {
	tr := &fakeTransport{failTo: map[string]error{"bad@example.com": &APIError{StatusCode: 403, Body: "forbidden"}}}
	d := NewDispatcher(tr, testConfig(), nil)

	ok, detail := d.Send(context.Background(), "bad@example.com", "Subject", "x")
	if ok {
		t.Fatal("Send should fail")
	}
	if !strings.Contains(detail, "403") {
		t.Errorf("detail = %q, want provider status", detail)
	}

	ok, detail = d.Send(context.Background(), "", "Subject", "x")
	if ok || detail == "" {
		t.Errorf("Send without recipient = (%v, %q)", ok, detail)
	}
}

func TestDispatcher_SendTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 20 * time.Millisecond
	d := NewDispatcher(&fakeTransport{block: true}, cfg, nil)

	start := time.Now()
	ok, detail := d.Send(context.Background(), "x@example.com", "Subject", "x")
	if ok {
		t.Fatal("Send should time out")
	}
	if !strings.Contains(detail, "timed out") {
		t.Errorf("detail = %q, want timeout", detail)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Send took %v, timeout not applied", elapsed)
	}
}

func TestDispatcher_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	tr := &fakeTransport{failTo: map[string]error{"x@example.com": errors.New("connection refused")}}
	d := NewDispatcher(tr, testConfig(), nil)

	for i := 0; i < 5; i++ {
		if ok, _ := d.Send(context.Background(), "x@example.com", "s", "h"); ok {
			t.Fatal("Send should fail")
		}
	}

	ok, detail := d.Send(context.Background(), "y@example.com", "s", "h")
	if ok {
		t.Fatal("Send should be rejected while the breaker is open")
	}
	if !strings.Contains(detail, "unavailable") {
		t.Errorf("detail = %q, want breaker rejection", detail)
	}
	if n := len(tr.emails()); n != 0 {
		t.Errorf("transport received %d emails while open, want 0", n)
	}
}

func TestDispatcher_NotifyOrderAndContent(t *testing.T) {
	tr := &fakeTransport{}
	d := NewDispatcher(tr, testConfig(), nil)

	out := d.Notify(context.Background(), testContact())
	if !out.OwnerSent || !out.ReplySent {
		t.Fatalf("Outcome = %+v, want both sent", out)
	}

	sent := tr.emails()
	if len(sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(sent))
	}

	owner, reply := sent[0], sent[1]
	if owner.To != "owner@example.com" || owner.Subject != "New Portfolio Message from Ada" {
		t.Errorf("owner email = %q / %q", owner.To, owner.Subject)
	}
	for _, want := range []string{"Ada", "ada@example.org", "2026-01-02 03:04:05 UTC", "Hello there<br>Second line"} {
		if !strings.Contains(owner.HTML, want) {
			t.Errorf("owner HTML missing %q:\n%s", want, owner.HTML)
		}
	}

	if reply.To != "ada@example.org" || reply.Subject != ReplySubject {
		t.Errorf("reply email = %q / %q", reply.To, reply.Subject)
	}
	for _, want := range []string{"Hi Ada,", "Hello there<br>Second line", "Veerakabilan"} {
		if !strings.Contains(reply.HTML, want) {
			t.Errorf("reply HTML missing %q:\n%s", want, reply.HTML)
		}
	}
}

func TestDispatcher_OwnerFailureStillSendsReply(t *testing.T) {
	tr := &fakeTransport{failTo: map[string]error{"owner@example.com": errors.New("boom")}}
	d := NewDispatcher(tr, testConfig(), nil)

	out := d.Notify(context.Background(), testContact())
	if out.OwnerSent {
		t.Error("owner notice should have failed")
	}
	if out.OwnerDetail != "boom" {
		t.Errorf("OwnerDetail = %q, want %q", out.OwnerDetail, "boom")
	}
	if !out.ReplySent {
		t.Errorf("reply should still be sent: %+v", out)
	}
}

func TestRenderOwnerNotice_Escapes(t *testing.T) {
	c := testContact()
	c.Name = "<b>Eve</b>"
	c.Message = "<script>alert(1)</script>hi & bye"

	html, err := RenderOwnerNotice(c)
	if err != nil {
		t.Fatalf("RenderOwnerNotice: %v", err)
	}
	if strings.Contains(html, "<script>") || strings.Contains(html, "<b>Eve</b>") {
		t.Errorf("markup was not neutralized:\n%s", html)
	}
	if !strings.Contains(html, "&lt;b&gt;Eve&lt;/b&gt;") {
		t.Errorf("name not escaped:\n%s", html)
	}
	if !strings.Contains(html, "hi &amp; bye") {
		t.Errorf("message text lost:\n%s", html)
	}
	if !strings.Contains(html, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Errorf("message markup not kept as text:\n%s", html)
	}
}

func TestMessageHTML_KeepsAngleBracketText(t *testing.T) {
	c := testContact()
	c.Message = "budget is 1<3k and 5>2 ok\n<html> is my skill"

	for name, render := range map[string]func() (string, error){
		"owner": func() (string, error) { return RenderOwnerNotice(c) },
		"reply": func() (string, error) { return RenderReply(c, "Veerakabilan") },
	} {
		html, err := render()
		if err != nil {
			t.Fatalf("%s: render: %v", name, err)
		}
		want := "budget is 1&lt;3k and 5&gt;2 ok<br>&lt;html&gt; is my skill"
		if !strings.Contains(html, want) {
			t.Errorf("%s: want %q in:\n%s", name, want, html)
		}
	}
}
