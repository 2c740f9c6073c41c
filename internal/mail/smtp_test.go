// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"net/mail"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestBuildMessage(t *testing.T) {
	from, _ := mail.ParseAddress("Portfolio <noreply@example.com>")
	to, _ := mail.ParseAddress("visitor@example.org")
	date := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	msg, err := buildMessage(Email{
		Subject: "Hi\r\nBcc: victim@example.com",
		HTML:    "<p>Hello</p>",
	}, from, to, date, "<id@example.com>")
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}
	s := string(msg)

	head, body, ok := strings.Cut(s, "\r\n\r\n")
	if !ok {
		t.Fatal("message has no header/body separator")
	}

	for _, line := range strings.Split(head, "\r\n") {
		if strings.HasPrefix(strings.ToLower(line), "bcc:") {
			t.Errorf("header injection produced line %q", line)
		}
	}
	for _, want := range []string{
		`From: "Portfolio" <noreply@example.com>`,
		"To: <visitor@example.org>",
		"Message-ID: <id@example.com>",
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
		"Content-Transfer-Encoding: quoted-printable",
		"Date: Sun, 01 Mar 2026 12:00:00 +0000",
	} {
		if !strings.Contains(head, want) {
			t.Errorf("headers missing %q:\n%s", want, head)
		}
	}
	if !strings.Contains(body, "<p>Hello</p>") {
		t.Errorf("body = %q", body)
	}
}

func TestBuildMessage_EncodesUTF8Subject(t *testing.T) {
	from, _ := mail.ParseAddress("noreply@example.com")
	to, _ := mail.ParseAddress("visitor@example.org")

	msg, err := buildMessage(Email{Subject: ReplySubject, HTML: "x"}, from, to, time.Now(), "<id@example.com>")
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}
	if !strings.Contains(string(msg), "Subject: =?utf-8?q?") {
		t.Errorf("non-ASCII subject should be Q-encoded:\n%s", msg)
	}
}

func TestSMTPTransport_MessageID(t *testing.T) {
	tr := NewSMTPTransport(SMTPConfig{Host: "smtp.example.com", Port: 587})

	id := tr.messageID("noreply@portfolio.dev")
	if !regexp.MustCompile(`^<[0-9a-f-]{36}@portfolio\.dev>$`).MatchString(id) {
		t.Errorf("messageID = %q", id)
	}
	if tr.messageID("noreply@portfolio.dev") == id {
		t.Error("message ids should be unique")
	}
	if got := tr.messageID("bare"); !strings.HasSuffix(got, "@smtp.example.com>") {
		t.Errorf("messageID without domain = %q, want host fallback", got)
	}
}

func TestSMTPTransport_InvalidAddresses(t *testing.T) {
	tr := NewSMTPTransport(SMTPConfig{Host: "127.0.0.1", Port: 1})

	if err := tr.Send(context.Background(), Email{From: "not an address", To: "a@example.com"}); err == nil {
		t.Error("expected error for invalid sender")
	}
	if err := tr.Send(context.Background(), Email{From: "a@example.com", To: ""}); err == nil {
		t.Error("expected error for empty recipient")
	}
}
