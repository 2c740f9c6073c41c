// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.html
var templateFS embed.FS

var emailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Subjects of the two notification emails.
const (
	ReplySubject       = "Thanks — I've received your message"
	ownerSubjectPrefix = "New Portfolio Message from "
)

// OwnerTimeLayout formats the received time in the owner notice.
const OwnerTimeLayout = "2006-01-02 15:04:05 UTC"

// lineBreakPolicy admits only the <br> elements messageHTML inserts.
var lineBreakPolicy = bluemonday.NewPolicy().AllowElements("br")

// OwnerSubject returns the subject line of the owner notice.
func OwnerSubject(name string) string {
	return ownerSubjectPrefix + name
}

type ownerData struct {
	Name    string
	Email   string
	Time    string
	Message template.HTML
}

type replyData struct {
	Name      string
	OwnerName string
	Message   template.HTML
}

// RenderOwnerNotice renders the email sent to the site owner.
func RenderOwnerNotice(c Contact) (string, error) {
	return render("owner.html", ownerData{
		Name:    c.Name,
		Email:   c.Email,
		Time:    receivedAt(c).UTC().Format(OwnerTimeLayout),
		Message: messageHTML(c.Message),
	})
}

// RenderReply renders the acknowledgment sent to the visitor.
func RenderReply(c Contact, ownerName string) (string, error) {
	return render("reply.html", replyData{
		Name:      c.Name,
		OwnerName: ownerName,
		Message:   messageHTML(c.Message),
	})
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// messageHTML escapes a visitor message so its text survives verbatim and
// turns line breaks into <br>.
func messageHTML(body string) template.HTML {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	escaped := template.HTMLEscapeString(body)
	withBreaks := strings.ReplaceAll(escaped, "\n", "<br>")
	return template.HTML(lineBreakPolicy.Sanitize(withBreaks)) //nolint:gosec // escaped, <br> only
}

func receivedAt(c Contact) time.Time {
	if c.ReceivedAt.IsZero() {
		return time.Now().UTC()
	}
	return c.ReceivedAt
}
