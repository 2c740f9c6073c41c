// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SMTPConfig holds the mail submission server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// UseTLS upgrades the connection with STARTTLS before authenticating.
	UseTLS bool
}

// SMTPTransport sends email through an SMTP submission server.
type SMTPTransport struct {
	cfg         SMTPConfig
	dialTimeout time.Duration
	now         func() time.Time
}

// NewSMTPTransport creates an SMTP transport.
func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	return &SMTPTransport{
		cfg:         cfg,
		dialTimeout: 30 * time.Second,
		now:         time.Now,
	}
}

// Name returns the transport identifier.
func (t *SMTPTransport) Name() string {
	return "smtp"
}

// Send delivers the email.
func (t *SMTPTransport) Send(ctx context.Context, e Email) error {
	from, err := mail.ParseAddress(e.From)
	if err != nil {
		return fmt.Errorf("smtp: invalid sender %q: %w", e.From, err)
	}
	to, err := mail.ParseAddress(e.To)
	if err != nil {
		return fmt.Errorf("smtp: invalid recipient %q: %w", e.To, err)
	}

	msg, err := buildMessage(e, from, to, t.now(), t.messageID(from.Address))
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))
	dialer := &net.Dialer{Timeout: t.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp: failed to connect to %s: %w", addr, err)
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp: failed to create client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if t.cfg.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: t.cfg.Host,
			MinVersion: tls.VersionTLS12,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("smtp: failed to start TLS: %w", err)
		}
	}

	if t.cfg.Username != "" && t.cfg.Password != "" {
		auth := smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp: authentication failed: %w", err)
		}
	}

	if err := client.Mail(from.Address); err != nil {
		return fmt.Errorf("smtp: failed to set sender: %w", err)
	}
	if err := client.Rcpt(to.Address); err != nil {
		return fmt.Errorf("smtp: failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp: failed to start message: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp: failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp: failed to close message: %w", err)
	}

	// The message is accepted once DATA closes; a failed QUIT is not an error.
	_ = client.Quit()
	return nil
}

func (t *SMTPTransport) messageID(fromAddr string) string {
	domain := t.cfg.Host
	if at := strings.LastIndex(fromAddr, "@"); at >= 0 && at < len(fromAddr)-1 {
		domain = fromAddr[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

// buildMessage renders RFC 5322 headers and a quoted-printable HTML body.
func buildMessage(e Email, from, to *mail.Address, date time.Time, messageID string) ([]byte, error) {
	var b strings.Builder

	writeHeader := func(name, value string) {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(sanitizeHeader(value))
		b.WriteString("\r\n")
	}

	writeHeader("From", from.String())
	writeHeader("To", to.String())
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", sanitizeHeader(e.Subject)))
	writeHeader("Date", date.Format(time.RFC1123Z))
	writeHeader("Message-ID", messageID)
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", "text/html; charset=UTF-8")
	writeHeader("Content-Transfer-Encoding", "quoted-printable")
	b.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&b)
	if _, err := qp.Write([]byte(e.HTML)); err != nil {
		return nil, fmt.Errorf("smtp: encoding body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("smtp: encoding body: %w", err)
	}
	b.WriteString("\r\n")

	return []byte(b.String()), nil
}

// sanitizeHeader removes CR and LF so values cannot inject extra headers.
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}
