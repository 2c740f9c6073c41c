// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"fmt"
	"strings"
	"time"
)

// Message is a stored contact submission.
type Message struct {
	ID        int64
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

// Visit is one logged inbound request.
type Visit struct {
	ID        int64
	IP        string
	UserAgent string
	CreatedAt time.Time
}

// Event is a warning or error mirrored from the application log.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// DailyCount is the number of rows created on one calendar day (UTC).
type DailyCount struct {
	Day   string // YYYY-MM-DD
	Count int64
}

// TimestampLayout is how SQLite's CURRENT_TIMESTAMP renders a DATETIME.
const TimestampLayout = "2006-01-02 15:04:05"

var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05Z",
	time.RFC3339Nano,
	"2006-01-02",
}

// timeScanner reads DATETIME columns regardless of whether the driver
// hands back a time.Time or the raw text.
type timeScanner struct {
	dst *time.Time
}

func scanTime(dst *time.Time) timeScanner {
	return timeScanner{dst: dst}
}

func (s timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s.dst = time.Time{}
		return nil
	case time.Time:
		*s.dst = v.UTC()
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (s timeScanner) parse(v string) error {
	v = strings.TrimSpace(v)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			*s.dst = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", v)
}
