// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

const createEvent = `
INSERT INTO events (level, category, message, metadata)
VALUES (?, ?, ?, ?)
RETURNING id, level, category, message, metadata, created_at
`

// CreateEventParams holds the fields of a mirrored log record.
type CreateEventParams struct {
	Level    string
	Category string
	Message  string
	Metadata string
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx, createEvent, arg.Level, arg.Category, arg.Message, arg.Metadata)
	var i Event
	err := row.Scan(&i.ID, &i.Level, &i.Category, &i.Message, &i.Metadata, scanTime(&i.CreatedAt))
	return i, err
}

const listRecentEvents = `
SELECT id, level, category, message, metadata, created_at FROM events
ORDER BY id DESC
LIMIT ?
`

func (q *Queries) ListRecentEvents(ctx context.Context, limit int64) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listRecentEvents, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Event
	for rows.Next() {
		var i Event
		if err := rows.Scan(&i.ID, &i.Level, &i.Category, &i.Message, &i.Metadata, scanTime(&i.CreatedAt)); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
