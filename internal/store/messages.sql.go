// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

const createMessage = `
INSERT INTO messages (name, email, message)
VALUES (?, ?, ?)
RETURNING id, name, email, message, created_at
`

// CreateMessageParams holds the caller-supplied message fields.
type CreateMessageParams struct {
	Name    string
	Email   string
	Message string
}

func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (Message, error) {
	row := q.db.QueryRowContext(ctx, createMessage, arg.Name, arg.Email, arg.Message)
	var i Message
	err := row.Scan(&i.ID, &i.Name, &i.Email, &i.Message, scanTime(&i.CreatedAt))
	return i, err
}

const getMessageByID = `
SELECT id, name, email, message, created_at FROM messages WHERE id = ?
`

func (q *Queries) GetMessageByID(ctx context.Context, id int64) (Message, error) {
	row := q.db.QueryRowContext(ctx, getMessageByID, id)
	var i Message
	err := row.Scan(&i.ID, &i.Name, &i.Email, &i.Message, scanTime(&i.CreatedAt))
	return i, err
}

const listMessagesAsc = `
SELECT id, name, email, message, created_at FROM messages
ORDER BY id ASC
LIMIT ?
`

const listMessagesDesc = `
SELECT id, name, email, message, created_at FROM messages
ORDER BY id DESC
LIMIT ?
`

// ListMessages returns up to limit messages; a negative limit means no limit.
func (q *Queries) ListMessages(ctx context.Context, limit int64, desc bool) ([]Message, error) {
	query := listMessagesAsc
	if desc {
		query = listMessagesDesc
	}
	var items []Message
	err := q.iterateMessages(ctx, query, func(m Message) error {
		items = append(items, m)
		return nil
	}, limit)
	return items, err
}

// IterateMessages calls fn for every message in ascending id order.
func (q *Queries) IterateMessages(ctx context.Context, fn func(Message) error) error {
	return q.iterateMessages(ctx, listMessagesAsc, fn, -1)
}

func (q *Queries) iterateMessages(ctx context.Context, query string, fn func(Message) error, args ...interface{}) error {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var i Message
		if err := rows.Scan(&i.ID, &i.Name, &i.Email, &i.Message, scanTime(&i.CreatedAt)); err != nil {
			return err
		}
		if err := fn(i); err != nil {
			return err
		}
	}
	if err := rows.Close(); err != nil {
		return err
	}
	return rows.Err()
}

const deleteMessage = `
DELETE FROM messages WHERE id = ?
`

func (q *Queries) DeleteMessage(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMessage, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAllMessages = `
DELETE FROM messages
`

func (q *Queries) DeleteAllMessages(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAllMessages)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countMessages = `
SELECT COUNT(*) FROM messages
`

func (q *Queries) CountMessages(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countMessages)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const messagesPerDay = `
SELECT DATE(created_at) AS day, COUNT(*) AS count FROM messages
WHERE created_at >= DATE('now', ?)
GROUP BY DATE(created_at)
ORDER BY DATE(created_at)
`

// MessagesPerDay counts messages per calendar day since the given SQLite
// date modifier (e.g. "-30 days").
func (q *Queries) MessagesPerDay(ctx context.Context, modifier string) ([]DailyCount, error) {
	return q.dailyCounts(ctx, messagesPerDay, modifier)
}

func (q *Queries) dailyCounts(ctx context.Context, query, modifier string) ([]DailyCount, error) {
	rows, err := q.db.QueryContext(ctx, query, modifier)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DailyCount
	for rows.Next() {
		var i DailyCount
		if err := rows.Scan(&i.Day, &i.Count); err != nil {
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
