// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

const createVisit = `
INSERT INTO visits (ip, user_agent)
VALUES (?, ?)
RETURNING id, ip, user_agent, created_at
`

// CreateVisitParams holds the request metadata recorded for a visit.
type CreateVisitParams struct {
	IP        string
	UserAgent string
}

func (q *Queries) CreateVisit(ctx context.Context, arg CreateVisitParams) (Visit, error) {
	row := q.db.QueryRowContext(ctx, createVisit, arg.IP, arg.UserAgent)
	var i Visit
	err := row.Scan(&i.ID, &i.IP, &i.UserAgent, scanTime(&i.CreatedAt))
	return i, err
}

const listVisitsAsc = `
SELECT id, ip, user_agent, created_at FROM visits
ORDER BY id ASC
LIMIT ?
`

const listVisitsDesc = `
SELECT id, ip, user_agent, created_at FROM visits
ORDER BY id DESC
LIMIT ?
`

// ListVisits returns up to limit visits; a negative limit means no limit.
func (q *Queries) ListVisits(ctx context.Context, limit int64, desc bool) ([]Visit, error) {
	query := listVisitsAsc
	if desc {
		query = listVisitsDesc
	}
	rows, err := q.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Visit
	for rows.Next() {
		var i Visit
		if err := rows.Scan(&i.ID, &i.IP, &i.UserAgent, scanTime(&i.CreatedAt)); err != nil {
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

const deleteVisit = `
DELETE FROM visits WHERE id = ?
`

func (q *Queries) DeleteVisit(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteVisit, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAllVisits = `
DELETE FROM visits
`

func (q *Queries) DeleteAllVisits(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAllVisits)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteVisitsBefore = `
DELETE FROM visits WHERE created_at < ?
`

// DeleteVisitsBefore removes visits created before cutoff, which must be
// formatted with TimestampLayout in UTC.
func (q *Queries) DeleteVisitsBefore(ctx context.Context, cutoff string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteVisitsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countVisits = `
SELECT COUNT(*) FROM visits
`

func (q *Queries) CountVisits(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countVisits)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countUniqueVisitSources = `
SELECT COUNT(DISTINCT ip) FROM visits
`

func (q *Queries) CountUniqueVisitSources(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countUniqueVisitSources)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const visitsPerDay = `
SELECT DATE(created_at) AS day, COUNT(*) AS count FROM visits
WHERE created_at >= DATE('now', ?)
GROUP BY DATE(created_at)
ORDER BY DATE(created_at)
`

// VisitsPerDay counts visits per calendar day since the given SQLite date
// modifier (e.g. "-30 days").
func (q *Queries) VisitsPerDay(ctx context.Context, modifier string) ([]DailyCount, error) {
	return q.dailyCounts(ctx, visitsPerDay, modifier)
}
