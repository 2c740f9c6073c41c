// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store persists contact messages, visits and log events in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// Order selects the id ordering of a listing.
type Order int

const (
	OrderAsc Order = iota
	OrderDesc
)

// Table names a table that DailyCounts can aggregate.
type Table string

const (
	TableMessages Table = "messages"
	TableVisits   Table = "visits"
)

// Store is the single long-lived handle to the database. Reads run
// concurrently on the connection pool; writes are serialized.
type Store struct {
	db      *sql.DB
	queries *Queries
	writeMu sync.Mutex
}

// NewStore wraps an open, migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, queries: New(db)}
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return wrap("ping", s.db.PingContext(ctx))
}

// InsertMessage stores a contact message and returns its id.
func (s *Store) InsertMessage(ctx context.Context, name, email, body string) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	m, err := s.queries.CreateMessage(ctx, CreateMessageParams{Name: name, Email: email, Message: body})
	if err != nil {
		return 0, wrap("insert message", err)
	}
	return m.ID, nil
}

// InsertVisit records a visit and returns its id.
func (s *Store) InsertVisit(ctx context.Context, addr, userAgent string) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	v, err := s.queries.CreateVisit(ctx, CreateVisitParams{IP: addr, UserAgent: userAgent})
	if err != nil {
		return 0, wrap("insert visit", err)
	}
	return v.ID, nil
}

// GetMessage returns a single message; sql.ErrNoRows is wrapped when missing.
func (s *Store) GetMessage(ctx context.Context, id int64) (Message, error) {
	m, err := s.queries.GetMessageByID(ctx, id)
	return m, wrap("get message", err)
}

// ListMessages returns up to limit messages in the given order.
// A limit of zero or less returns every message.
func (s *Store) ListMessages(ctx context.Context, limit int, order Order) ([]Message, error) {
	items, err := s.queries.ListMessages(ctx, sqlLimit(limit), order == OrderDesc)
	return items, wrap("list messages", err)
}

// ForEachMessage streams every message in ascending id order.
func (s *Store) ForEachMessage(ctx context.Context, fn func(Message) error) error {
	return wrap("iterate messages", s.queries.IterateMessages(ctx, fn))
}

// ListVisits returns up to limit visits in the given order.
// A limit of zero or less returns every visit.
func (s *Store) ListVisits(ctx context.Context, limit int, order Order) ([]Visit, error) {
	items, err := s.queries.ListVisits(ctx, sqlLimit(limit), order == OrderDesc)
	return items, wrap("list visits", err)
}

// DeleteMessage removes a message. Deleting a missing id is a no-op.
func (s *Store) DeleteMessage(ctx context.Context, id int64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.queries.DeleteMessage(ctx, id)
	return wrap("delete message", err)
}

// DeleteVisit removes a visit. Deleting a missing id is a no-op.
func (s *Store) DeleteVisit(ctx context.Context, id int64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.queries.DeleteVisit(ctx, id)
	return wrap("delete visit", err)
}

// DeleteAllMessages removes every message.
func (s *Store) DeleteAllMessages(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.queries.DeleteAllMessages(ctx)
	return wrap("delete all messages", err)
}

// DeleteAllVisits removes every visit.
func (s *Store) DeleteAllVisits(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.queries.DeleteAllVisits(ctx)
	return wrap("delete all visits", err)
}

// DeleteVisitsBefore removes visits older than cutoff and returns how many were removed.
func (s *Store) DeleteVisitsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n, err := s.queries.DeleteVisitsBefore(ctx, cutoff.UTC().Format(TimestampLayout))
	return n, wrap("delete visits before", err)
}

// CountMessages returns the number of stored messages.
func (s *Store) CountMessages(ctx context.Context) (int64, error) {
	n, err := s.queries.CountMessages(ctx)
	return n, wrap("count messages", err)
}

// CountVisits returns the number of stored visits.
func (s *Store) CountVisits(ctx context.Context) (int64, error) {
	n, err := s.queries.CountVisits(ctx)
	return n, wrap("count visits", err)
}

// CountUniqueVisitSources returns the number of distinct visit addresses.
func (s *Store) CountUniqueVisitSources(ctx context.Context) (int64, error) {
	n, err := s.queries.CountUniqueVisitSources(ctx)
	return n, wrap("count unique visit sources", err)
}

// DailyCounts returns per-day row counts for the last daysBack days,
// ascending by date. Days without rows are omitted.
func (s *Store) DailyCounts(ctx context.Context, table Table, daysBack int) ([]DailyCount, error) {
	if daysBack < 0 {
		daysBack = 0
	}
	modifier := fmt.Sprintf("-%d days", daysBack)

	var (
		items []DailyCount
		err   error
	)
	switch table {
	case TableMessages:
		items, err = s.queries.MessagesPerDay(ctx, modifier)
	case TableVisits:
		items, err = s.queries.VisitsPerDay(ctx, modifier)
	default:
		return nil, fmt.Errorf("daily counts for %q: %w", table, ErrUnknownTable)
	}
	return items, wrap("daily counts "+string(table), err)
}

// RecordEvent stores a mirrored log record.
func (s *Store) RecordEvent(ctx context.Context, arg CreateEventParams) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.queries.CreateEvent(ctx, arg)
	return wrap("record event", err)
}

// RecentEvents returns the newest mirrored log records.
func (s *Store) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	items, err := s.queries.ListRecentEvents(ctx, sqlLimit(limit))
	return items, wrap("recent events", err)
}

func sqlLimit(limit int) int64 {
	if limit <= 0 {
		return -1
	}
	return int64(limit)
}
