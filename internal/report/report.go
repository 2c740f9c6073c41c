// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

// Package report aggregates stored messages and visits for the admin dashboard.
package report

import (
	"context"
	"fmt"

	"github.com/Veerakabilan31/portfolio/internal/geoip"
	"github.com/Veerakabilan31/portfolio/internal/store"
)

// Default dashboard sizes.
const (
	DefaultRecentLimit = 50
	DefaultEventLimit  = 20
	DefaultDays        = 30
)

// Source is the read side of the store the dashboard needs.
type Source interface {
	CountVisits(ctx context.Context) (int64, error)
	CountUniqueVisitSources(ctx context.Context) (int64, error)
	CountMessages(ctx context.Context) (int64, error)
	ListMessages(ctx context.Context, limit int, order store.Order) ([]store.Message, error)
	ListVisits(ctx context.Context, limit int, order store.Order) ([]store.Visit, error)
	DailyCounts(ctx context.Context, table store.Table, daysBack int) ([]store.DailyCount, error)
	RecentEvents(ctx context.Context, limit int) ([]store.Event, error)
}

// CountryResolver maps an address to an ISO country code.
type CountryResolver interface {
	Country(ip string) string
}

// Options tunes what Build collects. Zero values use the defaults.
type Options struct {
	RecentLimit int
	EventLimit  int
	Days        int
	Countries   CountryResolver
}

func (o Options) withDefaults() Options {
	if o.RecentLimit <= 0 {
		o.RecentLimit = DefaultRecentLimit
	}
	if o.EventLimit <= 0 {
		o.EventLimit = DefaultEventLimit
	}
	if o.Days <= 0 {
		o.Days = DefaultDays
	}
	return o
}

// VisitRow is a visit enriched for display.
type VisitRow struct {
	store.Visit
	Agent       Agent
	CountryCode string
	Country     string
}

// Series is a per-day count series, ascending by date.
type Series []store.DailyCount

// Labels returns the dates of the series.
func (s Series) Labels() []string {
	out := make([]string, len(s))
	for i, d := range s {
		out[i] = d.Day
	}
	return out
}

// Values returns the counts of the series.
func (s Series) Values() []int64 {
	out := make([]int64, len(s))
	for i, d := range s {
		out[i] = d.Count
	}
	return out
}

// Dashboard is everything the admin view shows.
type Dashboard struct {
	TotalVisits    int64
	UniqueVisitors int64
	TotalMessages  int64
	Messages       []store.Message
	Visits         []VisitRow
	VisitsPerDay   Series
	MessagesPerDay Series
	RecentEvents   []store.Event
}

// Build reads the dashboard from src. It never mutates state.
func Build(ctx context.Context, src Source, opts Options) (*Dashboard, error) {
	opts = opts.withDefaults()
	d := &Dashboard{}
	var err error

	if d.TotalVisits, err = src.CountVisits(ctx); err != nil {
		return nil, fmt.Errorf("counting visits: %w", err)
	}
	if d.UniqueVisitors, err = src.CountUniqueVisitSources(ctx); err != nil {
		return nil, fmt.Errorf("counting unique visitors: %w", err)
	}
	if d.TotalMessages, err = src.CountMessages(ctx); err != nil {
		return nil, fmt.Errorf("counting messages: %w", err)
	}

	if d.Messages, err = src.ListMessages(ctx, opts.RecentLimit, store.OrderDesc); err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	visits, err := src.ListVisits(ctx, opts.RecentLimit, store.OrderDesc)
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	d.Visits = enrichVisits(visits, opts.Countries)

	visitDays, err := src.DailyCounts(ctx, store.TableVisits, opts.Days)
	if err != nil {
		return nil, fmt.Errorf("visits per day: %w", err)
	}
	d.VisitsPerDay = Series(visitDays)

	messageDays, err := src.DailyCounts(ctx, store.TableMessages, opts.Days)
	if err != nil {
		return nil, fmt.Errorf("messages per day: %w", err)
	}
	d.MessagesPerDay = Series(messageDays)

	if d.RecentEvents, err = src.RecentEvents(ctx, opts.EventLimit); err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}

	return d, nil
}

func enrichVisits(visits []store.Visit, countries CountryResolver) []VisitRow {
	rows := make([]VisitRow, len(visits))
	for i, v := range visits {
		rows[i] = VisitRow{Visit: v, Agent: ParseAgent(v.UserAgent)}
		if countries != nil {
			code := countries.Country(v.IP)
			rows[i].CountryCode = code
			if code != "" {
				rows[i].Country = geoip.CountryName(code)
			}
		}
	}
	return rows
}
