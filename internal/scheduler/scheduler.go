// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance: visit retention and GeoIP
// database reloads.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Default schedules.
const (
	RetentionSchedule   = "0 3 * * *" // nightly at 03:00
	GeoIPReloadSchedule = "@hourly"
)

const jobTimeout = 5 * time.Minute

// VisitPruner deletes visits older than a cutoff.
type VisitPruner interface {
	DeleteVisitsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Reloader reloads an on-disk database when it changes.
type Reloader interface {
	Reload() error
}

// Config selects which jobs run.
type Config struct {
	// RetentionDays keeps visits this many days; 0 disables pruning.
	RetentionDays int
	Pruner        VisitPruner
	// GeoIP is reloaded hourly when set.
	GeoIP Reloader
}

// Scheduler handles periodic maintenance jobs.
type Scheduler struct {
	cfg    Config
	cron   *cron.Cron
	logger *slog.Logger
	now    func() time.Time
}

// New creates a new scheduler instance.
func New(cfg Config, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cfg:    cfg,
		cron:   cron.New(),
		logger: logger,
		now:    time.Now,
	}
}

// Start registers the configured jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.cfg.RetentionDays > 0 && s.cfg.Pruner != nil {
		if err := s.addJob(RetentionSchedule, "visit retention", func(ctx context.Context) error {
			_, err := s.PruneVisits(ctx)
			return err
		}); err != nil {
			return err
		}
	}

	if s.cfg.GeoIP != nil {
		if err := s.addJob(GeoIPReloadSchedule, "geoip reload", func(context.Context) error {
			return s.cfg.GeoIP.Reload()
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// addJob schedules fn with its own timeout and logs failures.
func (s *Scheduler) addJob(schedule, name string, fn func(context.Context) error) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.logger.Error("scheduled job failed", "job", name, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", name, err)
	}
	return nil
}

// PruneVisits deletes visits older than the retention window.
func (s *Scheduler) PruneVisits(ctx context.Context) (int64, error) {
	if s.cfg.RetentionDays <= 0 || s.cfg.Pruner == nil {
		return 0, nil
	}

	cutoff := s.now().UTC().AddDate(0, 0, -s.cfg.RetentionDays)
	n, err := s.cfg.Pruner.DeleteVisitsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning visits: %w", err)
	}

	if n > 0 {
		s.logger.Info("pruned old visits", "deleted", n, "cutoff", cutoff.Format(time.DateOnly))
	}
	return n, nil
}
