// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/timora/timora-blog/internal/store"
)

// DefaultCleanupSchedule prunes orphaned uploads once an hour.
const DefaultCleanupSchedule = "@hourly"

// orphanGracePeriod keeps files that may belong to a request still in flight.
const orphanGracePeriod = time.Hour

// Pruner removes stored images that are no longer referenced.
type Pruner interface {
	PruneOrphans(referenced []string, cutoff time.Time) (int, error)
}

// Scheduler handles periodic jobs like removing orphaned uploads.
type Scheduler struct {
	db       *sql.DB
	pruner   Pruner
	cron     *cron.Cron
	schedule string
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a new scheduler. An empty schedule uses DefaultCleanupSchedule.
func New(db *sql.DB, pruner Pruner, schedule string, logger *slog.Logger) *Scheduler {
	if schedule == "" {
		schedule = DefaultCleanupSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		db:       db,
		pruner:   pruner,
		cron:     cron.New(),
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.PruneUploads(context.Background()); err != nil {
			s.logger.Error("failed to prune orphaned uploads", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()), "cleanup_schedule", s.schedule)
	return nil
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PruneUploads removes uploaded images that no post or profile references
// and that are older than the grace period.
func (s *Scheduler) PruneUploads(ctx context.Context) (int, error) {
	urls, err := store.New(s.db).ListImageURLs(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing image urls: %w", err)
	}

	removed, err := s.pruner.PruneOrphans(urls, s.now().Add(-orphanGracePeriod))
	if err != nil {
		return removed, err
	}
	if removed > 0 {
		s.logger.Info("pruned orphaned uploads", "count", removed)
	}
	return removed, nil
}
