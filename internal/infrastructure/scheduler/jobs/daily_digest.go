// Package jobs contains implementations of scheduled jobs.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/presenca-hub/attendance-hub/internal/application/query"
	"github.com/presenca-hub/attendance-hub/internal/domain/report"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/pkg/retry"
	"github.com/presenca-hub/attendance-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DAILY DIGEST JOB
// ══════════════════════════════════════════════════════════════════════════════

// DailyDigestJob exports the day's absence list after classes end. The digest
// is what the school office prints for the evening phone calls home, so it
// runs on the school's wall clock and covers the school day that just ended.
type DailyDigestJob struct {
	// Dependencies
	dailyReports   *query.DailyReportHandler
	exporter       report.Exporter
	eventPublisher shared.EventPublisher
	logger         *slog.Logger

	// Configuration
	config DailyDigestConfig

	// State
	lastRunStats atomic.Value // *DailyDigestStats
}

// DailyDigestConfig contains configuration for the daily digest job.
type DailyDigestConfig struct {
	// Filters is the list of roster filters to produce a digest for.
	// An empty list means one unfiltered digest covering the whole school.
	Filters []shared.AttributeFilter

	// Timezone for resolving "today".
	Timezone *time.Location

	// Timeout is the maximum duration for the job.
	Timeout time.Duration
}

// DefaultDailyDigestConfig returns sensible defaults.
func DefaultDailyDigestConfig() DailyDigestConfig {
	return DailyDigestConfig{
		Filters:  nil,
		Timezone: timeutil.SchoolTZ,
		Timeout:  5 * time.Minute,
	}
}

// DailyDigestStats contains statistics from a digest run.
type DailyDigestStats struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Day         string
	Digests     int
	AbsentTotal int
	Failures    int
}

// NewDailyDigestJob creates a new daily digest job.
func NewDailyDigestJob(
	dailyReports *query.DailyReportHandler,
	exporter report.Exporter,
	eventPublisher shared.EventPublisher,
	logger *slog.Logger,
	config DailyDigestConfig,
) *DailyDigestJob {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Timezone == nil {
		config.Timezone = timeutil.SchoolTZ
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Minute
	}

	return &DailyDigestJob{
		dailyReports:   dailyReports,
		exporter:       exporter,
		eventPublisher: eventPublisher,
		logger:         logger,
		config:         config,
	}
}

// Name returns the job name.
func (j *DailyDigestJob) Name() string {
	return "daily_digest"
}

// Description returns the job description.
func (j *DailyDigestJob) Description() string {
	return "Exports the day's absence list for the office's evening follow-up calls"
}

// Run executes the job.
func (j *DailyDigestJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	stats := &DailyDigestStats{StartedAt: time.Now()}
	now := time.Now().In(j.config.Timezone)
	day := now.Format(timeutil.FormatDate)
	stats.Day = day

	filters := j.config.Filters
	if len(filters) == 0 {
		filters = []shared.AttributeFilter{{}}
	}

	retrier := retry.ExportRetrier()
	var lastErr error

	for _, filter := range filters {
		view, err := j.dailyReports.Handle(ctx, query.DailyReportQuery{
			Day:    day,
			Filter: filter,
		})
		if err != nil {
			j.logger.Error("digest report build failed",
				"day", day, "filter", filter.Label(), "error", err)
			stats.Failures++
			lastErr = err
			continue
		}

		err = retrier.Do(ctx, func(ctx context.Context) error {
			return j.exporter.ExportDaily(ctx, view)
		})
		if err != nil {
			j.logger.Error("digest export failed",
				"day", day, "filter", filter.Label(), "error", err)
			stats.Failures++
			lastErr = err
			continue
		}

		stats.Digests++
		stats.AbsentTotal += view.Total
	}

	if j.eventPublisher != nil && stats.Digests > 0 {
		event := shared.NewDigestProducedEvent(day, stats.AbsentTotal)
		if err := j.eventPublisher.Publish(event); err != nil {
			j.logger.Warn("digest event publish failed", "day", day, "error", err)
		}
	}

	stats.CompletedAt = time.Now()
	stats.Duration = stats.CompletedAt.Sub(stats.StartedAt)
	j.lastRunStats.Store(stats)

	j.logger.Info("daily digest completed",
		"day", day,
		"day_label", timeutil.FormatLongPt(now),
		"digests", stats.Digests,
		"absent_total", stats.AbsentTotal,
		"failures", stats.Failures,
		"duration", stats.Duration.String(),
	)

	if stats.Digests == 0 && lastErr != nil {
		return fmt.Errorf("daily digest produced nothing: %w", lastErr)
	}
	return nil
}

// LastRunStats returns statistics from the last run, or nil.
func (j *DailyDigestJob) LastRunStats() *DailyDigestStats {
	if v := j.lastRunStats.Load(); v != nil {
		return v.(*DailyDigestStats)
	}
	return nil
}
