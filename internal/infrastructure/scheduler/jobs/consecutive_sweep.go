package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONSECUTIVE ABSENCE SWEEP
// ══════════════════════════════════════════════════════════════════════════════

// ConsecutiveSweepJob finds students absent on the current day whose
// previous school day was also an absence, so the Monday sweep follows up
// on Friday. These are the cases the coordination team calls first; the
// sweep surfaces them with the denormalized guardian phone so no roster
// lookup is needed at call time.
type ConsecutiveSweepJob struct {
	// Dependencies
	records attendance.Repository
	logger  *slog.Logger

	// Configuration
	config ConsecutiveSweepConfig

	// State
	lastRunStats atomic.Value // *ConsecutiveSweepStats
}

// ConsecutiveSweepConfig contains configuration for the sweep.
type ConsecutiveSweepConfig struct {
	// Timezone for resolving "today".
	Timezone *time.Location

	// Timeout is the maximum duration for the job.
	Timeout time.Duration
}

// DefaultConsecutiveSweepConfig returns sensible defaults.
func DefaultConsecutiveSweepConfig() ConsecutiveSweepConfig {
	return ConsecutiveSweepConfig{
		Timezone: timeutil.SchoolTZ,
		Timeout:  2 * time.Minute,
	}
}

// ConsecutiveSweepStats contains statistics from a sweep run.
type ConsecutiveSweepStats struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Day         string
	AbsentToday int
	Consecutive int
}

// NewConsecutiveSweepJob creates a new sweep job.
func NewConsecutiveSweepJob(records attendance.Repository, logger *slog.Logger, config ConsecutiveSweepConfig) *ConsecutiveSweepJob {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Timezone == nil {
		config.Timezone = timeutil.SchoolTZ
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Minute
	}

	return &ConsecutiveSweepJob{
		records: records,
		logger:  logger,
		config:  config,
	}
}

// Name returns the job name.
func (j *ConsecutiveSweepJob) Name() string {
	return "consecutive_sweep"
}

// Description returns the job description.
func (j *ConsecutiveSweepJob) Description() string {
	return "Flags students absent on back-to-back school days for priority follow-up"
}

// sweepDays resolves the day pair a sweep run compares: the current day in
// the school timezone and the school day before it, skipping weekends.
func sweepDays(now time.Time, tz *time.Location) (today, prev shared.Day) {
	local := now.In(tz)
	return shared.DayOf(local), shared.DayOf(timeutil.PrevSchoolDay(local))
}

// Run executes the job.
func (j *ConsecutiveSweepJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	stats := &ConsecutiveSweepStats{StartedAt: time.Now()}

	day, prev := sweepDays(time.Now(), j.config.Timezone)
	stats.Day = day.String()

	today, err := j.records.Select(ctx, attendance.Selection{
		Day:      &day,
		Statuses: []attendance.Status{attendance.StatusAbsent},
	})
	if err != nil {
		return err
	}
	stats.AbsentToday = len(today)

	// Only plain absences count. A justified previous day breaks the chain.
	prevAbsent, err := j.records.Select(ctx, attendance.Selection{
		Day:      &prev,
		Statuses: []attendance.Status{attendance.StatusAbsent},
	})
	if err != nil {
		return err
	}
	absentPrev := make(map[string]bool, len(prevAbsent))
	for _, r := range prevAbsent {
		absentPrev[r.StudentID] = true
	}

	for _, r := range today {
		if !absentPrev[r.StudentID] {
			continue
		}
		stats.Consecutive++
		j.logger.Warn("consecutive absence",
			"day", day.String(),
			"student_id", r.StudentID,
			"student_name", r.StudentName,
			"grade", r.Grade,
			"class", r.Class,
			"phone", r.Phone,
		)
	}

	stats.CompletedAt = time.Now()
	stats.Duration = stats.CompletedAt.Sub(stats.StartedAt)
	j.lastRunStats.Store(stats)

	j.logger.Info("consecutive sweep completed",
		"day", day.String(),
		"absent_today", stats.AbsentToday,
		"consecutive", stats.Consecutive,
		"duration", stats.Duration.String(),
	)

	return nil
}

// LastRunStats returns statistics from the last run, or nil.
func (j *ConsecutiveSweepJob) LastRunStats() *ConsecutiveSweepStats {
	if v := j.lastRunStats.Load(); v != nil {
		return v.(*ConsecutiveSweepStats)
	}
	return nil
}
