// Package eventhandler contains domain event handlers. They are the reactive
// part of the system: a day commit or a phone correction happened, and the
// derived state (cached report views) has to catch up.
package eventhandler

import (
	"context"
	"log/slog"
	"time"

	"github.com/presenca-hub/attendance-hub/internal/domain/report"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON DAY COMMITTED HANDLER
// A committed day invalidates three things in the report cache:
//   - the day's own daily views
//   - the following day's daily views (their consecutive-absence annotation
//     depends on this day)
//   - the monthly views of the day's month
// ═══════════════════════════════════════════════════════════════════════════

// OnDayCommittedHandler drops cached report views made stale by a day commit.
type OnDayCommittedHandler struct {
	cache   report.Cache
	logger  *slog.Logger
	timeout time.Duration
}

// NewOnDayCommittedHandler creates the handler.
func NewOnDayCommittedHandler(cache report.Cache, logger *slog.Logger) *OnDayCommittedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnDayCommittedHandler{
		cache:   cache,
		logger:  logger,
		timeout: 5 * time.Second,
	}
}

// Handle is the shared.EventHandler for attendance.day_committed events.
func (h *OnDayCommittedHandler) Handle(event shared.Event) error {
	if event.EventType() != shared.EventDayCommitted || h.cache == nil {
		return nil
	}

	day, err := shared.ParseDay(event.AggregateID())
	if err != nil {
		h.logger.Warn("day_committed event with malformed day",
			"aggregate_id", event.AggregateID(), "error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.cache.InvalidateDay(ctx, day); err != nil {
		return err
	}
	if err := h.cache.InvalidateDay(ctx, day.Next()); err != nil {
		return err
	}
	if err := h.cache.InvalidateMonth(ctx, day.Year(), day.Month()); err != nil {
		return err
	}

	h.logger.Debug("report cache invalidated after day commit", "day", day.String())
	return nil
}
