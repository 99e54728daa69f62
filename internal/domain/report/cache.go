package report

import (
	"context"
	"time"

	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
)

// Cache holds fully built report views. Views are derived data, so the cache
// is safe to drop at any time; a cached view is only ever set from a complete
// aggregation, never from a partial one, which keeps the atomicity contract
// visible to readers. A miss is (nil, nil).
//
// Invalidation is driven by domain events: a day commit drops the day, the
// following day (its consecutive annotation depends on day D-1) and the
// month; a phone correction drops everything that embeds phone numbers.
type Cache interface {
	// GetDaily returns a cached daily view, or nil on miss.
	GetDaily(ctx context.Context, day shared.Day, filter shared.AttributeFilter) (*DailyAbsenceList, error)

	// SetDaily stores a daily view.
	SetDaily(ctx context.Context, view *DailyAbsenceList) error

	// GetMonthly returns a cached monthly view, or nil on miss.
	GetMonthly(ctx context.Context, year int, month time.Month, filter shared.AttributeFilter) (*MonthlyAbsenceSummary, error)

	// SetMonthly stores a monthly view.
	SetMonthly(ctx context.Context, view *MonthlyAbsenceSummary) error

	// InvalidateDay drops every cached daily view of the day.
	InvalidateDay(ctx context.Context, day shared.Day) error

	// InvalidateMonth drops every cached monthly view of the month.
	InvalidateMonth(ctx context.Context, year int, month time.Month) error

	// InvalidateAll drops every cached view.
	InvalidateAll(ctx context.Context) error
}
