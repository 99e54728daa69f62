// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data. Validation
// errors are detected and rejected before any store access; a report request
// abandoned by its caller simply discards its result, there are no side
// effects to unwind.
package query

import (
	"context"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/report"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DAILY REPORT QUERY
// Absent students of one calendar day, ordered by name, annotated with the
// consecutive-absence flag (absent on the previous calendar day too).
// ══════════════════════════════════════════════════════════════════════════════

// DailyReportQuery contains the daily report parameters.
type DailyReportQuery struct {
	// Day is the calendar day, YYYY-MM-DD.
	Day string

	// Filter optionally narrows by grade/class/shift/ensino.
	Filter shared.AttributeFilter
}

// Validate validates the query parameters.
func (q DailyReportQuery) Validate() error {
	_, err := shared.ParseDay(q.Day)
	return err
}

// DailyReportHandler handles the DailyReportQuery.
type DailyReportHandler struct {
	records attendance.Repository
	cache   report.Cache
}

// NewDailyReportHandler creates a new DailyReportHandler. Cache is optional.
func NewDailyReportHandler(records attendance.Repository, cache report.Cache) *DailyReportHandler {
	return &DailyReportHandler{records: records, cache: cache}
}

// Handle builds the daily absence list. A cached view is returned as-is
// (cached views are always fully built and annotated); otherwise the day's
// absent records and the previous day's absentees are read from the ledger
// and aggregated in memory.
func (h *DailyReportHandler) Handle(ctx context.Context, q DailyReportQuery) (*report.DailyAbsenceList, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	day, _ := shared.ParseDay(q.Day)

	if h.cache != nil {
		if view, err := h.cache.GetDaily(ctx, day, q.Filter); err == nil && view != nil {
			return view, nil
		}
		// Cache failures are not report failures; fall through to the ledger.
	}

	records, err := h.records.Select(ctx, attendance.Selection{
		Day:      &day,
		Statuses: []attendance.Status{attendance.StatusAbsent},
	})
	if err != nil {
		return nil, err
	}

	view := report.BuildDaily(day, records, q.Filter)

	prev := day.Prev()
	prevRecords, err := h.records.Select(ctx, attendance.Selection{
		Day:      &prev,
		Statuses: []attendance.Status{attendance.StatusAbsent},
	})
	if err != nil {
		return nil, err
	}
	absentPrev := make(map[string]bool, len(prevRecords))
	for _, r := range prevRecords {
		absentPrev[r.StudentID] = true
	}
	report.AnnotateConsecutive(view, absentPrev)

	if h.cache != nil {
		_ = h.cache.SetDaily(ctx, view)
	}
	return view, nil
}
