package query

import (
	"context"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/report"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CUSTOM REPORT QUERY
// Absent and justified records inside an arbitrary closed date interval,
// gated by a non-empty weekday selection. The empty weekday set is a
// required precondition and is rejected before any store access.
// ══════════════════════════════════════════════════════════════════════════════

// CustomReportQuery contains the custom report parameters.
type CustomReportQuery struct {
	// From and To bound the closed date interval, YYYY-MM-DD.
	From string
	To   string

	// Weekdays are 0..6 selectors (0 = Sunday). Must be non-empty.
	Weekdays []int

	// Filter optionally narrows by grade/class/shift/ensino.
	Filter shared.AttributeFilter
}

// Validate validates the query parameters, including the weekday gate and
// the interval orientation.
func (q CustomReportQuery) Validate() error {
	from, err := shared.ParseDay(q.From)
	if err != nil {
		return err
	}
	to, err := shared.ParseDay(q.To)
	if err != nil {
		return err
	}
	if _, err := shared.NewDateRange(from, to); err != nil {
		return err
	}
	set, err := shared.WeekdaySetFromInts(q.Weekdays)
	if err != nil {
		return err
	}
	if set.IsEmpty() {
		return shared.ErrEmptyWeekdaySet
	}
	return nil
}

// CustomReportHandler handles the CustomReportQuery.
type CustomReportHandler struct {
	records attendance.Repository
}

// NewCustomReportHandler creates a new CustomReportHandler.
func NewCustomReportHandler(records attendance.Repository) *CustomReportHandler {
	return &CustomReportHandler{records: records}
}

// Handle builds the custom absence list.
func (h *CustomReportHandler) Handle(ctx context.Context, q CustomReportQuery) (*report.CustomAbsenceList, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	from, _ := shared.ParseDay(q.From)
	to, _ := shared.ParseDay(q.To)
	rng, _ := shared.NewDateRange(from, to)
	weekdays, _ := shared.WeekdaySetFromInts(q.Weekdays)

	records, err := h.records.Select(ctx, attendance.Selection{
		Range:    &rng,
		Statuses: []attendance.Status{attendance.StatusAbsent, attendance.StatusJustified},
	})
	if err != nil {
		return nil, err
	}

	return report.BuildCustom(rng, weekdays, records, q.Filter)
}
