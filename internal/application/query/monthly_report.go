package query

import (
	"context"
	"time"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/report"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// MONTHLY REPORT QUERY
// Per-student absence counts for one month, spanning the whole filtered
// roster (zero counts included), ordered by count descending then name.
// ══════════════════════════════════════════════════════════════════════════════

// MonthlyReportQuery contains the monthly report parameters.
type MonthlyReportQuery struct {
	// Year is the calendar year (e.g. 2024).
	Year int

	// Month is the calendar month (1..12).
	Month int

	// Filter optionally narrows by grade/class/shift/ensino.
	Filter shared.AttributeFilter
}

// Validate validates the query parameters.
func (q MonthlyReportQuery) Validate() error {
	if q.Year < 1 {
		return shared.NewDomainError("query", "MonthlyReport", shared.ErrInvalidFilter, "year is required")
	}
	if q.Month < 1 || q.Month > 12 {
		return shared.NewDomainError("query", "MonthlyReport", shared.ErrInvalidFilter, "month must be 1..12")
	}
	return nil
}

// MonthlyReportHandler handles the MonthlyReportQuery.
type MonthlyReportHandler struct {
	roster  student.Repository
	records attendance.Repository
	cache   report.Cache
}

// NewMonthlyReportHandler creates a new MonthlyReportHandler. Cache is optional.
func NewMonthlyReportHandler(roster student.Repository, records attendance.Repository, cache report.Cache) *MonthlyReportHandler {
	return &MonthlyReportHandler{roster: roster, records: records, cache: cache}
}

// Handle builds the monthly absence summary from the month's absent records
// and the filtered roster snapshot.
func (h *MonthlyReportHandler) Handle(ctx context.Context, q MonthlyReportQuery) (*report.MonthlyAbsenceSummary, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	month := time.Month(q.Month)

	if h.cache != nil {
		if view, err := h.cache.GetMonthly(ctx, q.Year, month, q.Filter); err == nil && view != nil {
			return view, nil
		}
	}

	rng := shared.MonthRange(q.Year, month)
	records, err := h.records.Select(ctx, attendance.Selection{
		Range:    &rng,
		Statuses: []attendance.Status{attendance.StatusAbsent},
	})
	if err != nil {
		return nil, err
	}

	// The roster is loaded unfiltered and narrowed in the aggregation so
	// that the roster store does not need to understand report filters.
	roster, err := h.roster.List(ctx, student.ListFilter{})
	if err != nil {
		return nil, err
	}

	view := report.BuildMonthly(q.Year, month, records, roster, q.Filter)

	if h.cache != nil {
		_ = h.cache.SetMonthly(ctx, view)
	}
	return view, nil
}
