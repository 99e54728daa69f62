package report

import (
	"context"
)

// Exporter renders a fully-populated report view into a document. The core's
// only contract toward it is the view itself: field presence and entry
// ordering are stable, so an exporter never re-sorts or re-filters.
// Implementations live in infrastructure (CSV today, PDF upstream).
type Exporter interface {
	// ExportDaily renders a daily absence list.
	ExportDaily(ctx context.Context, view *DailyAbsenceList) error

	// ExportMonthly renders a monthly absence summary.
	ExportMonthly(ctx context.Context, view *MonthlyAbsenceSummary) error

	// ExportCustom renders a custom absence list.
	ExportCustom(ctx context.Context, view *CustomAbsenceList) error

	// ExportIndividual renders a per-student absence history.
	ExportIndividual(ctx context.Context, view *IndividualAbsenceHistory) error
}
