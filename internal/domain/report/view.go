// Package report contains the absence reporting engine: the four report
// views, the pure aggregation functions that build them from ledger records
// and the roster, the consecutive-absence annotator, and the exporter
// contract. Everything here is derived, ephemeral data - views are
// recomputed on every request and never persisted.
package report

import (
	"fmt"
	"time"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORT VIEWS
// Ordered entry lists plus metadata (period label, applied filters, totals).
// Field presence and ordering are part of the contract toward the exporter.
// ══════════════════════════════════════════════════════════════════════════════

// DailyEntry is one absent student on the daily report.
type DailyEntry struct {
	RecordID    string `json:"record_id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Grade       string `json:"grade"`
	Class       string `json:"class"`
	Shift       string `json:"shift"`
	Ensino      string `json:"ensino"`
	Phone       string `json:"phone,omitempty"`

	// IsConsecutive is true when the student was also absent on the
	// previous calendar day. Filled in by the annotator; purely additive.
	IsConsecutive bool `json:"is_consecutive"`
}

// DailyAbsenceList is the daily report view.
type DailyAbsenceList struct {
	Day         shared.Day             `json:"day"`
	Filter      shared.AttributeFilter `json:"filter"`
	Entries     []DailyEntry           `json:"entries"`
	Total       int                    `json:"total"`
	PeriodLabel string                 `json:"period_label"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// MonthlyEntry is one student's absence count for the month. Students with
// no absent records that month appear with Absences == 0.
type MonthlyEntry struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Grade       string `json:"grade"`
	Class       string `json:"class"`
	Shift       string `json:"shift"`
	Ensino      string `json:"ensino"`
	Absences    int    `json:"absences"`
}

// MonthlyAbsenceSummary is the monthly report view. It always spans the
// filtered roster, not just students with absences.
type MonthlyAbsenceSummary struct {
	Year          int                    `json:"year"`
	Month         time.Month             `json:"month"`
	Filter        shared.AttributeFilter `json:"filter"`
	Entries       []MonthlyEntry         `json:"entries"`
	TotalAbsences int                    `json:"total_absences"`
	StudentCount  int                    `json:"student_count"`
	PeriodLabel   string                 `json:"period_label"`
	GeneratedAt   time.Time              `json:"generated_at"`
}

// CustomEntry is one absence on the custom report.
type CustomEntry struct {
	RecordID    string            `json:"record_id"`
	Day         shared.Day        `json:"day"`
	Weekday     time.Weekday      `json:"weekday"`
	StudentID   string            `json:"student_id"`
	StudentName string            `json:"student_name"`
	Grade       string            `json:"grade"`
	Class       string            `json:"class"`
	Shift       string            `json:"shift"`
	Ensino      string            `json:"ensino"`
	Status      attendance.Status `json:"status"`
}

// CustomAbsenceList is the custom report view: a date interval crossed with
// a weekday selection, covering absent and justified records.
type CustomAbsenceList struct {
	Range       shared.DateRange       `json:"range"`
	Weekdays    shared.WeekdaySet      `json:"weekdays"`
	Filter      shared.AttributeFilter `json:"filter"`
	Entries     []CustomEntry          `json:"entries"`
	Total       int                    `json:"total"`
	PeriodLabel string                 `json:"period_label"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// IndividualEntry is one missed day in a student's history.
type IndividualEntry struct {
	RecordID string            `json:"record_id"`
	Day      shared.Day        `json:"day"`
	Status   attendance.Status `json:"status"`
}

// IndividualAbsenceHistory is the per-student report view.
type IndividualAbsenceHistory struct {
	StudentID   string            `json:"student_id"`
	StudentName string            `json:"student_name"`
	Range       shared.DateRange  `json:"range"`
	Entries     []IndividualEntry `json:"entries"`
	Total       int               `json:"total"`
	Justified   int               `json:"justified"`
	Unjustified int               `json:"unjustified"`
	PeriodLabel string            `json:"period_label"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// monthLabel formats a month period label like "2024-03".
func monthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
