package query

import (
	"context"
	"errors"
	"strings"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/report"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// INDIVIDUAL REPORT QUERY
// One student's missed days inside an interval, with justified/unjustified
// totals. The student must resolve against the roster: records of deleted
// students stay in the ledger, but a per-student report for an unknown ID is
// an ErrUnknownStudent, not an empty view.
// ══════════════════════════════════════════════════════════════════════════════

// IndividualReportQuery contains the per-student report parameters.
type IndividualReportQuery struct {
	// StudentID identifies the roster entry.
	StudentID string

	// From and To bound the closed date interval, YYYY-MM-DD.
	From string
	To   string
}

// Validate validates the query parameters.
func (q IndividualReportQuery) Validate() error {
	if strings.TrimSpace(q.StudentID) == "" {
		return shared.ErrInvalidStudentID
	}
	from, err := shared.ParseDay(q.From)
	if err != nil {
		return err
	}
	to, err := shared.ParseDay(q.To)
	if err != nil {
		return err
	}
	_, err = shared.NewDateRange(from, to)
	return err
}

// IndividualReportHandler handles the IndividualReportQuery.
type IndividualReportHandler struct {
	roster  student.Repository
	records attendance.Repository
}

// NewIndividualReportHandler creates a new IndividualReportHandler.
func NewIndividualReportHandler(roster student.Repository, records attendance.Repository) *IndividualReportHandler {
	return &IndividualReportHandler{roster: roster, records: records}
}

// Handle builds the student's absence history.
func (h *IndividualReportHandler) Handle(ctx context.Context, q IndividualReportQuery) (*report.IndividualAbsenceHistory, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	from, _ := shared.ParseDay(q.From)
	to, _ := shared.ParseDay(q.To)
	rng, _ := shared.NewDateRange(from, to)

	s, err := h.roster.GetByID(ctx, q.StudentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapError("query", "IndividualReport", shared.ErrUnknownStudent,
				"student "+q.StudentID+" is not on the roster", err)
		}
		return nil, err
	}

	records, err := h.records.Select(ctx, attendance.Selection{
		StudentID: s.ID,
		Range:     &rng,
		Statuses:  []attendance.Status{attendance.StatusAbsent, attendance.StatusJustified},
	})
	if err != nil {
		return nil, err
	}

	return report.BuildIndividual(s.ID, s.Name, rng, records), nil
}
