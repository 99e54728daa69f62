package attendance

import (
	"context"

	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEDGER STORE INTERFACE
// The ledger store contract. The transactional primitives here carry the
// atomicity guarantees the core relies on; retry policy belongs to the
// adapter behind this interface, never to the core.
// ══════════════════════════════════════════════════════════════════════════════

// Selection is the record predicate accepted by Select. Zero fields are
// ignored; set fields are combined with AND.
type Selection struct {
	// Day selects records of exactly this calendar day.
	Day *shared.Day

	// Range selects records inside a closed day interval.
	Range *shared.DateRange

	// StudentID selects one student's records.
	StudentID string

	// Statuses selects records with any of these statuses.
	Statuses []Status
}

// WantsStatus reports whether the selection admits the given status.
func (s Selection) WantsStatus(status Status) bool {
	if len(s.Statuses) == 0 {
		return true
	}
	for _, want := range s.Statuses {
		if want == status {
			return true
		}
	}
	return false
}

// Matches reports whether a record satisfies the selection. Store adapters
// push this predicate into their query language; in-memory fakes use it as-is.
func (s Selection) Matches(r *Record) bool {
	if s.Day != nil && !r.Day.Equal(*s.Day) {
		return false
	}
	if s.Range != nil && !s.Range.Contains(r.Day) {
		return false
	}
	if s.StudentID != "" && s.StudentID != r.StudentID {
		return false
	}
	return s.WantsStatus(r.Status)
}

// Repository defines ledger store operations.
type Repository interface {
	// Select returns records matching the selection, in no particular order.
	Select(ctx context.Context, sel Selection) ([]*Record, error)

	// ReplaceDay atomically replaces the day's records for the students the
	// record set covers: their previous records for the day are deleted and
	// the new set inserted in one transaction. Records of students outside
	// the set are untouched, so a class-scoped commit leaves the rest of the
	// day's ledger in place. Outside readers must never observe a
	// half-replaced day. On partial failure the covered students' day is
	// indeterminate and the error satisfies
	// errors.Is(err, shared.ErrWriteConflict); the caller retries the whole
	// day commit.
	ReplaceDay(ctx context.Context, day shared.Day, records []*Record) error

	// UpdatePhone rewrites the denormalized phone on every record of the
	// student and returns how many records were touched. At-least-once
	// consistency: a record written concurrently with the old phone is
	// acceptable and picked up by a later back-fill.
	UpdatePhone(ctx context.Context, studentID, phone string) (int, error)

	// CountForDay returns the number of records stored for a day.
	CountForDay(ctx context.Context, day shared.Day) (int, error)
}
