package attendance

import (
	"context"
	"sort"

	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE LEDGER
// Owns the invariant "at most one record per student per calendar day".
// A day is committed as one atomic unit over the roster it spans: the
// previous decisions of every spanned student are fully replaced, and a
// roster member without an explicit decision defaults to absent. Students
// outside the span keep their records for the day, so a class marking its
// own day composes with the rest of the school. There are no per-status
// intermediate states within a day - the latest commit wins per student.
// ══════════════════════════════════════════════════════════════════════════════

// Decisions maps a student ID to the attendance status decided for the day.
type Decisions map[string]Status

// Ledger is the authoritative writer of per-day attendance decisions.
type Ledger struct {
	records Repository
}

// NewLedger creates a ledger over the given store.
func NewLedger(records Repository) *Ledger {
	return &Ledger{records: records}
}

// BuildDayRecords builds the full record set for a day from the roster and
// the decision map. Pure: no store access, deterministic apart from record
// IDs and timestamps. Roster members missing from decisions default to
// absent. Records come out in roster order.
func BuildDayRecords(day shared.Day, roster []*student.Student, decisions Decisions) []*Record {
	records := make([]*Record, 0, len(roster))
	for _, s := range roster {
		status, ok := decisions[s.ID]
		if !ok || !status.IsValid() {
			status = StatusAbsent
		}
		records = append(records, NewRecord(day, s.ID, s.Snapshot(), status))
	}
	return records
}

// CommitDay replaces the rostered students' decision set for the day in one
// atomic transition. Every roster member gets exactly one record carrying a
// denormalized roster snapshot read at commit time; records of students
// outside the roster are untouched. Returns the committed records.
//
// Concurrent commits over the same students race on the replace and the
// last writer wins; a partial failure surfaces as a retryable
// shared.ErrWriteConflict and leaves the spanned records indeterminate
// until retried.
func (l *Ledger) CommitDay(ctx context.Context, day shared.Day, roster []*student.Student, decisions Decisions) ([]*Record, error) {
	if day.IsZero() {
		return nil, shared.ErrInvalidDay
	}
	if len(roster) == 0 {
		return nil, shared.ErrEmptyRoster
	}
	for id, status := range decisions {
		if !status.IsValid() {
			return nil, shared.WrapError("attendance", "CommitDay", shared.ErrInvalidStatus,
				"decision for student "+id, nil)
		}
	}

	records := BuildDayRecords(day, roster, decisions)
	if err := l.records.ReplaceDay(ctx, day, records); err != nil {
		return nil, err
	}
	return records, nil
}

// BackfillPhone propagates a corrected phone number onto every historical
// record of the student. Denormalization repair with an at-least-once
// guarantee: it is not atomic with in-flight day commits, and a record
// created concurrently with the old phone is acceptable.
func (l *Ledger) BackfillPhone(ctx context.Context, studentID, phone string) (int, error) {
	if studentID == "" {
		return 0, shared.ErrInvalidStudentID
	}
	return l.records.UpdatePhone(ctx, studentID, phone)
}

// AbsentOn returns the IDs of students with an absent record on the day.
// Used by the consecutive-absence annotation, which asks about day D-1.
func (l *Ledger) AbsentOn(ctx context.Context, day shared.Day) (map[string]bool, error) {
	records, err := l.records.Select(ctx, Selection{
		Day:      &day,
		Statuses: []Status{StatusAbsent},
	})
	if err != nil {
		return nil, err
	}
	absent := make(map[string]bool, len(records))
	for _, r := range records {
		absent[r.StudentID] = true
	}
	return absent, nil
}

// CountAbsences tallies absent records per student. Helper shared by the
// monthly aggregation; exposed here because it operates on ledger records
// only.
func CountAbsences(records []*Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Status == StatusAbsent {
			counts[r.StudentID]++
		}
	}
	return counts
}

// SortByDay orders records by day ascending, stable within a day.
func SortByDay(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Day.Before(records[j].Day)
	})
}
