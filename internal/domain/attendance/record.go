// Package attendance contains the attendance ledger domain: the
// AttendanceRecord entity, the Ledger service that commits whole days
// atomically, and the ledger store contract.
package attendance

import (
	"time"

	"github.com/google/uuid"

	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// ══════════════════════════════════════════════════════════════════════════════

// Status is the attendance decision for a student on a day.
type Status string

const (
	// StatusPresent - the student attended.
	StatusPresent Status = "present"

	// StatusAbsent - the student did not attend. This is the default for
	// roster members missing from a day's decision set.
	StatusAbsent Status = "absent"

	// StatusJustified - the student did not attend but the absence is
	// justified. Counts as an absence for the custom and individual
	// reports, not for the daily and monthly ones.
	StatusJustified Status = "justified"
)

// IsValid checks if the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusJustified:
		return true
	}
	return false
}

// IsAbsence reports whether the status represents a missed day
// (absent or justified).
func (s Status) IsAbsence() bool {
	return s == StatusAbsent || s == StatusJustified
}

// String returns the string representation.
func (s Status) String() string {
	return string(s)
}

// ParseStatus parses a status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", shared.ErrInvalidStatus
	}
	return s, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE RECORD ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Record is one attendance decision for one student on one calendar day.
// StudentID is a weak reference: after a roster deletion it may dangle, which
// is why the roster attributes are denormalized onto the record at marking
// time. Invariant: at most one record exists per (StudentID, Day) system-wide.
type Record struct {
	// ID is an opaque record identity.
	ID string

	// StudentID is the weak reference to the roster entry.
	StudentID string

	// StudentName is the name snapshot taken at marking time.
	StudentName string

	// Day is the calendar day the record belongs to.
	Day shared.Day

	// Status is the attendance decision.
	Status Status

	// Denormalized roster attributes, frozen at marking time.
	Grade  string
	Class  string
	Shift  string
	Ensino string
	Phone  string

	// MarkedAt is when the record was written.
	MarkedAt time.Time
}

// NewRecord builds a record for a student on a day, freezing the roster
// snapshot onto it.
func NewRecord(day shared.Day, studentID string, snap student.Snapshot, status Status) *Record {
	return &Record{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		StudentName: snap.Name,
		Day:         day,
		Status:      status,
		Grade:       snap.Grade,
		Class:       snap.Class,
		Shift:       snap.Shift,
		Ensino:      snap.Ensino,
		Phone:       snap.Phone,
		MarkedAt:    time.Now(),
	}
}

// Validate checks entity invariants.
func (r *Record) Validate() error {
	if r.ID == "" {
		return shared.NewDomainError("attendance", "Validate", shared.ErrInvalidID, "record ID is required")
	}
	if r.StudentID == "" {
		return shared.NewDomainError("attendance", "Validate", shared.ErrInvalidID, "student ID is required")
	}
	if r.Day.IsZero() {
		return shared.ErrInvalidDay
	}
	if !r.Status.IsValid() {
		return shared.ErrInvalidStatus
	}
	return nil
}

// Matches reports whether the record's denormalized attributes satisfy
// an attribute filter.
func (r *Record) Matches(f shared.AttributeFilter) bool {
	return f.Matches(r.Grade, r.Class, r.Shift, r.Ensino)
}
