// Package transport contains the school-transport record, an adjacent ledger
// keyed by student rather than by day. It shares the attendance ledger's
// whole-entity replace pattern: a save fully replaces the student's record,
// merging non-empty fields over whatever was stored before.
package transport

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
)

// Record is a student's transport assignment.
type Record struct {
	// ID is an opaque record identity.
	ID string

	// StudentID keys the record; at most one record per student.
	StudentID string

	// StudentName is a denormalized name snapshot.
	StudentName string

	// Route is the bus route identifier.
	Route string

	// Vehicle is the assigned vehicle, optional.
	Vehicle string

	// Period is the shift the transport covers (e.g. "morning").
	Period string

	// Phone is the denormalized guardian contact, kept in sync by the
	// same phone back-fill that repairs attendance records.
	Phone string

	// UpdatedAt is when the record was last replaced.
	UpdatedAt time.Time
}

// New creates a transport record for a student.
func New(studentID, studentName, route, vehicle, period, phone string) (*Record, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, shared.ErrInvalidStudentID
	}
	if strings.TrimSpace(route) == "" {
		return nil, shared.NewDomainError("transport", "New", shared.ErrEmptyValue, "route is required")
	}
	return &Record{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		StudentName: strings.TrimSpace(studentName),
		Route:       strings.TrimSpace(route),
		Vehicle:     strings.TrimSpace(vehicle),
		Period:      strings.TrimSpace(period),
		Phone:       strings.TrimSpace(phone),
		UpdatedAt:   time.Now(),
	}, nil
}

// MergeOver fills the record's empty fields from a previous version.
// This is the "replace with merge" write pattern: the new record wins where
// it says something, the old record survives where the new one is silent.
func (r *Record) MergeOver(prev *Record) {
	if prev == nil {
		return
	}
	r.ID = prev.ID
	if r.StudentName == "" {
		r.StudentName = prev.StudentName
	}
	if r.Vehicle == "" {
		r.Vehicle = prev.Vehicle
	}
	if r.Period == "" {
		r.Period = prev.Period
	}
	if r.Phone == "" {
		r.Phone = prev.Phone
	}
}

// Repository defines the transport store operations.
type Repository interface {
	// GetByStudent returns the student's transport record, or
	// shared.ErrNotFound when none exists.
	GetByStudent(ctx context.Context, studentID string) (*Record, error)

	// Replace stores the record as the student's only transport record,
	// deleting any previous one in the same transaction.
	Replace(ctx context.Context, r *Record) error

	// Delete removes the student's transport record.
	Delete(ctx context.Context, studentID string) error

	// UpdatePhone rewrites the denormalized phone, returning the number of
	// records touched (0 or 1).
	UpdatePhone(ctx context.Context, studentID, phone string) (int, error)

	// ListByRoute returns the records of one route.
	ListByRoute(ctx context.Context, route string) ([]*Record, error)
}
