package student

import (
	"context"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// The roster store contract. Implementations live in
// infrastructure/persistence. The attendance core only reads the roster
// through this interface and stays agnostic to the storage engine.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines roster store operations.
type Repository interface {
	// Create adds a student to the roster.
	// Returns shared.ErrStudentAlreadyExists if the ID is taken.
	Create(ctx context.Context, s *Student) error

	// GetByID returns a student by ID.
	// Returns shared.ErrStudentNotFound when the roster has no such entry;
	// a dangling StudentID on a historical record is a normal condition,
	// never something to assume resolvable.
	GetByID(ctx context.Context, id string) (*Student, error)

	// Update persists changed roster attributes.
	// Returns shared.ErrStudentNotFound if the student does not exist.
	Update(ctx context.Context, s *Student) error

	// Delete removes the roster entry. Historical attendance records are
	// untouched by design.
	// Returns shared.ErrStudentNotFound if the student does not exist.
	Delete(ctx context.Context, id string) error

	// List returns roster students matching the attribute filter, in no
	// particular order. A zero filter returns the whole roster.
	List(ctx context.Context, filter ListFilter) ([]*Student, error)

	// Count returns the number of students matching the filter.
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter narrows roster listings. All fields are optional.
type ListFilter struct {
	// Grade/Class/Shift/Ensino are equality filters on the categorical
	// attributes; empty means no constraint.
	Grade  string
	Class  string
	Shift  string
	Ensino string

	// Search matches a case-insensitive substring of the name.
	Search string
}

// Matches reports whether the student satisfies the list filter.
func (f ListFilter) Matches(s *Student) bool {
	if f.Grade != "" && f.Grade != s.Grade {
		return false
	}
	if f.Class != "" && f.Class != s.Class {
		return false
	}
	if f.Shift != "" && f.Shift != s.Shift {
		return false
	}
	if f.Ensino != "" && f.Ensino != s.Ensino {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}
