// Package student contains the roster-side domain model: the Student entity
// and the repository contract of the roster store. The core consults the
// roster but never couples to a concrete storage implementation.
package student

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Student is a roster entry. Grade, Class, Shift and Ensino are free-text
// categorical attributes used for report filtering; Phone is optional.
// Deleting a student removes the roster entry only - historical attendance
// records keep a denormalized snapshot of these attributes.
type Student struct {
	// ID is an opaque, stable identity assigned at creation.
	ID string

	// Name is the student's display name.
	Name string

	// Grade is the school grade (e.g. "5º ano").
	Grade string

	// Class is the class group (e.g. "B").
	Class string

	// Shift is the school shift (e.g. "morning").
	Shift string

	// Ensino is the educational track (e.g. "fundamental", "médio").
	Ensino string

	// Phone is the guardian contact, optional.
	Phone string

	// CreatedAt is when the roster entry was created.
	CreatedAt time.Time

	// UpdatedAt is when the roster entry was last modified.
	UpdatedAt time.Time
}

// New creates a student with a fresh identity. Name is the only required
// attribute; categorical attributes may be filled in later by roster edits.
func New(name, grade, class, shift, ensino, phone string) (*Student, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrStudentNameRequired
	}

	now := time.Now()
	return &Student{
		ID:        uuid.NewString(),
		Name:      name,
		Grade:     strings.TrimSpace(grade),
		Class:     strings.TrimSpace(class),
		Shift:     strings.TrimSpace(shift),
		Ensino:    strings.TrimSpace(ensino),
		Phone:     strings.TrimSpace(phone),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks entity invariants.
func (s *Student) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return shared.ErrInvalidStudentID
	}
	if strings.TrimSpace(s.Name) == "" {
		return shared.ErrStudentNameRequired
	}
	return nil
}

// Matches reports whether the student satisfies an attribute filter.
func (s *Student) Matches(f shared.AttributeFilter) bool {
	return f.Matches(s.Grade, s.Class, s.Shift, s.Ensino)
}

// Snapshot is the denormalized copy of roster attributes taken at attendance
// marking time. It preserves a record against later roster edits or deletion.
type Snapshot struct {
	Name   string
	Grade  string
	Class  string
	Shift  string
	Ensino string
	Phone  string
}

// Snapshot returns the student's current attribute snapshot.
func (s *Student) Snapshot() Snapshot {
	return Snapshot{
		Name:   s.Name,
		Grade:  s.Grade,
		Class:  s.Class,
		Shift:  s.Shift,
		Ensino: s.Ensino,
		Phone:  s.Phone,
	}
}

// Changes holds a partial roster edit. Nil fields are left untouched.
type Changes struct {
	Name   *string
	Grade  *string
	Class  *string
	Shift  *string
	Ensino *string
	Phone  *string
}

// Apply mutates the student with the non-nil fields of the change set and
// returns the names of the fields that actually changed.
func (s *Student) Apply(c Changes) []string {
	changed := make([]string, 0, 6)

	set := func(field string, dst *string, src *string) {
		if src == nil {
			return
		}
		v := strings.TrimSpace(*src)
		if v != *dst {
			*dst = v
			changed = append(changed, field)
		}
	}

	set("name", &s.Name, c.Name)
	set("grade", &s.Grade, c.Grade)
	set("class", &s.Class, c.Class)
	set("shift", &s.Shift, c.Shift)
	set("ensino", &s.Ensino, c.Ensino)
	set("phone", &s.Phone, c.Phone)

	if len(changed) > 0 {
		s.UpdatedAt = time.Now()
	}
	return changed
}
