package query

import (
	"context"
	"sort"

	"github.com/presenca-hub/attendance-hub/internal/domain/report"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST STUDENTS QUERY
// Roster browsing for the marking screen: the filtered roster ordered by
// collated name, the same ordering the reports use.
// ══════════════════════════════════════════════════════════════════════════════

// ListStudentsQuery contains the roster listing parameters.
type ListStudentsQuery struct {
	Filter student.ListFilter
}

// StudentDTO is a roster entry as exposed to the interface layer.
type StudentDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Grade  string `json:"grade"`
	Class  string `json:"class"`
	Shift  string `json:"shift"`
	Ensino string `json:"ensino"`
	Phone  string `json:"phone,omitempty"`
}

// ListStudentsResult contains the roster listing.
type ListStudentsResult struct {
	Students []StudentDTO `json:"students"`
	Total    int          `json:"total"`
}

// ListStudentsHandler handles the ListStudentsQuery.
type ListStudentsHandler struct {
	roster student.Repository
}

// NewListStudentsHandler creates a new ListStudentsHandler.
func NewListStudentsHandler(roster student.Repository) *ListStudentsHandler {
	return &ListStudentsHandler{roster: roster}
}

// Handle lists the filtered roster ordered by name.
func (h *ListStudentsHandler) Handle(ctx context.Context, q ListStudentsQuery) (*ListStudentsResult, error) {
	students, err := h.roster.List(ctx, q.Filter)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(students, func(i, j int) bool {
		return report.CompareNames(students[i].Name, students[j].Name) < 0
	})

	out := make([]StudentDTO, 0, len(students))
	for _, s := range students {
		out = append(out, StudentDTO{
			ID:     s.ID,
			Name:   s.Name,
			Grade:  s.Grade,
			Class:  s.Class,
			Shift:  s.Shift,
			Ensino: s.Ensino,
			Phone:  s.Phone,
		})
	}
	return &ListStudentsResult{Students: out, Total: len(out)}, nil
}
