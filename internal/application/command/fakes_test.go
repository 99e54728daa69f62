package command

import (
	"context"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
	"github.com/presenca-hub/attendance-hub/internal/domain/transport"
)

// In-memory fakes for the command handler tests. They reuse the domain
// predicates (ListFilter.Matches, Selection.Matches) so filtering behaves
// exactly like a real store.

type fakeRoster struct {
	students map[string]*student.Student
	order    []string
	listErr  error
}

func newFakeRoster(students ...*student.Student) *fakeRoster {
	f := &fakeRoster{students: make(map[string]*student.Student)}
	for _, s := range students {
		f.students[s.ID] = s
		f.order = append(f.order, s.ID)
	}
	return f
}

func (f *fakeRoster) Create(_ context.Context, s *student.Student) error {
	if _, ok := f.students[s.ID]; ok {
		return shared.ErrStudentAlreadyExists
	}
	f.students[s.ID] = s
	f.order = append(f.order, s.ID)
	return nil
}

func (f *fakeRoster) GetByID(_ context.Context, id string) (*student.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return s, nil
}

func (f *fakeRoster) Update(_ context.Context, s *student.Student) error {
	if _, ok := f.students[s.ID]; !ok {
		return shared.ErrStudentNotFound
	}
	f.students[s.ID] = s
	return nil
}

func (f *fakeRoster) Delete(_ context.Context, id string) error {
	if _, ok := f.students[id]; !ok {
		return shared.ErrStudentNotFound
	}
	delete(f.students, id)
	return nil
}

func (f *fakeRoster) List(_ context.Context, filter student.ListFilter) ([]*student.Student, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*student.Student
	for _, id := range f.order {
		s, ok := f.students[id]
		if ok && filter.Matches(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRoster) Count(ctx context.Context, filter student.ListFilter) (int, error) {
	list, err := f.List(ctx, filter)
	return len(list), err
}

type fakeLedgerStore struct {
	byDay      map[string][]*attendance.Record
	replaceErr error
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{byDay: make(map[string][]*attendance.Record)}
}

func (f *fakeLedgerStore) Select(_ context.Context, sel attendance.Selection) ([]*attendance.Record, error) {
	var out []*attendance.Record
	for _, records := range f.byDay {
		for _, r := range records {
			if sel.Matches(r) {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) ReplaceDay(_ context.Context, day shared.Day, records []*attendance.Record) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	replaced := make(map[string]bool, len(records))
	for _, r := range records {
		replaced[r.StudentID] = true
	}
	var kept []*attendance.Record
	for _, r := range f.byDay[day.String()] {
		if !replaced[r.StudentID] {
			kept = append(kept, r)
		}
	}
	f.byDay[day.String()] = append(kept, records...)
	return nil
}

func (f *fakeLedgerStore) UpdatePhone(_ context.Context, studentID, phone string) (int, error) {
	touched := 0
	for _, records := range f.byDay {
		for _, r := range records {
			if r.StudentID == studentID {
				r.Phone = phone
				touched++
			}
		}
	}
	return touched, nil
}

func (f *fakeLedgerStore) CountForDay(_ context.Context, day shared.Day) (int, error) {
	return len(f.byDay[day.String()]), nil
}

type fakeTransport struct {
	byStudent map[string]*transport.Record
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{byStudent: make(map[string]*transport.Record)}
}

func (f *fakeTransport) GetByStudent(_ context.Context, studentID string) (*transport.Record, error) {
	r, ok := f.byStudent[studentID]
	if !ok {
		return nil, shared.WrapError("transport", "GetByStudent", shared.ErrNotFound, "no transport record", nil)
	}
	return r, nil
}

func (f *fakeTransport) Replace(_ context.Context, r *transport.Record) error {
	f.byStudent[r.StudentID] = r
	return nil
}

func (f *fakeTransport) Delete(_ context.Context, studentID string) error {
	delete(f.byStudent, studentID)
	return nil
}

func (f *fakeTransport) UpdatePhone(_ context.Context, studentID, phone string) (int, error) {
	r, ok := f.byStudent[studentID]
	if !ok {
		return 0, nil
	}
	r.Phone = phone
	return 1, nil
}

func (f *fakeTransport) ListByRoute(_ context.Context, route string) ([]*transport.Record, error) {
	var out []*transport.Record
	for _, r := range f.byStudent {
		if r.Route == route {
			out = append(out, r)
		}
	}
	return out, nil
}

// capturePublisher records published events.
type capturePublisher struct {
	events []shared.Event
}

func (p *capturePublisher) Publish(event shared.Event) error {
	p.events = append(p.events, event)
	return nil
}
