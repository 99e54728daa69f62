package query

import (
	"context"
	"time"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/report"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
)

// In-memory fakes for the query handler tests.

type fakeRoster struct {
	students []*student.Student
	listErr  error
}

func (f *fakeRoster) Create(context.Context, *student.Student) error { return nil }

func (f *fakeRoster) GetByID(_ context.Context, id string) (*student.Student, error) {
	for _, s := range f.students {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, shared.ErrStudentNotFound
}

func (f *fakeRoster) Update(context.Context, *student.Student) error { return nil }
func (f *fakeRoster) Delete(context.Context, string) error           { return nil }

func (f *fakeRoster) List(_ context.Context, filter student.ListFilter) ([]*student.Student, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*student.Student
	for _, s := range f.students {
		if filter.Matches(s) {
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
	records   []*attendance.Record
	selectErr error
}

func (f *fakeLedgerStore) Select(_ context.Context, sel attendance.Selection) ([]*attendance.Record, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	var out []*attendance.Record
	for _, r := range f.records {
		if sel.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) ReplaceDay(_ context.Context, day shared.Day, records []*attendance.Record) error {
	replaced := make(map[string]bool, len(records))
	for _, r := range records {
		replaced[r.StudentID] = true
	}
	kept := f.records[:0]
	for _, r := range f.records {
		if !r.Day.Equal(day) || !replaced[r.StudentID] {
			kept = append(kept, r)
		}
	}
	f.records = append(kept, records...)
	return nil
}

func (f *fakeLedgerStore) UpdatePhone(_ context.Context, studentID, phone string) (int, error) {
	touched := 0
	for _, r := range f.records {
		if r.StudentID == studentID {
			r.Phone = phone
			touched++
		}
	}
	return touched, nil
}

func (f *fakeLedgerStore) CountForDay(_ context.Context, day shared.Day) (int, error) {
	n := 0
	for _, r := range f.records {
		if r.Day.Equal(day) {
			n++
		}
	}
	return n, nil
}

// fakeReportCache implements report.Cache in memory and counts accesses.
type fakeReportCache struct {
	daily   map[string]*report.DailyAbsenceList
	monthly map[string]*report.MonthlyAbsenceSummary

	err error

	getDailyCalls int
	setDailyCalls int
}

func newFakeReportCache() *fakeReportCache {
	return &fakeReportCache{
		daily:   make(map[string]*report.DailyAbsenceList),
		monthly: make(map[string]*report.MonthlyAbsenceSummary),
	}
}

func dailyCacheKey(day shared.Day, filter shared.AttributeFilter) string {
	return day.String() + "|" + filter.Label()
}

func monthlyCacheKey(year int, month time.Month, filter shared.AttributeFilter) string {
	return shared.NewDay(year, month, 1).String() + "|" + filter.Label()
}

func (c *fakeReportCache) GetDaily(_ context.Context, day shared.Day, filter shared.AttributeFilter) (*report.DailyAbsenceList, error) {
	c.getDailyCalls++
	if c.err != nil {
		return nil, c.err
	}
	return c.daily[dailyCacheKey(day, filter)], nil
}

func (c *fakeReportCache) SetDaily(_ context.Context, view *report.DailyAbsenceList) error {
	c.setDailyCalls++
	if c.err != nil {
		return c.err
	}
	c.daily[dailyCacheKey(view.Day, view.Filter)] = view
	return nil
}

func (c *fakeReportCache) GetMonthly(_ context.Context, year int, month time.Month, filter shared.AttributeFilter) (*report.MonthlyAbsenceSummary, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.monthly[monthlyCacheKey(year, month, filter)], nil
}

func (c *fakeReportCache) SetMonthly(_ context.Context, view *report.MonthlyAbsenceSummary) error {
	if c.err != nil {
		return c.err
	}
	c.monthly[monthlyCacheKey(view.Year, view.Month, view.Filter)] = view
	return nil
}

func (c *fakeReportCache) InvalidateDay(_ context.Context, day shared.Day) error {
	for key := range c.daily {
		if key[:len(day.String())] == day.String() {
			delete(c.daily, key)
		}
	}
	return nil
}

func (c *fakeReportCache) InvalidateMonth(_ context.Context, year int, month time.Month) error {
	for key := range c.monthly {
		if key == monthlyCacheKey(year, month, shared.AttributeFilter{}) {
			delete(c.monthly, key)
		}
	}
	return nil
}

func (c *fakeReportCache) InvalidateAll(context.Context) error {
	c.daily = make(map[string]*report.DailyAbsenceList)
	c.monthly = make(map[string]*report.MonthlyAbsenceSummary)
	return nil
}

func absRec(day shared.Day, id, name string, status attendance.Status) *attendance.Record {
	return attendance.NewRecord(day, id, student.Snapshot{
		Name:  name,
		Grade: "5º ano",
		Class: "B",
	}, status)
}
