package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
)

func monthlyTestRoster() []*student.Student {
	return []*student.Student{
		{ID: "s-ana", Name: "Ana", Grade: "5º ano", Class: "B"},
		{ID: "s-bruno", Name: "Bruno", Grade: "5º ano", Class: "B"},
		{ID: "s-carla", Name: "Carla", Grade: "6º ano", Class: "A"},
	}
}

func TestMonthlyReportHandler_SpansFilteredRoster(t *testing.T) {
	store := &fakeLedgerStore{records: []*attendance.Record{
		absRec(shared.NewDay(2024, time.March, 11), "s-ana", "Ana", attendance.StatusAbsent),
		absRec(shared.NewDay(2024, time.March, 12), "s-ana", "Ana", attendance.StatusAbsent),
		absRec(shared.NewDay(2024, time.April, 1), "s-ana", "Ana", attendance.StatusAbsent),
	}}
	roster := &fakeRoster{students: monthlyTestRoster()}
	handler := NewMonthlyReportHandler(roster, store, nil)

	view, err := handler.Handle(context.Background(), MonthlyReportQuery{Year: 2024, Month: 3})

	assert.NoError(t, err)
	assert.Equal(t, 3, view.StudentCount)
	assert.Equal(t, 2, view.TotalAbsences)
	assert.Equal(t, "Ana", view.Entries[0].StudentName)
	assert.Equal(t, 2, view.Entries[0].Absences)
	// Bruno and Carla appear with zero counts, name order.
	assert.Equal(t, "Bruno", view.Entries[1].StudentName)
	assert.Equal(t, 0, view.Entries[1].Absences)
	assert.Equal(t, "Carla", view.Entries[2].StudentName)
}

func TestMonthlyReportHandler_FilterAppliedInAggregation(t *testing.T) {
	roster := &fakeRoster{students: monthlyTestRoster()}
	handler := NewMonthlyReportHandler(roster, &fakeLedgerStore{}, nil)

	view, err := handler.Handle(context.Background(), MonthlyReportQuery{
		Year:   2024,
		Month:  3,
		Filter: shared.AttributeFilter{Class: "A"},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, view.StudentCount)
	assert.Equal(t, "Carla", view.Entries[0].StudentName)
}

func TestMonthlyReportHandler_CacheRoundTrip(t *testing.T) {
	roster := &fakeRoster{students: monthlyTestRoster()}
	store := &fakeLedgerStore{}
	cache := newFakeReportCache()
	handler := NewMonthlyReportHandler(roster, store, cache)
	ctx := context.Background()

	first, err := handler.Handle(ctx, MonthlyReportQuery{Year: 2024, Month: 3})
	assert.NoError(t, err)

	roster.listErr = shared.ErrStoreUnavailable
	second, err := handler.Handle(ctx, MonthlyReportQuery{Year: 2024, Month: 3})
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMonthlyReportHandler_RejectsOutOfRangeMonth(t *testing.T) {
	handler := NewMonthlyReportHandler(&fakeRoster{}, &fakeLedgerStore{}, nil)

	for _, month := range []int{0, 13, -1} {
		_, err := handler.Handle(context.Background(), MonthlyReportQuery{Year: 2024, Month: month})
		assert.ErrorIs(t, err, shared.ErrInvalidFilter, "month %d", month)
	}

	_, err := handler.Handle(context.Background(), MonthlyReportQuery{Year: 0, Month: 3})
	assert.ErrorIs(t, err, shared.ErrInvalidFilter)
}
