package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
)

func TestCustomReportHandler_WeekdayGateAndJustified(t *testing.T) {
	store := &fakeLedgerStore{records: []*attendance.Record{
		absRec(shared.NewDay(2024, time.March, 11), "s-ana", "Ana", attendance.StatusAbsent),      // Monday
		absRec(shared.NewDay(2024, time.March, 12), "s-ana", "Ana", attendance.StatusAbsent),      // Tuesday
		absRec(shared.NewDay(2024, time.March, 13), "s-bruno", "Bruno", attendance.StatusJustified), // Wednesday
	}}
	handler := NewCustomReportHandler(store)

	view, err := handler.Handle(context.Background(), CustomReportQuery{
		From:     "2024-03-01",
		To:       "2024-03-31",
		Weekdays: []int{1, 3},
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, "Ana", view.Entries[0].StudentName)
	assert.Equal(t, "Bruno", view.Entries[1].StudentName)
	assert.Equal(t, attendance.StatusJustified, view.Entries[1].Status)
}

func TestCustomReportHandler_RejectsEmptyWeekdaySetBeforeStoreAccess(t *testing.T) {
	store := &fakeLedgerStore{selectErr: shared.ErrStoreUnavailable}
	handler := NewCustomReportHandler(store)

	_, err := handler.Handle(context.Background(), CustomReportQuery{
		From: "2024-03-01",
		To:   "2024-03-31",
	})

	assert.ErrorIs(t, err, shared.ErrInvalidFilter)
	assert.NotErrorIs(t, err, shared.ErrStoreUnavailable)
}

func TestCustomReportHandler_RejectsInvertedRange(t *testing.T) {
	handler := NewCustomReportHandler(&fakeLedgerStore{})

	_, err := handler.Handle(context.Background(), CustomReportQuery{
		From:     "2024-03-31",
		To:       "2024-03-01",
		Weekdays: []int{1},
	})
	assert.ErrorIs(t, err, shared.ErrInvalidDateRange)
}

func TestCustomReportHandler_RejectsOutOfRangeWeekday(t *testing.T) {
	handler := NewCustomReportHandler(&fakeLedgerStore{})

	_, err := handler.Handle(context.Background(), CustomReportQuery{
		From:     "2024-03-01",
		To:       "2024-03-31",
		Weekdays: []int{7},
	})
	assert.ErrorIs(t, err, shared.ErrInvalidFilter)
}

func TestCustomReportHandler_RejectsMalformedEndpoints(t *testing.T) {
	handler := NewCustomReportHandler(&fakeLedgerStore{})

	_, err := handler.Handle(context.Background(), CustomReportQuery{
		From:     "01/03/2024",
		To:       "2024-03-31",
		Weekdays: []int{1},
	})
	assert.ErrorIs(t, err, shared.ErrInvalidFormat)
}
