package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
)

func TestDailyReportHandler_BuildsAndAnnotates(t *testing.T) {
	yesterday := shared.NewDay(2024, time.March, 11)
	today := yesterday.Next()
	store := &fakeLedgerStore{records: []*attendance.Record{
		absRec(yesterday, "s-ana", "Ana", attendance.StatusAbsent),
		absRec(yesterday, "s-bruno", "Bruno", attendance.StatusJustified),
		absRec(today, "s-ana", "Ana", attendance.StatusAbsent),
		absRec(today, "s-bruno", "Bruno", attendance.StatusAbsent),
	}}
	handler := NewDailyReportHandler(store, nil)

	view, err := handler.Handle(context.Background(), DailyReportQuery{Day: today.String()})

	assert.NoError(t, err)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, "Ana", view.Entries[0].StudentName)
	assert.True(t, view.Entries[0].IsConsecutive)
	// Bruno was justified yesterday; the chain is broken.
	assert.Equal(t, "Bruno", view.Entries[1].StudentName)
	assert.False(t, view.Entries[1].IsConsecutive)
}

func TestDailyReportHandler_CacheHitShortCircuits(t *testing.T) {
	day := shared.NewDay(2024, time.March, 12)
	store := &fakeLedgerStore{records: []*attendance.Record{
		absRec(day, "s-ana", "Ana", attendance.StatusAbsent),
	}}
	cache := newFakeReportCache()
	handler := NewDailyReportHandler(store, cache)
	ctx := context.Background()

	first, err := handler.Handle(ctx, DailyReportQuery{Day: day.String()})
	assert.NoError(t, err)
	assert.Equal(t, 1, cache.setDailyCalls)

	store.selectErr = shared.ErrStoreUnavailable
	second, err := handler.Handle(ctx, DailyReportQuery{Day: day.String()})
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, cache.getDailyCalls)
}

func TestDailyReportHandler_CacheFailureFallsThrough(t *testing.T) {
	day := shared.NewDay(2024, time.March, 12)
	store := &fakeLedgerStore{records: []*attendance.Record{
		absRec(day, "s-ana", "Ana", attendance.StatusAbsent),
	}}
	cache := newFakeReportCache()
	cache.err = shared.ErrStoreUnavailable
	handler := NewDailyReportHandler(store, cache)

	view, err := handler.Handle(context.Background(), DailyReportQuery{Day: day.String()})

	assert.NoError(t, err)
	assert.Equal(t, 1, view.Total)
}

func TestDailyReportHandler_RejectsMalformedDay(t *testing.T) {
	handler := NewDailyReportHandler(&fakeLedgerStore{}, nil)

	_, err := handler.Handle(context.Background(), DailyReportQuery{Day: "12-03-2024"})
	assert.ErrorIs(t, err, shared.ErrInvalidFormat)
}

func TestDailyReportHandler_StoreErrorPropagates(t *testing.T) {
	store := &fakeLedgerStore{selectErr: shared.ErrStoreUnavailable}
	handler := NewDailyReportHandler(store, nil)

	_, err := handler.Handle(context.Background(), DailyReportQuery{Day: "2024-03-12"})
	assert.ErrorIs(t, err, shared.ErrStoreUnavailable)
}
