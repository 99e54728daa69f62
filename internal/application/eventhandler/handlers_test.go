package eventhandler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/presenca-hub/attendance-hub/internal/domain/report"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
)

// spyCache records invalidation calls.
type spyCache struct {
	invalidatedDays   []string
	invalidatedMonths []string
	invalidatedAll    int
	err               error
}

func (c *spyCache) GetDaily(context.Context, shared.Day, shared.AttributeFilter) (*report.DailyAbsenceList, error) {
	return nil, nil
}

func (c *spyCache) SetDaily(context.Context, *report.DailyAbsenceList) error { return nil }

func (c *spyCache) GetMonthly(context.Context, int, time.Month, shared.AttributeFilter) (*report.MonthlyAbsenceSummary, error) {
	return nil, nil
}

func (c *spyCache) SetMonthly(context.Context, *report.MonthlyAbsenceSummary) error { return nil }

func (c *spyCache) InvalidateDay(_ context.Context, day shared.Day) error {
	if c.err != nil {
		return c.err
	}
	c.invalidatedDays = append(c.invalidatedDays, day.String())
	return nil
}

func (c *spyCache) InvalidateMonth(_ context.Context, year int, month time.Month) error {
	if c.err != nil {
		return c.err
	}
	c.invalidatedMonths = append(c.invalidatedMonths, shared.NewDay(year, month, 1).String()[:7])
	return nil
}

func (c *spyCache) InvalidateAll(context.Context) error {
	if c.err != nil {
		return c.err
	}
	c.invalidatedAll++
	return nil
}

func TestOnDayCommittedHandler_InvalidatesDayNextDayAndMonth(t *testing.T) {
	cache := &spyCache{}
	handler := NewOnDayCommittedHandler(cache, nil)

	err := handler.Handle(shared.NewDayCommittedEvent("2024-03-31", 25, 3))

	assert.NoError(t, err)
	// The following day's consecutive annotation depends on this day, even
	// across a month boundary.
	assert.Equal(t, []string{"2024-03-31", "2024-04-01"}, cache.invalidatedDays)
	assert.Equal(t, []string{"2024-03"}, cache.invalidatedMonths)
}

func TestOnDayCommittedHandler_IgnoresOtherEvents(t *testing.T) {
	cache := &spyCache{}
	handler := NewOnDayCommittedHandler(cache, nil)

	err := handler.Handle(shared.NewPhoneCorrectedEvent("s-ana", "123", 3))

	assert.NoError(t, err)
	assert.Empty(t, cache.invalidatedDays)
}

func TestOnDayCommittedHandler_ToleratesMalformedDay(t *testing.T) {
	cache := &spyCache{}
	handler := NewOnDayCommittedHandler(cache, nil)

	err := handler.Handle(shared.NewDayCommittedEvent("not-a-day", 0, 0))

	assert.NoError(t, err)
	assert.Empty(t, cache.invalidatedDays)
}

func TestOnDayCommittedHandler_PropagatesCacheError(t *testing.T) {
	cache := &spyCache{err: shared.ErrStoreUnavailable}
	handler := NewOnDayCommittedHandler(cache, nil)

	err := handler.Handle(shared.NewDayCommittedEvent("2024-03-11", 25, 3))
	assert.ErrorIs(t, err, shared.ErrStoreUnavailable)
}

func TestOnPhoneCorrectedHandler_FlushesEverything(t *testing.T) {
	cache := &spyCache{}
	handler := NewOnPhoneCorrectedHandler(cache, nil)

	err := handler.Handle(shared.NewPhoneCorrectedEvent("s-ana", "123", 5))

	assert.NoError(t, err)
	assert.Equal(t, 1, cache.invalidatedAll)
}

func TestOnPhoneCorrectedHandler_IgnoresOtherEvents(t *testing.T) {
	cache := &spyCache{}
	handler := NewOnPhoneCorrectedHandler(cache, nil)

	err := handler.Handle(shared.NewDayCommittedEvent("2024-03-11", 25, 3))

	assert.NoError(t, err)
	assert.Zero(t, cache.invalidatedAll)
}
