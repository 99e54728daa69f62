package shared

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2024-03-11")
	assert.NoError(t, err)
	assert.Equal(t, "2024-03-11", day.String())
	assert.Equal(t, time.Monday, day.Weekday())
	assert.Equal(t, 2024, day.Year())
	assert.Equal(t, time.March, day.Month())
}

func TestParseDay_TrimsWhitespace(t *testing.T) {
	day, err := ParseDay("  2024-03-11 ")
	assert.NoError(t, err)
	assert.Equal(t, "2024-03-11", day.String())
}

func TestParseDay_RejectsMalformedInput(t *testing.T) {
	for _, input := range []string{"", "11/03/2024", "2024-3-11", "2024-03-32", "yesterday"} {
		_, err := ParseDay(input)
		assert.Error(t, err, "input %q", input)
		assert.ErrorIs(t, err, ErrInvalidFormat, "input %q", input)
	}
}

func TestDay_Arithmetic(t *testing.T) {
	day := NewDay(2024, time.March, 1)

	assert.Equal(t, "2024-02-29", day.Prev().String()) // leap year
	assert.Equal(t, "2024-03-02", day.Next().String())
	assert.Equal(t, "2024-03-08", day.AddDays(7).String())
	assert.Equal(t, "2024-02-23", day.AddDays(-7).String())
}

func TestDay_Ordering(t *testing.T) {
	a := NewDay(2024, time.March, 10)
	b := NewDay(2024, time.March, 11)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(NewDay(2024, time.March, 10)))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestDay_ZeroValue(t *testing.T) {
	var zero Day
	assert.True(t, zero.IsZero())
	assert.False(t, NewDay(2024, time.March, 11).IsZero())
}

func TestDay_JSONRoundTrip(t *testing.T) {
	day := NewDay(2024, time.March, 11)

	data, err := json.Marshal(day)
	assert.NoError(t, err)
	assert.Equal(t, `"2024-03-11"`, string(data))

	var decoded Day
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, day.Equal(decoded))
}

func TestNewDateRange(t *testing.T) {
	from := NewDay(2024, time.March, 1)
	to := NewDay(2024, time.March, 15)

	rng, err := NewDateRange(from, to)
	assert.NoError(t, err)
	assert.Equal(t, "2024-03-01..2024-03-15", rng.String())
	assert.Equal(t, 15, rng.Days())
}

func TestNewDateRange_SingleDay(t *testing.T) {
	day := NewDay(2024, time.March, 11)
	rng, err := NewDateRange(day, day)
	assert.NoError(t, err)
	assert.Equal(t, 1, rng.Days())
	assert.True(t, rng.Contains(day))
}

func TestNewDateRange_RejectsInvertedInterval(t *testing.T) {
	from := NewDay(2024, time.March, 15)
	to := NewDay(2024, time.March, 1)

	_, err := NewDateRange(from, to)
	assert.ErrorIs(t, err, ErrInvalidFilter)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestNewDateRange_RejectsZeroEndpoints(t *testing.T) {
	day := NewDay(2024, time.March, 11)

	_, err := NewDateRange(Day{}, day)
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = NewDateRange(day, Day{})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestDateRange_ContainsIsInclusive(t *testing.T) {
	rng, err := NewDateRange(NewDay(2024, time.March, 10), NewDay(2024, time.March, 20))
	assert.NoError(t, err)

	assert.True(t, rng.Contains(NewDay(2024, time.March, 10)))
	assert.True(t, rng.Contains(NewDay(2024, time.March, 20)))
	assert.True(t, rng.Contains(NewDay(2024, time.March, 15)))
	assert.False(t, rng.Contains(NewDay(2024, time.March, 9)))
	assert.False(t, rng.Contains(NewDay(2024, time.March, 21)))
}

func TestMonthRange(t *testing.T) {
	rng := MonthRange(2024, time.February)
	assert.Equal(t, "2024-02-01", rng.From.String())
	assert.Equal(t, "2024-02-29", rng.To.String())
	assert.Equal(t, 29, rng.Days())

	rng = MonthRange(2024, time.April)
	assert.Equal(t, "2024-04-30", rng.To.String())
}

func TestWeekdaySetFromInts(t *testing.T) {
	set, err := WeekdaySetFromInts([]int{1, 3, 5})
	assert.NoError(t, err)
	assert.True(t, set.Has(time.Monday))
	assert.True(t, set.Has(time.Wednesday))
	assert.True(t, set.Has(time.Friday))
	assert.False(t, set.Has(time.Sunday))
	assert.False(t, set.Has(time.Saturday))
	assert.Equal(t, "Mon,Wed,Fri", set.String())
}

func TestWeekdaySetFromInts_RejectsOutOfRange(t *testing.T) {
	_, err := WeekdaySetFromInts([]int{1, 7})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = WeekdaySetFromInts([]int{-1})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestWeekdaySet_Empty(t *testing.T) {
	var set WeekdaySet
	assert.True(t, set.IsEmpty())
	assert.Empty(t, set.Weekdays())

	set = NewWeekdaySet(time.Tuesday)
	assert.False(t, set.IsEmpty())
	assert.Equal(t, []time.Weekday{time.Tuesday}, set.Weekdays())
}

func TestAttributeFilter_Matches(t *testing.T) {
	filter := AttributeFilter{Grade: "5º ano", Class: "B"}

	assert.True(t, filter.Matches("5º ano", "B", "morning", "fundamental"))
	assert.False(t, filter.Matches("5º ano", "A", "morning", "fundamental"))
	assert.False(t, filter.Matches("6º ano", "B", "morning", "fundamental"))
}

func TestAttributeFilter_ZeroMatchesEverything(t *testing.T) {
	var filter AttributeFilter
	assert.True(t, filter.IsZero())
	assert.True(t, filter.Matches("5º ano", "B", "morning", "fundamental"))
	assert.True(t, filter.Matches("", "", "", ""))
}

func TestAttributeFilter_Label(t *testing.T) {
	assert.Equal(t, "", AttributeFilter{}.Label())
	assert.Equal(t, "grade=5º ano", AttributeFilter{Grade: "5º ano"}.Label())
	assert.Equal(t, "grade=5º ano class=B", AttributeFilter{Grade: "5º ano", Class: "B"}.Label())
	assert.Equal(t, "shift=morning ensino=médio", AttributeFilter{Shift: "morning", Ensino: "médio"}.Label())
}

func TestNewStudentID(t *testing.T) {
	id, err := NewStudentID("  550E8400-E29B-41D4-A716-446655440000 ")
	assert.NoError(t, err)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	assert.True(t, id.IsValid())
}

func TestNewStudentID_RejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "not-a-uuid", "550e8400e29b41d4a716446655440000"} {
		_, err := NewStudentID(input)
		assert.ErrorIs(t, err, ErrInvalidID, "input %q", input)
	}
}
