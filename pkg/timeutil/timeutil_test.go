package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchoolDayBoundaries(t *testing.T) {
	noon := DateTime(2024, 3, 11, 12, 30, 0)

	assert.Equal(t, "2024-03-11", FormatDateStr(StartOfDay(noon)))
	assert.Equal(t, "2024-03-11", FormatDateStr(EndOfDay(noon)))
	assert.Equal(t, "2024-03-01", FormatDateStr(StartOfMonth(noon)))
	assert.Equal(t, "2024-03-31", FormatDateStr(EndOfMonth(noon)))
}

func TestSchoolDaySkipping(t *testing.T) {
	friday := Date(2024, 3, 15)
	monday := Date(2024, 3, 18)

	assert.True(t, IsSchoolDay(friday))
	assert.False(t, IsSchoolDay(Date(2024, 3, 16)))
	assert.Equal(t, monday, NextSchoolDay(friday))
	assert.Equal(t, friday, PrevSchoolDay(monday))
}

func TestIsConsecutiveDay(t *testing.T) {
	assert.True(t, IsConsecutiveDay(Date(2024, 3, 11), Date(2024, 3, 12)))
	assert.False(t, IsConsecutiveDay(Date(2024, 3, 11), Date(2024, 3, 13)))
	assert.False(t, IsConsecutiveDay(Date(2024, 3, 12), Date(2024, 3, 11)))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(Date(2024, 3, 11), Date(2024, 3, 11)))
	assert.Equal(t, 3, DaysBetween(Date(2024, 3, 11), Date(2024, 3, 14)))
	assert.Equal(t, 3, DaysBetween(Date(2024, 3, 14), Date(2024, 3, 11)))
}

func TestFormatBrazilian(t *testing.T) {
	assert.Equal(t, "11/03/2024", FormatBrazilian(Date(2024, 3, 11)))
}

func TestFormatLongPt(t *testing.T) {
	assert.Equal(t, "segunda-feira, 11 de março de 2024", FormatLongPt(Date(2024, 3, 11)))
	assert.Equal(t, "sábado, 16 de março de 2024", FormatLongPt(Date(2024, 3, 16)))
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-03-11")
	assert.NoError(t, err)
	assert.Equal(t, SchoolTZ, parsed.Location())
	assert.Equal(t, "2024-03-11", FormatDateStr(parsed))
}
