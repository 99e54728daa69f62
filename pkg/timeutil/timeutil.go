// Package timeutil provides timezone utilities for the school's wall clock.
// Attendance days, digest schedules and report labels are all anchored to the
// school timezone (America/Sao_Paulo), never to server UTC.
package timeutil

import (
	"fmt"
	"time"
)

// SchoolTZ is the school's timezone. Brazil dropped DST in 2019, so the
// fallback fixed zone is safe on hosts without tzdata.
var SchoolTZ = loadSchoolTZ()

func loadSchoolTZ() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.FixedZone("America/Sao_Paulo", -3*60*60)
	}
	return loc
}

// Now returns the current time in the school timezone.
func Now() time.Time {
	return time.Now().In(SchoolTZ)
}

// ToSchool converts a time to the school timezone.
func ToSchool(t time.Time) time.Time {
	return t.In(SchoolTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a date at midnight in the school timezone.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, SchoolTZ)
}

// DateTime creates a datetime in the school timezone.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, SchoolTZ)
}

// StartOfDay returns midnight of the given day in the school timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToSchool(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, SchoolTZ)
}

// EndOfDay returns the last nanosecond of the given day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfMonth returns midnight of the first day of the month.
func StartOfMonth(t time.Time) time.Time {
	local := ToSchool(t)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, SchoolTZ)
}

// EndOfMonth returns the last nanosecond of the month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// IsToday checks if the given time falls on today's school day.
func IsToday(t time.Time) bool {
	return IsSameDay(t, Now())
}

// IsYesterday checks if the given time falls on yesterday's school day.
func IsYesterday(t time.Time) bool {
	return IsSameDay(t, Now().AddDate(0, 0, -1))
}

// DaysSince returns the number of whole school days since the given time.
func DaysSince(t time.Time) int {
	now := StartOfDay(Now())
	then := StartOfDay(t)
	return int(now.Sub(then).Hours() / 24)
}

// School hours.
const (
	// MorningShiftStart is when the morning shift starts.
	MorningShiftStart = 7
	// MorningShiftEnd is when the morning shift ends.
	MorningShiftEnd = 12
	// AfternoonShiftStart is when the afternoon shift starts.
	AfternoonShiftStart = 13
	// AfternoonShiftEnd is when the afternoon shift ends.
	AfternoonShiftEnd = 18
)

// IsWeekend checks if the given time is on a weekend.
func IsWeekend(t time.Time) bool {
	weekday := ToSchool(t).Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsSchoolDay checks if the given time is on a school day (Mon-Fri).
// Holidays are a roster concern, not a clock concern, so they are not
// handled here.
func IsSchoolDay(t time.Time) bool {
	return !IsWeekend(t)
}

// NextSchoolDay returns midnight of the next school day, skipping weekends.
func NextSchoolDay(t time.Time) time.Time {
	next := ToSchool(t).AddDate(0, 0, 1)
	for IsWeekend(next) {
		next = next.AddDate(0, 0, 1)
	}
	return StartOfDay(next)
}

// PrevSchoolDay returns midnight of the previous school day, skipping weekends.
func PrevSchoolDay(t time.Time) time.Time {
	prev := ToSchool(t).AddDate(0, 0, -1)
	for IsWeekend(prev) {
		prev = prev.AddDate(0, 0, -1)
	}
	return StartOfDay(prev)
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the standard time format (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatDateTimeSeconds includes seconds.
	FormatDateTimeSeconds = "2006-01-02 15:04:05"
	// FormatBrazilianDate is the Brazilian date format (DD/MM/YYYY).
	FormatBrazilianDate = "02/01/2006"
	// FormatBrazilianDateTime is the Brazilian datetime format.
	FormatBrazilianDateTime = "02/01/2006 15:04"
	// FormatMonth is the year-month format used by monthly report labels.
	FormatMonth = "2006-01"
)

// Format formats a time in the school timezone with the given layout.
func Format(t time.Time, layout string) string {
	return ToSchool(t).Format(layout)
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD).
func FormatDateStr(t time.Time) string {
	return Format(t, FormatDate)
}

// FormatBrazilian formats a date the way the school's paper forms do
// (DD/MM/YYYY).
func FormatBrazilian(t time.Time) string {
	return Format(t, FormatBrazilianDate)
}

// Parse parses a value in the school timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, SchoolTZ)
}

// ParseDate parses a YYYY-MM-DD date in the school timezone.
func ParseDate(value string) (time.Time, error) {
	return Parse(FormatDate, value)
}

// IsSameDay checks if two times fall on the same school day.
func IsSameDay(t1, t2 time.Time) bool {
	a, b := ToSchool(t1), ToSchool(t2)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// IsConsecutiveDay checks if t2 is exactly the calendar day after t1.
func IsConsecutiveDay(t1, t2 time.Time) bool {
	return IsSameDay(StartOfDay(t1).AddDate(0, 0, 1), t2)
}

// DaysBetween returns the number of whole days between two times.
func DaysBetween(t1, t2 time.Time) int {
	a, b := StartOfDay(t1), StartOfDay(t2)
	if a.After(b) {
		a, b = b, a
	}
	return int(b.Sub(a).Hours() / 24)
}

// Portuguese weekday names, keyed by time.Weekday.
var weekdayNamesPt = [...]string{
	"domingo",
	"segunda-feira",
	"terça-feira",
	"quarta-feira",
	"quinta-feira",
	"sexta-feira",
	"sábado",
}

// WeekdayNamePt returns the Portuguese weekday name.
func WeekdayNamePt(t time.Time) string {
	return weekdayNamesPt[ToSchool(t).Weekday()]
}

// Portuguese month names, keyed by time.Month.
var monthNamesPt = [...]string{
	"",
	"janeiro",
	"fevereiro",
	"março",
	"abril",
	"maio",
	"junho",
	"julho",
	"agosto",
	"setembro",
	"outubro",
	"novembro",
	"dezembro",
}

// MonthNamePt returns the Portuguese month name.
func MonthNamePt(m time.Month) string {
	return monthNamesPt[m]
}

// FormatLongPt formats a date the way report headers print it,
// e.g. "segunda-feira, 11 de março de 2024".
func FormatLongPt(t time.Time) string {
	local := ToSchool(t)
	return fmt.Sprintf("%s, %d de %s de %d",
		WeekdayNamePt(local), local.Day(), MonthNamePt(local.Month()), local.Year())
}
