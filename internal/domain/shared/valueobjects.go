// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// StudentID represents a unique student identifier (UUID format).
type StudentID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the student ID is a valid UUID.
func (s StudentID) IsValid() bool {
	return uuidRegex.MatchString(string(s))
}

// String returns the string representation.
func (s StudentID) String() string {
	return string(s)
}

// IsEmpty checks if the ID is empty.
func (s StudentID) IsEmpty() bool {
	return s == ""
}

// NewStudentID creates a new StudentID with validation.
func NewStudentID(id string) (StudentID, error) {
	sid := StudentID(strings.ToLower(strings.TrimSpace(id)))
	if !sid.IsValid() {
		return "", ErrInvalidStudentID
	}
	return sid, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Day Value Object (calendar day, no time component)
// ═══════════════════════════════════════════════════════════════════════════

// DayLayout is the canonical wire format for calendar days.
const DayLayout = "2006-01-02"

// Day represents a calendar day with no time-of-day component.
// The zero value is the zero day (IsZero() == true).
// Internally normalized to midnight UTC so that equality and ordering are
// independent of the timezone a day was parsed in.
type Day struct {
	t time.Time
}

// NewDay creates a Day from year, month and day-of-month.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates a point in time to its calendar day.
func DayOf(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

// ParseDay parses a day in the canonical YYYY-MM-DD form.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return Day{}, WrapError("shared", "ParseDay", ErrInvalidFormat,
			fmt.Sprintf("day must be in %s form", DayLayout), err)
	}
	return DayOf(t), nil
}

// String returns the canonical YYYY-MM-DD representation.
func (d Day) String() string {
	return d.t.Format(DayLayout)
}

// Time returns the day as midnight UTC.
func (d Day) Time() time.Time {
	return d.t
}

// IsZero reports whether the day is the zero value.
func (d Day) IsZero() bool {
	return d.t.IsZero()
}

// Prev returns the previous calendar day.
func (d Day) Prev() Day {
	return Day{t: d.t.AddDate(0, 0, -1)}
}

// Next returns the following calendar day.
func (d Day) Next() Day {
	return Day{t: d.t.AddDate(0, 0, 1)}
}

// AddDays returns the day shifted by n calendar days.
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// Weekday returns the day of the week.
func (d Day) Weekday() time.Weekday {
	return d.t.Weekday()
}

// Year returns the calendar year.
func (d Day) Year() int {
	return d.t.Year()
}

// Month returns the calendar month.
func (d Day) Month() time.Month {
	return d.t.Month()
}

// Before reports whether d is strictly before other.
func (d Day) Before(other Day) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly after other.
func (d Day) After(other Day) bool {
	return d.t.After(other.t)
}

// Equal reports whether two days are the same calendar day.
func (d Day) Equal(other Day) bool {
	return d.t.Equal(other.t)
}

// Compare returns -1, 0 or +1 ordering d against other.
func (d Day) Compare(other Day) int {
	switch {
	case d.t.Before(other.t):
		return -1
	case d.t.After(other.t):
		return 1
	default:
		return 0
	}
}

// MarshalJSON encodes the day as a YYYY-MM-DD string.
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Day) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// DateRange Value Object (closed interval of days)
// ═══════════════════════════════════════════════════════════════════════════

// DateRange is a closed interval of calendar days [From, To].
type DateRange struct {
	From Day `json:"from"`
	To   Day `json:"to"`
}

// NewDateRange creates a range, rejecting inverted intervals.
func NewDateRange(from, to Day) (DateRange, error) {
	if from.IsZero() || to.IsZero() {
		return DateRange{}, NewDomainError("shared", "NewDateRange", ErrInvalidFilter, "range endpoints are required")
	}
	if from.After(to) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{From: from, To: to}, nil
}

// MonthRange returns the range covering an entire calendar month.
func MonthRange(year int, month time.Month) DateRange {
	first := NewDay(year, month, 1)
	last := DayOf(first.t.AddDate(0, 1, -1))
	return DateRange{From: first, To: last}
}

// Contains reports whether the day falls inside the range (inclusive).
func (r DateRange) Contains(d Day) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// Days returns the number of calendar days in the range.
func (r DateRange) Days() int {
	return int(r.To.t.Sub(r.From.t).Hours()/24) + 1
}

// String returns a human-readable label like "2024-03-01..2024-03-31".
func (r DateRange) String() string {
	return r.From.String() + ".." + r.To.String()
}

// ═══════════════════════════════════════════════════════════════════════════
// WeekdaySet Value Object
// ═══════════════════════════════════════════════════════════════════════════

// WeekdaySet is a set of days of the week, stored as a bitmask over
// time.Weekday (bit 0 = Sunday .. bit 6 = Saturday).
type WeekdaySet uint8

// NewWeekdaySet builds a set from weekdays.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

// WeekdaySetFromInts builds a set from 0..6 selectors (0 = Sunday).
// Rejects out-of-range values.
func WeekdaySetFromInts(days []int) (WeekdaySet, error) {
	var s WeekdaySet
	for _, d := range days {
		if d < 0 || d > 6 {
			return 0, NewDomainError("shared", "WeekdaySetFromInts", ErrInvalidFilter,
				fmt.Sprintf("weekday selector %d out of range 0..6", d))
		}
		s |= 1 << uint(d)
	}
	return s, nil
}

// Has reports whether the set contains the weekday.
func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// IsEmpty reports whether no weekday is selected.
func (s WeekdaySet) IsEmpty() bool {
	return s == 0
}

// Weekdays returns the selected weekdays in Sunday..Saturday order.
func (s WeekdaySet) Weekdays() []time.Weekday {
	out := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// String returns a compact label like "Mon,Wed".
func (s WeekdaySet) String() string {
	names := make([]string, 0, 7)
	for _, d := range s.Weekdays() {
		names = append(names, d.String()[:3])
	}
	return strings.Join(names, ",")
}

// ═══════════════════════════════════════════════════════════════════════════
// AttributeFilter Value Object
// ═══════════════════════════════════════════════════════════════════════════

// AttributeFilter holds optional equality filters over the free-text
// categorical attributes shared by students and attendance records.
// An empty field means "no constraint".
type AttributeFilter struct {
	Grade  string `json:"grade,omitempty"`
	Class  string `json:"class,omitempty"`
	Shift  string `json:"shift,omitempty"`
	Ensino string `json:"ensino,omitempty"`
}

// IsZero reports whether no constraint is set.
func (f AttributeFilter) IsZero() bool {
	return f == AttributeFilter{}
}

// Matches reports whether the given attribute values satisfy every
// constraint of the filter.
func (f AttributeFilter) Matches(grade, class, shift, ensino string) bool {
	if f.Grade != "" && f.Grade != grade {
		return false
	}
	if f.Class != "" && f.Class != class {
		return false
	}
	if f.Shift != "" && f.Shift != shift {
		return false
	}
	if f.Ensino != "" && f.Ensino != ensino {
		return false
	}
	return true
}

// Label returns a human-readable description of the applied filters,
// used in report metadata. Empty string when no filter is set.
func (f AttributeFilter) Label() string {
	parts := make([]string, 0, 4)
	if f.Grade != "" {
		parts = append(parts, "grade="+f.Grade)
	}
	if f.Class != "" {
		parts = append(parts, "class="+f.Class)
	}
	if f.Shift != "" {
		parts = append(parts, "shift="+f.Shift)
	}
	if f.Ensino != "" {
		parts = append(parts, "ensino="+f.Ensino)
	}
	return strings.Join(parts, " ")
}
