package report

import (
	"sort"
	"time"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATION
// Pure functions over a bag of ledger records (plus roster where needed).
// No hidden state: the same inputs always produce the same view, which is
// what makes the reports deterministic, cacheable and testable.
// ══════════════════════════════════════════════════════════════════════════════

// BuildDaily builds the daily absence list for a day: absent records of that
// day, narrowed by the attribute filter, ordered by student name (locale-
// aware collation). The IsConsecutive flag is left false here; use
// AnnotateConsecutive to fill it in.
func BuildDaily(day shared.Day, records []*attendance.Record, filter shared.AttributeFilter) *DailyAbsenceList {
	entries := make([]DailyEntry, 0)
	for _, r := range records {
		if !r.Day.Equal(day) || r.Status != attendance.StatusAbsent {
			continue
		}
		if !r.Matches(filter) {
			continue
		}
		entries = append(entries, DailyEntry{
			RecordID:    r.ID,
			StudentID:   r.StudentID,
			StudentName: r.StudentName,
			Grade:       r.Grade,
			Class:       r.Class,
			Shift:       r.Shift,
			Ensino:      r.Ensino,
			Phone:       r.Phone,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return CompareNames(entries[i].StudentName, entries[j].StudentName) < 0
	})

	return &DailyAbsenceList{
		Day:         day,
		Filter:      filter,
		Entries:     entries,
		Total:       len(entries),
		PeriodLabel: day.String(),
		GeneratedAt: time.Now(),
	}
}

// BuildMonthly builds the monthly absence summary. Absent records inside the
// month are counted per student; the output spans the whole filtered roster,
// so students without absences appear with a zero count. Ordered by absence
// count descending, ties broken by collated name ascending.
func BuildMonthly(year int, month time.Month, records []*attendance.Record, roster []*student.Student, filter shared.AttributeFilter) *MonthlyAbsenceSummary {
	rng := shared.MonthRange(year, month)

	counts := make(map[string]int)
	for _, r := range records {
		if r.Status != attendance.StatusAbsent || !rng.Contains(r.Day) {
			continue
		}
		counts[r.StudentID]++
	}

	entries := make([]MonthlyEntry, 0, len(roster))
	total := 0
	for _, s := range roster {
		if !s.Matches(filter) {
			continue
		}
		n := counts[s.ID]
		total += n
		entries = append(entries, MonthlyEntry{
			StudentID:   s.ID,
			StudentName: s.Name,
			Grade:       s.Grade,
			Class:       s.Class,
			Shift:       s.Shift,
			Ensino:      s.Ensino,
			Absences:    n,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Absences != entries[j].Absences {
			return entries[i].Absences > entries[j].Absences
		}
		return CompareNames(entries[i].StudentName, entries[j].StudentName) < 0
	})

	return &MonthlyAbsenceSummary{
		Year:          year,
		Month:         month,
		Filter:        filter,
		Entries:       entries,
		TotalAbsences: total,
		StudentCount:  len(entries),
		PeriodLabel:   monthLabel(year, month),
		GeneratedAt:   time.Now(),
	}
}

// BuildCustom builds the custom absence list: absent and justified records
// inside the interval whose weekday is in the selector set, narrowed by the
// attribute filter. Ordered by day ascending, ties broken by collated name.
// An empty weekday set is a precondition violation, not a silent no-op.
func BuildCustom(rng shared.DateRange, weekdays shared.WeekdaySet, records []*attendance.Record, filter shared.AttributeFilter) (*CustomAbsenceList, error) {
	if weekdays.IsEmpty() {
		return nil, shared.ErrEmptyWeekdaySet
	}

	entries := make([]CustomEntry, 0)
	for _, r := range records {
		if !r.Status.IsAbsence() || !rng.Contains(r.Day) {
			continue
		}
		if !weekdays.Has(r.Day.Weekday()) {
			continue
		}
		if !r.Matches(filter) {
			continue
		}
		entries = append(entries, CustomEntry{
			RecordID:    r.ID,
			Day:         r.Day,
			Weekday:     r.Day.Weekday(),
			StudentID:   r.StudentID,
			StudentName: r.StudentName,
			Grade:       r.Grade,
			Class:       r.Class,
			Shift:       r.Shift,
			Ensino:      r.Ensino,
			Status:      r.Status,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if c := entries[i].Day.Compare(entries[j].Day); c != 0 {
			return c < 0
		}
		return CompareNames(entries[i].StudentName, entries[j].StudentName) < 0
	})

	return &CustomAbsenceList{
		Range:       rng,
		Weekdays:    weekdays,
		Filter:      filter,
		Entries:     entries,
		Total:       len(entries),
		PeriodLabel: rng.String() + " (" + weekdays.String() + ")",
		GeneratedAt: time.Now(),
	}, nil
}

// BuildIndividual builds one student's absence history inside the interval:
// absent and justified records, ordered by day ascending, with totals split
// into justified and unjustified.
func BuildIndividual(studentID, studentName string, rng shared.DateRange, records []*attendance.Record) *IndividualAbsenceHistory {
	entries := make([]IndividualEntry, 0)
	justified := 0
	for _, r := range records {
		if r.StudentID != studentID || !r.Status.IsAbsence() || !rng.Contains(r.Day) {
			continue
		}
		if r.Status == attendance.StatusJustified {
			justified++
		}
		entries = append(entries, IndividualEntry{
			RecordID: r.ID,
			Day:      r.Day,
			Status:   r.Status,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Day.Before(entries[j].Day)
	})

	return &IndividualAbsenceHistory{
		StudentID:   studentID,
		StudentName: studentName,
		Range:       rng,
		Entries:     entries,
		Total:       len(entries),
		Justified:   justified,
		Unjustified: len(entries) - justified,
		PeriodLabel: rng.String(),
		GeneratedAt: time.Now(),
	}
}
