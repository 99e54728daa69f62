package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
)

// fakeLedgerStore is an in-memory Repository keyed by day.
type fakeLedgerStore struct {
	byDay      map[string][]*Record
	replaceErr error
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{byDay: make(map[string][]*Record)}
}

func (f *fakeLedgerStore) Select(_ context.Context, sel Selection) ([]*Record, error) {
	var out []*Record
	for _, records := range f.byDay {
		for _, r := range records {
			if sel.Matches(r) {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) ReplaceDay(_ context.Context, day shared.Day, records []*Record) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	replaced := make(map[string]bool, len(records))
	for _, r := range records {
		replaced[r.StudentID] = true
	}
	var kept []*Record
	for _, r := range f.byDay[day.String()] {
		if !replaced[r.StudentID] {
			kept = append(kept, r)
		}
	}
	f.byDay[day.String()] = append(kept, records...)
	return nil
}

func (f *fakeLedgerStore) UpdatePhone(_ context.Context, studentID, phone string) (int, error) {
	touched := 0
	for _, records := range f.byDay {
		for _, r := range records {
			if r.StudentID == studentID {
				r.Phone = phone
				touched++
			}
		}
	}
	return touched, nil
}

func (f *fakeLedgerStore) CountForDay(_ context.Context, day shared.Day) (int, error) {
	return len(f.byDay[day.String()]), nil
}

func rosterOf(names ...string) []*student.Student {
	roster := make([]*student.Student, 0, len(names))
	for i, name := range names {
		roster = append(roster, &student.Student{
			ID:    "student-" + string(rune('a'+i)),
			Name:  name,
			Grade: "5º ano",
			Class: "B",
		})
	}
	return roster
}

func TestBuildDayRecords_DefaultsMissingToAbsent(t *testing.T) {
	day := shared.NewDay(2024, time.March, 11)
	roster := rosterOf("Ana", "Bruno", "Carla")

	records := BuildDayRecords(day, roster, Decisions{
		roster[0].ID: StatusPresent,
	})

	assert.Len(t, records, 3)
	assert.Equal(t, StatusPresent, records[0].Status)
	assert.Equal(t, StatusAbsent, records[1].Status)
	assert.Equal(t, StatusAbsent, records[2].Status)
}

func TestBuildDayRecords_PreservesRosterOrder(t *testing.T) {
	day := shared.NewDay(2024, time.March, 11)
	roster := rosterOf("Carla", "Ana", "Bruno")

	records := BuildDayRecords(day, roster, nil)

	assert.Len(t, records, 3)
	assert.Equal(t, "Carla", records[0].StudentName)
	assert.Equal(t, "Ana", records[1].StudentName)
	assert.Equal(t, "Bruno", records[2].StudentName)
}

func TestBuildDayRecords_SnapshotsRosterAttributes(t *testing.T) {
	day := shared.NewDay(2024, time.March, 11)
	roster := []*student.Student{{
		ID:     "student-a",
		Name:   "Ana",
		Grade:  "5º ano",
		Class:  "B",
		Shift:  "morning",
		Ensino: "fundamental",
		Phone:  "+55 11 99999-0001",
	}}

	records := BuildDayRecords(day, roster, Decisions{"student-a": StatusJustified})

	assert.Len(t, records, 1)
	r := records[0]
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "Ana", r.StudentName)
	assert.Equal(t, "5º ano", r.Grade)
	assert.Equal(t, "B", r.Class)
	assert.Equal(t, "morning", r.Shift)
	assert.Equal(t, "fundamental", r.Ensino)
	assert.Equal(t, "+55 11 99999-0001", r.Phone)
	assert.Equal(t, StatusJustified, r.Status)
	assert.True(t, r.Day.Equal(day))
}

func TestLedger_CommitDay(t *testing.T) {
	store := newFakeLedgerStore()
	ledger := NewLedger(store)
	day := shared.NewDay(2024, time.March, 11)
	roster := rosterOf("Ana", "Bruno")

	records, err := ledger.CommitDay(context.Background(), day, roster, Decisions{
		roster[0].ID: StatusPresent,
	})

	assert.NoError(t, err)
	assert.Len(t, records, 2)

	count, err := store.CountForDay(context.Background(), day)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLedger_CommitDay_ReplacesPreviousDecisionSet(t *testing.T) {
	store := newFakeLedgerStore()
	ledger := NewLedger(store)
	day := shared.NewDay(2024, time.March, 11)
	roster := rosterOf("Ana", "Bruno")
	ctx := context.Background()

	_, err := ledger.CommitDay(ctx, day, roster, Decisions{roster[0].ID: StatusPresent})
	assert.NoError(t, err)

	// Second commit for the same day wins entirely.
	_, err = ledger.CommitDay(ctx, day, roster, Decisions{
		roster[0].ID: StatusAbsent,
		roster[1].ID: StatusPresent,
	})
	assert.NoError(t, err)

	count, err := store.CountForDay(ctx, day)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	absent, err := ledger.AbsentOn(ctx, day)
	assert.NoError(t, err)
	assert.True(t, absent[roster[0].ID])
	assert.False(t, absent[roster[1].ID])
}

func TestLedger_CommitDay_RejectsZeroDay(t *testing.T) {
	ledger := NewLedger(newFakeLedgerStore())

	_, err := ledger.CommitDay(context.Background(), shared.Day{}, rosterOf("Ana"), nil)
	assert.ErrorIs(t, err, shared.ErrInvalidDay)
}

func TestLedger_CommitDay_RejectsEmptyRoster(t *testing.T) {
	ledger := NewLedger(newFakeLedgerStore())
	day := shared.NewDay(2024, time.March, 11)

	_, err := ledger.CommitDay(context.Background(), day, nil, nil)
	assert.ErrorIs(t, err, shared.ErrEmptyRoster)
}

func TestLedger_CommitDay_RejectsInvalidStatus(t *testing.T) {
	store := newFakeLedgerStore()
	ledger := NewLedger(store)
	day := shared.NewDay(2024, time.March, 11)
	roster := rosterOf("Ana")

	_, err := ledger.CommitDay(context.Background(), day, roster, Decisions{
		roster[0].ID: Status("late"),
	})
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
	assert.Empty(t, store.byDay)
}

func TestLedger_CommitDay_PropagatesWriteConflict(t *testing.T) {
	store := newFakeLedgerStore()
	store.replaceErr = shared.ErrDayReplaceRace
	ledger := NewLedger(store)
	day := shared.NewDay(2024, time.March, 11)

	_, err := ledger.CommitDay(context.Background(), day, rosterOf("Ana"), nil)
	assert.ErrorIs(t, err, shared.ErrWriteConflict)
	assert.True(t, shared.IsRetryableForCaller(err))
}

func TestLedger_BackfillPhone(t *testing.T) {
	store := newFakeLedgerStore()
	ledger := NewLedger(store)
	roster := rosterOf("Ana")
	ctx := context.Background()

	for d := 11; d <= 13; d++ {
		_, err := ledger.CommitDay(ctx, shared.NewDay(2024, time.March, d), roster, nil)
		assert.NoError(t, err)
	}

	touched, err := ledger.BackfillPhone(ctx, roster[0].ID, "+55 11 98888-0000")
	assert.NoError(t, err)
	assert.Equal(t, 3, touched)

	records, err := store.Select(ctx, Selection{StudentID: roster[0].ID})
	assert.NoError(t, err)
	for _, r := range records {
		assert.Equal(t, "+55 11 98888-0000", r.Phone)
	}
}

func TestLedger_BackfillPhone_RejectsEmptyID(t *testing.T) {
	ledger := NewLedger(newFakeLedgerStore())

	_, err := ledger.BackfillPhone(context.Background(), "", "+55 11 98888-0000")
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestLedger_AbsentOn_IgnoresJustified(t *testing.T) {
	store := newFakeLedgerStore()
	ledger := NewLedger(store)
	day := shared.NewDay(2024, time.March, 11)
	roster := rosterOf("Ana", "Bruno", "Carla")
	ctx := context.Background()

	_, err := ledger.CommitDay(ctx, day, roster, Decisions{
		roster[0].ID: StatusAbsent,
		roster[1].ID: StatusJustified,
		roster[2].ID: StatusPresent,
	})
	assert.NoError(t, err)

	absent, err := ledger.AbsentOn(ctx, day)
	assert.NoError(t, err)
	assert.Len(t, absent, 1)
	assert.True(t, absent[roster[0].ID])
}

func TestCountAbsences_CountsAbsentOnly(t *testing.T) {
	day := shared.NewDay(2024, time.March, 11)
	roster := rosterOf("Ana", "Bruno")

	records := BuildDayRecords(day, roster, Decisions{
		roster[0].ID: StatusAbsent,
		roster[1].ID: StatusJustified,
	})
	records = append(records, BuildDayRecords(day.Next(), roster, Decisions{
		roster[0].ID: StatusAbsent,
		roster[1].ID: StatusPresent,
	})...)

	counts := CountAbsences(records)
	assert.Equal(t, 2, counts[roster[0].ID])
	assert.Equal(t, 0, counts[roster[1].ID])
}

func TestSortByDay(t *testing.T) {
	roster := rosterOf("Ana")
	var records []*Record
	for _, d := range []int{13, 11, 12} {
		records = append(records, BuildDayRecords(shared.NewDay(2024, time.March, d), roster, nil)...)
	}

	SortByDay(records)

	assert.Equal(t, "2024-03-11", records[0].Day.String())
	assert.Equal(t, "2024-03-12", records[1].Day.String())
	assert.Equal(t, "2024-03-13", records[2].Day.String())
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"present", "absent", "justified"} {
		status, err := ParseStatus(raw)
		assert.NoError(t, err)
		assert.Equal(t, Status(raw), status)
	}

	_, err := ParseStatus("late")
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestStatus_IsAbsence(t *testing.T) {
	assert.False(t, StatusPresent.IsAbsence())
	assert.True(t, StatusAbsent.IsAbsence())
	assert.True(t, StatusJustified.IsAbsence())
}
