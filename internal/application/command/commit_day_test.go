package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
)

func commitTestRoster() []*student.Student {
	return []*student.Student{
		{ID: "s-ana", Name: "Ana", Grade: "5º ano", Class: "B", Shift: "morning"},
		{ID: "s-bruno", Name: "Bruno", Grade: "5º ano", Class: "B", Shift: "morning"},
		{ID: "s-carla", Name: "Carla", Grade: "6º ano", Class: "A", Shift: "afternoon"},
	}
}

func TestCommitDayHandler_DefaultsMissingDecisionsToAbsent(t *testing.T) {
	store := newFakeLedgerStore()
	roster := newFakeRoster(commitTestRoster()...)
	publisher := &capturePublisher{}
	handler := NewCommitDayHandler(roster, attendance.NewLedger(store), publisher)

	result, err := handler.Handle(context.Background(), CommitDayCommand{
		Day: "2024-03-11",
		Decisions: map[string]string{
			"s-ana": "present",
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "2024-03-11", result.Day.String())
	assert.Equal(t, 3, result.RecordCount)
	assert.Equal(t, 2, result.AbsentCount)
}

func TestCommitDayHandler_JustifiedCountsAsAbsence(t *testing.T) {
	store := newFakeLedgerStore()
	roster := newFakeRoster(commitTestRoster()...)
	handler := NewCommitDayHandler(roster, attendance.NewLedger(store), nil)

	result, err := handler.Handle(context.Background(), CommitDayCommand{
		Day: "2024-03-11",
		Decisions: map[string]string{
			"s-ana":   "present",
			"s-bruno": "justified",
			"s-carla": "present",
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.AbsentCount)
}

func TestCommitDayHandler_FilterNarrowsRoster(t *testing.T) {
	store := newFakeLedgerStore()
	roster := newFakeRoster(commitTestRoster()...)
	handler := NewCommitDayHandler(roster, attendance.NewLedger(store), nil)

	result, err := handler.Handle(context.Background(), CommitDayCommand{
		Day:    "2024-03-11",
		Filter: student.ListFilter{Class: "B"},
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, result.RecordCount)

	day, _ := shared.ParseDay("2024-03-11")
	records, err := store.Select(context.Background(), attendance.Selection{Day: &day})
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "B", r.Class)
	}
}

func TestCommitDayHandler_ClassScopedCommitKeepsOtherClasses(t *testing.T) {
	store := newFakeLedgerStore()
	roster := newFakeRoster(commitTestRoster()...)
	handler := NewCommitDayHandler(roster, attendance.NewLedger(store), nil)
	ctx := context.Background()

	// The whole school is committed first: three records, everyone absent.
	_, err := handler.Handle(ctx, CommitDayCommand{Day: "2024-03-11"})
	assert.NoError(t, err)

	// Class B re-marks its own day. Carla (class A) is not in the commit's
	// roster and her record must survive the replace.
	result, err := handler.Handle(ctx, CommitDayCommand{
		Day:    "2024-03-11",
		Filter: student.ListFilter{Class: "B"},
		Decisions: map[string]string{
			"s-ana":   "present",
			"s-bruno": "present",
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, result.RecordCount)

	day, _ := shared.ParseDay("2024-03-11")
	records, err := store.Select(ctx, attendance.Selection{Day: &day})
	assert.NoError(t, err)
	assert.Len(t, records, 3)

	byStudent := make(map[string]attendance.Status, len(records))
	for _, r := range records {
		byStudent[r.StudentID] = r.Status
	}
	assert.Equal(t, attendance.StatusPresent, byStudent["s-ana"])
	assert.Equal(t, attendance.StatusPresent, byStudent["s-bruno"])
	assert.Equal(t, attendance.StatusAbsent, byStudent["s-carla"])
}

func TestCommitDayHandler_SecondCommitWinsEntirely(t *testing.T) {
	store := newFakeLedgerStore()
	roster := newFakeRoster(commitTestRoster()...)
	handler := NewCommitDayHandler(roster, attendance.NewLedger(store), nil)
	ctx := context.Background()

	_, err := handler.Handle(ctx, CommitDayCommand{Day: "2024-03-11"})
	assert.NoError(t, err)

	result, err := handler.Handle(ctx, CommitDayCommand{
		Day: "2024-03-11",
		Decisions: map[string]string{
			"s-ana":   "present",
			"s-bruno": "present",
			"s-carla": "present",
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, result.RecordCount)
	assert.Equal(t, 0, result.AbsentCount)

	day, _ := shared.ParseDay("2024-03-11")
	count, err := store.CountForDay(ctx, day)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCommitDayHandler_RejectsMalformedDay(t *testing.T) {
	handler := NewCommitDayHandler(newFakeRoster(), attendance.NewLedger(newFakeLedgerStore()), nil)

	_, err := handler.Handle(context.Background(), CommitDayCommand{Day: "11/03/2024"})
	assert.ErrorIs(t, err, shared.ErrInvalidFormat)
}

func TestCommitDayHandler_RejectsInvalidStatusBeforeStoreAccess(t *testing.T) {
	roster := newFakeRoster(commitTestRoster()...)
	roster.listErr = shared.ErrStoreUnavailable
	handler := NewCommitDayHandler(roster, attendance.NewLedger(newFakeLedgerStore()), nil)

	_, err := handler.Handle(context.Background(), CommitDayCommand{
		Day:       "2024-03-11",
		Decisions: map[string]string{"s-ana": "late"},
	})

	// Validation fails first; the failing roster store is never consulted.
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestCommitDayHandler_RejectsEmptyDecisionID(t *testing.T) {
	handler := NewCommitDayHandler(newFakeRoster(), attendance.NewLedger(newFakeLedgerStore()), nil)

	_, err := handler.Handle(context.Background(), CommitDayCommand{
		Day:       "2024-03-11",
		Decisions: map[string]string{"": "present"},
	})
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestCommitDayHandler_EmptyRosterFails(t *testing.T) {
	handler := NewCommitDayHandler(newFakeRoster(), attendance.NewLedger(newFakeLedgerStore()), nil)

	_, err := handler.Handle(context.Background(), CommitDayCommand{Day: "2024-03-11"})
	assert.ErrorIs(t, err, shared.ErrEmptyRoster)
}

func TestCommitDayHandler_PropagatesWriteConflict(t *testing.T) {
	store := newFakeLedgerStore()
	store.replaceErr = shared.ErrDayReplaceRace
	handler := NewCommitDayHandler(newFakeRoster(commitTestRoster()...), attendance.NewLedger(store), nil)

	_, err := handler.Handle(context.Background(), CommitDayCommand{Day: "2024-03-11"})
	assert.ErrorIs(t, err, shared.ErrWriteConflict)
}

func TestCommitDayHandler_PublishesDayCommittedEvent(t *testing.T) {
	publisher := &capturePublisher{}
	handler := NewCommitDayHandler(newFakeRoster(commitTestRoster()...), attendance.NewLedger(newFakeLedgerStore()), publisher)

	result, err := handler.Handle(context.Background(), CommitDayCommand{
		Day:           "2024-03-11",
		CorrelationID: "req-123",
	})

	assert.NoError(t, err)
	assert.Len(t, result.Events, 1)
	assert.Len(t, publisher.events, 1)

	event, ok := publisher.events[0].(shared.DayCommittedEvent)
	assert.True(t, ok)
	assert.Equal(t, shared.EventDayCommitted, event.EventType())
	assert.Equal(t, "2024-03-11", event.Day)
	assert.Equal(t, 3, event.RecordCount)
	assert.Equal(t, 3, event.AbsentCount)
	assert.Equal(t, "req-123", event.CorrelationID)
}
