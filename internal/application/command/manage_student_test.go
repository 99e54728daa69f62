package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
)

func strptr(s string) *string { return &s }

func TestManageStudentHandler_Register(t *testing.T) {
	roster := newFakeRoster()
	publisher := &capturePublisher{}
	handler := NewManageStudentHandler(roster, publisher)

	s, err := handler.Register(context.Background(), RegisterStudentCommand{
		Name:   "  Ana Souza ",
		Grade:  "5º ano",
		Class:  "B",
		Shift:  "morning",
		Ensino: "fundamental",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Ana Souza", s.Name)

	stored, err := roster.GetByID(context.Background(), s.ID)
	assert.NoError(t, err)
	assert.Equal(t, s, stored)

	assert.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventStudentRegistered, publisher.events[0].EventType())
}

func TestManageStudentHandler_Register_RequiresName(t *testing.T) {
	handler := NewManageStudentHandler(newFakeRoster(), nil)

	_, err := handler.Register(context.Background(), RegisterStudentCommand{Name: "   "})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestManageStudentHandler_Update_PartialEdit(t *testing.T) {
	roster := newFakeRoster(commitTestRoster()...)
	publisher := &capturePublisher{}
	handler := NewManageStudentHandler(roster, publisher)

	s, err := handler.Update(context.Background(), UpdateStudentCommand{
		StudentID: "s-ana",
		Changes:   student.Changes{Class: strptr("C")},
	})

	assert.NoError(t, err)
	assert.Equal(t, "C", s.Class)
	assert.Equal(t, "Ana", s.Name)
	assert.Equal(t, "5º ano", s.Grade)

	event, ok := publisher.events[0].(shared.StudentUpdatedEvent)
	assert.True(t, ok)
	assert.Equal(t, []string{"class"}, event.ChangedFields)
}

func TestManageStudentHandler_Update_NoopSkipsStoreAndEvent(t *testing.T) {
	roster := newFakeRoster(commitTestRoster()...)
	publisher := &capturePublisher{}
	handler := NewManageStudentHandler(roster, publisher)

	_, err := handler.Update(context.Background(), UpdateStudentCommand{
		StudentID: "s-ana",
		Changes:   student.Changes{Name: strptr("Ana")},
	})

	assert.NoError(t, err)
	assert.Empty(t, publisher.events)
}

func TestManageStudentHandler_Update_RejectsBlankName(t *testing.T) {
	handler := NewManageStudentHandler(newFakeRoster(commitTestRoster()...), nil)

	_, err := handler.Update(context.Background(), UpdateStudentCommand{
		StudentID: "s-ana",
		Changes:   student.Changes{Name: strptr("  ")},
	})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestManageStudentHandler_Update_UnknownStudent(t *testing.T) {
	handler := NewManageStudentHandler(newFakeRoster(), nil)

	_, err := handler.Update(context.Background(), UpdateStudentCommand{
		StudentID: "s-ghost",
		Changes:   student.Changes{Class: strptr("C")},
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestManageStudentHandler_Remove_KeepsAttendanceHistory(t *testing.T) {
	store := newFakeLedgerStore()
	roster := newFakeRoster(commitTestRoster()...)
	ledger := attendance.NewLedger(store)
	ctx := context.Background()

	commit := NewCommitDayHandler(roster, ledger, nil)
	_, err := commit.Handle(ctx, CommitDayCommand{Day: "2024-03-11"})
	assert.NoError(t, err)

	publisher := &capturePublisher{}
	handler := NewManageStudentHandler(roster, publisher)
	err = handler.Remove(ctx, RemoveStudentCommand{StudentID: "s-ana"})
	assert.NoError(t, err)

	_, err = roster.GetByID(ctx, "s-ana")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// Historical records keep the dangling StudentID and the name snapshot.
	records, err := store.Select(ctx, attendance.Selection{StudentID: "s-ana"})
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "Ana", records[0].StudentName)

	event, ok := publisher.events[0].(shared.StudentRemovedEvent)
	assert.True(t, ok)
	assert.Equal(t, "Ana", event.Name)
}

func TestManageStudentHandler_Remove_UnknownStudent(t *testing.T) {
	handler := NewManageStudentHandler(newFakeRoster(), nil)

	err := handler.Remove(context.Background(), RemoveStudentCommand{StudentID: "s-ghost"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSaveTransportHandler_ReplaceWithMerge(t *testing.T) {
	roster := newFakeRoster(commitTestRoster()...)
	transportRepo := newFakeTransport()
	handler := NewSaveTransportHandler(roster, transportRepo, nil)
	ctx := context.Background()

	first, err := handler.Handle(ctx, SaveTransportCommand{
		StudentID: "s-ana",
		Route:     "R1",
		Vehicle:   "bus-07",
		Period:    "morning",
	})
	assert.NoError(t, err)

	// A later save that is silent on vehicle and period keeps the old values.
	second, err := handler.Handle(ctx, SaveTransportCommand{
		StudentID: "s-ana",
		Route:     "R2",
	})
	assert.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "R2", second.Route)
	assert.Equal(t, "bus-07", second.Vehicle)
	assert.Equal(t, "morning", second.Period)

	stored, err := transportRepo.GetByStudent(ctx, "s-ana")
	assert.NoError(t, err)
	assert.Equal(t, "R2", stored.Route)
}

func TestSaveTransportHandler_SnapshotsRosterNameAndPhone(t *testing.T) {
	roster := newFakeRoster(&student.Student{
		ID:    "s-ana",
		Name:  "Ana",
		Phone: "+55 11 99999-0001",
	})
	handler := NewSaveTransportHandler(roster, newFakeTransport(), nil)

	rec, err := handler.Handle(context.Background(), SaveTransportCommand{
		StudentID: "s-ana",
		Route:     "R1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Ana", rec.StudentName)
	assert.Equal(t, "+55 11 99999-0001", rec.Phone)
}

func TestSaveTransportHandler_RequiresRoute(t *testing.T) {
	handler := NewSaveTransportHandler(newFakeRoster(commitTestRoster()...), newFakeTransport(), nil)

	_, err := handler.Handle(context.Background(), SaveTransportCommand{StudentID: "s-ana"})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestSaveTransportHandler_UnknownStudent(t *testing.T) {
	handler := NewSaveTransportHandler(newFakeRoster(), newFakeTransport(), nil)

	_, err := handler.Handle(context.Background(), SaveTransportCommand{StudentID: "s-ghost", Route: "R1"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
