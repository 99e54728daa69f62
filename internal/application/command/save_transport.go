package command

import (
	"context"
	"errors"
	"strings"

	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
	"github.com/presenca-hub/attendance-hub/internal/domain/transport"
)

// ══════════════════════════════════════════════════════════════════════════════
// SAVE TRANSPORT COMMAND
// Whole-entity replace with merge, keyed by student: the new record replaces
// the old one, keeping old values where the new record is silent.
// ══════════════════════════════════════════════════════════════════════════════

// SaveTransportCommand contains a transport assignment.
type SaveTransportCommand struct {
	StudentID string
	Route     string
	Vehicle   string
	Period    string
}

// Validate validates the command.
func (c SaveTransportCommand) Validate() error {
	if strings.TrimSpace(c.StudentID) == "" {
		return shared.ErrInvalidStudentID
	}
	if strings.TrimSpace(c.Route) == "" {
		return shared.NewDomainError("command", "SaveTransport", shared.ErrEmptyValue, "route is required")
	}
	return nil
}

// SaveTransportHandler handles the SaveTransportCommand.
type SaveTransportHandler struct {
	roster    student.Repository
	transport transport.Repository
	publisher shared.EventPublisher
}

// NewSaveTransportHandler creates a new SaveTransportHandler.
func NewSaveTransportHandler(roster student.Repository, transportRepo transport.Repository, publisher shared.EventPublisher) *SaveTransportHandler {
	return &SaveTransportHandler{
		roster:    roster,
		transport: transportRepo,
		publisher: publisher,
	}
}

// Handle replaces the student's transport record, merging over the previous
// one. The name and phone snapshots come from the roster at save time, the
// same way attendance records take theirs at commit time.
func (h *SaveTransportHandler) Handle(ctx context.Context, cmd SaveTransportCommand) (*transport.Record, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s, err := h.roster.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, err
	}

	rec, err := transport.New(s.ID, s.Name, cmd.Route, cmd.Vehicle, cmd.Period, s.Phone)
	if err != nil {
		return nil, err
	}

	prev, err := h.transport.GetByStudent(ctx, s.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	rec.MergeOver(prev)

	if err := h.transport.Replace(ctx, rec); err != nil {
		return nil, err
	}

	if h.publisher != nil {
		_ = h.publisher.Publish(shared.NewTransportSavedEvent(s.ID, rec.Route))
	}
	return rec, nil
}
