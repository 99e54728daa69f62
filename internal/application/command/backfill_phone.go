package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
	"github.com/presenca-hub/attendance-hub/internal/domain/transport"
)

// ══════════════════════════════════════════════════════════════════════════════
// BACKFILL PHONE COMMAND
// Updates a student's phone and propagates the value onto every historical
// attendance and transport record (denormalization repair). Explicitly a
// weak, at-least-once correction: it is not atomic with concurrent day
// commits, and a record written concurrently with the old phone is fixed by
// the next back-fill.
// ══════════════════════════════════════════════════════════════════════════════

// BackfillPhoneCommand contains the phone correction.
type BackfillPhoneCommand struct {
	// StudentID identifies the roster entry.
	StudentID string

	// Phone is the corrected number. Empty clears the phone.
	Phone string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c BackfillPhoneCommand) Validate() error {
	if strings.TrimSpace(c.StudentID) == "" {
		return shared.ErrInvalidStudentID
	}
	return nil
}

// BackfillPhoneResult contains the outcome of the correction.
type BackfillPhoneResult struct {
	// StudentID is the corrected student.
	StudentID string

	// AttendanceRecords is how many ledger records were rewritten.
	AttendanceRecords int

	// TransportRecords is how many transport records were rewritten.
	TransportRecords int
}

// BackfillPhoneHandler handles the BackfillPhoneCommand.
type BackfillPhoneHandler struct {
	roster    student.Repository
	ledger    *attendance.Ledger
	transport transport.Repository
	publisher shared.EventPublisher
}

// NewBackfillPhoneHandler creates a new BackfillPhoneHandler.
func NewBackfillPhoneHandler(
	roster student.Repository,
	ledger *attendance.Ledger,
	transportRepo transport.Repository,
	publisher shared.EventPublisher,
) *BackfillPhoneHandler {
	return &BackfillPhoneHandler{
		roster:    roster,
		ledger:    ledger,
		transport: transportRepo,
		publisher: publisher,
	}
}

// Handle executes the back-fill: roster first, then the historical records.
func (h *BackfillPhoneHandler) Handle(ctx context.Context, cmd BackfillPhoneCommand) (*BackfillPhoneResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	phone := strings.TrimSpace(cmd.Phone)

	s, err := h.roster.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, err
	}
	s.Apply(student.Changes{Phone: &phone})
	if err := h.roster.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("backfill_phone: failed to update roster: %w", err)
	}

	ledgerTouched, err := h.ledger.BackfillPhone(ctx, cmd.StudentID, phone)
	if err != nil {
		return nil, err
	}

	transportTouched := 0
	if h.transport != nil {
		transportTouched, err = h.transport.UpdatePhone(ctx, cmd.StudentID, phone)
		if err != nil {
			return nil, fmt.Errorf("backfill_phone: failed to update transport record: %w", err)
		}
	}

	event := shared.NewPhoneCorrectedEvent(cmd.StudentID, phone, ledgerTouched+transportTouched)
	event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	if h.publisher != nil {
		_ = h.publisher.Publish(event)
	}

	return &BackfillPhoneResult{
		StudentID:         cmd.StudentID,
		AttendanceRecords: ledgerTouched,
		TransportRecords:  transportTouched,
	}, nil
}
