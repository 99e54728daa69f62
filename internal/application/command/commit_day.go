// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMMIT DAY COMMAND
// Commits one attendance day for the roster the command spans: every
// spanned member gets exactly one record, explicit decisions win, everyone
// else defaults to absent. The spanned students' previous decisions for the
// day are replaced atomically; a class-scoped commit leaves the other
// classes' records for the day untouched.
// ══════════════════════════════════════════════════════════════════════════════

// CommitDayCommand contains a day's presence/absence decisions.
type CommitDayCommand struct {
	// Day is the calendar day being committed, YYYY-MM-DD.
	Day string

	// Decisions maps student ID to status. A roster member missing from
	// the map defaults to absent.
	Decisions map[string]string

	// Filter optionally narrows the roster the commit spans (e.g. one
	// class marking its own day). Empty means the whole roster.
	Filter student.ListFilter

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command before any store access.
func (c CommitDayCommand) Validate() error {
	if _, err := shared.ParseDay(c.Day); err != nil {
		return err
	}
	for id, raw := range c.Decisions {
		if id == "" {
			return shared.NewDomainError("command", "CommitDay", shared.ErrInvalidID, "decision with empty student ID")
		}
		if _, err := attendance.ParseStatus(raw); err != nil {
			return shared.WrapError("command", "CommitDay", shared.ErrInvalidStatus,
				fmt.Sprintf("decision for student %s", id), err)
		}
	}
	return nil
}

// CommitDayResult contains the outcome of a day commit.
type CommitDayResult struct {
	// Day is the committed day.
	Day shared.Day

	// RecordCount is how many records the day now holds.
	RecordCount int

	// AbsentCount is how many of them are absences (absent or justified).
	AbsentCount int

	// Events contains the domain events generated.
	Events []shared.Event
}

// CommitDayHandler handles the CommitDayCommand.
type CommitDayHandler struct {
	roster    student.Repository
	ledger    *attendance.Ledger
	publisher shared.EventPublisher
}

// NewCommitDayHandler creates a new CommitDayHandler.
func NewCommitDayHandler(roster student.Repository, ledger *attendance.Ledger, publisher shared.EventPublisher) *CommitDayHandler {
	return &CommitDayHandler{
		roster:    roster,
		ledger:    ledger,
		publisher: publisher,
	}
}

// Handle executes the commit. On shared.ErrWriteConflict the day is left
// indeterminate and the whole command must be retried by the caller; the
// handler never retries on its own.
func (h *CommitDayHandler) Handle(ctx context.Context, cmd CommitDayCommand) (*CommitDayResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	day, _ := shared.ParseDay(cmd.Day)

	roster, err := h.roster.List(ctx, cmd.Filter)
	if err != nil {
		return nil, fmt.Errorf("commit_day: failed to load roster: %w", err)
	}

	decisions := make(attendance.Decisions, len(cmd.Decisions))
	for id, raw := range cmd.Decisions {
		decisions[id] = attendance.Status(raw)
	}

	records, err := h.ledger.CommitDay(ctx, day, roster, decisions)
	if err != nil {
		return nil, err
	}

	absent := 0
	for _, r := range records {
		if r.Status.IsAbsence() {
			absent++
		}
	}

	event := shared.NewDayCommittedEvent(day.String(), len(records), absent)
	event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	if h.publisher != nil {
		// Best effort: the commit itself succeeded, and a lost event only
		// delays cache invalidation until the TTL expires.
		_ = h.publisher.Publish(event)
	}

	return &CommitDayResult{
		Day:         day,
		RecordCount: len(records),
		AbsentCount: absent,
		Events:      []shared.Event{event},
	}, nil
}
