package command

import (
	"context"
	"strings"

	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER MANAGEMENT COMMANDS
// Register, update and remove roster entries. Removal deletes the roster
// entry only: historical attendance records keep their denormalized
// snapshots and their StudentID is allowed to dangle afterwards.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentCommand adds a student to the roster.
type RegisterStudentCommand struct {
	Name   string
	Grade  string
	Class  string
	Shift  string
	Ensino string
	Phone  string
}

// Validate validates the command.
func (c RegisterStudentCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return shared.ErrStudentNameRequired
	}
	return nil
}

// UpdateStudentCommand edits roster attributes. Nil fields stay untouched.
type UpdateStudentCommand struct {
	StudentID string
	Changes   student.Changes
}

// Validate validates the command.
func (c UpdateStudentCommand) Validate() error {
	if strings.TrimSpace(c.StudentID) == "" {
		return shared.ErrInvalidStudentID
	}
	if c.Changes.Name != nil && strings.TrimSpace(*c.Changes.Name) == "" {
		return shared.ErrStudentNameRequired
	}
	return nil
}

// RemoveStudentCommand deletes a roster entry.
type RemoveStudentCommand struct {
	StudentID string
}

// Validate validates the command.
func (c RemoveStudentCommand) Validate() error {
	if strings.TrimSpace(c.StudentID) == "" {
		return shared.ErrInvalidStudentID
	}
	return nil
}

// ManageStudentHandler handles the roster management commands.
type ManageStudentHandler struct {
	roster    student.Repository
	publisher shared.EventPublisher
}

// NewManageStudentHandler creates a new ManageStudentHandler.
func NewManageStudentHandler(roster student.Repository, publisher shared.EventPublisher) *ManageStudentHandler {
	return &ManageStudentHandler{roster: roster, publisher: publisher}
}

// Register creates the roster entry and returns it.
func (h *ManageStudentHandler) Register(ctx context.Context, cmd RegisterStudentCommand) (*student.Student, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s, err := student.New(cmd.Name, cmd.Grade, cmd.Class, cmd.Shift, cmd.Ensino, cmd.Phone)
	if err != nil {
		return nil, err
	}
	if err := h.roster.Create(ctx, s); err != nil {
		return nil, err
	}

	if h.publisher != nil {
		_ = h.publisher.Publish(shared.NewStudentRegisteredEvent(s.ID, s.Name, s.Grade, s.Class))
	}
	return s, nil
}

// Update applies a partial edit to the roster entry. Attendance history is
// deliberately untouched: records carry snapshots from marking time.
func (h *ManageStudentHandler) Update(ctx context.Context, cmd UpdateStudentCommand) (*student.Student, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s, err := h.roster.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, err
	}

	changed := s.Apply(cmd.Changes)
	if len(changed) == 0 {
		return s, nil
	}
	if err := h.roster.Update(ctx, s); err != nil {
		return nil, err
	}

	if h.publisher != nil {
		_ = h.publisher.Publish(shared.NewStudentUpdatedEvent(s.ID, changed))
	}
	return s, nil
}

// Remove deletes the roster entry, keeping historical records.
func (h *ManageStudentHandler) Remove(ctx context.Context, cmd RemoveStudentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	s, err := h.roster.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return err
	}
	if err := h.roster.Delete(ctx, s.ID); err != nil {
		return err
	}

	if h.publisher != nil {
		_ = h.publisher.Publish(shared.NewStudentRemovedEvent(s.ID, s.Name))
	}
	return nil
}
