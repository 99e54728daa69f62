// Package postgres implements the PostgreSQL persistence layer.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// RosterRepository implements student.Repository for PostgreSQL.
type RosterRepository struct {
	conn *Connection
}

// NewRosterRepository creates a new RosterRepository.
func NewRosterRepository(conn *Connection) *RosterRepository {
	return &RosterRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create adds a student to the roster.
func (r *RosterRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (
			id, name, grade, class, shift, ensino, phone, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.Name,
		s.Grade,
		s.Class,
		s.Shift,
		s.Ensino,
		s.Phone,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID returns a student by ID.
func (r *RosterRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	query := `
		SELECT id, name, grade, class, shift, ensino, phone, created_at, updated_at
		FROM students
		WHERE id = $1
	`

	var s student.Student
	err := r.conn.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Name,
		&s.Grade,
		&s.Class,
		&s.Shift,
		&s.Ensino,
		&s.Phone,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if IsNoRows(err) {
		return nil, shared.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return &s, nil
}

// Update persists changed roster attributes.
func (r *RosterRepository) Update(ctx context.Context, s *student.Student) error {
	query := `
		UPDATE students SET
			name = $1,
			grade = $2,
			class = $3,
			shift = $4,
			ensino = $5,
			phone = $6,
			updated_at = $7
		WHERE id = $8
	`

	result, err := r.conn.Exec(ctx, query,
		s.Name,
		s.Grade,
		s.Class,
		s.Shift,
		s.Ensino,
		s.Phone,
		time.Now().UTC(),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}

	return nil
}

// Delete removes the roster entry. Attendance records keep their denormalized
// snapshots and are untouched.
func (r *RosterRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Listing & Filtering
// ─────────────────────────────────────────────────────────────────────────────

// List returns roster students matching the attribute filter.
func (r *RosterRepository) List(ctx context.Context, filter student.ListFilter) ([]*student.Student, error) {
	query := `
		SELECT id, name, grade, class, shift, ensino, phone, created_at, updated_at
		FROM students
	`

	where, args := buildRosterWhere(filter)
	query += where + " ORDER BY name ASC"

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := make([]*student.Student, 0)
	for rows.Next() {
		var s student.Student
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Grade,
			&s.Class,
			&s.Shift,
			&s.Ensino,
			&s.Phone,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}

	return students, nil
}

// Count returns the number of students matching the filter.
func (r *RosterRepository) Count(ctx context.Context, filter student.ListFilter) (int, error) {
	query := "SELECT COUNT(*) FROM students"

	where, args := buildRosterWhere(filter)
	query += where

	var count int
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// buildRosterWhere translates a ListFilter into a WHERE clause. Empty filter
// fields add no condition.
func buildRosterWhere(filter student.ListFilter) (string, []interface{}) {
	conditions := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)

	add := func(condition string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.Grade != "" {
		add("grade = $%d", filter.Grade)
	}
	if filter.Class != "" {
		add("class = $%d", filter.Class)
	}
	if filter.Shift != "" {
		add("shift = $%d", filter.Shift)
	}
	if filter.Ensino != "" {
		add("ensino = $%d", filter.Ensino)
	}
	if filter.Search != "" {
		add("LOWER(name) LIKE $%d", "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
