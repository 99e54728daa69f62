// Package postgres implements the PostgreSQL persistence layer.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEDGER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LedgerRepository implements attendance.Repository for PostgreSQL.
type LedgerRepository struct {
	conn *Connection
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(conn *Connection) *LedgerRepository {
	return &LedgerRepository{conn: conn}
}

const recordColumns = `id, student_id, student_name, day, status, grade, class, shift, ensino, phone, marked_at`

// ─────────────────────────────────────────────────────────────────────────────
// Read Operations
// ─────────────────────────────────────────────────────────────────────────────

// Select returns records matching the selection.
func (r *LedgerRepository) Select(ctx context.Context, sel attendance.Selection) ([]*attendance.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance_records", recordColumns)

	conditions := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)

	add := func(condition string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if sel.Day != nil {
		add("day = $%d", sel.Day.Time())
	}
	if sel.Range != nil {
		add("day >= $%d", sel.Range.From.Time())
		add("day <= $%d", sel.Range.To.Time())
	}
	if sel.StudentID != "" {
		add("student_id = $%d", sel.StudentID)
	}
	if len(sel.Statuses) > 0 {
		placeholders := make([]string, len(sel.Statuses))
		for i, status := range sel.Statuses {
			args = append(args, string(status))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY day ASC, student_name ASC"

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, shared.WrapError("attendance", "Select", shared.ErrStoreUnavailable, "failed to select attendance records", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// CountForDay returns the number of records stored for a day.
func (r *LedgerRepository) CountForDay(ctx context.Context, day shared.Day) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		"SELECT COUNT(*) FROM attendance_records WHERE day = $1",
		day.Time(),
	).Scan(&count)
	if err != nil {
		return 0, shared.WrapError("attendance", "CountForDay", shared.ErrStoreUnavailable, "failed to count day records", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Write Operations
// ─────────────────────────────────────────────────────────────────────────────

// ReplaceDay atomically replaces the day's records for the students covered
// by the incoming set. The delete is scoped to those students, so a
// class-scoped commit leaves the rest of the day's ledger in place. Readers
// outside the transaction never observe a half-replaced day. On failure the
// transaction rolls back and the error kind tells the caller whether a
// retry can help: replace races carry shared.ErrWriteConflict, everything
// else shared.ErrStoreUnavailable.
func (r *LedgerRepository) ReplaceDay(ctx context.Context, day shared.Day, records []*attendance.Record) error {
	if len(records) == 0 {
		return nil
	}

	studentIDs := make([]string, len(records))
	for i, rec := range records {
		studentIDs[i] = rec.StudentID
	}

	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			"DELETE FROM attendance_records WHERE day = $1 AND student_id = ANY($2)",
			day.Time(),
			studentIDs,
		); err != nil {
			return fmt.Errorf("failed to clear day records: %w", err)
		}

		batch := &pgx.Batch{}
		for _, rec := range records {
			batch.Queue(`
				INSERT INTO attendance_records
				(id, student_id, student_name, day, status, grade, class, shift, ensino, phone, marked_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			`,
				rec.ID,
				rec.StudentID,
				rec.StudentName,
				rec.Day.Time(),
				string(rec.Status),
				rec.Grade,
				rec.Class,
				rec.Shift,
				rec.Ensino,
				rec.Phone,
				rec.MarkedAt,
			)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for range records {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to insert record: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return replaceDayError(day, err)
	}

	return nil
}

// replaceDayError classifies a failed day replace. Serialization failures,
// deadlocks and duplicate-key races are write conflicts the caller resolves
// by retrying the commit; anything else means the store itself failed.
func replaceDayError(day shared.Day, err error) error {
	if IsSerializationFailure(err) || IsUniqueViolation(err) {
		return shared.WrapError("attendance", "ReplaceDay", shared.ErrWriteConflict,
			fmt.Sprintf("day replace race for %s", day), err)
	}
	return shared.WrapError("attendance", "ReplaceDay", shared.ErrStoreUnavailable,
		fmt.Sprintf("day replace failed for %s", day), err)
}

// UpdatePhone rewrites the denormalized phone on every record of the student.
func (r *LedgerRepository) UpdatePhone(ctx context.Context, studentID, phone string) (int, error) {
	result, err := r.conn.Exec(ctx,
		"UPDATE attendance_records SET phone = $1 WHERE student_id = $2",
		phone,
		studentID,
	)
	if err != nil {
		return 0, shared.WrapError("attendance", "UpdatePhone", shared.ErrStoreUnavailable, "failed to back-fill phone", err)
	}
	return int(result.RowsAffected()), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func scanRecords(rows pgx.Rows) ([]*attendance.Record, error) {
	records := make([]*attendance.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

func scanRecord(row pgx.Row) (*attendance.Record, error) {
	var (
		rec    attendance.Record
		day    time.Time
		status string
	)

	if err := row.Scan(
		&rec.ID,
		&rec.StudentID,
		&rec.StudentName,
		&day,
		&status,
		&rec.Grade,
		&rec.Class,
		&rec.Shift,
		&rec.Ensino,
		&rec.Phone,
		&rec.MarkedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	rec.Day = shared.DayOf(day)
	rec.Status = attendance.Status(status)
	return &rec, nil
}
