// Package postgres implements the PostgreSQL persistence layer.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/internal/domain/transport"
)

// ══════════════════════════════════════════════════════════════════════════════
// TRANSPORT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// TransportRepository implements transport.Repository for PostgreSQL.
type TransportRepository struct {
	conn *Connection
}

// NewTransportRepository creates a new TransportRepository.
func NewTransportRepository(conn *Connection) *TransportRepository {
	return &TransportRepository{conn: conn}
}

const transportColumns = `id, student_id, student_name, route, vehicle, period, phone, updated_at`

// GetByStudent returns the student's transport record.
func (r *TransportRepository) GetByStudent(ctx context.Context, studentID string) (*transport.Record, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM transport_records WHERE student_id = $1
	`, transportColumns)

	rec, err := scanTransportRecord(r.conn.QueryRow(ctx, query, studentID))
	if IsNoRows(err) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transport record: %w", err)
	}
	return rec, nil
}

// Replace stores the record as the student's only transport record. The
// one-record-per-student invariant lives in the unique index on student_id,
// so the replace is a single upsert.
func (r *TransportRepository) Replace(ctx context.Context, rec *transport.Record) error {
	query := `
		INSERT INTO transport_records
		(id, student_id, student_name, route, vehicle, period, phone, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (student_id) DO UPDATE SET
			student_name = EXCLUDED.student_name,
			route = EXCLUDED.route,
			vehicle = EXCLUDED.vehicle,
			period = EXCLUDED.period,
			phone = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.conn.Exec(ctx, query,
		rec.ID,
		rec.StudentID,
		rec.StudentName,
		rec.Route,
		rec.Vehicle,
		rec.Period,
		rec.Phone,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to replace transport record: %w", err)
	}

	return nil
}

// Delete removes the student's transport record.
func (r *TransportRepository) Delete(ctx context.Context, studentID string) error {
	result, err := r.conn.Exec(ctx,
		"DELETE FROM transport_records WHERE student_id = $1", studentID)
	if err != nil {
		return fmt.Errorf("failed to delete transport record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// UpdatePhone rewrites the denormalized phone on the student's record.
func (r *TransportRepository) UpdatePhone(ctx context.Context, studentID, phone string) (int, error) {
	result, err := r.conn.Exec(ctx,
		"UPDATE transport_records SET phone = $1, updated_at = $2 WHERE student_id = $3",
		phone,
		time.Now().UTC(),
		studentID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update transport phone: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// ListByRoute returns the records of one route.
func (r *TransportRepository) ListByRoute(ctx context.Context, route string) ([]*transport.Record, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM transport_records
		WHERE route = $1
		ORDER BY student_name ASC
	`, transportColumns)

	rows, err := r.conn.Query(ctx, query, route)
	if err != nil {
		return nil, fmt.Errorf("failed to list transport records: %w", err)
	}
	defer rows.Close()

	records := make([]*transport.Record, 0)
	for rows.Next() {
		rec, err := scanTransportRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transport records: %w", err)
	}

	return records, nil
}

func scanTransportRecord(row pgx.Row) (*transport.Record, error) {
	var rec transport.Record
	if err := row.Scan(
		&rec.ID,
		&rec.StudentID,
		&rec.StudentName,
		&rec.Route,
		&rec.Vehicle,
		&rec.Period,
		&rec.Phone,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}
