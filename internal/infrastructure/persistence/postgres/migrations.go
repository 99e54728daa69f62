// Package postgres implements the PostgreSQL persistence layer.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create students (roster) table
-- Version: 001

CREATE TABLE IF NOT EXISTS students (
    id UUID PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    grade VARCHAR(60) NOT NULL DEFAULT '',
    class VARCHAR(60) NOT NULL DEFAULT '',
    shift VARCHAR(60) NOT NULL DEFAULT '',
    ensino VARCHAR(60) NOT NULL DEFAULT '',
    phone VARCHAR(40) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

-- Indexes for the categorical filters used by every report
CREATE INDEX IF NOT EXISTS idx_students_grade ON students(grade);
CREATE INDEX IF NOT EXISTS idx_students_class ON students(class);
CREATE INDEX IF NOT EXISTS idx_students_shift ON students(shift);
CREATE INDEX IF NOT EXISTS idx_students_ensino ON students(ensino);
CREATE INDEX IF NOT EXISTS idx_students_name ON students(name);
`

const migration001Down = `
DROP TABLE IF EXISTS students;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE ATTENDANCE RECORDS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create attendance records (ledger) table
-- Version: 002

CREATE TABLE IF NOT EXISTS attendance_records (
    id UUID PRIMARY KEY,
    -- Weak reference: no FK on purpose. Records survive roster deletions
    -- and keep serving reports from their denormalized snapshots.
    student_id UUID NOT NULL,
    student_name VARCHAR(200) NOT NULL,
    day DATE NOT NULL,
    status VARCHAR(20) NOT NULL,
    grade VARCHAR(60) NOT NULL DEFAULT '',
    class VARCHAR(60) NOT NULL DEFAULT '',
    shift VARCHAR(60) NOT NULL DEFAULT '',
    ensino VARCHAR(60) NOT NULL DEFAULT '',
    phone VARCHAR(40) NOT NULL DEFAULT '',
    marked_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_status CHECK (status IN ('present', 'absent', 'justified')),

    -- The ledger invariant: at most one record per student per calendar day.
    CONSTRAINT uq_attendance_student_day UNIQUE (student_id, day)
);

CREATE INDEX IF NOT EXISTS idx_attendance_day ON attendance_records(day);
CREATE INDEX IF NOT EXISTS idx_attendance_day_status ON attendance_records(day, status);
CREATE INDEX IF NOT EXISTS idx_attendance_student ON attendance_records(student_id);
CREATE INDEX IF NOT EXISTS idx_attendance_student_day ON attendance_records(student_id, day);
`

const migration002Down = `
DROP TABLE IF EXISTS attendance_records;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE TRANSPORT RECORDS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create transport records table
-- Version: 003

CREATE TABLE IF NOT EXISTS transport_records (
    id UUID PRIMARY KEY,
    student_id UUID NOT NULL UNIQUE,
    student_name VARCHAR(200) NOT NULL DEFAULT '',
    route VARCHAR(100) NOT NULL,
    vehicle VARCHAR(100) NOT NULL DEFAULT '',
    period VARCHAR(60) NOT NULL DEFAULT '',
    phone VARCHAR(40) NOT NULL DEFAULT '',
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_transport_route ON transport_records(route);
`

const migration003Down = `
DROP TABLE IF EXISTS transport_records;
`
