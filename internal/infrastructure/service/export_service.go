// Package service contains infrastructure-side implementations of domain
// service contracts.
package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/presenca-hub/attendance-hub/internal/domain/report"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
	"github.com/presenca-hub/attendance-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CSV EXPORT SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// CSVExporter implements report.Exporter by writing one CSV file per view
// into a target directory. Views arrive fully built and ordered, so the
// exporter only renders rows.
type CSVExporter struct {
	dir    string
	logger *slog.Logger
}

// NewCSVExporter creates a CSVExporter writing into dir.
func NewCSVExporter(dir string, logger *slog.Logger) (*CSVExporter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &CSVExporter{dir: dir, logger: logger}, nil
}

// ExportDaily renders a daily absence list.
func (e *CSVExporter) ExportDaily(ctx context.Context, view *report.DailyAbsenceList) error {
	name := fmt.Sprintf("daily_%s%s.csv", view.Day, filterSuffix(view.Filter.Label()))

	rows := make([][]string, 0, len(view.Entries)+1)
	rows = append(rows, []string{"student", "grade", "class", "shift", "ensino", "phone", "consecutive"})
	for _, entry := range view.Entries {
		rows = append(rows, []string{
			entry.StudentName,
			entry.Grade,
			entry.Class,
			entry.Shift,
			entry.Ensino,
			entry.Phone,
			strconv.FormatBool(entry.IsConsecutive),
		})
	}

	return e.write(ctx, name, rows)
}

// ExportMonthly renders a monthly absence summary.
func (e *CSVExporter) ExportMonthly(ctx context.Context, view *report.MonthlyAbsenceSummary) error {
	name := fmt.Sprintf("monthly_%s%s.csv", view.PeriodLabel, filterSuffix(view.Filter.Label()))

	rows := make([][]string, 0, len(view.Entries)+1)
	rows = append(rows, []string{"student", "grade", "class", "shift", "ensino", "absences"})
	for _, entry := range view.Entries {
		rows = append(rows, []string{
			entry.StudentName,
			entry.Grade,
			entry.Class,
			entry.Shift,
			entry.Ensino,
			strconv.Itoa(entry.Absences),
		})
	}

	return e.write(ctx, name, rows)
}

// ExportCustom renders a custom absence list.
func (e *CSVExporter) ExportCustom(ctx context.Context, view *report.CustomAbsenceList) error {
	name := fmt.Sprintf("custom_%s_%s%s.csv",
		view.Range.From, view.Range.To, filterSuffix(view.Filter.Label()))

	rows := make([][]string, 0, len(view.Entries)+1)
	rows = append(rows, []string{"day", "weekday", "student", "grade", "class", "status"})
	for _, entry := range view.Entries {
		rows = append(rows, []string{
			formatDay(entry.Day),
			entry.Weekday.String(),
			entry.StudentName,
			entry.Grade,
			entry.Class,
			string(entry.Status),
		})
	}

	return e.write(ctx, name, rows)
}

// ExportIndividual renders a per-student absence history.
func (e *CSVExporter) ExportIndividual(ctx context.Context, view *report.IndividualAbsenceHistory) error {
	name := fmt.Sprintf("student_%s_%s_%s.csv", view.StudentID, view.Range.From, view.Range.To)

	rows := make([][]string, 0, len(view.Entries)+1)
	rows = append(rows, []string{"day", "status"})
	for _, entry := range view.Entries {
		rows = append(rows, []string{formatDay(entry.Day), string(entry.Status)})
	}

	return e.write(ctx, name, rows)
}

// write renders rows into a CSV file, honoring context cancellation between
// the open and the flush.
func (e *CSVExporter) write(ctx context.Context, name string, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(e.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	e.logger.Info("report exported", "file", path, "rows", len(rows)-1)
	return nil
}

// formatDay renders a calendar day the way the school's paper forms read it
// (DD/MM/YYYY). Day values are bare dates, so no timezone conversion applies.
func formatDay(d shared.Day) string {
	return d.Time().Format(timeutil.FormatBrazilianDate)
}

// filterSuffix turns a filter label into a file name suffix.
func filterSuffix(label string) string {
	if label == "" {
		return ""
	}
	replacer := strings.NewReplacer(" ", "_", "=", "-", "/", "-")
	return "_" + replacer.Replace(label)
}
