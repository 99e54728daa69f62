package service

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/report"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
)

func TestCSVExporter_ExportIndividualUsesBrazilianDates(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewCSVExporter(dir, nil)
	assert.NoError(t, err)

	rng, err := shared.NewDateRange(shared.NewDay(2024, time.March, 1), shared.NewDay(2024, time.March, 31))
	assert.NoError(t, err)

	view := &report.IndividualAbsenceHistory{
		StudentID:   "s-ana",
		StudentName: "Ana",
		Range:       rng,
		Entries: []report.IndividualEntry{
			{RecordID: "r1", Day: shared.NewDay(2024, time.March, 11), Status: attendance.StatusAbsent},
			{RecordID: "r2", Day: shared.NewDay(2024, time.March, 12), Status: attendance.StatusJustified},
		},
		Total: 2,
	}

	err = exporter.ExportIndividual(context.Background(), view)
	assert.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "student_s-ana_2024-03-01_2024-03-31.csv"))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	assert.NoError(t, err)
	assert.Equal(t, [][]string{
		{"day", "status"},
		{"11/03/2024", "absent"},
		{"12/03/2024", "justified"},
	}, rows)
}
