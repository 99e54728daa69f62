package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/presenca-hub/attendance-hub/internal/domain/attendance"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
)

func TestAnnotateConsecutive_MarksStudentsAbsentYesterday(t *testing.T) {
	day := shared.NewDay(2024, time.March, 12)
	records := []*attendance.Record{
		rec(day, "s-ana", "Ana", attendance.StatusAbsent),
		rec(day, "s-bruno", "Bruno", attendance.StatusAbsent),
	}
	view := BuildDaily(day, records, shared.AttributeFilter{})

	AnnotateConsecutive(view, map[string]bool{"s-ana": true})

	assert.True(t, view.Entries[0].IsConsecutive)
	assert.False(t, view.Entries[1].IsConsecutive)
}

func TestAnnotateConsecutive_JustifiedYesterdayBreaksChain(t *testing.T) {
	yesterday := shared.NewDay(2024, time.March, 11)
	today := yesterday.Next()

	history := []*attendance.Record{
		rec(yesterday, "s-ana", "Ana", attendance.StatusJustified),
		rec(yesterday, "s-bruno", "Bruno", attendance.StatusAbsent),
		rec(today, "s-ana", "Ana", attendance.StatusAbsent),
		rec(today, "s-bruno", "Bruno", attendance.StatusAbsent),
	}

	// The previous-day set comes from an absent-only ledger query.
	absentPrev := make(map[string]bool)
	for _, r := range history {
		if r.Day.Equal(yesterday) && r.Status == attendance.StatusAbsent {
			absentPrev[r.StudentID] = true
		}
	}

	view := BuildDaily(today, history, shared.AttributeFilter{})
	AnnotateConsecutive(view, absentPrev)

	assert.Equal(t, "Ana", view.Entries[0].StudentName)
	assert.False(t, view.Entries[0].IsConsecutive)
	assert.Equal(t, "Bruno", view.Entries[1].StudentName)
	assert.True(t, view.Entries[1].IsConsecutive)
}

func TestAnnotateConsecutive_NeverReorders(t *testing.T) {
	day := shared.NewDay(2024, time.March, 12)
	records := []*attendance.Record{
		rec(day, "s-ana", "Ana", attendance.StatusAbsent),
		rec(day, "s-bruno", "Bruno", attendance.StatusAbsent),
		rec(day, "s-carla", "Carla", attendance.StatusAbsent),
	}
	view := BuildDaily(day, records, shared.AttributeFilter{})

	AnnotateConsecutive(view, map[string]bool{"s-carla": true, "s-bruno": true})

	assert.Equal(t, "Ana", view.Entries[0].StudentName)
	assert.Equal(t, "Bruno", view.Entries[1].StudentName)
	assert.Equal(t, "Carla", view.Entries[2].StudentName)
	assert.Equal(t, 3, view.Total)
}

func TestAnnotateConsecutive_ToleratesNilAndEmpty(t *testing.T) {
	AnnotateConsecutive(nil, map[string]bool{"s-ana": true})

	day := shared.NewDay(2024, time.March, 12)
	view := BuildDaily(day, []*attendance.Record{
		rec(day, "s-ana", "Ana", attendance.StatusAbsent),
	}, shared.AttributeFilter{})

	AnnotateConsecutive(view, nil)
	assert.False(t, view.Entries[0].IsConsecutive)
}
