package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
)

func TestNew(t *testing.T) {
	r, err := New("s-ana", " Ana ", " R1 ", "bus-07", "morning", "+55 11 99999-0001")
	assert.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "Ana", r.StudentName)
	assert.Equal(t, "R1", r.Route)
	assert.Equal(t, "bus-07", r.Vehicle)
}

func TestNew_RequiresStudentAndRoute(t *testing.T) {
	_, err := New("", "Ana", "R1", "", "", "")
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = New("s-ana", "Ana", "  ", "", "", "")
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestMergeOver(t *testing.T) {
	prev, err := New("s-ana", "Ana", "R1", "bus-07", "morning", "+55 11 99999-0001")
	assert.NoError(t, err)

	next, err := New("s-ana", "", "R2", "", "", "")
	assert.NoError(t, err)
	next.MergeOver(prev)

	// New values win where the new record says something, old values survive
	// where it is silent. The identity is carried over.
	assert.Equal(t, prev.ID, next.ID)
	assert.Equal(t, "R2", next.Route)
	assert.Equal(t, "Ana", next.StudentName)
	assert.Equal(t, "bus-07", next.Vehicle)
	assert.Equal(t, "morning", next.Period)
	assert.Equal(t, "+55 11 99999-0001", next.Phone)
}

func TestMergeOver_NilPrevious(t *testing.T) {
	r, err := New("s-ana", "Ana", "R1", "", "", "")
	assert.NoError(t, err)
	id := r.ID

	r.MergeOver(nil)
	assert.Equal(t, id, r.ID)
	assert.Equal(t, "R1", r.Route)
}
