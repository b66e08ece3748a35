package live

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColourReusesReleasedSlot(t *testing.T) {
	intervals := []Interval{
		{Qubit: 0, Start: 0, End: 2},
		{Qubit: 1, Start: 2, End: 4},
	}

	assign, width, err := Colour("n1", intervals)
	require.NoError(t, err)
	require.Equal(t, 1, width)
	require.Equal(t, assign[0], assign[1])
}

func TestColourGivesDistinctSlotsToOverlapping(t *testing.T) {
	intervals := []Interval{
		{Qubit: 0, Start: 0, End: 3},
		{Qubit: 1, Start: 1, End: 4},
	}

	assign, width, err := Colour("n1", intervals)
	require.NoError(t, err)
	require.Equal(t, 2, width)
	require.NotEqual(t, assign[0], assign[1])
}

func TestColourRejectsConflictingPinned(t *testing.T) {
	intervals := []Interval{
		{Qubit: 0, Start: 0, End: 5, Pinned: true, Slot: 0},
		{Qubit: 1, Start: 2, End: 6, Pinned: true, Slot: 0},
	}

	_, _, err := Colour("n1", intervals)
	require.Error(t, err)
}

func TestColourDirtyRequestReusesReusableDeath(t *testing.T) {
	intervals := []Interval{
		{Qubit: 0, Start: 0, End: 2, Disposition: DispositionReusable},
		{Qubit: 1, Start: 2, End: 4, Dirty: true},
	}

	assign, width, err := Colour("n1", intervals)
	require.NoError(t, err)
	require.Equal(t, 1, width)
	require.Equal(t, assign[0], assign[1])
}

func TestColourDirtyRequestReusesDirtyDeath(t *testing.T) {
	intervals := []Interval{
		{Qubit: 0, Start: 0, End: 2, Disposition: DispositionDirty},
		{Qubit: 1, Start: 2, End: 4, Dirty: true},
	}

	assign, width, err := Colour("n1", intervals)
	require.NoError(t, err)
	require.Equal(t, 1, width)
	require.Equal(t, assign[0], assign[1])
}

func TestColourDirtyRequestCannotReuseUndisposedDeath(t *testing.T) {
	intervals := []Interval{
		{Qubit: 0, Start: 0, End: 2},
		{Qubit: 1, Start: 2, End: 4, Dirty: true},
	}

	assign, width, err := Colour("n1", intervals)
	require.NoError(t, err)
	require.Equal(t, 2, width)
	require.NotEqual(t, assign[0], assign[1])
}

func TestColourPlainRequestReusesDirtyDisposedSlot(t *testing.T) {
	intervals := []Interval{
		{Qubit: 0, Start: 0, End: 2, Disposition: DispositionDirty},
		{Qubit: 1, Start: 2, End: 4},
	}

	assign, width, err := Colour("n1", intervals)
	require.NoError(t, err)
	require.Equal(t, 1, width)
	require.Equal(t, assign[0], assign[1])
}

func TestColourHonoursNonConflictingPinned(t *testing.T) {
	intervals := []Interval{
		{Qubit: 0, Start: 0, End: 5, Pinned: true, Slot: 2},
		{Qubit: 1, Start: 0, End: 3},
	}

	assign, width, err := Colour("n1", intervals)
	require.NoError(t, err)
	require.Equal(t, 2, assign[0])
	require.NotEqual(t, 2, assign[1])
	require.Equal(t, 3, width)
}
