package live

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeFallbackDisablesReuse(t *testing.T) {
	defs := []Def{
		{Qubit: 0, DefRank: 0, LastUse: 3, Reusable: true, ReusableAt: 1},
		{Qubit: 1, DefRank: 1, LastUse: 5, IsOutput: true},
	}

	out := Compute(defs, false)
	require.Len(t, out, 2)

	for _, iv := range out {
		require.Equal(t, 0, iv.Start)
		require.Equal(t, Infinity, iv.End)
	}
}

func TestComputeReusableAdvancesDeath(t *testing.T) {
	defs := []Def{
		{Qubit: 0, DefRank: 0, LastUse: 5, Reusable: true, ReusableAt: 2},
	}

	out := Compute(defs, true)
	require.Equal(t, Interval{Qubit: 0, Start: 0, End: 2, Disposition: DispositionReusable}, out[0])
}

func TestComputeOutputWinsOverReusable(t *testing.T) {
	defs := []Def{
		{Qubit: 0, DefRank: 0, LastUse: 5, Reusable: true, ReusableAt: 2, IsOutput: true},
	}

	out := Compute(defs, true)
	require.Equal(t, Infinity, out[0].End)
}

func TestComputeReturnedDirtyGetsDirtyDisposition(t *testing.T) {
	defs := []Def{
		{Qubit: 0, DefRank: 0, LastUse: 2, ReturnedDirty: true},
	}

	out := Compute(defs, true)
	require.Equal(t, DispositionDirty, out[0].Disposition)
}

func TestComputeReusableGetsReusableDisposition(t *testing.T) {
	defs := []Def{
		{Qubit: 0, DefRank: 0, LastUse: 5, Reusable: true, ReusableAt: 2},
	}

	out := Compute(defs, true)
	require.Equal(t, DispositionReusable, out[0].Disposition)
}

func TestComputeOutputDispositionWinsOverReturnedDirty(t *testing.T) {
	defs := []Def{
		{Qubit: 0, DefRank: 0, LastUse: 5, IsOutput: true, ReturnedDirty: true},
	}

	out := Compute(defs, true)
	require.Equal(t, DispositionOutput, out[0].Disposition)
}

func TestComputeDirtyRequestFlagPassesThrough(t *testing.T) {
	defs := []Def{
		{Qubit: 0, DefRank: 0, LastUse: 2, Dirty: true},
	}

	out := Compute(defs, true)
	require.True(t, out[0].Dirty)
}

func TestOverlaps(t *testing.T) {
	a := Interval{Start: 0, End: 3}
	b := Interval{Start: 2, End: 5}
	c := Interval{Start: 3, End: 5}

	require.True(t, Overlaps(a, b))
	require.False(t, Overlaps(a, c))
}
