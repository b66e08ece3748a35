package set

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitmapSetAndClear(t *testing.T) {
	var b Bitmap

	b.Set(3)
	require.True(t, b.IsSet(3))
	require.False(t, b.IsSet(4))

	b.Clear(3)
	require.False(t, b.IsSet(3))
}

func TestBitmapGrowsAcrossWordBoundary(t *testing.T) {
	var b Bitmap

	b.Set(130)
	require.True(t, b.IsSet(130))
	require.False(t, b.IsSet(129))
}

func TestBitmapFirstAndLast(t *testing.T) {
	var b Bitmap

	b.Set(5)
	b.Set(70)

	require.Equal(t, 5, b.First())
	require.Equal(t, 70, b.Last())
	require.Equal(t, 71, b.Len())
}

func TestBitmapSize(t *testing.T) {
	var b Bitmap

	b.Set(1)
	b.Set(2)
	b.Set(64)

	require.Equal(t, 3, b.Size())
}
