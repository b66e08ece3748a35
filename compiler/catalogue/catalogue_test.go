package catalogue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnippetCloneIsIndependentCopy(t *testing.T) {
	s := Snippet{Source: "h q;"}
	clone := s.Clone()

	clone.Source = "x q;"

	require.Equal(t, "h q;", s.Source)
	require.Equal(t, "x q;", clone.Source)
}
