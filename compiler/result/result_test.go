package result

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LEQO-Framework/leqo-backend/compiler/cerr"
)

func TestSuccessReportsOK(t *testing.T) {
	r := Success([]byte("OPENQASM 3.1;\n"), 2, nil)

	require.True(t, r.OK())
	require.Equal(t, 2, r.Width)
	require.Nil(t, r.Err)
}

func TestFailurePreservesCerrKind(t *testing.T) {
	cause := cerr.New(cerr.CyclicGraph, "node-1", "cycle detected")

	r := Failure(cause)

	require.False(t, r.OK())
	require.Equal(t, cerr.CyclicGraph, r.Err.Kind)
}

func TestFailureWrapsPlainError(t *testing.T) {
	r := Failure(errors.New("unexpected"))

	require.False(t, r.OK())
	require.Equal(t, cerr.PostprocessError, r.Err.Kind)
}
