package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetAnnotationsAttachesToSupportedStatement(t *testing.T) {
	decl := &QubitDecl{Name: "q"}
	anns := []Annotation{{Keyword: "leqo.input", Args: "0"}}

	SetAnnotations(decl, anns)

	require.Equal(t, anns, decl.Annotations())
}

func TestSetAnnotationsIsNoOpForUnsupportedStatement(t *testing.T) {
	require.NotPanics(t, func() {
		SetAnnotations(nil, []Annotation{{Keyword: "leqo.output"}})
	})
}

func TestAnnotationsDefaultsToEmpty(t *testing.T) {
	call := &GateCall{Name: "h"}
	require.Empty(t, call.Annotations())
}
