package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LEQO-Framework/leqo-backend/compiler/ast"
)

func TestParseIncludeAndQubitDecl(t *testing.T) {
	src := `
include "stdgates.inc";
qubit[2] q;
`

	prog, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)

	inc := prog.Statements[0].(*ast.Include)
	require.Equal(t, "stdgates.inc", inc.Path)

	decl := prog.Statements[1].(*ast.QubitDecl)
	require.Equal(t, "q", decl.Name)
	require.Equal(t, int64(2), decl.Size.(*ast.IntLiteral).Value)
}

func TestParseAnnotationAttachesToFollowingStatement(t *testing.T) {
	src := `
@leqo.input 0
qubit[1] q;
`

	prog, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	decl := prog.Statements[0].(*ast.QubitDecl)
	require.Len(t, decl.Annotations(), 1)
	require.Equal(t, "leqo.input", decl.Annotations()[0].Keyword)
	require.Equal(t, "0", decl.Annotations()[0].Args)
}

func TestParseSkipsOpenqasmPragma(t *testing.T) {
	src := `
OPENQASM 3.1;
qubit[1] q;
`

	prog, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
}

func TestParseGateCallWithModifierAndParam(t *testing.T) {
	src := `
qubit[1] q;
ctrl @ rx(1.5) q;
`

	prog, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	call := prog.Statements[1].(*ast.GateCall)
	require.Equal(t, "rx", call.Name)
	require.Equal(t, []string{"ctrl"}, call.Modifiers)
	require.Equal(t, 1.5, call.Params[0].(*ast.FloatLiteral).Value)
}

func TestParseMeasureWithTarget(t *testing.T) {
	src := `
qubit[1] q;
bit[1] c;
c = measure q;
`

	prog, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	m := prog.Statements[2].(*ast.Measure)
	require.Equal(t, "c", m.Target.(*ast.Ident).Name)
	require.Equal(t, "q", m.Source.(*ast.Ident).Name)
}

func TestParseIfElse(t *testing.T) {
	src := `
bit[1] c;
qubit[1] q;
if (c[0] == 1) {
	x q;
} else {
	h q;
}
`

	prog, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	ifStmt := prog.Statements[2].(*ast.If)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)
	require.Equal(t, "x", ifStmt.Then[0].(*ast.GateCall).Name)
	require.Equal(t, "h", ifStmt.Else[0].(*ast.GateCall).Name)
}

func TestParseFallsBackToRawForUnrecognizedStatement(t *testing.T) {
	src := `
2 + 2;
`

	prog, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	raw := prog.Statements[0].(*ast.Raw)
	require.Equal(t, "2 + 2;", raw.Text)
}
