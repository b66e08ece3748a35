package merge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LEQO-Framework/leqo-backend/compiler/ast"
	"github.com/LEQO-Framework/leqo-backend/compiler/parse"
	"github.com/LEQO-Framework/leqo-backend/compiler/prepare"
)

func TestMergeSplicesNodeAndAliasesInputToSlot(t *testing.T) {
	src := `
@leqo.input 0
qubit[1] q;
h q;
`

	prog, err := parse.Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	node, err := prepare.Prepare(context.Background(), "n1", prog)
	require.NoError(t, err)

	slotOf := func(qubit int) int { return qubit + 5 }
	inputs := map[string][]Input{"n1": {{IndexSet: []int{5}}}}

	out, err := Merge(context.Background(), []*prepare.Node{node}, slotOf, 6, inputs)
	require.NoError(t, err)

	require.IsType(t, &ast.Include{}, out.Statements[0])

	decl := out.Statements[1].(*ast.QubitDecl)
	require.Equal(t, int64(6), decl.Size.(*ast.IntLiteral).Value)

	var sawGateCall bool
	for _, stmt := range out.Statements {
		if gc, ok := stmt.(*ast.GateCall); ok {
			require.Equal(t, "h", gc.Name)
			sawGateCall = true
		}
	}
	require.True(t, sawGateCall)
}

func TestMergeIfElseStripsBranchPrologues(t *testing.T) {
	thenProg := &ast.Program{Statements: []ast.Statement{
		&ast.Include{Path: "stdgates.inc"},
		&ast.QubitDecl{Name: RegName, Size: &ast.IntLiteral{Value: 1}},
		&ast.GateCall{Name: "x", Args: []ast.Expr{&ast.Ident{Name: RegName}}},
	}}

	elseProg := &ast.Program{Statements: []ast.Statement{
		&ast.Include{Path: "stdgates.inc"},
		&ast.QubitDecl{Name: RegName, Size: &ast.IntLiteral{Value: 1}},
		&ast.GateCall{Name: "h", Args: []ast.Expr{&ast.Ident{Name: RegName}}},
	}}

	cond := &ast.RawExpr{Text: "true"}

	out, err := MergeIfElse(context.Background(), "n1", cond, thenProg, elseProg, 2)
	require.NoError(t, err)
	require.Len(t, out.Statements, 5)

	_, ok := out.Statements[0].(*ast.Include)
	require.True(t, ok)

	decl, ok := out.Statements[1].(*ast.QubitDecl)
	require.True(t, ok)
	require.Equal(t, int64(2), decl.Size.(*ast.IntLiteral).Value)

	ifStmt, ok := out.Statements[3].(*ast.If)
	require.True(t, ok)
	require.Same(t, cond, ifStmt.Cond)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)

	then, ok := ifStmt.Then[0].(*ast.GateCall)
	require.True(t, ok)
	require.Equal(t, "x", then.Name)

	els, ok := ifStmt.Else[0].(*ast.GateCall)
	require.True(t, ok)
	require.Equal(t, "h", els.Name)
}

func TestBranchBodyKeepsNonPrologueLeadingStatements(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.GateCall{Name: "x"},
	}}

	body := branchBody(prog)
	require.Len(t, body, 1)
}
