package parse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LEQO-Framework/leqo-backend/compiler/ast"
)

func parseExprString(t *testing.T, src string) ast.Expr {
	s := &State{b: []byte(src), lx: newLexer([]byte(src))}

	e, err := s.parseExpr()
	require.NoError(t, err)

	return e
}

func TestParseExprPrecedenceOfArithmeticOverComparison(t *testing.T) {
	e := parseExprString(t, "a + 1 == 2")

	top := e.(*ast.BinOp)
	require.Equal(t, "==", top.Op)

	left := top.Left.(*ast.BinOp)
	require.Equal(t, "+", left.Op)
}

func TestParseExprIndexAndRange(t *testing.T) {
	e := parseExprString(t, "q[0:1]")

	idx := e.(*ast.IndexExpr)
	require.Equal(t, "q", idx.Collection.(*ast.Ident).Name)

	rng := idx.Index.(*ast.RangeExpr)
	require.Equal(t, int64(0), rng.Lo.(*ast.IntLiteral).Value)
	require.Equal(t, int64(1), rng.Hi.(*ast.IntLiteral).Value)
}

func TestParseExprConcatenationBindsLoosest(t *testing.T) {
	e := parseExprString(t, "a[0:1] ++ b[0:1]")

	concat := e.(*ast.Concatenation)
	require.IsType(t, &ast.IndexExpr{}, concat.Left)
	require.IsType(t, &ast.IndexExpr{}, concat.Right)
}

func TestParseExprUnaryNegation(t *testing.T) {
	e := parseExprString(t, "-a")

	op := e.(*ast.BinOp)
	require.Equal(t, "u-", op.Op)
	require.Equal(t, "a", op.Left.(*ast.Ident).Name)
	require.Nil(t, op.Right)
}

func TestParseExprParenthesizedGroup(t *testing.T) {
	e := parseExprString(t, "(a + b) * c")

	top := e.(*ast.BinOp)
	require.Equal(t, "*", top.Op)
	require.IsType(t, &ast.BinOp{}, top.Left)
}
