package format

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LEQO-Framework/leqo-backend/compiler/ast"
)

func TestFormatEmitsHeaderAndQubitDecl(t *testing.T) {
	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.Include{Path: "stdgates.inc"},
			&ast.QubitDecl{Name: "leqo_reg", Size: &ast.IntLiteral{Value: 3}},
		},
	}

	out, err := Format(context.Background(), nil, prog)
	require.NoError(t, err)

	text := string(out)
	require.Contains(t, text, "OPENQASM 3.1;\n")
	require.Contains(t, text, `include "stdgates.inc";`)
	require.Contains(t, text, "qubit[3] leqo_reg;")
}

func TestFormatGateCallWithParamsAndArgs(t *testing.T) {
	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.GateCall{
				Name:   "rx",
				Params: []ast.Expr{&ast.FloatLiteral{Value: 1.5}},
				Args:   []ast.Expr{&ast.IndexExpr{Collection: &ast.Ident{Name: "leqo_reg"}, Index: &ast.IntLiteral{Value: 0}}},
			},
		},
	}

	out, err := Format(context.Background(), nil, prog)
	require.NoError(t, err)
	require.Contains(t, string(out), "rx(1.5) leqo_reg[0];")
}

func TestFormatIfElseIndentsBlocks(t *testing.T) {
	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.If{
				Cond: &ast.RawExpr{Text: "c[0] == 1"},
				Then: []ast.Statement{&ast.GateCall{Name: "x", Args: []ast.Expr{&ast.Ident{Name: "leqo_reg"}}}},
				Else: []ast.Statement{&ast.GateCall{Name: "h", Args: []ast.Expr{&ast.Ident{Name: "leqo_reg"}}}},
			},
		},
	}

	out, err := Format(context.Background(), nil, prog)
	require.NoError(t, err)

	text := string(out)
	require.Contains(t, text, "if (c[0] == 1) {\n")
	require.Contains(t, text, "\tx leqo_reg;\n")
	require.Contains(t, text, "} else {\n")
	require.Contains(t, text, "\th leqo_reg;\n")
}

func TestFormatRawStatementPassesThroughVerbatim(t *testing.T) {
	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.Raw{Text: "barrier leqo_reg;"},
		},
	}

	out, err := Format(context.Background(), nil, prog)
	require.NoError(t, err)
	require.Contains(t, string(out), "barrier leqo_reg;\n")
}

func TestFormatConcatenationExpr(t *testing.T) {
	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.AliasDecl{
				Name: "merged",
				Value: &ast.Concatenation{
					Left:  &ast.Ident{Name: "a"},
					Right: &ast.Ident{Name: "b"},
				},
			},
		},
	}

	out, err := Format(context.Background(), nil, prog)
	require.NoError(t, err)
	require.Contains(t, string(out), "let merged = a ++ b;")
}
