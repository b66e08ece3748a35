package postprocess

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LEQO-Framework/leqo-backend/compiler/ast"
)

func TestRunDedupsRepeatedInclude(t *testing.T) {
	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.Include{Path: "stdgates.inc"},
			&ast.Include{Path: "stdgates.inc"},
			&ast.QubitDecl{Name: "leqo_reg", Size: &ast.IntLiteral{Value: 1}},
		},
	}

	out, err := Run(context.Background(), prog)
	require.NoError(t, err)
	require.Equal(t, 1, countOccurrences(string(out), `include "stdgates.inc";`))
}

func TestRunDedupsIdenticalGateDeclsAndRewritesCalls(t *testing.T) {
	gateA := &ast.GateDecl{
		Name:   "leqo_a_custom",
		Qubits: []string{"q"},
		Body:   []ast.Statement{&ast.GateCall{Name: "h", Args: []ast.Expr{&ast.Ident{Name: "q"}}}},
	}
	gateB := &ast.GateDecl{
		Name:   "leqo_b_custom",
		Qubits: []string{"q"},
		Body:   []ast.Statement{&ast.GateCall{Name: "h", Args: []ast.Expr{&ast.Ident{Name: "q"}}}},
	}

	prog := &ast.Program{
		Statements: []ast.Statement{
			gateA,
			gateB,
			&ast.GateCall{Name: "leqo_b_custom", Args: []ast.Expr{&ast.Ident{Name: "leqo_reg"}}},
		},
	}

	out, err := Run(context.Background(), prog)
	require.NoError(t, err)

	text := string(out)
	require.Equal(t, 1, countOccurrences(text, "gate leqo_a_custom"))
	require.NotContains(t, text, "gate leqo_b_custom")
	require.Contains(t, text, "leqo_a_custom leqo_reg;")
}

func TestRunRewritesGateCallInsideIfBranch(t *testing.T) {
	gateA := &ast.GateDecl{
		Name:   "leqo_a_custom",
		Qubits: []string{"q"},
		Body:   []ast.Statement{&ast.GateCall{Name: "x", Args: []ast.Expr{&ast.Ident{Name: "q"}}}},
	}
	gateB := &ast.GateDecl{
		Name:   "leqo_b_custom",
		Qubits: []string{"q"},
		Body:   []ast.Statement{&ast.GateCall{Name: "x", Args: []ast.Expr{&ast.Ident{Name: "q"}}}},
	}

	prog := &ast.Program{
		Statements: []ast.Statement{
			gateA,
			gateB,
			&ast.If{
				Cond: &ast.RawExpr{Text: "true"},
				Then: []ast.Statement{&ast.GateCall{Name: "leqo_b_custom", Args: []ast.Expr{&ast.Ident{Name: "leqo_reg"}}}},
			},
		},
	}

	out, err := Run(context.Background(), prog)
	require.NoError(t, err)
	require.Contains(t, string(out), "leqo_a_custom leqo_reg;")
}

func countOccurrences(haystack, needle string) int {
	count := 0

	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			count++
			i += len(needle) - 1
		}
	}

	return count
}
