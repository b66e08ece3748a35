package prepare

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LEQO-Framework/leqo-backend/compiler/ast"
)

func TestInlineAliasesFoldsPlainIdentAlias(t *testing.T) {
	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.QubitDecl{Name: "q"},
			&ast.AliasDecl{Name: "tmp", Value: &ast.Ident{Name: "q"}},
			&ast.GateCall{Name: "h", Args: []ast.Expr{&ast.Ident{Name: "tmp"}}},
		},
	}

	InlineAliases(prog)

	require.Len(t, prog.Statements, 2)

	call := prog.Statements[1].(*ast.GateCall)
	require.Equal(t, "q", call.Args[0].(*ast.Ident).Name)
}

func TestInlineAliasesFoldsConcatenation(t *testing.T) {
	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.QubitDecl{Name: "a"},
			&ast.QubitDecl{Name: "b"},
			&ast.AliasDecl{Name: "merged", Value: &ast.Concatenation{
				Left:  &ast.Ident{Name: "a"},
				Right: &ast.Ident{Name: "b"},
			}},
			&ast.Measure{Source: &ast.Ident{Name: "merged"}},
		},
	}

	InlineAliases(prog)

	require.Len(t, prog.Statements, 3)

	m := prog.Statements[2].(*ast.Measure)
	concat := m.Source.(*ast.Concatenation)
	require.Equal(t, "a", concat.Left.(*ast.Ident).Name)
	require.Equal(t, "b", concat.Right.(*ast.Ident).Name)
}

func TestInlineAliasesKeepsOutputAnnotatedAlias(t *testing.T) {
	alias := &ast.AliasDecl{
		Name:  "out0",
		Value: &ast.Ident{Name: "q"},
	}
	alias.Anns = []ast.Annotation{{Keyword: "leqo.output"}}

	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.QubitDecl{Name: "q"},
			alias,
		},
	}

	InlineAliases(prog)

	require.Len(t, prog.Statements, 2)
	require.Same(t, alias, prog.Statements[1])
}

func TestInlineAliasesKeepsReusableAnnotatedAlias(t *testing.T) {
	alias := &ast.AliasDecl{
		Name:  "out0",
		Value: &ast.Ident{Name: "q"},
	}
	alias.Anns = []ast.Annotation{{Keyword: "leqo.reusable"}}

	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.QubitDecl{Name: "q"},
			alias,
		},
	}

	InlineAliases(prog)

	require.Len(t, prog.Statements, 2)
	require.Same(t, alias, prog.Statements[1])
}

func TestInlineAliasesKeepsNonFoldableValue(t *testing.T) {
	alias := &ast.AliasDecl{
		Name: "notfoldable",
		Value: &ast.BinOp{
			Op:    "+",
			Left:  &ast.Ident{Name: "a"},
			Right: &ast.IntLiteral{Value: 1},
		},
	}

	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.ClassicalDecl{Name: "a", Type: ast.IntType},
			alias,
		},
	}

	InlineAliases(prog)

	require.Len(t, prog.Statements, 2)
	require.Same(t, alias, prog.Statements[1])
}
