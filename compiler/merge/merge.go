// Package merge implements S5: rewriting each prepared node's snippet
// into the single global quantum register and splicing the results,
// in topological order, into one program.
package merge

import (
	"context"
	"fmt"

	"tlog.app/go/tlog"

	"github.com/LEQO-Framework/leqo-backend/compiler/ast"
	"github.com/LEQO-Framework/leqo-backend/compiler/prepare"
)

// RegName is the single global quantum register every prepared node's
// qubits alias into.
const RegName = "leqo_reg"

// Input is the data merge needs for one node, beyond its prepared AST:
// the index set it inherits on each input port, already widened by
// S3's size casting if applicable.
type Input struct {
	IndexSet []int
}

// Merge splices the prepared nodes of order (already S4-allocated) into
// one Program, per spec.md §4.5.
func Merge(ctx context.Context, order []*prepare.Node, slotOf func(qubit int) int, width int, inputs map[string][]Input) (*ast.Program, error) {
	out := &ast.Program{}

	out.Statements = append(out.Statements,
		&ast.Include{Path: "stdgates.inc"},
		&ast.QubitDecl{Name: RegName, Size: &ast.IntLiteral{Value: int64(width)}},
	)

	for _, node := range order {
		stmts, err := spliceNode(node, slotOf, inputs[node.NodeID])
		if err != nil {
			return nil, err
		}

		out.Statements = append(out.Statements, stmts...)
	}

	tlog.SpanFromContext(ctx).Printw("nodes merged", "nodes", len(order), "width", width)

	return out, nil
}

// MergeIfElse wraps two independently S0-S4-S5-compiled branch programs
// into a single classical if/else over leqo_reg, per spec.md §4.2: the
// branches are mutually exclusive at runtime so each may reuse the
// same register slots, and the combined register is sized to the
// wider of the two (the narrower branch simply leaves the extra slots
// untouched). Both thenProg and elseProg are expected to be the output
// of Merge, i.e. their first two statements are the shared Include and
// QubitDecl this function strips before re-emitting a single copy
// sized to width.
func MergeIfElse(ctx context.Context, nodeID string, cond ast.Expr, thenProg, elseProg *ast.Program, width int) (*ast.Program, error) {
	out := &ast.Program{}

	out.Statements = append(out.Statements,
		&ast.Include{Path: "stdgates.inc"},
		&ast.QubitDecl{Name: RegName, Size: &ast.IntLiteral{Value: int64(width)}},
	)

	stmt := &ast.If{
		Cond: cond,
		Then: branchBody(thenProg),
		Else: branchBody(elseProg),
	}

	out.Statements = append(out.Statements,
		&ast.Raw{Text: fmt.Sprintf("/* Start node %s */", nodeID)},
		stmt,
		&ast.Raw{Text: fmt.Sprintf("/* End node %s */", nodeID)},
	)

	tlog.SpanFromContext(ctx).Printw("if-then-else merged", "node", nodeID, "width", width)

	return out, nil
}

// branchBody strips the Include and leqo_reg QubitDecl every branch's
// own Merge output carries, leaving the node splices that belong
// inside the if/else block.
func branchBody(prog *ast.Program) []ast.Statement {
	body := prog.Statements

	for len(body) > 0 {
		switch body[0].(type) {
		case *ast.Include, *ast.QubitDecl:
			body = body[1:]
		default:
			return body
		}
	}

	return body
}

func spliceNode(node *prepare.Node, slotOf func(int) int, inputs []Input) ([]ast.Statement, error) {
	var out []ast.Statement

	out = append(out, &ast.Raw{Text: fmt.Sprintf("/* Start node %s */", node.NodeID)})

	inputByDecl := map[string]int{}
	for portIdx, b := range node.IO.Inputs {
		inputByDecl[b.Name] = portIdx
	}

	for _, stmt := range node.Prog.Statements {
		decl, ok := stmt.(*ast.QubitDecl)
		if !ok {
			out = append(out, stmt)

			continue
		}

		if portIdx, isInput := inputByDecl[decl.Name]; isInput {
			var idxSet []int
			if portIdx < len(inputs) {
				idxSet = inputs[portIdx].IndexSet
			}

			out = append(out, aliasInto(decl.Name, idxSet, slotOf, true, portIdx))

			continue
		}

		b, ok := findBindingByName(node.IO, decl.Name)
		if !ok {
			out = append(out, decl)

			continue
		}

		out = append(out, aliasInto(decl.Name, b.IDs, slotOf, false, 0))
	}

	out = append(out, &ast.Raw{Text: fmt.Sprintf("/* End node %s */", node.NodeID)})

	return out, nil
}

func findBindingByName(io *prepare.IOInfo, name string) (prepare.QubitBinding, bool) {
	for _, b := range io.Inputs {
		if b.Name == name {
			return b, true
		}
	}

	for _, b := range io.Outputs {
		if b.Name == name {
			return b, true
		}
	}

	return prepare.QubitBinding{}, false
}

// aliasInto builds the `let name = leqo_reg[i] ++ leqo_reg[j] ...;`
// replacement (one indexed element per id, a bare leqo_reg when ids is
// empty) for a qubit declaration bound to logical ids, annotated with @leqo.input i
// when asInput is set.
func aliasInto(name string, ids []int, slotOf func(int) int, asInput bool, inputPort int) ast.Statement {
	var value ast.Expr

	for _, id := range ids {
		idx := &ast.IndexExpr{
			Collection: &ast.Ident{Name: RegName},
			Index:      &ast.IntLiteral{Value: int64(slotOf(id))},
		}

		if value == nil {
			value = idx

			continue
		}

		value = &ast.Concatenation{Left: value, Right: idx}
	}

	if value == nil {
		value = &ast.Ident{Name: RegName}
	}

	decl := &ast.AliasDecl{Name: name, Value: value}

	if asInput {
		ast.SetAnnotations(decl, []ast.Annotation{{Keyword: "leqo.input", Args: fmt.Sprintf("%d", inputPort)}})
	}

	return decl
}
