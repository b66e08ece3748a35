package prepare

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/LEQO-Framework/leqo-backend/compiler/ast"
)

// Node is the S3 output for one graph node: its renamed, inlined
// snippet AST plus the IO binding tables parsed from its annotations.
type Node struct {
	NodeID string
	Prog   *ast.Program
	IO     *IOInfo
}

// Prepare runs three of the S3 sub-transforms over prog in the order
// spec.md §4.3 fixes: renaming, alias inlining, IO parsing. Size
// casting is not run here: the compiler calls SizeCast per input edge
// when it resolves edges, before S4.
func Prepare(ctx context.Context, nodeID string, prog *ast.Program) (*Node, error) {
	Rename(prog, nodeID)
	InlineAliases(prog)

	io, err := ParseIO(nodeID, prog)
	if err != nil {
		return nil, err
	}

	tlog.SpanFromContext(ctx).Printw("node prepared",
		"node", nodeID, "inputs", len(io.Inputs), "outputs", len(io.Outputs))

	return &Node{NodeID: nodeID, Prog: prog, IO: io}, nil
}
