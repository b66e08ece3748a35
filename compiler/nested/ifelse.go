package nested

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/LEQO-Framework/leqo-backend/compiler/cerr"
	"github.com/LEQO-Framework/leqo-backend/compiler/graph"
)

// Branch is one arm of an expanded if-then-else node: a flat subgraph
// plus the ids of its boundary nodes, matching the outer node's port
// signature.
type Branch struct {
	Graph *graph.Graph
}

// ExpandIfThenElse validates that the then/else subgraphs of n share a
// port signature and returns them for independent S3–S4 processing; S5
// is responsible for wrapping the two resulting fragments in a single
// classical if/else, per spec.md §4.2.
func ExpandIfThenElse(ctx context.Context, n *graph.Node) (then, els Branch, err error) {
	payload, ok := n.Payload.(*graph.IfThenElsePayload)
	if !ok {
		return Branch{}, Branch{}, cerr.New(cerr.UnknownNodeKind, n.ID, "not an if-then-else node")
	}

	if err := sameSignature(payload.Then, n, payload.CondPort); err != nil {
		return Branch{}, Branch{}, cerr.Wrap(cerr.PortTypeMismatch, n.ID, err, "then branch signature")
	}

	if err := sameSignature(payload.Else, n, payload.CondPort); err != nil {
		return Branch{}, Branch{}, cerr.Wrap(cerr.PortTypeMismatch, n.ID, err, "else branch signature")
	}

	tlog.SpanFromContext(ctx).Printw("if-then-else expanded",
		"node", n.ID, "then_nodes", len(payload.Then.Nodes), "else_nodes", len(payload.Else.Nodes))

	return Branch{Graph: payload.Then}, Branch{Graph: payload.Else}, nil
}

// sameSignature checks that block's boundary ports (identified by the
// edges that cross into/out of the outer node n) match n's own In/Out
// arity and types. The block itself carries no explicit boundary
// marker; its dangling ports (those with no internal source/sink) stand
// in for n's ports, by construction of the graph that built it. condPort
// is excluded from the count: it is resolved separately by
// resolveCondition and never reaches the branch as a data port.
func sameSignature(block *graph.Graph, n *graph.Node, condPort int) error {
	wantIn := len(n.In) - 1
	if condPort < 0 || condPort >= len(n.In) {
		return cerr.New(cerr.PortFanInViolation, n.ID, "condition port %d out of range", condPort)
	}

	if len(DanglingInputs(block)) != wantIn {
		return cerr.New(cerr.PortFanInViolation, n.ID, "branch input arity mismatch")
	}

	if len(DanglingOutputs(block)) != len(n.Out) {
		return cerr.New(cerr.PortFanInViolation, n.ID, "branch output arity mismatch")
	}

	return nil
}

// DanglingInputs returns the (node, port) pairs of block's input ports
// with no internal source, in block.Nodes order. These stand in for an
// outer if-then-else node's non-condition In ports and must be bound by
// the caller before the block is ingested on its own.
func DanglingInputs(block *graph.Graph) []graph.Endpoint {
	var out []graph.Endpoint

	for _, bn := range block.Nodes {
		for i := range bn.In {
			if _, ok := block.EdgeInto(bn.ID, i); !ok {
				out = append(out, graph.Endpoint{NodeID: bn.ID, Port: i})
			}
		}
	}

	return out
}

// DanglingOutputs returns the (node, port) pairs of block's output
// ports with no internal sink, in block.Nodes order.
func DanglingOutputs(block *graph.Graph) []graph.Endpoint {
	var out []graph.Endpoint

	for _, bn := range block.Nodes {
		for i := range bn.Out {
			hasSink := false

			for _, e := range block.OutEdges(bn.ID) {
				if e.Src.Port == i {
					hasSink = true

					break
				}
			}

			if !hasSink {
				out = append(out, graph.Endpoint{NodeID: bn.ID, Port: i})
			}
		}
	}

	return out
}
