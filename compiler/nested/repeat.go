// Package nested implements S2: expansion of repeat and if-then-else
// nodes into flat subgraphs before preprocessing.
package nested

import (
	"context"
	"fmt"

	"tlog.app/go/tlog"

	"github.com/LEQO-Framework/leqo-backend/compiler/cerr"
	"github.com/LEQO-Framework/leqo-backend/compiler/graph"
)

// MaxUnroll is the configured ceiling on repeat.Iterations; exceeding it
// fails the expansion with UnrollBoundExceeded.
const MaxUnroll = 4096

// ExpandRepeat unrolls a repeat node into k copies of its inner block,
// connected by passthrough entry/exit nodes, per spec.md §4.2. The
// returned graph has node has no repeat node, and its boundary ports
// (entry's inputs, exit's outputs) match the original repeat node's
// signature exactly, so the caller can splice it back in place.
func ExpandRepeat(ctx context.Context, n *graph.Node) (entryID, exitID string, out *graph.Graph, err error) {
	payload, ok := n.Payload.(*graph.RepeatPayload)
	if !ok {
		return "", "", nil, cerr.New(cerr.UnknownNodeKind, n.ID, "not a repeat node")
	}

	if payload.Iterations < 1 {
		return "", "", nil, cerr.New(cerr.UnrollBoundExceeded, n.ID, "repeat with %d < 1 iterations", payload.Iterations)
	}

	if payload.Iterations > MaxUnroll {
		return "", "", nil, cerr.New(cerr.UnrollBoundExceeded, n.ID, "repeat of %d exceeds ceiling %d", payload.Iterations, MaxUnroll)
	}

	out = graph.New()

	entry := &graph.Node{ID: nodeID(n.ID, "entry"), Kind: graph.KindPassthrough, In: n.In, Out: n.In}
	out.AddNode(entry)

	prevID := entry.ID

	var exit *graph.Node

	for i := 0; i < payload.Iterations; i++ {
		exit = &graph.Node{ID: iterNodeID(n.ID, i, "exit"), Kind: graph.KindPassthrough, In: n.Out, Out: n.Out}
		out.AddNode(exit)

		for _, inner := range payload.Block.Nodes {
			copied := *inner
			copied.ID = iterNodeID(n.ID, i, inner.ID)
			out.AddNode(&copied)
		}

		for _, e := range payload.Block.Edges {
			ne := e

			if e.Src.NodeID == n.ID {
				ne.Src = graph.Endpoint{NodeID: prevID, Port: e.Src.Port}
			} else {
				ne.Src = graph.Endpoint{NodeID: iterNodeID(n.ID, i, e.Src.NodeID), Port: e.Src.Port}
			}

			if e.Dst.NodeID == n.ID {
				ne.Dst = graph.Endpoint{NodeID: exit.ID, Port: e.Dst.Port}
			} else {
				ne.Dst = graph.Endpoint{NodeID: iterNodeID(n.ID, i, e.Dst.NodeID), Port: e.Dst.Port}
			}

			out.AddEdge(ne)
		}

		prevID = exit.ID
	}

	out.RebuildIndex()

	tlog.SpanFromContext(ctx).Printw("repeat expanded",
		"node", n.ID, "iterations", payload.Iterations, "nodes", len(out.Nodes))

	return entry.ID, exit.ID, out, nil
}

// nodeID derives the deterministic identifier of a repeat's fixed
// border node, per spec.md §4.2's (repeat_id, i, inner_id) scheme.
func nodeID(repeatID, suffix string) string {
	return fmt.Sprintf("leqo_%s_repeat_%s", repeatID, suffix)
}

// iterNodeID derives the deterministic identifier of a copy of innerID
// made for iteration i of repeatID.
func iterNodeID(repeatID string, i int, innerID string) string {
	return fmt.Sprintf("leqo_%s_repeat_%d_%s", repeatID, i, innerID)
}
