package graph

import (
	"context"
	"sort"

	"tlog.app/go/tlog"

	"github.com/LEQO-Framework/leqo-backend/compiler/cerr"
)

type (
	// Schedule is the S0 ingest artifact: the graph plus a deterministic
	// topological order over its nodes (ties broken lexicographically on
	// node id, per spec.md §4.4).
	Schedule struct {
		Graph *Graph
		Order []string // node ids, topological
		Rank  map[string]int
	}
)

// Ingest validates g (port cardinalities, type matches, quantum fan-out)
// and computes a deterministic topological order. Back-edges that close a
// cycle are only tolerated when they are the declared loop-carried
// back-edge of a repeat block recorded in carriedBackEdges; ingest of a
// flat (already-expanded) graph always passes an empty set.
func Ingest(ctx context.Context, g *Graph, carriedBackEdges map[Edge]bool) (*Schedule, error) {
	if err := validatePorts(g); err != nil {
		return nil, err
	}

	order, err := topoSort(g, carriedBackEdges)
	if err != nil {
		return nil, err
	}

	rank := make(map[string]int, len(order))
	for i, id := range order {
		rank[id] = i
	}

	tlog.SpanFromContext(ctx).Printw("graph ingested",
		"nodes", len(g.Nodes), "edges", len(g.Edges))

	return &Schedule{Graph: g, Order: order, Rank: rank}, nil
}

func validatePorts(g *Graph) error {
	fanIn := map[Endpoint]int{}
	quantumFanOut := map[Endpoint]int{}

	for _, e := range g.Edges {
		srcNode, ok := g.Node(e.Src.NodeID)
		if !ok {
			return cerr.New(cerr.PortTypeMismatch, e.Src.NodeID, "edge references unknown source node")
		}

		dstNode, ok := g.Node(e.Dst.NodeID)
		if !ok {
			return cerr.New(cerr.PortTypeMismatch, e.Dst.NodeID, "edge references unknown target node")
		}

		if e.Src.Port < 0 || e.Src.Port >= len(srcNode.Out) {
			return cerr.New(cerr.PortTypeMismatch, srcNode.ID, "source port %d out of range", e.Src.Port)
		}

		if e.Dst.Port < 0 || e.Dst.Port >= len(dstNode.In) {
			return cerr.New(cerr.PortTypeMismatch, dstNode.ID, "target port %d out of range", e.Dst.Port)
		}

		srcPort := srcNode.Out[e.Src.Port]
		dstPort := dstNode.In[e.Dst.Port]

		if srcPort.Type != dstPort.Type {
			return cerr.New(cerr.PortTypeMismatch, dstNode.ID,
				"port %d expects %s, got %s from %s", e.Dst.Port, dstPort.Type, srcPort.Type, srcNode.ID)
		}

		fanIn[e.Dst]++

		if srcPort.Type == PortQuantum {
			quantumFanOut[e.Src]++
		}
	}

	for _, n := range g.Nodes {
		for i := range n.In {
			ep := Endpoint{NodeID: n.ID, Port: i}

			if fanIn[ep] != 1 {
				return cerr.New(cerr.PortFanInViolation, n.ID,
					"input port %d has fan-in %d, expected exactly 1", i, fanIn[ep])
			}
		}
	}

	for ep, n := range quantumFanOut {
		if n > 1 {
			return cerr.New(cerr.PortFanInViolation, ep.NodeID,
				"quantum output port %d has fan-out %d, qubits are linear", ep.Port, n)
		}
	}

	return nil
}

// topoSort runs Kahn's algorithm with lexicographic tie-breaking on node
// id, treating any edge in carriedBackEdges as absent for the purpose of
// cycle detection (it is understood to be the loop-carried wire of an
// enclosing repeat block, resolved by nested expansion before this graph
// is ever flattened and re-ingested).
func topoSort(g *Graph, carriedBackEdges map[Edge]bool) ([]string, error) {
	indeg := make(map[string]int, len(g.Nodes))
	adj := make(map[string][]string, len(g.Nodes))

	for _, n := range g.Nodes {
		indeg[n.ID] = 0
	}

	for _, e := range g.Edges {
		if carriedBackEdges[e] {
			continue
		}

		adj[e.Src.NodeID] = append(adj[e.Src.NodeID], e.Dst.NodeID)
		indeg[e.Dst.NodeID]++
	}

	var ready []string

	for _, n := range g.Nodes {
		if indeg[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}

	var order []string

	for len(ready) > 0 {
		sort.Strings(ready)

		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var newlyReady []string

		for _, next := range adj[id] {
			indeg[next]--
			if indeg[next] == 0 {
				newlyReady = append(newlyReady, next)
			}
		}

		sort.Strings(newlyReady)
		ready = append(ready, newlyReady...)
	}

	if len(order) != len(g.Nodes) {
		return nil, cerr.New(cerr.CyclicGraph, "", "graph has a cycle not explained by a declared repeat back-edge")
	}

	return order, nil
}
