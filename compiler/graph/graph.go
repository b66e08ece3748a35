// Package graph implements the program graph data model of spec.md §3: a
// directed acyclic graph of typed nodes connected by typed, ported edges.
package graph

type (
	// Kind is one of the closed set of node kinds spec.md §3 allows.
	Kind string

	// PortType classifies the value carried across an edge.
	PortType string

	// Port describes one input or output slot of a Node.
	Port struct {
		Type  PortType
		Size  int
		Exact bool
	}

	// Node is one vertex of the program graph. Payload holds the
	// kind-specific data (gate name, iteration count, nested block, ...).
	Node struct {
		ID      string
		Kind    Kind
		Payload any

		In  []Port
		Out []Port
	}

	// Endpoint names one port of one node.
	Endpoint struct {
		NodeID string
		Port   int
	}

	// Edge carries the value produced at Src into Dst.
	Edge struct {
		Src Endpoint
		Dst Endpoint
	}

	// Graph is a full program graph: nodes plus the edges between their
	// ports.
	Graph struct {
		Nodes []*Node
		Edges []Edge

		byID map[string]*Node
	}
)

const (
	KindQubit            Kind = "qubit"
	KindClassicalLiteral Kind = "classical-literal"
	KindGate             Kind = "gate"
	KindGateWithParam    Kind = "gate-with-param"
	KindMeasurement      Kind = "measurement"
	KindOperator         Kind = "operator"
	KindEncoder          Kind = "encoder"
	KindCustom           Kind = "custom"
	KindRepeat           Kind = "repeat"
	KindIfThenElse       Kind = "if-then-else"
	KindAncilla          Kind = "ancilla"
	KindPassthrough      Kind = "passthrough"
)

const (
	PortQuantum    PortType = "quantum"
	PortClassicalInt PortType = "classical-int"
	PortClassicalBit PortType = "classical-bit"
	PortClassicalFloat PortType = "classical-float"
)

// RepeatPayload is the kind-specific payload of a KindRepeat node.
type RepeatPayload struct {
	Iterations  int
	Block       *Graph
	CarriedPorts int // number of leading ports that are loop-carried pairs
}

// IfThenElsePayload is the kind-specific payload of a KindIfThenElse node.
type IfThenElsePayload struct {
	Then *Graph
	Else *Graph

	// CondPort is the index into the node's In ports that carries the
	// boolean condition (PortClassicalBit); the remaining In ports map
	// 1:1 onto the branches' boundary inputs.
	CondPort int
}

// AncillaPayload is the kind-specific payload of a KindAncilla node: a
// freshly allocated qubit register with no declared inputs. Reusable
// mirrors is_ancilla_node's promise that the register is returned to
// |0⟩ before it dies, so S4 may treat it as Reusable disposition
// without the snippet itself carrying an @leqo.reusable alias.
type AncillaPayload struct {
	Size     int
	Reusable bool
}

// ClassicalLiteralPayload is the kind-specific payload of a
// KindClassicalLiteral node: a raw OpenQASM-3.1 expression text (e.g.
// "true", "1", "c[0] == 1") emitted verbatim wherever the literal's
// output port is consumed as a classical value.
type ClassicalLiteralPayload struct {
	Text string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{byID: map[string]*Node{}}
}

// AddNode registers node in the graph. Duplicate ids are not rejected:
// both nodes stay in Nodes, and Node returns the one added last.
func (g *Graph) AddNode(n *Node) {
	if g.byID == nil {
		g.byID = map[string]*Node{}
	}

	g.Nodes = append(g.Nodes, n)
	g.byID[n.ID] = n
}

// AddEdge registers edge e in the graph.
func (g *Graph) AddEdge(e Edge) {
	g.Edges = append(g.Edges, e)
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]

	return n, ok
}

// InEdges returns the edges whose Dst is on node id.
func (g *Graph) InEdges(id string) []Edge {
	var out []Edge

	for _, e := range g.Edges {
		if e.Dst.NodeID == id {
			out = append(out, e)
		}
	}

	return out
}

// OutEdges returns the edges whose Src is on node id.
func (g *Graph) OutEdges(id string) []Edge {
	var out []Edge

	for _, e := range g.Edges {
		if e.Src.NodeID == id {
			out = append(out, e)
		}
	}

	return out
}

// EdgeInto returns the (unique, by invariant) edge feeding (nodeID, port),
// or false if none exists (a source port).
func (g *Graph) EdgeInto(nodeID string, port int) (Edge, bool) {
	for _, e := range g.Edges {
		if e.Dst.NodeID == nodeID && e.Dst.Port == port {
			return e, true
		}
	}

	return Edge{}, false
}

// RebuildIndex recomputes the id index, used after a caller appends
// directly to Nodes instead of calling AddNode.
func (g *Graph) RebuildIndex() {
	g.byID = make(map[string]*Node, len(g.Nodes))

	for _, n := range g.Nodes {
		g.byID[n.ID] = n
	}
}
