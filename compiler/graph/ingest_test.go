package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIngestOrdersTopologicallyWithLexicographicTieBreak(t *testing.T) {
	g := New()
	g.AddNode(&Node{ID: "b", Kind: KindQubit, Out: []Port{{Type: PortQuantum, Size: 1}}})
	g.AddNode(&Node{ID: "a", Kind: KindQubit, Out: []Port{{Type: PortQuantum, Size: 1}}})
	g.AddNode(&Node{ID: "sink", Kind: KindGate,
		In:  []Port{{Type: PortQuantum, Size: 1}, {Type: PortQuantum, Size: 1}},
		Out: []Port{{Type: PortQuantum, Size: 1}, {Type: PortQuantum, Size: 1}},
	})
	g.AddEdge(Edge{Src: Endpoint{NodeID: "a", Port: 0}, Dst: Endpoint{NodeID: "sink", Port: 0}})
	g.AddEdge(Edge{Src: Endpoint{NodeID: "b", Port: 0}, Dst: Endpoint{NodeID: "sink", Port: 1}})

	sched, err := Ingest(context.Background(), g, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "sink"}, sched.Order)
	require.Equal(t, 2, sched.Rank["sink"])
}

func TestIngestRejectsMissingFanIn(t *testing.T) {
	g := New()
	g.AddNode(&Node{ID: "sink", Kind: KindGate, In: []Port{{Type: PortQuantum, Size: 1}}})

	_, err := Ingest(context.Background(), g, nil)
	require.Error(t, err)
}

func TestIngestRejectsPortTypeMismatch(t *testing.T) {
	g := New()
	g.AddNode(&Node{ID: "src", Kind: KindClassicalLiteral, Out: []Port{{Type: PortClassicalBit, Size: 1}}})
	g.AddNode(&Node{ID: "sink", Kind: KindGate, In: []Port{{Type: PortQuantum, Size: 1}}})
	g.AddEdge(Edge{Src: Endpoint{NodeID: "src", Port: 0}, Dst: Endpoint{NodeID: "sink", Port: 0}})

	_, err := Ingest(context.Background(), g, nil)
	require.Error(t, err)
}

func TestIngestRejectsQuantumFanOut(t *testing.T) {
	g := New()
	g.AddNode(&Node{ID: "src", Kind: KindQubit, Out: []Port{{Type: PortQuantum, Size: 1}}})
	g.AddNode(&Node{ID: "a", Kind: KindGate,
		In:  []Port{{Type: PortQuantum, Size: 1}},
		Out: []Port{{Type: PortQuantum, Size: 1}},
	})
	g.AddNode(&Node{ID: "b", Kind: KindGate,
		In:  []Port{{Type: PortQuantum, Size: 1}},
		Out: []Port{{Type: PortQuantum, Size: 1}},
	})
	g.AddEdge(Edge{Src: Endpoint{NodeID: "src", Port: 0}, Dst: Endpoint{NodeID: "a", Port: 0}})
	g.AddEdge(Edge{Src: Endpoint{NodeID: "src", Port: 0}, Dst: Endpoint{NodeID: "b", Port: 0}})

	_, err := Ingest(context.Background(), g, nil)
	require.Error(t, err)
}

func TestIngestRejectsCycleWithoutDeclaredBackEdge(t *testing.T) {
	g := New()
	g.AddNode(&Node{ID: "a", Kind: KindGate,
		In:  []Port{{Type: PortQuantum, Size: 1}},
		Out: []Port{{Type: PortQuantum, Size: 1}},
	})
	g.AddNode(&Node{ID: "b", Kind: KindGate,
		In:  []Port{{Type: PortQuantum, Size: 1}},
		Out: []Port{{Type: PortQuantum, Size: 1}},
	})
	g.AddEdge(Edge{Src: Endpoint{NodeID: "a", Port: 0}, Dst: Endpoint{NodeID: "b", Port: 0}})
	g.AddEdge(Edge{Src: Endpoint{NodeID: "b", Port: 0}, Dst: Endpoint{NodeID: "a", Port: 0}})

	_, err := Ingest(context.Background(), g, nil)
	require.Error(t, err)
}

func TestIngestTreatsDeclaredBackEdgeAsAcyclic(t *testing.T) {
	g := New()
	g.AddNode(&Node{ID: "a", Kind: KindGate,
		In:  []Port{{Type: PortQuantum, Size: 1}},
		Out: []Port{{Type: PortQuantum, Size: 1}},
	})
	g.AddNode(&Node{ID: "b", Kind: KindGate,
		In:  []Port{{Type: PortQuantum, Size: 1}},
		Out: []Port{{Type: PortQuantum, Size: 1}},
	})

	back := Edge{Src: Endpoint{NodeID: "b", Port: 0}, Dst: Endpoint{NodeID: "a", Port: 0}}
	g.AddEdge(Edge{Src: Endpoint{NodeID: "a", Port: 0}, Dst: Endpoint{NodeID: "b", Port: 0}})
	g.AddEdge(back)

	sched, err := Ingest(context.Background(), g, map[Edge]bool{back: true})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, sched.Order)
}
