package compiler

import (
	"context"
	"encoding/json"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/LEQO-Framework/leqo-backend/compiler/catalogue"
	"github.com/LEQO-Framework/leqo-backend/compiler/graph"
)

// fileRequest is the JSON document cmd/leqoc reads from disk: a flat
// program graph plus its per-node snippets. Repeat and if-then-else
// nodes are not representable here; the CLI is a development tool for
// flat graphs, exercising the same Compile entrypoint the (out-of-scope)
// REST transport would call.
type fileRequest struct {
	Nodes    []nodeDTO         `json:"nodes"`
	Edges    []edgeDTO         `json:"edges"`
	Snippets map[string]string `json:"snippets"`
	Optimize *bool             `json:"optimize"`
}

type nodeDTO struct {
	ID  string   `json:"id"`
	Kind string  `json:"kind"`
	In  []portDTO `json:"in"`
	Out []portDTO `json:"out"`
}

type portDTO struct {
	Type  string `json:"type"`
	Size  int    `json:"size"`
	Exact bool   `json:"exact"`
}

type edgeDTO struct {
	Source [2]any `json:"source"`
	Target [2]any `json:"target"`
}

// CompileFile reads a flat-graph compile request from name and runs it
// through Compile, with no catalogue or enricher wired (every node must
// carry its own snippet).
func CompileFile(ctx context.Context, name string) ([]byte, error) {
	raw, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(raw), "name", name)

	var fr fileRequest

	if err := json.Unmarshal(raw, &fr); err != nil {
		return nil, errors.Wrap(err, "decode request")
	}

	req, err := toRequest(fr)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	return runRequest(ctx, req)
}

func runRequest(ctx context.Context, req *Request) ([]byte, error) {
	res := Compile(ctx, req, noCatalogue{}, nil)
	if !res.OK() {
		return nil, res.Err
	}

	return res.Program, nil
}

type noCatalogue struct{}

func (noCatalogue) Lookup(context.Context, catalogue.Descriptor) (catalogue.Snippet, bool, error) {
	return catalogue.Snippet{}, false, nil
}

func toRequest(fr fileRequest) (*Request, error) {
	g := graph.New()

	for _, n := range fr.Nodes {
		g.AddNode(&graph.Node{
			ID:   n.ID,
			Kind: graph.Kind(n.Kind),
			In:   toPorts(n.In),
			Out:  toPorts(n.Out),
		})
	}

	for _, e := range fr.Edges {
		g.AddEdge(graph.Edge{
			Src: toEndpoint(e.Source),
			Dst: toEndpoint(e.Target),
		})
	}

	snippets := make(map[string][]byte, len(fr.Snippets))
	for id, src := range fr.Snippets {
		snippets[id] = []byte(src)
	}

	optimize := true
	if fr.Optimize != nil {
		optimize = *fr.Optimize
	}

	return &Request{Graph: g, Snippets: snippets, Optimize: optimize}, nil
}

func toPorts(ps []portDTO) []graph.Port {
	out := make([]graph.Port, len(ps))

	for i, p := range ps {
		out[i] = graph.Port{Type: graph.PortType(p.Type), Size: p.Size, Exact: p.Exact}
	}

	return out
}

func toEndpoint(pair [2]any) graph.Endpoint {
	id, _ := pair[0].(string)

	port := 0

	switch v := pair[1].(type) {
	case float64:
		port = int(v)
	case int:
		port = v
	}

	return graph.Endpoint{NodeID: id, Port: port}
}
