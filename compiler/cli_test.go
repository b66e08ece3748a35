package compiler

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileFileReadsAndCompilesFlatGraph(t *testing.T) {
	fr := fileRequest{
		Nodes: []nodeDTO{
			{ID: "src", Kind: "qubit", Out: []portDTO{{Type: "quantum", Size: 1}}},
			{ID: "h", Kind: "gate",
				In:  []portDTO{{Type: "quantum", Size: 1}},
				Out: []portDTO{{Type: "quantum", Size: 1}},
			},
		},
		Edges: []edgeDTO{
			{Source: [2]any{"src", 0}, Target: [2]any{"h", 0}},
		},
		Snippets: map[string]string{
			"src": "qubit[1] q;\n@leqo.output 0\nlet out0 = q;\n",
			"h":   "@leqo.input 0\nqubit[1] q;\nh q;\n@leqo.output 0\nlet out0 = q;\n",
		},
	}

	b, err := json.Marshal(fr)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "req.json")
	require.NoError(t, os.WriteFile(path, b, 0o644))

	out, err := CompileFile(context.Background(), path)
	require.NoError(t, err)
	require.Contains(t, string(out), "qubit[1] leqo_reg;")
}

func TestCompileFileFailsOnMissingFile(t *testing.T) {
	_, err := CompileFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestToRequestDefaultsOptimizeToTrue(t *testing.T) {
	req, err := toRequest(fileRequest{})
	require.NoError(t, err)
	require.True(t, req.Optimize)
}

func TestToRequestHonoursExplicitOptimizeFalse(t *testing.T) {
	f := false

	req, err := toRequest(fileRequest{Optimize: &f})
	require.NoError(t, err)
	require.False(t, req.Optimize)
}

func TestToEndpointParsesJSONNumberPort(t *testing.T) {
	ep := toEndpoint([2]any{"n1", float64(2)})
	require.Equal(t, "n1", ep.NodeID)
	require.Equal(t, 2, ep.Port)
}
