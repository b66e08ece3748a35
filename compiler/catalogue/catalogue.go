// Package catalogue fixes the contract between the compile pipeline and
// the two external collaborators of S1 (snippet acquisition): a
// persistent implementation catalogue and the enricher strategies that
// populate snippets for nodes lacking a caller-supplied implementation.
// Both are out of scope for this module; only the interfaces live here.
package catalogue

import (
	"context"

	"github.com/LEQO-Framework/leqo-backend/compiler/graph"
)

type (
	// Descriptor identifies the kind of implementation a node needs,
	// independent of any particular node instance.
	Descriptor struct {
		Kind   graph.Kind
		Params map[string]string
	}

	// Snippet is an OpenQASM-3.1 fragment as returned by the catalogue or
	// an enricher, before S3 preprocessing.
	Snippet struct {
		Source string
	}

	// Catalogue is a read-mostly, key-value lookup from Descriptor to
	// Snippet, shared read-only across all concurrently running compile
	// requests.
	Catalogue interface {
		Lookup(ctx context.Context, d Descriptor) (Snippet, bool, error)
	}

	// Enricher produces a Snippet for a node that has neither a
	// caller-supplied snippet nor a catalogue hit, e.g. by templating a
	// generic implementation from the node's payload.
	Enricher interface {
		Enrich(ctx context.Context, n *graph.Node) (Snippet, error)
	}
)

// Clone returns a copy of s safe for a caller to mutate; the catalogue
// and enrichers retain ownership of the original.
func (s Snippet) Clone() Snippet {
	return Snippet{Source: s.Source}
}
