package prepare

import "github.com/LEQO-Framework/leqo-backend/compiler/cerr"

// SizeCast resolves the width mismatch between a snippet's declared
// input size and the size actually carried by the upstream edge, per
// spec.md §4.3. It returns the number of freshly allocated |0⟩ qubits
// appended after the edge's qubits (the upper bits) to widen the
// binding, or an error if the edge is wider than declared or widening
// is disallowed.
func SizeCast(nodeID string, portIndex, declared, edge int, exact bool) (padding int, err error) {
	switch {
	case edge == declared:
		return 0, nil
	case edge < declared:
		if exact {
			return 0, cerr.New(cerr.SizeMismatch, nodeID,
				"port %d is exact, declared width %d, got %d", portIndex, declared, edge)
		}

		return declared - edge, nil
	default:
		return 0, cerr.New(cerr.SizeMismatch, nodeID,
			"port %d declared width %d, edge carries %d", portIndex, declared, edge)
	}
}
