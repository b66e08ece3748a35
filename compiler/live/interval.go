// Package live implements S4: computing each logical qubit's live
// interval over a topological rank and colouring the resulting
// interference graph to minimize the width of the merged quantum
// register.
package live

import (
	"math"
)

// Infinity stands for a qubit whose live interval never ends within
// the request (an @leqo.output qubit, or every qubit when optimization
// is disabled).
const Infinity = math.MaxInt32

type (
	// Disposition classifies what a qubit becomes available for once it
	// dies, per spec.md's three-way return classification: Output
	// qubits never die within the request; the slot of any qubit that
	// dies can go to a later plain request, while a Dirty request only
	// takes a slot last freed by a Reusable or Dirty qubit.
	Disposition int

	// Interval is one logical qubit's lifetime, in topological rank
	// units: it is live during [Start, End).
	Interval struct {
		Qubit int
		Start int
		End   int
		// Pinned qubits must receive Slot regardless of the greedy
		// allocation, e.g. distinct node outputs that must stay
		// distinguishable.
		Pinned bool
		Slot   int
		// Dirty requests a slot last vacated by a Reusable or Dirty
		// disposition (an @leqo.dirty qubit), rather than any free slot.
		Dirty bool
		// Disposition is what this qubit becomes available for once its
		// interval ends, consulted by Colour when it frees this Slot.
		Disposition Disposition
	}

	// Def is one logical qubit's definition and usage facts, the input
	// this package's Compute function turns into an Interval.
	Def struct {
		Qubit      int
		DefRank    int
		LastUse    int
		Reusable   bool
		ReusableAt int
		IsOutput   bool
		// Dirty marks a qubit declared with @leqo.dirty: it requests a
		// slot with Disposition Reusable or Dirty rather than any free
		// slot.
		Dirty bool
		// ReturnedDirty marks a qubit that is declared but claimed by
		// none of @leqo.output/@leqo.reusable/@leqo.input: per spec.md's
		// three-way classification it is returned dirty at death.
		ReturnedDirty bool
	}
)

const (
	DispositionNone Disposition = iota
	DispositionOutput
	DispositionReusable
	DispositionDirty
)

// Compute builds one Interval per Def, per spec.md §4.4's Timeline
// rule: death is advanced to ReusableAt when Reusable is set, pushed to
// Infinity when IsOutput is set (output wins over reusable, since a
// qubit cannot be both).
func Compute(defs []Def, optimize bool) []Interval {
	out := make([]Interval, len(defs))

	for i, d := range defs {
		end := d.LastUse + 1
		disp := dispositionOf(d)

		if !optimize {
			out[i] = Interval{Qubit: d.Qubit, Start: 0, End: Infinity, Dirty: d.Dirty, Disposition: disp}

			continue
		}

		if d.Reusable {
			end = d.ReusableAt
		}

		if d.IsOutput {
			end = Infinity
		}

		out[i] = Interval{Qubit: d.Qubit, Start: d.DefRank, End: end, Dirty: d.Dirty, Disposition: disp}
	}

	return out
}

func dispositionOf(d Def) Disposition {
	switch {
	case d.IsOutput:
		return DispositionOutput
	case d.Reusable:
		return DispositionReusable
	case d.ReturnedDirty:
		return DispositionDirty
	default:
		return DispositionNone
	}
}

// Overlaps reports whether a and b's live intervals intersect.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}
