package live

import (
	"sort"

	"nikand.dev/go/heap"

	"github.com/LEQO-Framework/leqo-backend/compiler/cerr"
	"github.com/LEQO-Framework/leqo-backend/compiler/set"
)

type (
	event struct {
		rank  int
		start bool // true: interval begins here; false: it ends here
		iv    int  // index into the intervals slice
	}

	// freeSlots holds two views over the same taken/free bitmap: any is
	// every freed slot, dirtyOK is the subset last vacated by a
	// Disposition of Reusable or Dirty, per spec.md's rule that a Dirty
	// request may only take a slot a Reusable or Dirty death left
	// behind. A slot can sit in both; whichever heap hands it out first
	// wins, the other's stale entry is skipped via the taken bitmap.
	freeSlots struct {
		any     heap.Heap[int]
		dirtyOK heap.Heap[int]
	}
)

func lessInt(d []int, i, j int) bool { return d[i] < d[j] }

// Colour assigns every interval a slot in [0, N) such that overlapping
// intervals never share one, per spec.md §4.4's greedy interval-graph
// colouring. Pinned intervals are honored first; the greedy fills
// around them and fails with AllocationInfeasible if two interfering
// intervals are pinned to the same slot.
func Colour(nodeID string, intervals []Interval) (assign map[int]int, width int, err error) {
	assign = make(map[int]int, len(intervals))

	var taken set.Bitmap

	markTaken := func(slot int) {
		taken.Set(slot)

		if slot+1 > width {
			width = slot + 1
		}
	}

	for i := range intervals {
		if !intervals[i].Pinned {
			continue
		}

		for j := range intervals {
			if i == j || !intervals[j].Pinned {
				continue
			}

			if intervals[j].Slot == intervals[i].Slot && Overlaps(intervals[i], intervals[j]) {
				return nil, 0, cerr.New(cerr.AllocationInfeasible, nodeID,
					"qubits %d and %d both pinned to slot %d with overlapping lifetimes",
					intervals[i].Qubit, intervals[j].Qubit, intervals[i].Slot)
			}
		}

		assign[intervals[i].Qubit] = intervals[i].Slot
		markTaken(intervals[i].Slot)
	}

	events := make([]event, 0, 2*len(intervals))

	for i, iv := range intervals {
		if iv.Pinned {
			continue
		}

		events = append(events, event{rank: iv.Start, start: true, iv: i})
		events = append(events, event{rank: iv.End, start: false, iv: i})
	}

	sort.SliceStable(events, func(a, b int) bool {
		if events[a].rank != events[b].rank {
			return events[a].rank < events[b].rank
		}

		// Process ends before starts at the same rank, so a qubit that
		// dies exactly when another is born can share its slot.
		if events[a].start != events[b].start {
			return !events[a].start
		}

		// Among starts at the same rank, allocate the longest-lived
		// interval first (spec.md §4.4's tie-break), which packs
		// better under the greedy.
		if events[a].start {
			la := intervals[events[a].iv].End - intervals[events[a].iv].Start
			lb := intervals[events[b].iv].End - intervals[events[b].iv].Start

			return la > lb
		}

		return events[a].iv < events[b].iv
	})

	free := &freeSlots{
		any:     heap.Heap[int]{Less: lessInt},
		dirtyOK: heap.Heap[int]{Less: lessInt},
	}

	slotOf := make(map[int]int, len(intervals))

	for i := 0; i < width; i++ {
		if !taken.IsSet(i) {
			free.any.Push(i)
		}
	}

	for _, e := range events {
		iv := intervals[e.iv]

		if e.start {
			slot := nextFreeSlot(free, &taken, &width, iv.Dirty)
			slotOf[e.iv] = slot
			assign[iv.Qubit] = slot
		} else {
			slot := slotOf[e.iv]
			taken.Clear(slot)
			free.any.Push(slot)

			if iv.Disposition == DispositionReusable || iv.Disposition == DispositionDirty {
				free.dirtyOK.Push(slot)
			}
		}
	}

	return assign, width, nil
}

// nextFreeSlot draws a slot for a starting interval. A Dirty request is
// restricted to the dirtyOK pool (slots last vacated by a Reusable or
// Dirty disposition); anything else may take any free slot. Either way,
// a pool miss extends width rather than blocking.
func nextFreeSlot(free *freeSlots, taken *set.Bitmap, width *int, dirty bool) int {
	pool := &free.any
	if dirty {
		pool = &free.dirtyOK
	}

	for pool.Len() > 0 {
		slot := pool.Pop()
		if taken.IsSet(slot) {
			continue // stale: already handed out via the other pool
		}

		taken.Set(slot)

		return slot
	}

	slot := *width
	taken.Set(slot)
	*width++

	return slot
}
