package compiler

import (
	"context"
	"sort"

	"tlog.app/go/tlog"

	"github.com/LEQO-Framework/leqo-backend/compiler/ast"
	"github.com/LEQO-Framework/leqo-backend/compiler/catalogue"
	"github.com/LEQO-Framework/leqo-backend/compiler/cerr"
	"github.com/LEQO-Framework/leqo-backend/compiler/graph"
	"github.com/LEQO-Framework/leqo-backend/compiler/live"
	"github.com/LEQO-Framework/leqo-backend/compiler/merge"
	"github.com/LEQO-Framework/leqo-backend/compiler/nested"
	"github.com/LEQO-Framework/leqo-backend/compiler/parse"
	"github.com/LEQO-Framework/leqo-backend/compiler/postprocess"
	"github.com/LEQO-Framework/leqo-backend/compiler/prepare"
	"github.com/LEQO-Framework/leqo-backend/compiler/result"
)

// Request is one compile request: the program graph, caller-supplied
// snippets keyed by node id (nodes absent here fall through to the
// catalogue, then the enricher), and the options of spec.md §6.
type Request struct {
	Graph     *graph.Graph
	Snippets  map[string][]byte
	Optimize  bool
	MaxUnroll int
}

// Compile runs the full S0-S7 pipeline for req, returning either a
// successful Result carrying the merged program or one carrying the
// structured failure.
func Compile(ctx context.Context, req *Request, cat catalogue.Catalogue, enr catalogue.Enricher) *result.Result {
	flat, err := expandAll(ctx, req.Graph)
	if err != nil {
		return result.Failure(err)
	}

	merged, width, err := compileGraph(ctx, flat, req.Snippets, req.Optimize, cat, enr)
	if err != nil {
		return result.Failure(err)
	}

	if err := checkCancelled(ctx); err != nil {
		return result.Failure(err)
	}

	text, err := postprocess.Run(ctx, merged)
	if err != nil {
		return result.Failure(err)
	}

	tlog.SpanFromContext(ctx).Printw("compile finished", "width", width)

	return result.Success(text, width, nil)
}

// CompileIfThenElse compiles a single if-then-else node's two branches
// independently through S0-S5 and wraps them in a single classical
// if/else over a shared leqo_reg, per spec.md §4.2. Each branch may
// itself contain nested repeat blocks; a nested if-then-else node
// inside a branch is rejected by expandAll. The condition must be
// sourced from a classical-literal node wired into n's CondPort;
// Compile does not call this automatically (expandAll rejects an
// if-then-else node) — callers that need a full graph containing
// if-then-else nodes must locate and flatten them with this function
// before calling Compile.
func CompileIfThenElse(ctx context.Context, outer *graph.Graph, n *graph.Node, snippets map[string][]byte, optimize bool, cat catalogue.Catalogue, enr catalogue.Enricher) *result.Result {
	payload, ok := n.Payload.(*graph.IfThenElsePayload)
	if !ok {
		return result.Failure(cerr.New(cerr.UnknownNodeKind, n.ID, "not an if-then-else node"))
	}

	then, els, err := nested.ExpandIfThenElse(ctx, n)
	if err != nil {
		return result.Failure(err)
	}

	cond, err := resolveCondition(outer, n, payload)
	if err != nil {
		return result.Failure(err)
	}

	thenBound, err := bindBranchInputs(outer, n, payload, then.Graph)
	if err != nil {
		return result.Failure(err)
	}

	elseBound, err := bindBranchInputs(outer, n, payload, els.Graph)
	if err != nil {
		return result.Failure(err)
	}

	thenFlat, err := expandAll(ctx, thenBound)
	if err != nil {
		return result.Failure(err)
	}

	elseFlat, err := expandAll(ctx, elseBound)
	if err != nil {
		return result.Failure(err)
	}

	thenProg, thenWidth, err := compileGraph(ctx, thenFlat, snippets, optimize, cat, enr)
	if err != nil {
		return result.Failure(err)
	}

	elseProg, elseWidth, err := compileGraph(ctx, elseFlat, snippets, optimize, cat, enr)
	if err != nil {
		return result.Failure(err)
	}

	width := thenWidth
	if elseWidth > width {
		width = elseWidth
	}

	merged, err := merge.MergeIfElse(ctx, n.ID, cond, thenProg, elseProg, width)
	if err != nil {
		return result.Failure(err)
	}

	text, err := postprocess.Run(ctx, merged)
	if err != nil {
		return result.Failure(err)
	}

	return result.Success(text, width, nil)
}

// resolveCondition looks up the edge feeding n's condition port and
// requires its source to be a classical-literal node, the only
// classical-value producer this service currently models.
func resolveCondition(outer *graph.Graph, n *graph.Node, payload *graph.IfThenElsePayload) (ast.Expr, error) {
	e, ok := outer.EdgeInto(n.ID, payload.CondPort)
	if !ok {
		return nil, cerr.New(cerr.PortFanInViolation, n.ID, "condition port %d has no incoming edge", payload.CondPort)
	}

	src, ok := outer.Node(e.Src.NodeID)
	if !ok {
		return nil, cerr.New(cerr.PortFanInViolation, n.ID, "condition source node %s not found", e.Src.NodeID)
	}

	lit, ok := src.Payload.(*graph.ClassicalLiteralPayload)
	if src.Kind != graph.KindClassicalLiteral || !ok {
		return nil, cerr.New(cerr.PortTypeMismatch, n.ID, "condition must be sourced from a classical-literal node, got %s", src.Kind)
	}

	return &ast.RawExpr{Text: lit.Text}, nil
}

// bindBranchInputs returns a copy of block with every dangling input
// port satisfied by a copy of whichever outer node feeds n's matching
// (non-condition) input port, so the branch is a self-contained graph
// that graph.Ingest can validate on its own, per spec.md §4.2's
// requirement that each branch be processed through S3-S4
// independently. Ports are matched in order: n.In's ports other than
// payload.CondPort, against nested.DanglingInputs(block), both already
// checked 1:1 by sameSignature. Producers are pulled in transitively —
// a producer with its own inputs drags its whole ancestry along — so a
// branch input may be fed by more than a single leaf node.
func bindBranchInputs(outer *graph.Graph, n *graph.Node, payload *graph.IfThenElsePayload, block *graph.Graph) (*graph.Graph, error) {
	dangling := nested.DanglingInputs(block)

	var outerPorts []int
	for i := range n.In {
		if i == payload.CondPort {
			continue
		}

		outerPorts = append(outerPorts, i)
	}

	if len(dangling) != len(outerPorts) {
		return nil, cerr.New(cerr.PortFanInViolation, n.ID,
			"branch has %d dangling inputs, node has %d data inputs", len(dangling), len(outerPorts))
	}

	out := graph.New()
	for _, bn := range block.Nodes {
		out.AddNode(bn)
	}

	for _, e := range block.Edges {
		out.AddEdge(e)
	}

	pulled := map[string]bool{}

	var pull func(id string) error
	pull = func(id string) error {
		if pulled[id] {
			return nil
		}

		node, ok := outer.Node(id)
		if !ok {
			return cerr.New(cerr.PortFanInViolation, n.ID, "producer node %s not found", id)
		}

		pulled[id] = true
		out.AddNode(node)

		for i := range node.In {
			e, ok := outer.EdgeInto(id, i)
			if !ok {
				return cerr.New(cerr.PortFanInViolation, n.ID, "producer node %s input %d has no source", id, i)
			}

			out.AddEdge(e)

			if err := pull(e.Src.NodeID); err != nil {
				return err
			}
		}

		return nil
	}

	for i, outerIdx := range outerPorts {
		e, ok := outer.EdgeInto(n.ID, outerIdx)
		if !ok {
			return nil, cerr.New(cerr.PortFanInViolation, n.ID, "input port %d has no incoming edge", outerIdx)
		}

		if err := pull(e.Src.NodeID); err != nil {
			return nil, err
		}

		out.AddEdge(graph.Edge{Src: e.Src, Dst: dangling[i]})
	}

	out.RebuildIndex()

	return out, nil
}

// compileGraph runs S0-S5 (ingest through merge) over g and returns
// the merged, not-yet-postprocessed program and its register width.
func compileGraph(ctx context.Context, g *graph.Graph, snippets map[string][]byte, optimize bool, cat catalogue.Catalogue, enr catalogue.Enricher) (*ast.Program, int, error) {
	sched, err := graph.Ingest(ctx, g, nil)
	if err != nil {
		return nil, 0, err
	}

	prepared, offsets, err := prepareAll(ctx, sched, snippets, cat, enr)
	if err != nil {
		return nil, 0, err
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, 0, err
	}

	inputs, err := resolveEdges(sched, prepared, offsets)
	if err != nil {
		return nil, 0, err
	}

	defs := buildDefs(sched, prepared, offsets, inputs)

	intervals := live.Compute(defs, optimize)

	assign, width, err := live.Colour("", intervals)
	if err != nil {
		return nil, 0, err
	}

	slotOf := func(qubit int) int { return assign[qubit] }

	order := make([]*prepare.Node, 0, len(sched.Order))
	for _, id := range sched.Order {
		if n, ok := prepared[id]; ok {
			order = append(order, n)
		}
	}

	mergeInputs := make(map[string][]merge.Input, len(inputs))
	for id, ins := range inputs {
		mergeInputs[id] = ins
	}

	merged, err := merge.Merge(ctx, order, slotOf, width, mergeInputs)
	if err != nil {
		return nil, 0, err
	}

	return merged, width, nil
}

// expandAll repeatedly replaces KindRepeat nodes with their flattened
// expansions until none remain, supporting arbitrarily nested repeat
// blocks. If-then-else nodes are left for a branch-aware caller (see
// CompileIfThenElse), which resolves and flattens a whole if-then-else
// node, branches included, before Compile's generic loop ever sees it;
// Compile fails clearly if one reaches this loop directly.
func expandAll(ctx context.Context, g *graph.Graph) (*graph.Graph, error) {
	cur := g

	for {
		var target *graph.Node

		for _, n := range cur.Nodes {
			if n.Kind == graph.KindRepeat || n.Kind == graph.KindIfThenElse {
				target = n

				break
			}
		}

		if target == nil {
			return cur, nil
		}

		var err error

		cur, err = expandOne(ctx, cur, target)
		if err != nil {
			return nil, err
		}
	}
}

func expandOne(ctx context.Context, g *graph.Graph, n *graph.Node) (*graph.Graph, error) {
	switch n.Kind {
	case graph.KindRepeat:
		entryID, exitID, block, err := nested.ExpandRepeat(ctx, n)
		if err != nil {
			return nil, err
		}

		return spliceBlock(g, n, block, entryID, exitID), nil
	case graph.KindIfThenElse:
		return nil, cerr.New(cerr.UnknownNodeKind, n.ID,
			"if-then-else requires branch-aware compilation, see CompileIfThenElse")
	default:
		return nil, cerr.New(cerr.UnknownNodeKind, n.ID, "not an expandable node")
	}
}

// spliceBlock replaces n in g with block, rewiring g's external edges
// that touched n's ports onto block's entry/exit passthrough nodes.
func spliceBlock(g *graph.Graph, n *graph.Node, block *graph.Graph, entryID, exitID string) *graph.Graph {
	out := graph.New()

	for _, other := range g.Nodes {
		if other.ID == n.ID {
			continue
		}

		out.AddNode(other)
	}

	for _, bn := range block.Nodes {
		out.AddNode(bn)
	}

	for _, e := range g.Edges {
		ne := e

		if e.Src.NodeID == n.ID {
			ne.Src = graph.Endpoint{NodeID: exitID, Port: e.Src.Port}
		}

		if e.Dst.NodeID == n.ID {
			ne.Dst = graph.Endpoint{NodeID: entryID, Port: e.Dst.Port}
		}

		out.AddEdge(ne)
	}

	for _, e := range block.Edges {
		out.AddEdge(e)
	}

	out.RebuildIndex()

	return out
}

func checkCancelled(ctx context.Context) error {
	switch ctx.Err() {
	case nil:
		return nil
	case context.DeadlineExceeded:
		return cerr.New(cerr.Timeout, "", "request deadline exceeded")
	default:
		return cerr.New(cerr.Cancelled, "", "request cancelled")
	}
}

func prepareAll(
	ctx context.Context,
	sched *graph.Schedule,
	snippets map[string][]byte,
	cat catalogue.Catalogue,
	enr catalogue.Enricher,
) (map[string]*prepare.Node, map[string]int, error) {
	prepared := make(map[string]*prepare.Node, len(sched.Order))
	offsets := make(map[string]int, len(sched.Order))

	nextOffset := 0

	for _, id := range sched.Order {
		n, ok := sched.Graph.Node(id)
		if !ok {
			continue
		}

		if n.Kind == graph.KindPassthrough {
			continue
		}

		src, err := acquireSnippet(ctx, n, snippets, cat, enr)
		if err != nil {
			return nil, nil, err
		}

		if err := checkCancelled(ctx); err != nil {
			return nil, nil, err
		}

		prog, err := parse.Parse(ctx, src)
		if err != nil {
			return nil, nil, cerr.Wrap(cerr.SnippetParseError, id, err, "parse snippet")
		}

		pn, err := prepare.Prepare(ctx, id, prog)
		if err != nil {
			return nil, nil, err
		}

		prepared[id] = pn
		offsets[id] = nextOffset
		nextOffset += len(pn.IO.DeclaredIDs)
	}

	return prepared, offsets, nil
}

func acquireSnippet(
	ctx context.Context,
	n *graph.Node,
	snippets map[string][]byte,
	cat catalogue.Catalogue,
	enr catalogue.Enricher,
) ([]byte, error) {
	if s, ok := snippets[n.ID]; ok {
		return s, nil
	}

	if cat != nil {
		snip, ok, err := cat.Lookup(ctx, catalogue.Descriptor{Kind: n.Kind})
		if err != nil {
			return nil, cerr.Wrap(cerr.MissingSnippet, n.ID, err, "catalogue lookup")
		}

		if ok {
			return []byte(snip.Source), nil
		}
	}

	if enr != nil {
		snip, err := enr.Enrich(ctx, n)
		if err != nil {
			return nil, cerr.Wrap(cerr.MissingSnippet, n.ID, err, "enrich")
		}

		return []byte(snip.Source), nil
	}

	return nil, cerr.New(cerr.MissingSnippet, n.ID, "no snippet, no catalogue hit, no enricher")
}

// resolveEdges computes, for every prepared node's input ports, the
// global qubit index set it inherits from its upstream edge, applying
// S3's size casting (spec.md §4.3) where widths disagree.
func resolveEdges(sched *graph.Schedule, prepared map[string]*prepare.Node, offsets map[string]int) (map[string][]merge.Input, error) {
	out := make(map[string][]merge.Input, len(prepared))

	padCounter := 1 << 30 // padding ids live in a range disjoint from real qubit ids

	for id, pn := range prepared {
		ins := make([]merge.Input, len(pn.IO.Inputs))

		for portIdx, binding := range pn.IO.Inputs {
			e, ok := sched.Graph.EdgeInto(id, portIdx)
			if !ok {
				continue
			}

			srcPrepared, ok := prepared[e.Src.NodeID]
			if !ok {
				continue
			}

			srcBinding, ok := srcPrepared.IO.Outputs[e.Src.Port]
			if !ok {
				continue
			}

			srcOffset := offsets[e.Src.NodeID]

			globalIDs := make([]int, len(srcBinding.IDs))
			for i, lid := range srcBinding.IDs {
				globalIDs[i] = lid + srcOffset
			}

			declared := len(binding.IDs)

			padding, err := prepare.SizeCast(id, portIdx, declared, len(globalIDs), binding.Exact)
			if err != nil {
				return nil, err
			}

			for p := 0; p < padding; p++ {
				globalIDs = append(globalIDs, padCounter)
				padCounter++
			}

			ins[portIdx] = merge.Input{IndexSet: globalIDs}
		}

		out[id] = ins
	}

	return out, nil
}

// graphNode looks up id in g, tolerating a nil g: buildDefs is exercised
// directly in tests against a Schedule with no backing Graph.
func graphNode(g *graph.Graph, id string) (*graph.Node, bool) {
	if g == nil {
		return nil, false
	}

	return g.Node(id)
}

// buildDefs derives per-logical-qubit liveness facts from the prepared
// nodes and their resolved edges, for live.Compute.
func buildDefs(sched *graph.Schedule, prepared map[string]*prepare.Node, offsets map[string]int, inputs map[string][]merge.Input) []live.Def {
	defRank := map[int]int{}
	lastUse := map[int]int{}
	reusableAt := map[int]int{}
	isReusable := map[int]bool{}
	isOutput := map[int]bool{}
	isDirty := map[int]bool{}
	isReturnedDirty := map[int]bool{}

	var order []int
	var ancillaIDs []int

	touch := func(id, rank int) {
		if _, seen := defRank[id]; !seen {
			defRank[id] = rank
			order = append(order, id)
		}

		if rank > lastUse[id] {
			lastUse[id] = rank
		}
	}

	for nodeID, pn := range prepared {
		rank := sched.Rank[nodeID]
		offset := offsets[nodeID]

		// localToGlobal maps this node's own local qubit ids to the
		// logical qubit they actually denote once merge.spliceNode
		// runs: an @leqo.input-bound declaration is rewritten into an
		// alias of its source port's ids (see spliceNode's aliasInto),
		// so it never becomes a qubit of its own; everything else is a
		// fresh allocation at this node's offset.
		localToGlobal := make(map[int]int, len(pn.IO.DeclaredIDs))
		inputBoundLocal := map[int]bool{}

		for _, lid := range pn.IO.DeclaredIDs {
			localToGlobal[lid] = lid + offset
		}

		for portIdx, b := range pn.IO.Inputs {
			ins := inputs[nodeID]
			if portIdx >= len(ins) {
				continue
			}

			idxSet := ins[portIdx].IndexSet

			for i, lid := range b.IDs {
				inputBoundLocal[lid] = true

				if i < len(idxSet) {
					localToGlobal[lid] = idxSet[i]
				}
			}
		}

		for _, lid := range pn.IO.DeclaredIDs {
			if inputBoundLocal[lid] {
				continue
			}

			touch(lid+offset, rank)
		}

		for _, ins := range inputs[nodeID] {
			for _, gid := range ins.IndexSet {
				touch(gid, rank)
			}
		}

		for _, b := range pn.IO.Outputs {
			for _, lid := range b.IDs {
				isOutput[localToGlobal[lid]] = true
			}
		}

		// An ancilla node's Reusable promise stands in for an
		// @leqo.reusable alias the snippet never has to write: the
		// register is asserted clean at allocation time, so no
		// required-reusable claim needs resolving downstream. Keyed off
		// DeclaredIDs rather than Outputs, so a later @leqo.output on
		// the same id (genuinely exposing it further) still wins per
		// the usual output-beats-reusable rule.
		if gn, ok := graphNode(sched.Graph, nodeID); ok {
			if ap, ok := gn.Payload.(*graph.AncillaPayload); ok && ap.Reusable {
				for _, lid := range pn.IO.DeclaredIDs {
					if inputBoundLocal[lid] {
						continue
					}

					ancillaIDs = append(ancillaIDs, localToGlobal[lid])
				}
			}
		}

		for _, lid := range pn.IO.ReusableIDs {
			gid := localToGlobal[lid]
			isReusable[gid] = true

			if rank > reusableAt[gid] {
				reusableAt[gid] = rank
			}
		}

		for _, lid := range pn.IO.DirtyIDs {
			isDirty[lid+offset] = true
		}

		for _, lid := range pn.IO.ReturnedDirtyIDs {
			if inputBoundLocal[lid] {
				continue
			}

			isReturnedDirty[localToGlobal[lid]] = true
		}
	}

	for _, gid := range ancillaIDs {
		isReusable[gid] = true

		if lastUse[gid] > reusableAt[gid] {
			reusableAt[gid] = lastUse[gid]
		}
	}

	sort.Ints(order)

	defs := make([]live.Def, 0, len(order))

	for _, id := range order {
		defs = append(defs, live.Def{
			Qubit:         id,
			DefRank:       defRank[id],
			LastUse:       lastUse[id],
			Reusable:      isReusable[id],
			ReusableAt:    reusableAt[id],
			IsOutput:      isOutput[id],
			Dirty:         isDirty[id],
			ReturnedDirty: isReturnedDirty[id],
		})
	}

	return defs
}
