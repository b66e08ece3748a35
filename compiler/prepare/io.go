// Package prepare implements S3: per-node preprocessing of a snippet
// AST (renaming, alias inlining, IO annotation parsing, size casting)
// before S4/S5 see it.
package prepare

import (
	"sort"

	"github.com/LEQO-Framework/leqo-backend/compiler/ast"
	"github.com/LEQO-Framework/leqo-backend/compiler/cerr"
)

type (
	// QubitBinding is one resolved qubit-valued input or output: the
	// alias/declaration name it is bound to, and the set of logical
	// qubit ids it carries: node-local, assigned by IO parsing in
	// declaration order (the compiler offsets them into global ids).
	QubitBinding struct {
		Name string
		IDs  []int
		// Exact means the binding rejects width widening at S3's size
		// casting step (spec.md §4.3).
		Exact bool
	}

	// IOInfo is the binding tables S3's IO parsing pass produces for one
	// node: the input/output port index to qubit binding, plus the
	// qubit pools that fall outside any port (reusable, dirty).
	IOInfo struct {
		Inputs  map[int]QubitBinding
		Outputs map[int]QubitBinding

		// DeclaredIDs is every qubit id the snippet declares, in
		// declaration order, used to compute ReturnedDirtyIDs.
		DeclaredIDs []int

		ReusableIDs      []int // from @leqo.reusable aliases
		DirtyIDs         []int // from @leqo.dirty qubit declarations
		ReturnedDirtyIDs []int // declared, not input/output/reusable
	}

	nameInfo struct {
		ids []int
	}
)

// ParseIO walks prog collecting @leqo.{input,output,reusable,dirty}
// annotations, per spec.md §4.3's IO Parsing sub-transform.
func ParseIO(nodeID string, prog *ast.Program) (*IOInfo, error) {
	io := &IOInfo{
		Inputs:  map[int]QubitBinding{},
		Outputs: map[int]QubitBinding{},
	}

	names := map[string]nameInfo{}
	nextID := 0
	foundInputs := map[int]bool{}
	foundOutputs := map[int]bool{}

	for _, stmt := range prog.Statements {
		switch x := stmt.(type) {
		case *ast.QubitDecl:
			size := 1
			if x.Size != nil {
				n, ok := evalConstInt(x.Size)
				if !ok {
					return nil, cerr.New(cerr.SizeMismatch, nodeID, "qubit %s has non-constant size", x.Name)
				}

				size = n
			}

			ids := make([]int, size)
			for i := range ids {
				ids[i] = nextID
				nextID++
			}

			names[x.Name] = nameInfo{ids: ids}
			io.DeclaredIDs = append(io.DeclaredIDs, ids...)

			inputID, dirty, err := declAnnotationInfo(nodeID, x.Name, x.Annotations())
			if err != nil {
				return nil, err
			}

			switch {
			case inputID != nil:
				if foundInputs[*inputID] {
					return nil, cerr.NewAnnotation(cerr.DuplicateIndex, nodeID, "duplicate input id %d", *inputID)
				}

				foundInputs[*inputID] = true
				io.Inputs[*inputID] = QubitBinding{Name: x.Name, IDs: ids}
			case dirty:
				io.DirtyIDs = append(io.DirtyIDs, ids...)
			}
		case *ast.AliasDecl:
			info, ok := resolveAliasExpr(names, x.Value)
			if !ok {
				continue
			}

			names[x.Name] = info

			outputID, reusable, err := aliasAnnotationInfo(nodeID, x.Name, x.Annotations())
			if err != nil {
				return nil, err
			}

			switch {
			case outputID != nil:
				if foundOutputs[*outputID] {
					return nil, cerr.NewAnnotation(cerr.DuplicateIndex, nodeID, "duplicate output id %d", *outputID)
				}

				foundOutputs[*outputID] = true
				io.Outputs[*outputID] = QubitBinding{Name: x.Name, IDs: info.ids}
			case reusable:
				io.ReusableIDs = append(io.ReusableIDs, info.ids...)
			}
		}
	}

	if err := checkContiguous(nodeID, foundInputs, cerr.MissingIndex); err != nil {
		return nil, err
	}

	if err := checkContiguous(nodeID, foundOutputs, cerr.MissingIndex); err != nil {
		return nil, err
	}

	returnedDirty := map[int]bool{}
	for _, id := range io.DeclaredIDs {
		returnedDirty[id] = true
	}

	for _, id := range io.ReusableIDs {
		if !returnedDirty[id] {
			return nil, cerr.NewAnnotation(cerr.ReusableOverlapsOutput, nodeID, "qubit %d marked reusable twice", id)
		}

		delete(returnedDirty, id)
	}

	for _, b := range io.Outputs {
		for _, id := range b.IDs {
			if !returnedDirty[id] {
				return nil, cerr.NewAnnotation(cerr.OutputOverlap, nodeID, "qubit %d claimed by output and reusable/output", id)
			}

			delete(returnedDirty, id)
		}
	}

	for _, b := range io.Inputs {
		for _, id := range b.IDs {
			delete(returnedDirty, id)
		}
	}

	for id := range returnedDirty {
		io.ReturnedDirtyIDs = append(io.ReturnedDirtyIDs, id)
	}

	sort.Ints(io.ReturnedDirtyIDs)

	return io, nil
}

func declAnnotationInfo(nodeID, name string, anns []ast.Annotation) (inputID *int, dirty bool, err error) {
	for _, a := range anns {
		switch a.Keyword {
		case "leqo.input":
			if inputID != nil {
				return nil, false, cerr.NewAnnotation(cerr.DuplicateIndex, nodeID, "two input annotations over %s", name)
			}

			idx, err := parseIndexArg(a.Args)
			if err != nil {
				return nil, false, cerr.NewAnnotation(cerr.MissingIndex, nodeID, "bad @leqo.input over %s: %v", name, err)
			}

			inputID = &idx
		case "leqo.dirty":
			if dirty {
				return nil, false, cerr.NewAnnotation(cerr.DuplicateIndex, nodeID, "two dirty annotations over %s", name)
			}

			dirty = true
		case "leqo.output", "leqo.reusable":
			return nil, false, cerr.NewAnnotation(cerr.WrongHost, nodeID, "%s over qubit declaration %s", a.Keyword, name)
		}
	}

	if inputID != nil && dirty {
		return nil, false, cerr.NewAnnotation(cerr.MultipleOnStatement, nodeID, "dirty and input over %s", name)
	}

	return inputID, dirty, nil
}

func aliasAnnotationInfo(nodeID, name string, anns []ast.Annotation) (outputID *int, reusable bool, err error) {
	for _, a := range anns {
		switch a.Keyword {
		case "leqo.output":
			if outputID != nil {
				return nil, false, cerr.NewAnnotation(cerr.DuplicateIndex, nodeID, "two output annotations over %s", name)
			}

			idx, err := parseIndexArg(a.Args)
			if err != nil {
				return nil, false, cerr.NewAnnotation(cerr.MissingIndex, nodeID, "bad @leqo.output over %s: %v", name, err)
			}

			outputID = &idx
		case "leqo.reusable":
			if reusable {
				return nil, false, cerr.NewAnnotation(cerr.DuplicateIndex, nodeID, "two reusable annotations over %s", name)
			}

			reusable = true
		case "leqo.input", "leqo.dirty":
			return nil, false, cerr.NewAnnotation(cerr.WrongHost, nodeID, "%s over alias %s", a.Keyword, name)
		}
	}

	if outputID != nil && reusable {
		return nil, false, cerr.NewAnnotation(cerr.MultipleOnStatement, nodeID, "output and reusable over %s", name)
	}

	return outputID, reusable, nil
}

func resolveAliasExpr(names map[string]nameInfo, e ast.Expr) (nameInfo, bool) {
	switch x := e.(type) {
	case *ast.Ident:
		info, ok := names[x.Name]

		return info, ok
	case *ast.IndexExpr:
		coll, ok := x.Collection.(*ast.Ident)
		if !ok {
			return nameInfo{}, false
		}

		src, ok := names[coll.Name]
		if !ok {
			return nameInfo{}, false
		}

		switch idx := x.Index.(type) {
		case *ast.IntLiteral:
			i := int(idx.Value)
			if i < 0 || i >= len(src.ids) {
				return nameInfo{}, false
			}

			return nameInfo{ids: []int{src.ids[i]}}, true
		case *ast.RangeExpr:
			lo, ok1 := evalConstInt(idx.Lo)
			hi, ok2 := evalConstInt(idx.Hi)

			if !ok1 || !ok2 || lo < 0 || hi >= len(src.ids) || lo > hi {
				return nameInfo{}, false
			}

			return nameInfo{ids: append([]int{}, src.ids[lo:hi+1]...)}, true
		default:
			return nameInfo{}, false
		}
	case *ast.Concatenation:
		l, ok1 := resolveAliasExpr(names, x.Left)
		r, ok2 := resolveAliasExpr(names, x.Right)

		if !ok1 || !ok2 {
			return nameInfo{}, false
		}

		return nameInfo{ids: append(append([]int{}, l.ids...), r.ids...)}, true
	default:
		return nameInfo{}, false
	}
}

func checkContiguous(nodeID string, found map[int]bool, sub cerr.AnnotationSubKind) error {
	ids := make([]int, 0, len(found))
	for id := range found {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	for i, id := range ids {
		if i != id {
			return cerr.NewAnnotation(sub, nodeID, "missing index %d, next was %d", i, id)
		}
	}

	return nil
}
