// Package postprocess implements S6: include/gate-definition dedup and
// canonical serialization of the merged program.
package postprocess

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/LEQO-Framework/leqo-backend/compiler/ast"
	"github.com/LEQO-Framework/leqo-backend/compiler/cerr"
	"github.com/LEQO-Framework/leqo-backend/compiler/format"
)

// Run dedups includes and identical gate definitions in prog, then
// serializes it to canonical OpenQASM-3.1 text. Any error here reflects
// a malformed merged AST, i.e. an upstream defect, per spec.md §4.6.
func Run(ctx context.Context, prog *ast.Program) ([]byte, error) {
	dedupIncludes(prog)
	dedupGateDecls(ctx, prog)

	b, err := format.Format(ctx, nil, prog)
	if err != nil {
		tlog.SpanFromContext(ctx).Printw("internal error", "err", err)

		return nil, cerr.Wrap(cerr.PostprocessError, "", err, "serialize merged program")
	}

	tlog.SpanFromContext(ctx).Printw("postprocessed", "bytes", len(b))

	return b, nil
}

func dedupIncludes(prog *ast.Program) {
	seen := map[string]bool{}

	var kept []ast.Statement

	for _, stmt := range prog.Statements {
		inc, ok := stmt.(*ast.Include)
		if !ok {
			kept = append(kept, stmt)

			continue
		}

		if seen[inc.Path] {
			continue
		}

		seen[inc.Path] = true
		kept = append(kept, stmt)
	}

	prog.Statements = kept
}

func dedupGateDecls(ctx context.Context, prog *ast.Program) {
	seen := map[string]string{} // body signature -> first gate's name
	rename := map[string]string{}

	var kept []ast.Statement

	for _, stmt := range prog.Statements {
		gate, ok := stmt.(*ast.GateDecl)
		if !ok {
			kept = append(kept, stmt)

			continue
		}

		sig, err := gateSignature(ctx, gate)
		if err != nil {
			kept = append(kept, stmt)

			continue
		}

		if first, dup := seen[sig]; dup {
			rename[gate.Name] = first

			continue
		}

		seen[sig] = gate.Name
		kept = append(kept, stmt)
	}

	if len(rename) == 0 {
		prog.Statements = kept

		return
	}

	for _, stmt := range kept {
		applyGateRename(stmt, rename)
	}

	prog.Statements = kept
}

// gateSignature renders a gate declaration's parameter/qubit arity and
// body as canonical text, used purely as a dedup key; formatting errors
// here just mean this gate is skipped from dedup, not a hard failure.
func gateSignature(ctx context.Context, g *ast.GateDecl) (string, error) {
	b, err := format.Format(ctx, nil, &ast.Program{Statements: []ast.Statement{&ast.GateDecl{
		Name:   "_",
		Params: g.Params,
		Qubits: g.Qubits,
		Body:   g.Body,
	}}})
	if err != nil {
		return "", errors.Wrap(err, "gate signature")
	}

	return string(b), nil
}

func applyGateRename(stmt ast.Statement, rename map[string]string) {
	call, ok := stmt.(*ast.GateCall)
	if ok {
		if to, dup := rename[call.Name]; dup {
			call.Name = to
		}

		return
	}

	if ifs, ok := stmt.(*ast.If); ok {
		for _, s := range ifs.Then {
			applyGateRename(s, rename)
		}

		for _, s := range ifs.Else {
			applyGateRename(s, rename)
		}
	}
}
