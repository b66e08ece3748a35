package prepare

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/LEQO-Framework/leqo-backend/compiler/ast"
)

// builtinIdents are never renamed regardless of how they appear in a
// snippet (stdgates.inc gate names, the OPENQASM pragma's identifiers).
var builtinIdents = map[string]bool{
	"stdgates.inc": true,
	"h": true, "x": true, "y": true, "z": true, "s": true, "t": true,
	"cx": true, "cz": true, "ccx": true, "swap": true, "rx": true, "ry": true, "rz": true,
	"U": true, "gphase": true,
}

// prefixFor derives a node-unique, stable identifier prefix from nodeID,
// per spec.md §4.3's "Renaming" contract: no two prepared nodes share a
// declared identifier.
func prefixFor(nodeID string) string {
	sum := sha1.Sum([]byte(nodeID))

	return "leqo_" + hex.EncodeToString(sum[:])[:8] + "_"
}

// Rename rewrites every identifier prog declares (qubits, classical
// vars, gates, aliases) to carry prefix, along with every reference to
// those identifiers. Built-in identifiers are left untouched.
func Rename(prog *ast.Program, nodeID string) {
	prefix := prefixFor(nodeID)
	declared := map[string]bool{}

	collectDeclared(prog.Statements, declared)

	renameMap := map[string]string{}
	for name := range declared {
		if builtinIdents[name] {
			continue
		}

		renameMap[name] = prefix + name
	}

	renameStatements(prog.Statements, renameMap)
}

func collectDeclared(stmts []ast.Statement, out map[string]bool) {
	for _, stmt := range stmts {
		switch x := stmt.(type) {
		case *ast.QubitDecl:
			out[x.Name] = true
		case *ast.ClassicalDecl:
			out[x.Name] = true
		case *ast.AliasDecl:
			out[x.Name] = true
		case *ast.GateDecl:
			out[x.Name] = true
			collectDeclared(x.Body, out)
		case *ast.If:
			collectDeclared(x.Then, out)
			collectDeclared(x.Else, out)
		}
	}
}

func renameStatements(stmts []ast.Statement, m map[string]string) {
	for _, stmt := range stmts {
		switch x := stmt.(type) {
		case *ast.QubitDecl:
			x.Name = apply(m, x.Name)
			renameExpr(x.Size, m)
		case *ast.ClassicalDecl:
			x.Name = apply(m, x.Name)
			renameExpr(x.Size, m)
			renameExpr(x.Init, m)
		case *ast.AliasDecl:
			x.Name = apply(m, x.Name)
			renameExpr(x.Value, m)
		case *ast.GateDecl:
			x.Name = apply(m, x.Name)
			renameStatements(x.Body, m)
		case *ast.GateCall:
			if !builtinIdents[x.Name] {
				x.Name = apply(m, x.Name)
			}

			for _, p := range x.Params {
				renameExpr(p, m)
			}

			for _, a := range x.Args {
				renameExpr(a, m)
			}
		case *ast.Measure:
			renameExpr(x.Target, m)
			renameExpr(x.Source, m)
		case *ast.Reset:
			renameExpr(x.Target, m)
		case *ast.If:
			renameExpr(x.Cond, m)
			renameStatements(x.Then, m)
			renameStatements(x.Else, m)
		}
	}
}

func renameExpr(e ast.Expr, m map[string]string) {
	switch x := e.(type) {
	case nil:
	case *ast.Ident:
		x.Name = apply(m, x.Name)
	case *ast.IndexExpr:
		renameExpr(x.Collection, m)
		renameExpr(x.Index, m)
	case *ast.RangeExpr:
		renameExpr(x.Lo, m)
		renameExpr(x.Hi, m)
	case *ast.Concatenation:
		renameExpr(x.Left, m)
		renameExpr(x.Right, m)
	case *ast.BinOp:
		renameExpr(x.Left, m)
		renameExpr(x.Right, m)
	}
}

func apply(m map[string]string, name string) string {
	if to, ok := m[name]; ok {
		return to
	}

	return name
}
