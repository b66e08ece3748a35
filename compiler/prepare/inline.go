package prepare

import "github.com/LEQO-Framework/leqo-backend/compiler/ast"

// InlineAliases drops every `let name = expr;` whose right-hand side is
// a constant slice/concat over an earlier alias or qubit declaration,
// rewriting later references to name as a direct copy of expr. Aliases
// carrying @leqo.output or @leqo.reusable survive, per spec.md §4.3:
// they are the contract surface IO parsing reads.
func InlineAliases(prog *ast.Program) {
	subst := map[string]ast.Expr{}

	var kept []ast.Statement

	for _, stmt := range prog.Statements {
		alias, ok := stmt.(*ast.AliasDecl)
		if !ok {
			kept = append(kept, substituteStatement(stmt, subst))

			continue
		}

		resolved := substituteExpr(alias.Value, subst)

		if hasAnnotation(alias.Annotations(), "leqo.output", "leqo.reusable") {
			alias.Value = resolved
			kept = append(kept, alias)

			continue
		}

		if isConstIndexSetExpr(resolved) {
			subst[alias.Name] = resolved

			continue
		}

		alias.Value = resolved
		kept = append(kept, alias)
	}

	prog.Statements = kept
}

func hasAnnotation(anns []ast.Annotation, keywords ...string) bool {
	for _, a := range anns {
		for _, kw := range keywords {
			if a.Keyword == kw {
				return true
			}
		}
	}

	return false
}

// isConstIndexSetExpr reports whether e is built entirely from
// identifiers, index/range expressions, and concatenations — the shape
// spec.md §4.3 allows alias inlining to fold away.
func isConstIndexSetExpr(e ast.Expr) bool {
	switch x := e.(type) {
	case *ast.Ident:
		return true
	case *ast.IndexExpr:
		return isConstIndexSetExpr(x.Collection)
	case *ast.Concatenation:
		return isConstIndexSetExpr(x.Left) && isConstIndexSetExpr(x.Right)
	default:
		return false
	}
}

func substituteStatement(stmt ast.Statement, subst map[string]ast.Expr) ast.Statement {
	switch x := stmt.(type) {
	case *ast.ClassicalDecl:
		x.Init = substituteExpr(x.Init, subst)
	case *ast.GateCall:
		for i, p := range x.Params {
			x.Params[i] = substituteExpr(p, subst)
		}

		for i, a := range x.Args {
			x.Args[i] = substituteExpr(a, subst)
		}
	case *ast.Measure:
		x.Target = substituteExpr(x.Target, subst)
		x.Source = substituteExpr(x.Source, subst)
	case *ast.Reset:
		x.Target = substituteExpr(x.Target, subst)
	case *ast.If:
		x.Cond = substituteExpr(x.Cond, subst)

		for i, s := range x.Then {
			x.Then[i] = substituteStatement(s, subst)
		}

		for i, s := range x.Else {
			x.Else[i] = substituteStatement(s, subst)
		}
	}

	return stmt
}

func substituteExpr(e ast.Expr, subst map[string]ast.Expr) ast.Expr {
	switch x := e.(type) {
	case nil:
		return nil
	case *ast.Ident:
		if to, ok := subst[x.Name]; ok {
			return to
		}

		return x
	case *ast.IndexExpr:
		x.Collection = substituteExpr(x.Collection, subst)
		x.Index = substituteExpr(x.Index, subst)

		return x
	case *ast.RangeExpr:
		x.Lo = substituteExpr(x.Lo, subst)
		x.Hi = substituteExpr(x.Hi, subst)

		return x
	case *ast.Concatenation:
		x.Left = substituteExpr(x.Left, subst)
		x.Right = substituteExpr(x.Right, subst)

		return x
	case *ast.BinOp:
		x.Left = substituteExpr(x.Left, subst)
		x.Right = substituteExpr(x.Right, subst)

		return x
	default:
		return e
	}
}
