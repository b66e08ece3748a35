// Package format serializes a merged compiler/ast.Program back into
// canonical OpenQASM-3.1 text, the S6 postprocessing step.
package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/LEQO-Framework/leqo-backend/compiler/ast"
)

// Format renders prog as OpenQASM-3.1 source, appending to b.
func Format(ctx context.Context, b []byte, prog *ast.Program) ([]byte, error) {
	b = append(b, "OPENQASM 3.1;\n"...)

	for _, stmt := range prog.Statements {
		var err error

		b, err = formatStatement(ctx, b, stmt, 0)
		if err != nil {
			return nil, errors.Wrap(err, "statement")
		}
	}

	return b, nil
}

func formatStatement(ctx context.Context, b []byte, x ast.Statement, d int) (_ []byte, err error) {
	for _, a := range x.Annotations() {
		b = app(b, d, "@%s %s\n", a.Keyword, a.Args)
	}

	switch x := x.(type) {
	case *ast.Include:
		b = app(b, d, "include %q;\n", x.Path)
	case *ast.QubitDecl:
		if x.Size != nil {
			b = app(b, d, "qubit[")

			b, err = formatExpr(b, x.Size)
			if err != nil {
				return nil, errors.Wrap(err, "qubit size")
			}

			b = append(b, "] "...)
			b = append(b, x.Name...)
			b = append(b, ";\n"...)
		} else {
			b = app(b, d, "qubit %s;\n", x.Name)
		}
	case *ast.ClassicalDecl:
		b, err = formatClassicalDecl(b, x, d)
		if err != nil {
			return nil, err
		}
	case *ast.AliasDecl:
		b = app(b, d, "let %s = ", x.Name)

		b, err = formatExpr(b, x.Value)
		if err != nil {
			return nil, errors.Wrap(err, "alias value")
		}

		b = append(b, ";\n"...)
	case *ast.GateDecl:
		b, err = formatGateDecl(ctx, b, x, d)
		if err != nil {
			return nil, err
		}
	case *ast.GateCall:
		b, err = formatGateCall(b, x, d)
		if err != nil {
			return nil, err
		}
	case *ast.Measure:
		b, err = formatMeasure(b, x, d)
		if err != nil {
			return nil, err
		}
	case *ast.Reset:
		b = app(b, d, "reset ")

		b, err = formatExpr(b, x.Target)
		if err != nil {
			return nil, errors.Wrap(err, "reset target")
		}

		b = append(b, ";\n"...)
	case *ast.If:
		b, err = formatIf(ctx, b, x, d)
		if err != nil {
			return nil, err
		}
	case *ast.Raw:
		b = app(b, d, "%s\n", x.Text)
	default:
		return nil, errors.New("unsupported statement: %T", x)
	}

	return b, nil
}

func formatClassicalDecl(b []byte, x *ast.ClassicalDecl, d int) (_ []byte, err error) {
	if x.Const {
		b = app(b, d, "const %s", string(x.Type))
	} else {
		b = app(b, d, "%s", string(x.Type))
	}

	if x.Size != nil {
		b = append(b, '[')

		b, err = formatExpr(b, x.Size)
		if err != nil {
			return nil, errors.Wrap(err, "decl size")
		}

		b = append(b, ']')
	}

	b = append(b, ' ')
	b = append(b, x.Name...)

	if x.Init != nil {
		b = append(b, " = "...)

		b, err = formatExpr(b, x.Init)
		if err != nil {
			return nil, errors.Wrap(err, "decl init")
		}
	}

	b = append(b, ";\n"...)

	return b, nil
}

func formatGateDecl(ctx context.Context, b []byte, x *ast.GateDecl, d int) (_ []byte, err error) {
	b = app(b, d, "gate %s", x.Name)

	if len(x.Params) != 0 {
		b = append(b, '(')

		for i, p := range x.Params {
			if i != 0 {
				b = append(b, ", "...)
			}

			b = append(b, p...)
		}

		b = append(b, ')')
	}

	b = append(b, ' ')

	for i, q := range x.Qubits {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = append(b, q...)
	}

	b = append(b, " {\n"...)

	for _, s := range x.Body {
		b, err = formatStatement(ctx, b, s, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "gate body")
		}
	}

	b = app(b, d, "}\n")

	return b, nil
}

func formatGateCall(b []byte, x *ast.GateCall, d int) (_ []byte, err error) {
	b = app(b, d, "")

	for _, m := range x.Modifiers {
		b = append(b, m...)
		b = append(b, " @ "...)
	}

	b = append(b, x.Name...)

	if len(x.Params) != 0 {
		b = append(b, '(')

		for i, p := range x.Params {
			if i != 0 {
				b = append(b, ", "...)
			}

			b, err = formatExpr(b, p)
			if err != nil {
				return nil, errors.Wrap(err, "gate param")
			}
		}

		b = append(b, ')')
	}

	b = append(b, ' ')

	for i, a := range x.Args {
		if i != 0 {
			b = append(b, ", "...)
		}

		b, err = formatExpr(b, a)
		if err != nil {
			return nil, errors.Wrap(err, "gate arg")
		}
	}

	b = append(b, ";\n"...)

	return b, nil
}

func formatMeasure(b []byte, x *ast.Measure, d int) (_ []byte, err error) {
	b = app(b, d, "")

	if x.Target != nil {
		b, err = formatExpr(b, x.Target)
		if err != nil {
			return nil, errors.Wrap(err, "measure target")
		}

		b = append(b, " = "...)
	}

	b = append(b, "measure "...)

	b, err = formatExpr(b, x.Source)
	if err != nil {
		return nil, errors.Wrap(err, "measure source")
	}

	b = append(b, ";\n"...)

	return b, nil
}

func formatIf(ctx context.Context, b []byte, x *ast.If, d int) (_ []byte, err error) {
	b = app(b, d, "if (")

	b, err = formatExpr(b, x.Cond)
	if err != nil {
		return nil, errors.Wrap(err, "if cond")
	}

	b = append(b, ") {\n"...)

	for _, s := range x.Then {
		b, err = formatStatement(ctx, b, s, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "then block")
		}
	}

	b = app(b, d, "}")

	if x.Else != nil {
		b = append(b, " else {\n"...)

		for _, s := range x.Else {
			b, err = formatStatement(ctx, b, s, d+1)
			if err != nil {
				return nil, errors.Wrap(err, "else block")
			}
		}

		b = app(b, d, "}")
	}

	b = append(b, '\n')

	return b, nil
}

func formatExpr(b []byte, x ast.Expr) (_ []byte, err error) {
	switch x := x.(type) {
	case *ast.RawExpr:
		b = append(b, x.Text...)
	case *ast.Ident:
		b = append(b, x.Name...)
	case *ast.IntLiteral:
		b = hfmt.Appendf(b, "%d", x.Value)
	case *ast.FloatLiteral:
		b = hfmt.Appendf(b, "%v", x.Value)
	case *ast.IndexExpr:
		b, err = formatExpr(b, x.Collection)
		if err != nil {
			return nil, err
		}

		b = append(b, '[')

		b, err = formatExpr(b, x.Index)
		if err != nil {
			return nil, err
		}

		b = append(b, ']')
	case *ast.RangeExpr:
		b, err = formatExpr(b, x.Lo)
		if err != nil {
			return nil, err
		}

		b = append(b, ':')

		b, err = formatExpr(b, x.Hi)
		if err != nil {
			return nil, err
		}
	case *ast.Concatenation:
		b, err = formatExpr(b, x.Left)
		if err != nil {
			return nil, err
		}

		b = append(b, " ++ "...)

		b, err = formatExpr(b, x.Right)
		if err != nil {
			return nil, err
		}
	case *ast.BinOp:
		if len(x.Op) > 0 && x.Op[0] == 'u' {
			b = append(b, x.Op[1:]...)

			return formatExpr(b, x.Left)
		}

		b, err = formatExpr(b, x.Left)
		if err != nil {
			return nil, err
		}

		b = append(b, ' ')
		b = append(b, x.Op...)
		b = append(b, ' ')

		b, err = formatExpr(b, x.Right)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}

	return b, nil
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"

	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)

	return b
}
