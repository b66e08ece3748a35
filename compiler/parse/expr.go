package parse

import (
	"strconv"

	"tlog.app/go/errors"

	"github.com/LEQO-Framework/leqo-backend/compiler/ast"
)

// parseExpr parses a full expression: concatenation binds loosest, then
// comparison/arithmetic, then postfix indexing, then primaries.
func (s *State) parseExpr() (ast.Expr, error) {
	return s.parseConcat()
}

func (s *State) parseConcat() (ast.Expr, error) {
	left, err := s.parseBinary(0)
	if err != nil {
		return nil, err
	}

	for s.atPunct("++") {
		_, _ = s.advance()

		right, err := s.parseBinary(0)
		if err != nil {
			return nil, err
		}

		left = &ast.Concatenation{
			Base:  ast.Base{Pos: exprPos(left), End: exprEnd(right)},
			Left:  left,
			Right: right,
		}
	}

	return left, nil
}

var binPrec = map[string]int{
	"||": 1, "&&": 2,
	"==": 3, "!=": 3, "<": 3, ">": 3, "<=": 3, ">=": 3,
	"+": 4, "-": 4,
	"*": 5, "/": 5, "%": 5,
}

func (s *State) parseBinary(minPrec int) (ast.Expr, error) {
	left, err := s.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		t, err := s.peek()
		if err != nil {
			return nil, err
		}

		if t.kind != tPunct {
			break
		}

		prec, ok := binPrec[t.text]
		if !ok || prec < minPrec {
			break
		}

		_, _ = s.advance()

		right, err := s.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}

		left = &ast.BinOp{
			Base:  ast.Base{Pos: exprPos(left), End: exprEnd(right)},
			Op:    t.text,
			Left:  left,
			Right: right,
		}
	}

	return left, nil
}

func (s *State) parseUnary() (ast.Expr, error) {
	if s.atPunct("-") || s.atPunct("!") {
		op, _ := s.advance()

		e, err := s.parsePostfix()
		if err != nil {
			return nil, err
		}

		return &ast.BinOp{Base: ast.Base{Pos: op.pos, End: exprEnd(e)}, Op: "u" + op.text, Left: e}, nil
	}

	return s.parsePostfix()
}

func (s *State) parsePostfix() (ast.Expr, error) {
	e, err := s.parsePrimary()
	if err != nil {
		return nil, err
	}

	for s.atPunct("[") {
		_, _ = s.advance()

		idx, err := s.parseIndexOrRange()
		if err != nil {
			return nil, err
		}

		end, err := s.advance() // "]"
		if err != nil {
			return nil, err
		}

		if end.text != "]" {
			return nil, errors.New("expected ']', got %q", end.text)
		}

		e = &ast.IndexExpr{Base: ast.Base{Pos: exprPos(e), End: end.end}, Collection: e, Index: idx}
	}

	return e, nil
}

func (s *State) parseIndexOrRange() (ast.Expr, error) {
	lo, err := s.parseBinary(0)
	if err != nil {
		return nil, err
	}

	if s.atPunct(":") {
		_, _ = s.advance()

		hi, err := s.parseBinary(0)
		if err != nil {
			return nil, err
		}

		return &ast.RangeExpr{Base: ast.Base{Pos: exprPos(lo), End: exprEnd(hi)}, Lo: lo, Hi: hi}, nil
	}

	return lo, nil
}

func (s *State) parsePrimary() (ast.Expr, error) {
	t, err := s.advance()
	if err != nil {
		return nil, err
	}

	switch t.kind {
	case tIdent:
		return &ast.Ident{Base: ast.Base{Pos: t.pos, End: t.end}, Name: t.text}, nil
	case tInt:
		v, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "parse int literal")
		}

		return &ast.IntLiteral{Base: ast.Base{Pos: t.pos, End: t.end}, Value: v}, nil
	case tFloat:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, errors.Wrap(err, "parse float literal")
		}

		return &ast.FloatLiteral{Base: ast.Base{Pos: t.pos, End: t.end}, Value: v}, nil
	case tPunct:
		if t.text == "(" {
			e, err := s.parseExpr()
			if err != nil {
				return nil, err
			}

			end, err := s.advance()
			if err != nil {
				return nil, err
			}

			if end.text != ")" {
				return nil, errors.New("expected ')', got %q", end.text)
			}

			return e, nil
		}
	}

	return nil, errors.New("unexpected token %q at %d", t.text, t.pos)
}

func exprPos(e ast.Expr) int {
	if b, ok := baseOf(e); ok {
		return b.Pos
	}

	return 0
}

func exprEnd(e ast.Expr) int {
	if b, ok := baseOf(e); ok {
		return b.End
	}

	return 0
}

func baseOf(e ast.Expr) (ast.Base, bool) {
	switch v := e.(type) {
	case *ast.Ident:
		return v.Base, true
	case *ast.IntLiteral:
		return v.Base, true
	case *ast.FloatLiteral:
		return v.Base, true
	case *ast.IndexExpr:
		return v.Base, true
	case *ast.RangeExpr:
		return v.Base, true
	case *ast.Concatenation:
		return v.Base, true
	case *ast.BinOp:
		return v.Base, true
	default:
		return ast.Base{}, false
	}
}
