// Package parse turns OpenQASM-3.1 snippet text into the compiler/ast
// tree, recognizing the leqo annotation grammar of spec.md §6 as a
// sidecar on the following statement.
package parse

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/LEQO-Framework/leqo-backend/compiler/ast"
)

type (
	// State is parser state for one snippet.
	State struct {
		b   []byte
		lx  *lexer
		pos int

		pending []ast.Annotation
	}
)

// Parse parses text into a Program.
func Parse(ctx context.Context, text []byte) (*ast.Program, error) {
	s := &State{b: text, lx: newLexer(text)}

	prog, err := s.parseProgram()
	if err != nil {
		return nil, errors.Wrap(err, "parse snippet")
	}

	tlog.SpanFromContext(ctx).Printw("snippet parsed", "statements", len(prog.Statements))

	return prog, nil
}

func (s *State) peek() (token, error) {
	return s.lx.next(s.pos)
}

func (s *State) advance() (token, error) {
	t, err := s.lx.next(s.pos)
	if err != nil {
		return t, err
	}

	s.pos = t.end

	return t, nil
}

func (s *State) expectPunct(p string) error {
	t, err := s.advance()
	if err != nil {
		return err
	}

	if t.kind != tPunct || t.text != p {
		return errors.New("expected %q, got %q at %d", p, t.text, t.pos)
	}

	return nil
}

func (s *State) atPunct(p string) bool {
	t, err := s.peek()

	return err == nil && t.kind == tPunct && t.text == p
}

func (s *State) atIdent(kw string) bool {
	t, err := s.peek()

	return err == nil && t.kind == tIdent && t.text == kw
}

func (s *State) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}

	for {
		t, err := s.peek()
		if err != nil {
			return nil, err
		}

		if t.kind == tEOF {
			break
		}

		if t.kind == tAnnotation {
			_, _ = s.advance()

			ann, err := parseAnnotationLine(t.text, t.pos, t.end)
			if err != nil {
				return nil, err
			}

			s.pending = append(s.pending, ann)

			continue
		}

		if t.kind == tIdent && t.text == "OPENQASM" {
			if err := s.skipStatement(); err != nil {
				return nil, err
			}

			continue
		}

		stmt, err := s.parseStatement()
		if err != nil {
			return nil, err
		}

		prog.Statements = append(prog.Statements, stmt)
	}

	return prog, nil
}

// skipStatement consumes tokens up to (and including) the next top-level
// ';', used for statement forms this service never needs to inspect
// (e.g. the OPENQASM version pragma).
func (s *State) skipStatement() error {
	depth := 0

	for {
		t, err := s.advance()
		if err != nil {
			return err
		}

		if t.kind == tEOF {
			return errors.New("unterminated statement")
		}

		if t.kind == tPunct {
			switch t.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			case ";":
				if depth <= 0 {
					return nil
				}
			}
		}
	}
}

func parseAnnotationLine(text string, pos, end int) (ast.Annotation, error) {
	// text is "@keyword rest-of-line"
	body := text[1:]

	i := 0
	for i < len(body) && body[i] != ' ' && body[i] != '\t' {
		i++
	}

	kw := body[:i]

	for i < len(body) && (body[i] == ' ' || body[i] == '\t') {
		i++
	}

	args := body[i:]

	return ast.Annotation{
		Base:    ast.Base{Pos: pos, End: end},
		Keyword: kw,
		Args:    args,
	}, nil
}

func (s *State) takePending() []ast.Annotation {
	p := s.pending
	s.pending = nil

	return p
}

func (s *State) parseStatement() (ast.Statement, error) {
	anns := s.takePending()

	t, err := s.peek()
	if err != nil {
		return nil, err
	}

	var stmt ast.Statement

	switch {
	case t.kind == tIdent && t.text == "include":
		stmt, err = s.parseInclude()
	case t.kind == tIdent && t.text == "qubit":
		stmt, err = s.parseQubitDecl()
	case t.kind == tIdent && isClassicalType(t.text):
		stmt, err = s.parseClassicalDecl()
	case t.kind == tIdent && t.text == "const":
		stmt, err = s.parseClassicalDecl()
	case t.kind == tIdent && t.text == "let":
		stmt, err = s.parseAliasDecl()
	case t.kind == tIdent && t.text == "gate":
		stmt, err = s.parseGateDecl()
	case t.kind == tIdent && t.text == "measure":
		stmt, err = s.parseMeasureStatement()
	case t.kind == tIdent && t.text == "reset":
		stmt, err = s.parseReset()
	case t.kind == tIdent && t.text == "if":
		stmt, err = s.parseIf()
	default:
		stmt, err = s.parseGateCallOrRaw()
	}

	if err != nil {
		return nil, err
	}

	ast.SetAnnotations(stmt, anns)

	return stmt, nil
}

func isClassicalType(s string) bool {
	switch s {
	case "bit", "int", "uint", "float", "bool", "angle", "complex":
		return true
	default:
		return false
	}
}

func (s *State) parseInclude() (ast.Statement, error) {
	st, _ := s.advance() // "include"

	path, err := s.advance()
	if err != nil {
		return nil, err
	}

	if path.kind != tString {
		return nil, errors.New("expected string after include, got %q", path.text)
	}

	if err := s.expectPunct(";"); err != nil {
		return nil, err
	}

	return &ast.Include{Base: ast.Base{Pos: st.pos, End: path.end}, Path: path.text}, nil
}

func (s *State) parseQubitDecl() (ast.Statement, error) {
	st, _ := s.advance() // "qubit"

	var size ast.Expr

	if s.atPunct("[") {
		_, _ = s.advance()

		e, err := s.parseExpr()
		if err != nil {
			return nil, err
		}

		size = e

		if err := s.expectPunct("]"); err != nil {
			return nil, err
		}
	}

	name, err := s.advance()
	if err != nil {
		return nil, err
	}

	if name.kind != tIdent {
		return nil, errors.New("expected identifier, got %q", name.text)
	}

	if err := s.expectPunct(";"); err != nil {
		return nil, err
	}

	return &ast.QubitDecl{Base: ast.Base{Pos: st.pos, End: name.end}, Name: name.text, Size: size}, nil
}

func (s *State) parseClassicalDecl() (ast.Statement, error) {
	st, _ := s.peek()

	isConst := false

	if s.atIdent("const") {
		isConst = true
		_, _ = s.advance()
	}

	typeTok, err := s.advance()
	if err != nil {
		return nil, err
	}

	var size ast.Expr

	if s.atPunct("[") {
		_, _ = s.advance()

		e, err := s.parseExpr()
		if err != nil {
			return nil, err
		}

		size = e

		if err := s.expectPunct("]"); err != nil {
			return nil, err
		}
	}

	name, err := s.advance()
	if err != nil {
		return nil, err
	}

	if name.kind != tIdent {
		return nil, errors.New("expected identifier, got %q", name.text)
	}

	var init ast.Expr

	if s.atPunct("=") {
		_, _ = s.advance()

		init, err = s.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	end, err := s.advance()
	if err != nil {
		return nil, err
	}

	if end.text != ";" {
		return nil, errors.New("expected ';', got %q", end.text)
	}

	return &ast.ClassicalDecl{
		Base:  ast.Base{Pos: st.pos, End: end.end},
		Name:  name.text,
		Type:  ast.ClassicalType(typeTok.text),
		Size:  size,
		Init:  init,
		Const: isConst,
	}, nil
}

func (s *State) parseAliasDecl() (ast.Statement, error) {
	st, _ := s.advance() // "let"

	name, err := s.advance()
	if err != nil {
		return nil, err
	}

	if err := s.expectPunct("="); err != nil {
		return nil, err
	}

	value, err := s.parseExpr()
	if err != nil {
		return nil, err
	}

	end, err := s.advance()
	if err != nil {
		return nil, err
	}

	if end.text != ";" {
		return nil, errors.New("expected ';', got %q", end.text)
	}

	return &ast.AliasDecl{Base: ast.Base{Pos: st.pos, End: end.end}, Name: name.text, Value: value}, nil
}

func (s *State) parseGateDecl() (ast.Statement, error) {
	st, _ := s.advance() // "gate"

	name, err := s.advance()
	if err != nil {
		return nil, err
	}

	var params []string

	if s.atPunct("(") {
		_, _ = s.advance()

		for !s.atPunct(")") {
			p, err := s.advance()
			if err != nil {
				return nil, err
			}

			if p.kind == tIdent {
				params = append(params, p.text)
			}

			if s.atPunct(",") {
				_, _ = s.advance()
			}
		}

		_, _ = s.advance() // ")"
	}

	var qubits []string

	for !s.atPunct("{") {
		q, err := s.advance()
		if err != nil {
			return nil, err
		}

		if q.kind == tIdent {
			qubits = append(qubits, q.text)
		}

		if s.atPunct(",") {
			_, _ = s.advance()
		}
	}

	body, end, err := s.parseBlockBody()
	if err != nil {
		return nil, err
	}

	return &ast.GateDecl{
		Base:   ast.Base{Pos: st.pos, End: end},
		Name:   name.text,
		Params: params,
		Qubits: qubits,
		Body:   body,
	}, nil
}

func (s *State) parseBlockBody() ([]ast.Statement, int, error) {
	if err := s.expectPunct("{"); err != nil {
		return nil, 0, err
	}

	var stmts []ast.Statement

	for !s.atPunct("}") {
		stmt, err := s.parseStatement()
		if err != nil {
			return nil, 0, err
		}

		stmts = append(stmts, stmt)
	}

	end, err := s.advance() // "}"
	if err != nil {
		return nil, 0, err
	}

	return stmts, end.end, nil
}

func (s *State) parseMeasureStatement() (ast.Statement, error) {
	st, _ := s.advance() // "measure"

	src, err := s.parseExpr()
	if err != nil {
		return nil, err
	}

	end, err := s.advance()
	if err != nil {
		return nil, err
	}

	if end.text != ";" {
		return nil, errors.New("expected ';', got %q", end.text)
	}

	return &ast.Measure{Base: ast.Base{Pos: st.pos, End: end.end}, Source: src}, nil
}

func (s *State) parseReset() (ast.Statement, error) {
	st, _ := s.advance() // "reset"

	target, err := s.parseExpr()
	if err != nil {
		return nil, err
	}

	end, err := s.advance()
	if err != nil {
		return nil, err
	}

	if end.text != ";" {
		return nil, errors.New("expected ';', got %q", end.text)
	}

	return &ast.Reset{Base: ast.Base{Pos: st.pos, End: end.end}, Target: target}, nil
}

func (s *State) parseIf() (ast.Statement, error) {
	st, _ := s.advance() // "if"

	if err := s.expectPunct("("); err != nil {
		return nil, err
	}

	cond, err := s.parseExpr()
	if err != nil {
		return nil, err
	}

	if err := s.expectPunct(")"); err != nil {
		return nil, err
	}

	then, end, err := s.parseBlockBody()
	if err != nil {
		return nil, err
	}

	var els []ast.Statement

	if s.atIdent("else") {
		_, _ = s.advance()

		els, end, err = s.parseBlockBody()
		if err != nil {
			return nil, err
		}
	}

	return &ast.If{Base: ast.Base{Pos: st.pos, End: end}, Cond: cond, Then: then, Else: els}, nil
}

// parseGateCallOrRaw handles `name(params) args;`, `target = measure
// expr;`, and anything else not recognized above by falling back to a
// verbatim Raw statement spanning to the next top-level ';'.
func (s *State) parseGateCallOrRaw() (ast.Statement, error) {
	st, _ := s.peek()
	startPos := st.pos

	// lookahead: "ident = measure ..." is a Measure with a target.
	if st.kind == tIdent {
		save := s.pos
		_, _ = s.advance()

		if s.atPunct("=") {
			_, _ = s.advance()

			if s.atIdent("measure") {
				_, _ = s.advance()

				src, err := s.parseExpr()
				if err != nil {
					return nil, err
				}

				end, err := s.advance()
				if err != nil {
					return nil, err
				}

				if end.text != ";" {
					return nil, errors.New("expected ';', got %q", end.text)
				}

				target := &ast.Ident{Base: ast.Base{Pos: st.pos, End: st.end}, Name: st.text}

				return &ast.Measure{
					Base:   ast.Base{Pos: startPos, End: end.end},
					Target: target,
					Source: src,
				}, nil
			}
		}

		s.pos = save
	}

	// gate call: [ modifier "@" ]* ident [ "(" params ")" ] args ";"
	if st.kind == tIdent {
		save := s.pos
		name, _ := s.advance()

		var mods []string

		for s.atPunct("@") {
			_, _ = s.advance()

			m, err := s.advance()
			if err != nil {
				return nil, err
			}

			mods = append(mods, name.text)
			name = m
		}

		var params []ast.Expr

		if s.atPunct("(") {
			_, _ = s.advance()

			for !s.atPunct(")") {
				e, err := s.parseExpr()
				if err != nil {
					return nil, err
				}

				params = append(params, e)

				if s.atPunct(",") {
					_, _ = s.advance()
				}
			}

			_, _ = s.advance() // ")"
		}

		var args []ast.Expr

		for !s.atPunct(";") {
			e, err := s.parseExpr()
			if err != nil {
				s.pos = save

				return s.parseRaw(startPos)
			}

			args = append(args, e)

			if s.atPunct(",") {
				_, _ = s.advance()
			}
		}

		end, err := s.advance() // ";"
		if err != nil {
			return nil, err
		}

		return &ast.GateCall{
			Base:      ast.Base{Pos: startPos, End: end.end},
			Name:      name.text,
			Modifiers: mods,
			Params:    params,
			Args:      args,
		}, nil
	}

	return s.parseRaw(startPos)
}

func (s *State) parseRaw(startPos int) (ast.Statement, error) {
	s.pos = startPos

	if err := s.skipStatement(); err != nil {
		return nil, err
	}

	return &ast.Raw{
		Base: ast.Base{Pos: startPos, End: s.pos},
		Text: string(s.b[startPos:s.pos]),
	}, nil
}

