// Package ast is the tagged-variant tree this service parses OpenQASM-3.1
// snippets into. Annotations are not a subtype of Statement — each
// Statement carries an optional sidecar list of Annotation records, per
// spec.md §9 ("annotations as a sidecar, not a subclass").
package ast

type (
	// Base carries the source span every node keeps, for diagnostics.
	Base struct {
		Pos int
		End int
	}

	// Annotation is one `@leqo....` line immediately preceding a
	// statement. Args is the remainder of the line after the keyword.
	Annotation struct {
		Base `tlog:",embed"`

		Keyword string
		Args    string
	}

	// Node is any AST node: a Statement, an Expr, or Program itself.
	Node interface{}

	// Expr is any quantum or classical expression.
	Expr interface {
		Node
	}

	// Statement is any top-level or block-level statement.
	Statement interface {
		Node
		Annotations() []Annotation
	}

	annotated struct {
		Anns []Annotation
	}

	// Program is a whole parsed snippet.
	Program struct {
		Base `tlog:",embed"`

		Statements []Statement
	}

	// Include is `include "path";`.
	Include struct {
		Base `tlog:",embed"`
		annotated

		Path string
	}

	// QubitDecl is `qubit[size] name;` or `qubit name;` (size 1).
	QubitDecl struct {
		Base `tlog:",embed"`
		annotated

		Name string
		Size Expr // nil means size 1
	}

	// ClassicalType is one of bit/int/uint/float/bool.
	ClassicalType string

	// ClassicalDecl is `<type>[size] name [= init];`.
	ClassicalDecl struct {
		Base `tlog:",embed"`
		annotated

		Name string
		Type ClassicalType
		Size Expr // nil means default width
		Init Expr // nil means uninitialized
		Const bool
	}

	// AliasDecl is `let name = <expr>;`.
	AliasDecl struct {
		Base `tlog:",embed"`
		annotated

		Name  string
		Value Expr
	}

	// GateDecl is `gate name(params) qubits { body }`.
	GateDecl struct {
		Base `tlog:",embed"`
		annotated

		Name   string
		Params []string
		Qubits []string
		Body   []Statement
	}

	// GateCall is `name(params) qubitArgs;` possibly preceded by modifiers
	// (e.g. `ctrl @ x q;`), captured verbatim in Modifiers.
	GateCall struct {
		Base `tlog:",embed"`
		annotated

		Name      string
		Modifiers []string
		Params    []Expr
		Args      []Expr
	}

	// Measure is `bit-target = measure qubit-expr;` or a bare
	// `measure qubit-expr;` used as an expression elsewhere.
	Measure struct {
		Base `tlog:",embed"`
		annotated

		Target Expr // nil if used as a bare expression statement
		Source Expr
	}

	// Reset is `reset qubit-expr;`.
	Reset struct {
		Base `tlog:",embed"`
		annotated

		Target Expr
	}

	// If is `if (cond) { then } else { els }`. Else may be nil.
	If struct {
		Base `tlog:",embed"`
		annotated

		Cond Expr
		Then []Statement
		Else []Statement
	}

	// Raw is a verbatim passthrough statement this service's parser does
	// not need to understand structurally (barriers, classical
	// assignments, end-of-program pragmas, ...). Text is the exact source
	// slice, kept so S5 can splice it unchanged.
	Raw struct {
		Base `tlog:",embed"`
		annotated

		Text string
	}

	// RawExpr is a classical expression this service does not parse
	// structurally, carried verbatim from a classical-literal node's
	// payload text (e.g. an if-then-else condition).
	RawExpr struct {
		Base `tlog:",embed"`

		Text string
	}

	// Ident is a bare name reference.
	Ident struct {
		Base `tlog:",embed"`

		Name string
	}

	// IntLiteral is an integer literal.
	IntLiteral struct {
		Base `tlog:",embed"`

		Value int64
	}

	// FloatLiteral is a float literal.
	FloatLiteral struct {
		Base `tlog:",embed"`

		Value float64
	}

	// IndexExpr is `collection[index]`.
	IndexExpr struct {
		Base `tlog:",embed"`

		Collection Expr
		Index      Expr
	}

	// RangeExpr is `lo:hi` (inclusive) inside an index expression.
	RangeExpr struct {
		Base `tlog:",embed"`

		Lo Expr
		Hi Expr
	}

	// Concatenation is `lhs ++ rhs`.
	Concatenation struct {
		Base `tlog:",embed"`

		Left  Expr
		Right Expr
	}

	// BinOp is a classical binary expression (`a + b`, `a < b`, ...).
	BinOp struct {
		Base `tlog:",embed"`

		Op    string
		Left  Expr
		Right Expr
	}
)

func (a annotated) Annotations() []Annotation { return a.Anns }

func (x *Include) Annotations() []Annotation       { return x.annotated.Annotations() }
func (x *QubitDecl) Annotations() []Annotation      { return x.annotated.Annotations() }
func (x *ClassicalDecl) Annotations() []Annotation { return x.annotated.Annotations() }
func (x *AliasDecl) Annotations() []Annotation      { return x.annotated.Annotations() }
func (x *GateDecl) Annotations() []Annotation       { return x.annotated.Annotations() }
func (x *GateCall) Annotations() []Annotation       { return x.annotated.Annotations() }
func (x *Measure) Annotations() []Annotation        { return x.annotated.Annotations() }
func (x *Reset) Annotations() []Annotation          { return x.annotated.Annotations() }
func (x *If) Annotations() []Annotation             { return x.annotated.Annotations() }
func (x *Raw) Annotations() []Annotation            { return x.annotated.Annotations() }

// SetAnnotations attaches anns to x, used by the parser right after a
// statement is built from the annotation-line buffer preceding it.
func SetAnnotations(x Statement, anns []Annotation) {
	switch x := x.(type) {
	case *Include:
		x.Anns = anns
	case *QubitDecl:
		x.Anns = anns
	case *ClassicalDecl:
		x.Anns = anns
	case *AliasDecl:
		x.Anns = anns
	case *GateDecl:
		x.Anns = anns
	case *GateCall:
		x.Anns = anns
	case *Measure:
		x.Anns = anns
	case *Reset:
		x.Anns = anns
	case *If:
		x.Anns = anns
	case *Raw:
		x.Anns = anns
	}
}

const (
	BitType   ClassicalType = "bit"
	IntType   ClassicalType = "int"
	UintType  ClassicalType = "uint"
	FloatType ClassicalType = "float"
	BoolType  ClassicalType = "bool"
)
