// Package cerr defines the exhaustive error kinds the compile pipeline can
// surface, per the taxonomy a caller needs to render a structured failure.
package cerr

import (
	stderrors "errors"
	"fmt"

	"tlog.app/go/errors"
)

type (
	// Kind is one of the exhaustive set of error categories the pipeline
	// reports. Callers switch on Kind, not on error string contents.
	Kind string

	// AnnotationSubKind further classifies a Kind == AnnotationError.
	AnnotationSubKind string

	// Error is the structured failure every pipeline stage returns on the
	// first error encountered. It always carries the offending node id
	// when one is known.
	Error struct {
		Kind   Kind
		Sub    AnnotationSubKind
		NodeID string
		cause  error
	}
)

const (
	CyclicGraph          Kind = "CyclicGraph"
	PortTypeMismatch     Kind = "PortTypeMismatch"
	PortFanInViolation   Kind = "PortFanInViolation"
	UnknownNodeKind      Kind = "UnknownNodeKind"
	MissingSnippet       Kind = "MissingSnippet"
	SnippetParseError    Kind = "SnippetParseError"
	AnnotationError      Kind = "AnnotationError"
	SizeMismatch         Kind = "SizeMismatch"
	UnrollBoundExceeded  Kind = "UnrollBoundExceeded"
	AllocationInfeasible Kind = "AllocationInfeasible"
	PostprocessError     Kind = "PostprocessError"
	Cancelled            Kind = "Cancelled"
	Timeout              Kind = "Timeout"
)

const (
	MissingIndex           AnnotationSubKind = "MissingIndex"
	DuplicateIndex         AnnotationSubKind = "DuplicateIndex"
	NonContiguousIndex     AnnotationSubKind = "NonContiguousIndex"
	WrongHost              AnnotationSubKind = "WrongHost"
	MultipleOnStatement    AnnotationSubKind = "MultipleOnStatement"
	OutputOverlap          AnnotationSubKind = "OutputOverlap"
	ReusableOverlapsOutput AnnotationSubKind = "ReusableOverlapsOutput"
)

// New builds an Error of the given kind for the given node, with no
// separate cause: its message is formatted from format and args.
func New(kind Kind, nodeID string, format string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		NodeID: nodeID,
		cause:  errors.New(format, args...),
	}
}

// Wrap builds an Error of the given kind, wrapping an existing error while
// preserving its chain for %+v / Unwrap.
func Wrap(kind Kind, nodeID string, err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}

	return &Error{
		Kind:   kind,
		NodeID: nodeID,
		cause:  errors.Wrap(err, format, args...),
	}
}

// NewAnnotation builds an AnnotationError of the given sub-kind.
func NewAnnotation(sub AnnotationSubKind, nodeID string, format string, args ...any) *Error {
	return &Error{
		Kind:   AnnotationError,
		Sub:    sub,
		NodeID: nodeID,
		cause:  errors.New(format, args...),
	}
}

func (e *Error) Error() string {
	if e.Sub != "" {
		return fmt.Sprintf("%s{%s} at node %q: %v", e.Kind, e.Sub, e.NodeID, e.cause)
	}

	if e.NodeID != "" {
		return fmt.Sprintf("%s at node %q: %v", e.Kind, e.NodeID, e.cause)
	}

	return fmt.Sprintf("%s: %v", e.Kind, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// As reports whether err is (or wraps) a *cerr.Error, returning it.
func As(err error) (*Error, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e, true
		}

		err = stderrors.Unwrap(err)
	}

	return nil, false
}

// KindOf returns the Kind of err if it is (or wraps) a *cerr.Error, or ""
// otherwise.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}

	return ""
}
