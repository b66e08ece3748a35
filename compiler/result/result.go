// Package result assembles the S7 outcome of a compile request: either
// the merged OpenQASM-3.1 text or a structured failure, plus any
// non-fatal warnings collected along the way.
package result

import (
	"github.com/LEQO-Framework/leqo-backend/compiler/cerr"
)

type (
	// Warning is a non-fatal observation attached to an otherwise
	// successful compile, e.g. an unused @leqo.reusable alias.
	Warning struct {
		NodeID  string
		Message string
	}

	// Result is the outcome of one compile request.
	Result struct {
		Program  []byte // canonical OpenQASM-3.1 text, nil on failure
		Width    int    // N, the merged register's width
		Warnings []Warning
		Err      *cerr.Error
	}
)

// OK reports whether the compile succeeded.
func (r *Result) OK() bool { return r.Err == nil }

// Success builds a successful Result.
func Success(program []byte, width int, warnings []Warning) *Result {
	return &Result{Program: program, Width: width, Warnings: warnings}
}

// Failure builds a failed Result from err, wrapping it in a cerr.Error
// if it is not already one.
func Failure(err error) *Result {
	if ce, ok := cerr.As(err); ok {
		return &Result{Err: ce}
	}

	return &Result{Err: cerr.Wrap(cerr.PostprocessError, "", err, "internal error")}
}
