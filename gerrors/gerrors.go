// Package gerrors defines the error taxonomy used across the generator:
// GrammarError, GrammarConflict, and InternalError. GrammarError and
// InternalError keep the underlying error in a Cause field that Unwrap
// exposes, and numeric ids are rewritten to names before a conflict
// escapes the generator.
package gerrors

import (
	"fmt"
	"strings"
)

// GrammarError is a user-facing error from grammar or regex parsing, or
// from symbol resolution. Offset is a byte offset when the
// failure is known to come from a specific position in a pattern; it is
// zero when not applicable.
type GrammarError struct {
	Cause error
	Offset int
	Detail string
}

func (e *GrammarError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "grammar error"
}

func (e *GrammarError) Unwrap() error { return e.Cause }

// ConflictKind distinguishes the two conflict shapes a table build can
// surface.
type ConflictKind string

const (
	ShiftReduce ConflictKind = "shift/reduce"
	ReduceReduce ConflictKind = "reduce/reduce"
)

// GrammarConflict reports a shift/reduce or reduce/reduce conflict. By
// the time it escapes the table builder, Nonterminals has already
// replaced the raw ProductionIDs context with de-duplicated,
// declaration-ordered nonterminal names: the numeric internal
// representation never leaves the generator boundary.
type GrammarConflict struct {
	Kind ConflictKind
	State int
	Terminal string
	ProductionIDs []int
	Nonterminals []string
}

func (e *GrammarConflict) Error() string {
	return fmt.Sprintf("%v conflict in state %v on %q involving %v", e.Kind, e.State, e.Terminal, strings.Join(e.Nonterminals, ", "))
}

// InternalError wraps a violated invariant: a bug, not a user error.
type InternalError struct {
	Cause error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %v", e.Cause)
}

func (e *InternalError) Unwrap() error { return e.Cause }
