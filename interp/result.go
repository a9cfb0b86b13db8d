package interp

import (
	"github.com/opal-lang/parseflow/perror"
	"github.com/opal-lang/parseflow/value"
)

// Signal is a non-local control result threaded alongside a value.
type Signal int

const (
	SignalNone Signal = iota
	SignalReturn
	SignalContinue
	SignalBreak
)

// RTResult is the uniform result of evaluating any AST node. At most one
// of {Err, a non-None Signal} is set; otherwise Value holds the node's
// result (possibly Null).
type RTResult struct {
	Value  value.Value
	Err    *perror.Error
	Signal Signal
}

// Ok wraps a plain value with no error or signal.
func Ok(v value.Value) RTResult { return RTResult{Value: v} }

// Fail wraps a runtime error.
func Fail(err *perror.Error) RTResult { return RTResult{Err: err} }

// Returning wraps a Return signal carrying v (Null when the statement was
// a bare "RETURN").
func Returning(v value.Value) RTResult { return RTResult{Value: v, Signal: SignalReturn} }

// Continuing wraps a Continue signal.
func Continuing() RTResult { return RTResult{Signal: SignalContinue} }

// Breaking wraps a Break signal.
func Breaking() RTResult { return RTResult{Signal: SignalBreak} }

// ShouldUnwind reports whether evaluation of the enclosing node must stop
// and propagate this result unchanged (error or any signal).
func (r RTResult) ShouldUnwind() bool {
	return r.Err != nil || r.Signal != SignalNone
}
