// Package parseflow is the driver entry point: lex, parse, and evaluate
// source against a global scope, either one-shot (Run) or across repeated
// calls that share state (Session, used by the REPL).
package parseflow

import (
	"github.com/opal-lang/parseflow/ast"
	"github.com/opal-lang/parseflow/interp"
	"github.com/opal-lang/parseflow/lexer"
	"github.com/opal-lang/parseflow/parser"
	"github.com/opal-lang/parseflow/perror"
	"github.com/opal-lang/parseflow/value"
)

// Run lexes, parses, and evaluates source (labelled fileLabel for error
// messages) against a fresh set of globals, returning either the resulting
// value or the error that aborted the pipeline.
func Run(fileLabel, source string) (value.Value, *perror.Error) {
	return NewSession(interp.New()).Eval(fileLabel, source)
}

// Parse lexes and parses source into a root AST node without evaluating it.
// Session.Eval and the CLI's file runner both call it; the CLI writes the
// --dump-ir dump from the parsed root before evaluating it.
func Parse(fileLabel, source string) (ast.Node, *perror.Error) {
	lx := lexer.New(fileLabel, source)
	tokens, lexErr := lx.Tokenize()
	if lexErr != nil {
		return nil, lexErr
	}
	p := parser.New(fileLabel, source, tokens)
	return p.ParseProgram()
}

// Session pairs an Interpreter with one persistent root Context, so
// successive Eval calls see each other's VAR bindings — what a REPL needs
// and a one-shot Run does not.
type Session struct {
	in  *interp.Interpreter
	ctx *interp.Context
}

// NewSession starts a session backed by in, with a fresh global scope.
func NewSession(in *interp.Interpreter) *Session {
	return &Session{in: in, ctx: interp.NewRootContext(interp.NewGlobals())}
}

// Eval lexes, parses, and evaluates source against the session's
// persistent global scope.
func (s *Session) Eval(fileLabel, source string) (value.Value, *perror.Error) {
	root, err := Parse(fileLabel, source)
	if err != nil {
		return nil, err
	}
	result := s.in.Eval(root, s.ctx)
	if result.Err != nil {
		return nil, result.Err
	}
	return result.Value, nil
}
