package parser

import (
	"github.com/opal-lang/parseflow/ast"
	"github.com/opal-lang/parseflow/perror"
)

// ParseResult threads an advance count through recursive-descent parsing
// so the parser can speculatively try alternatives, cleanly detect "failed
// without consuming input" (needed to end a statement list), and report
// the deepest-advancing error when two alternatives both partially match.
type ParseResult struct {
	Node                       ast.Node
	Err                        *perror.Error
	AdvanceCount               int
	ToReverseCount             int
	LastRegisteredAdvanceCount int
}

// Success wraps a parsed node with no error.
func Success(node ast.Node) *ParseResult {
	return &ParseResult{Node: node}
}

// Failure wraps a parse error with zero advancement.
func Failure(err *perror.Error) *ParseResult {
	return &ParseResult{Err: err}
}

// RegisterAdvancement records that the parser consumed one token without
// yet knowing whether the overall attempt will succeed.
func (r *ParseResult) RegisterAdvancement() {
	r.LastRegisteredAdvanceCount = 1
	r.AdvanceCount++
}

// Register merges a sub-result into r: it accumulates the sub-result's
// advancement and, on error, adopts that error unconditionally (used when
// the caller commits to this alternative — a failure here is final).
func (r *ParseResult) Register(sub *ParseResult) ast.Node {
	r.LastRegisteredAdvanceCount = sub.AdvanceCount
	r.AdvanceCount += sub.AdvanceCount
	if sub.Err != nil {
		r.Err = sub.Err
	}
	return sub.Node
}

// TryRegister merges a sub-result the same way Register does when it
// succeeded, but on failure records how far it advanced (ToReverseCount)
// and returns nil without setting r.Err, letting the caller try the next
// alternative and reverse the token cursor by ToReverseCount.
func (r *ParseResult) TryRegister(sub *ParseResult) ast.Node {
	if sub.Err != nil {
		r.ToReverseCount = sub.AdvanceCount
		return nil
	}
	return r.Register(sub)
}
