// Package interp walks a ParseFlow AST and evaluates it against the
// runtime value and environment model.
package interp

import (
	"github.com/opal-lang/parseflow/position"
	"github.com/opal-lang/parseflow/value"
)

// SymbolTable maps identifiers to values, chained to an optional parent.
// Get walks the parent chain; Set always writes into the current table;
// Remove deletes from the current table only.
type SymbolTable struct {
	symbols map[string]value.Value
	parent  *SymbolTable
}

// NewSymbolTable creates a table whose lookups fall through to parent
// (nil for the root/global table).
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{symbols: make(map[string]value.Value), parent: parent}
}

// Get returns the value bound to name and whether it was found, walking
// the parent chain.
func (t *SymbolTable) Get(name string) (value.Value, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if v, ok := cur.symbols[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set binds name to v in this table, shadowing any parent binding.
func (t *SymbolTable) Set(name string, v value.Value) {
	t.symbols[name] = v
}

// Remove deletes name from this table only (not any parent).
func (t *SymbolTable) Remove(name string) {
	delete(t.symbols, name)
}

// Names returns every identifier visible from this table, current scope
// first, used only for "did you mean" suggestion candidates.
func (t *SymbolTable) Names() []string {
	var names []string
	seen := make(map[string]bool)
	for cur := t; cur != nil; cur = cur.parent {
		for name := range cur.symbols {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Context is a call frame: a display name for stack traces, an optional
// parent frame and the span of the call site that created this frame, and
// the symbol table this frame evaluates against.
type Context struct {
	DisplayName    string
	Parent         *Context
	ParentEntrySpan *position.Span
	Symbols        *SymbolTable
}

// NewRootContext creates the top-level "<program>" context with the given
// global symbol table and no parent.
func NewRootContext(globals *SymbolTable) *Context {
	return &Context{DisplayName: "<program>", Symbols: globals}
}

// NewCallContext creates a fresh call frame for invoking a function,
// parented to definingContext (the function's closure), with callSite
// recorded for stack-trace rendering.
func NewCallContext(displayName string, definingContext *Context, callSite position.Span, symbols *SymbolTable) *Context {
	return &Context{
		DisplayName:     displayName,
		Parent:          definingContext,
		ParentEntrySpan: &callSite,
		Symbols:         symbols,
	}
}
