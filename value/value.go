// Package value defines ParseFlow's runtime value model: a closed set of
// dynamically-typed variants with a uniform operator dispatch surface.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/opal-lang/parseflow/ast"
	"github.com/opal-lang/parseflow/position"
)

// Value is any runtime value. Every value carries the span where it was
// produced (for error reporting). Values carry no Context; the stack trace
// of an error raised during operator application is built by the
// interpreter from the context it is evaluating in.
type Value interface {
	Repr() string
	TypeName() string
	Span() position.Span
	WithSpan(position.Span) Value
	Truthy() bool
	value() // closes the variant set to this package
}

// Number backs both ParseFlow numbers and booleans (0 = false).
type Number struct {
	Val  float64
	span position.Span
}

func NewNumber(v float64) *Number { return &Number{Val: v} }

func (n *Number) Repr() string {
	if n.Val == float64(int64(n.Val)) {
		return strconv.FormatInt(int64(n.Val), 10)
	}
	return strconv.FormatFloat(n.Val, 'g', -1, 64)
}
func (n *Number) TypeName() string       { return "number" }
func (n *Number) Span() position.Span    { return n.span }
func (n *Number) Truthy() bool           { return n.Val != 0 }
func (n *Number) WithSpan(s position.Span) Value {
	cp := *n
	cp.span = s
	return &cp
}
func (*Number) value() {}

// Bool constructs the canonical truthy/falsy Number the interpreter uses
// for comparison and logical operator results.
func Bool(b bool) *Number {
	if b {
		return NewNumber(1)
	}
	return NewNumber(0)
}

// String is an immutable text value.
type String struct {
	Val  string
	span position.Span
}

func NewString(v string) *String { return &String{Val: v} }

func (s *String) Repr() string           { return fmt.Sprintf("%q", s.Val) }
func (s *String) TypeName() string       { return "string" }
func (s *String) Span() position.Span    { return s.span }
func (s *String) Truthy() bool           { return s.Val != "" }
func (s *String) WithSpan(sp position.Span) Value {
	cp := *s
	cp.span = sp
	return &cp
}
func (*String) value() {}

// List is a mutable, ordered sequence of values. Mutation happens only via
// the APPEND/POP/EXTEND built-ins; arithmetic operators that "mutate"
// conceptually (list + value, list * list) return new lists.
type List struct {
	Elements []Value
	span     position.Span
}

func NewList(elements []Value) *List { return &List{Elements: elements} }

func (l *List) Repr() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.Repr()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l *List) TypeName() string       { return "list" }
func (l *List) Span() position.Span    { return l.span }
func (l *List) Truthy() bool           { return len(l.Elements) > 0 }
func (l *List) WithSpan(s position.Span) Value {
	cp := *l
	cp.span = s
	return &cp
}
func (*List) value() {}

// Copy returns a shallow copy of the list sharing element values, used by
// the "+"/"*" operators which must not mutate their operands.
func (l *List) Copy() *List {
	elems := make([]Value, len(l.Elements))
	copy(elems, l.Elements)
	return &List{Elements: elems, span: l.span}
}

// Function is a user-defined function value closing over the context it
// was created in.
type Function struct {
	Name       string
	ArgNames   []string
	Body       ast.Node
	AutoReturn bool
	Closure    any // *interp.Context; typed any here to avoid an import cycle (interp imports value)
	span       position.Span
}

func NewFunction(name string, argNames []string, body ast.Node, autoReturn bool, closure any) *Function {
	return &Function{Name: name, ArgNames: argNames, Body: body, AutoReturn: autoReturn, Closure: closure}
}

func (f *Function) Repr() string {
	if f.Name == "" {
		return "<function <anonymous>>"
	}
	return fmt.Sprintf("<function %s>", f.Name)
}
func (f *Function) TypeName() string       { return "function" }
func (f *Function) Span() position.Span    { return f.span }
func (f *Function) Truthy() bool           { return true }
func (f *Function) WithSpan(s position.Span) Value {
	cp := *f
	cp.span = s
	return &cp
}
func (*Function) value() {}

// BuiltIn is a registered built-in function, dispatched by name through
// the interpreter's built-in table rather than carrying its own closure.
type BuiltIn struct {
	Name string
	span position.Span
}

func NewBuiltIn(name string) *BuiltIn { return &BuiltIn{Name: name} }

func (b *BuiltIn) Repr() string           { return fmt.Sprintf("<built-in function %s>", b.Name) }
func (b *BuiltIn) TypeName() string       { return "built-in function" }
func (b *BuiltIn) Span() position.Span    { return b.span }
func (b *BuiltIn) Truthy() bool           { return true }
func (b *BuiltIn) WithSpan(s position.Span) Value {
	cp := *b
	cp.span = s
	return &cp
}
func (*BuiltIn) value() {}

// Null is the implicit result of statements with no value.
type Null struct{ span position.Span }

func NewNull() *Null { return &Null{} }

func (*Null) Repr() string           { return "null" }
func (*Null) TypeName() string       { return "null" }
func (n *Null) Span() position.Span  { return n.span }
func (*Null) Truthy() bool           { return false }
func (n *Null) WithSpan(s position.Span) Value {
	cp := *n
	cp.span = s
	return &cp
}
func (*Null) value() {}

// Equal implements structural "==" for all types: numeric equality for
// Number, content equality for String, length+elementwise equality for
// List, reference identity for Function, name equality for BuiltIn, and
// two Null values are always equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case *Number:
		bv, ok := b.(*Number)
		return ok && av.Val == bv.Val
	case *String:
		bv, ok := b.(*String)
		return ok && av.Val == bv.Val
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	case *BuiltIn:
		bv, ok := b.(*BuiltIn)
		return ok && av.Name == bv.Name
	case *Null:
		_, ok := b.(*Null)
		return ok
	default:
		return false
	}
}
