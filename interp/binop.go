package interp

import (
	"fmt"
	"math"

	"github.com/opal-lang/parseflow/ast"
	"github.com/opal-lang/parseflow/perror"
	"github.com/opal-lang/parseflow/token"
	"github.com/opal-lang/parseflow/value"
)

// evalBinOp evaluates both operands (AND/OR are not short-circuited, per
// SPEC_FULL.md §9) and dispatches on operator and operand types.
func (in *Interpreter) evalBinOp(n *ast.BinOp, ctx *Context) RTResult {
	leftR := in.Eval(n.Left, ctx)
	if leftR.ShouldUnwind() {
		return leftR
	}
	rightR := in.Eval(n.Right, ctx)
	if rightR.ShouldUnwind() {
		return rightR
	}
	left, right := leftR.Value, rightR.Value

	switch {
	case n.Op.Is(token.PLUS):
		return in.opPlus(n, left, right, ctx)
	case n.Op.Is(token.MINUS):
		return in.opMinus(n, left, right, ctx)
	case n.Op.Is(token.MUL):
		return in.opMul(n, left, right, ctx)
	case n.Op.Is(token.DIV):
		return in.opDiv(n, left, right, ctx)
	case n.Op.Is(token.POW):
		return in.numOp(n, left, right, ctx, math.Pow)
	case n.Op.Is(token.EE):
		return Ok(value.Bool(value.Equal(left, right)).WithSpan(n.Span()))
	case n.Op.Is(token.NE):
		return Ok(value.Bool(!value.Equal(left, right)).WithSpan(n.Span()))
	case n.Op.Is(token.LT):
		return in.cmpOp(n, left, right, ctx, func(a, b float64) bool { return a < b })
	case n.Op.Is(token.GT):
		return in.cmpOp(n, left, right, ctx, func(a, b float64) bool { return a > b })
	case n.Op.Is(token.LTE):
		return in.cmpOp(n, left, right, ctx, func(a, b float64) bool { return a <= b })
	case n.Op.Is(token.GTE):
		return in.cmpOp(n, left, right, ctx, func(a, b float64) bool { return a >= b })
	case n.Op.IsKeyword("AND"):
		return Ok(value.Bool(left.Truthy() && right.Truthy()).WithSpan(n.Span()))
	case n.Op.IsKeyword("OR"):
		return Ok(value.Bool(left.Truthy() || right.Truthy()).WithSpan(n.Span()))
	default:
		return Fail(perror.NewRuntime("unknown binary operator", n.Span(), in.trace(ctx)))
	}
}

func (in *Interpreter) opPlus(n *ast.BinOp, left, right value.Value, ctx *Context) RTResult {
	switch l := left.(type) {
	case *value.Number:
		r, ok := right.(*value.Number)
		if !ok {
			return in.typeErr(n.Span(), ctx, "cannot add %s to number", right.TypeName())
		}
		return Ok(value.NewNumber(l.Val + r.Val).WithSpan(n.Span()))
	case *value.String:
		r, ok := right.(*value.String)
		if !ok {
			return in.typeErr(n.Span(), ctx, "cannot add %s to string", right.TypeName())
		}
		return Ok(value.NewString(l.Val + r.Val).WithSpan(n.Span()))
	case *value.List:
		out := l.Copy()
		out.Elements = append(out.Elements, right)
		return Ok(out.WithSpan(n.Span()))
	default:
		return in.typeErr(n.Span(), ctx, "'+' is not supported for %s", left.TypeName())
	}
}

func (in *Interpreter) opMinus(n *ast.BinOp, left, right value.Value, ctx *Context) RTResult {
	switch l := left.(type) {
	case *value.Number:
		r, ok := right.(*value.Number)
		if !ok {
			return in.typeErr(n.Span(), ctx, "cannot subtract %s from number", right.TypeName())
		}
		return Ok(value.NewNumber(l.Val - r.Val).WithSpan(n.Span()))
	case *value.List:
		idxNum, ok := right.(*value.Number)
		if !ok {
			return in.typeErr(n.Span(), ctx, "list removal index must be a number, got %s", right.TypeName())
		}
		idx := int(idxNum.Val)
		if idx < 0 || idx >= len(l.Elements) {
			return Fail(perror.NewRuntime(fmt.Sprintf("list index %d out of range", idx), n.Span(), in.trace(ctx)))
		}
		out := l.Copy()
		out.Elements = append(out.Elements[:idx], out.Elements[idx+1:]...)
		return Ok(out.WithSpan(n.Span()))
	default:
		return in.typeErr(n.Span(), ctx, "'-' is not supported for %s", left.TypeName())
	}
}

func (in *Interpreter) opMul(n *ast.BinOp, left, right value.Value, ctx *Context) RTResult {
	switch l := left.(type) {
	case *value.Number:
		r, ok := right.(*value.Number)
		if !ok {
			return in.typeErr(n.Span(), ctx, "cannot multiply number by %s", right.TypeName())
		}
		return Ok(value.NewNumber(l.Val * r.Val).WithSpan(n.Span()))
	case *value.String:
		countNum, ok := right.(*value.Number)
		if !ok {
			return in.typeErr(n.Span(), ctx, "string repeat count must be a number, got %s", right.TypeName())
		}
		count := int(math.Floor(countNum.Val))
		if count < 0 {
			return Fail(perror.NewRuntime("string repeat count must be non-negative", n.Span(), in.trace(ctx)))
		}
		repeated := ""
		for i := 0; i < count; i++ {
			repeated += l.Val
		}
		return Ok(value.NewString(repeated).WithSpan(n.Span()))
	case *value.List:
		r, ok := right.(*value.List)
		if !ok {
			return in.typeErr(n.Span(), ctx, "cannot extend list with %s", right.TypeName())
		}
		out := l.Copy()
		out.Elements = append(out.Elements, r.Elements...)
		return Ok(out.WithSpan(n.Span()))
	default:
		return in.typeErr(n.Span(), ctx, "'*' is not supported for %s", left.TypeName())
	}
}

func (in *Interpreter) opDiv(n *ast.BinOp, left, right value.Value, ctx *Context) RTResult {
	switch l := left.(type) {
	case *value.Number:
		r, ok := right.(*value.Number)
		if !ok {
			return in.typeErr(n.Span(), ctx, "cannot divide number by %s", right.TypeName())
		}
		if r.Val == 0 {
			return Fail(perror.NewRuntime("Division by zero", n.Span(), in.trace(ctx)))
		}
		return Ok(value.NewNumber(l.Val / r.Val).WithSpan(n.Span()))
	case *value.List:
		idxNum, ok := right.(*value.Number)
		if !ok {
			return in.typeErr(n.Span(), ctx, "list index must be a number, got %s", right.TypeName())
		}
		idx := int(idxNum.Val)
		if idx < 0 || idx >= len(l.Elements) {
			return Fail(perror.NewRuntime(fmt.Sprintf("list index %d out of range", idx), n.Span(), in.trace(ctx)))
		}
		return Ok(l.Elements[idx].WithSpan(n.Span()))
	default:
		return in.typeErr(n.Span(), ctx, "'/' is not supported for %s", left.TypeName())
	}
}

func (in *Interpreter) numOp(n *ast.BinOp, left, right value.Value, ctx *Context, fn func(a, b float64) float64) RTResult {
	l, ok := left.(*value.Number)
	if !ok {
		return in.typeErr(n.Span(), ctx, "expected number, got %s", left.TypeName())
	}
	r, ok := right.(*value.Number)
	if !ok {
		return in.typeErr(n.Span(), ctx, "expected number, got %s", right.TypeName())
	}
	return Ok(value.NewNumber(fn(l.Val, r.Val)).WithSpan(n.Span()))
}

func (in *Interpreter) cmpOp(n *ast.BinOp, left, right value.Value, ctx *Context, cmp func(a, b float64) bool) RTResult {
	l, ok := left.(*value.Number)
	if !ok {
		return in.typeErr(n.Span(), ctx, "comparison requires numbers, got %s", left.TypeName())
	}
	r, ok := right.(*value.Number)
	if !ok {
		return in.typeErr(n.Span(), ctx, "comparison requires numbers, got %s", right.TypeName())
	}
	return Ok(value.Bool(cmp(l.Val, r.Val)).WithSpan(n.Span()))
}
