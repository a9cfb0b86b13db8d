package interp

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/opal-lang/parseflow/ast"
	"github.com/opal-lang/parseflow/perror"
	"github.com/opal-lang/parseflow/position"
	"github.com/opal-lang/parseflow/token"
	"github.com/opal-lang/parseflow/value"
)

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("PARSEFLOW_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Interpreter walks an AST against the global symbol table, visitor-style,
// generalized from the teacher's EvaluateNode switch-over-IR-nodes shape.
type Interpreter struct {
	logger *slog.Logger
	io     *IO
}

// New creates an Interpreter whose PRINT/INPUT/INPUT_INT/CLEAR built-ins
// talk to the real process stdio.
func New() *Interpreter {
	return &Interpreter{logger: newLogger(), io: DefaultIO()}
}

// NewWithIO creates an Interpreter whose built-in I/O is redirected
// through io instead of the process's real stdio.
func NewWithIO(io *IO) *Interpreter {
	return &Interpreter{logger: newLogger(), io: io}
}

func (in *Interpreter) ioOrDefault() *IO {
	if in.io != nil {
		return in.io
	}
	return DefaultIO()
}

// Eval evaluates node in ctx and returns its result.
func (in *Interpreter) Eval(node ast.Node, ctx *Context) RTResult {
	switch n := node.(type) {
	case *ast.StatementList:
		return in.evalStatementList(n, ctx)
	case *ast.Number:
		return Ok(value.NewNumber(n.Value).WithSpan(n.Span()))
	case *ast.String:
		return Ok(value.NewString(n.Value).WithSpan(n.Span()))
	case *ast.List:
		return in.evalList(n, ctx)
	case *ast.VarAccess:
		return in.evalVarAccess(n, ctx)
	case *ast.VarAssign:
		return in.evalVarAssign(n, ctx)
	case *ast.BinOp:
		return in.evalBinOp(n, ctx)
	case *ast.UnaryOp:
		return in.evalUnaryOp(n, ctx)
	case *ast.If:
		return in.evalIf(n, ctx)
	case *ast.For:
		return in.evalFor(n, ctx)
	case *ast.While:
		return in.evalWhile(n, ctx)
	case *ast.FuncDef:
		return in.evalFuncDef(n, ctx)
	case *ast.Call:
		return in.evalCall(n, ctx)
	case *ast.Return:
		return in.evalReturn(n, ctx)
	case *ast.Continue:
		return Continuing()
	case *ast.Break:
		return Breaking()
	default:
		return Fail(perror.NewRuntime("cannot evaluate node", node.Span(), nil))
	}
}

func (in *Interpreter) evalStatementList(n *ast.StatementList, ctx *Context) RTResult {
	result := Ok(value.NewNull())
	for _, stmt := range n.Statements {
		result = in.Eval(stmt, ctx)
		if result.ShouldUnwind() {
			return result
		}
	}
	return result
}

func (in *Interpreter) evalList(n *ast.List, ctx *Context) RTResult {
	elements := make([]value.Value, 0, len(n.Elements))
	for _, elemNode := range n.Elements {
		r := in.Eval(elemNode, ctx)
		if r.ShouldUnwind() {
			return r
		}
		elements = append(elements, r.Value)
	}
	return Ok(value.NewList(elements).WithSpan(n.Span()))
}

func (in *Interpreter) evalVarAccess(n *ast.VarAccess, ctx *Context) RTResult {
	v, ok := ctx.Symbols.Get(n.Name)
	if !ok {
		msg := perror.WithSuggestion(quoteUndefined(n.Name), n.Name, visibleNames(ctx))
		return Fail(perror.NewRuntime(msg, n.Span(), in.trace(ctx)))
	}
	return Ok(v.WithSpan(n.Span()))
}

func quoteUndefined(name string) string {
	return "'" + name + "' is not defined"
}

func visibleNames(ctx *Context) []string {
	names := ctx.Symbols.Names()
	for _, b := range BuiltinNames() {
		names = append(names, b)
	}
	return names
}

func (in *Interpreter) evalVarAssign(n *ast.VarAssign, ctx *Context) RTResult {
	r := in.Eval(n.Value, ctx)
	if r.ShouldUnwind() {
		return r
	}
	ctx.Symbols.Set(n.Name, r.Value)
	return Ok(r.Value.WithSpan(n.Span()))
}

func (in *Interpreter) evalUnaryOp(n *ast.UnaryOp, ctx *Context) RTResult {
	r := in.Eval(n.Operand, ctx)
	if r.ShouldUnwind() {
		return r
	}
	switch {
	case n.Op.Is(token.MINUS):
		num, ok := r.Value.(*value.Number)
		if !ok {
			return in.typeErr(n.Span(), ctx, "unary '-' requires a number, got %s", r.Value.TypeName())
		}
		return Ok(value.NewNumber(-num.Val).WithSpan(n.Span()))
	case n.Op.IsKeyword("NOT"):
		return Ok(value.Bool(!r.Value.Truthy()).WithSpan(n.Span()))
	default:
		return Fail(perror.NewRuntime("unknown unary operator", n.Span(), in.trace(ctx)))
	}
}

func (in *Interpreter) typeErr(span position.Span, ctx *Context, format string, args ...any) RTResult {
	return Fail(perror.NewRuntime(fmt.Sprintf(format, args...), span, in.trace(ctx)))
}

func (in *Interpreter) evalIf(n *ast.If, ctx *Context) RTResult {
	for _, c := range n.Cases {
		r := in.Eval(c.Cond, ctx)
		if r.ShouldUnwind() {
			return r
		}
		if r.Value.Truthy() {
			return in.evalIfBody(n.IsBlock, c.Body, ctx)
		}
	}
	if n.Else != nil {
		return in.evalIfBody(n.IsBlock, n.Else, ctx)
	}
	return Ok(value.NewNull())
}

// evalIfBody runs the body of an If arm; the block form always yields null
// (unless a signal/error unwinds through it), the inline form yields the
// body's value.
func (in *Interpreter) evalIfBody(isBlock bool, body ast.Node, ctx *Context) RTResult {
	result := in.Eval(body, ctx)
	if result.ShouldUnwind() {
		return result
	}
	if isBlock {
		return Ok(value.NewNull())
	}
	return result
}

func (in *Interpreter) evalFor(n *ast.For, ctx *Context) RTResult {
	startR := in.Eval(n.Start, ctx)
	if startR.ShouldUnwind() {
		return startR
	}
	endR := in.Eval(n.End, ctx)
	if endR.ShouldUnwind() {
		return endR
	}
	step := 1.0
	if n.Step != nil {
		stepR := in.Eval(n.Step, ctx)
		if stepR.ShouldUnwind() {
			return stepR
		}
		stepNum, ok := stepR.Value.(*value.Number)
		if !ok {
			return in.typeErr(n.Span(), ctx, "for-loop step must be a number, got %s", stepR.Value.TypeName())
		}
		step = stepNum.Val
	}
	startNum, ok := startR.Value.(*value.Number)
	if !ok {
		return in.typeErr(n.Span(), ctx, "for-loop start must be a number, got %s", startR.Value.TypeName())
	}
	endNum, ok := endR.Value.(*value.Number)
	if !ok {
		return in.typeErr(n.Span(), ctx, "for-loop end must be a number, got %s", endR.Value.TypeName())
	}

	var collected []value.Value
	i := startNum.Val
	for (step >= 0 && i < endNum.Val) || (step < 0 && i > endNum.Val) {
		ctx.Symbols.Set(n.VarName, value.NewNumber(i))
		bodyR := in.Eval(n.Body, ctx)
		if bodyR.Err != nil {
			return bodyR
		}
		if bodyR.Signal == SignalBreak {
			break
		}
		if bodyR.Signal == SignalReturn {
			return bodyR
		}
		if bodyR.Signal != SignalContinue {
			collected = append(collected, bodyR.Value)
		}
		i += step
	}
	if n.IsBlock {
		return Ok(value.NewNull())
	}
	return Ok(value.NewList(collected).WithSpan(n.Span()))
}

func (in *Interpreter) evalWhile(n *ast.While, ctx *Context) RTResult {
	var collected []value.Value
	for {
		condR := in.Eval(n.Cond, ctx)
		if condR.ShouldUnwind() {
			return condR
		}
		if !condR.Value.Truthy() {
			break
		}
		bodyR := in.Eval(n.Body, ctx)
		if bodyR.Err != nil {
			return bodyR
		}
		if bodyR.Signal == SignalBreak {
			break
		}
		if bodyR.Signal == SignalReturn {
			return bodyR
		}
		if bodyR.Signal != SignalContinue {
			collected = append(collected, bodyR.Value)
		}
	}
	if n.IsBlock {
		return Ok(value.NewNull())
	}
	return Ok(value.NewList(collected).WithSpan(n.Span()))
}

func (in *Interpreter) evalFuncDef(n *ast.FuncDef, ctx *Context) RTResult {
	fn := value.NewFunction(n.Name, n.ArgNames, n.Body, n.AutoReturn, ctx).WithSpan(n.Span())
	if n.Name != "" {
		ctx.Symbols.Set(n.Name, fn)
	}
	return Ok(fn)
}

func (in *Interpreter) evalReturn(n *ast.Return, ctx *Context) RTResult {
	if n.Value == nil {
		return Returning(value.NewNull())
	}
	r := in.Eval(n.Value, ctx)
	if r.Err != nil {
		return r
	}
	return Returning(r.Value)
}

func (in *Interpreter) evalCall(n *ast.Call, ctx *Context) RTResult {
	calleeR := in.Eval(n.Callee, ctx)
	if calleeR.ShouldUnwind() {
		return calleeR
	}

	args := make([]value.Value, 0, len(n.Args))
	for _, a := range n.Args {
		r := in.Eval(a, ctx)
		if r.ShouldUnwind() {
			return r
		}
		args = append(args, r.Value)
	}

	switch callee := calleeR.Value.(type) {
	case *value.BuiltIn:
		return in.callBuiltin(callee, args, n.Span(), ctx)
	case *value.Function:
		return in.callFunction(callee, args, n.Span(), ctx)
	default:
		return in.typeErr(n.Span(), ctx, "%s is not callable", callee.TypeName())
	}
}

func (in *Interpreter) callFunction(fn *value.Function, args []value.Value, callSite position.Span, callerCtx *Context) RTResult {
	if len(args) != len(fn.ArgNames) {
		return in.typeErr(callSite, callerCtx, "%s expected %d argument(s), got %d", displayName(fn.Name), len(fn.ArgNames), len(args))
	}

	definingCtx, _ := fn.Closure.(*Context)
	symbols := NewSymbolTable(definingCtx.Symbols)
	for i, name := range fn.ArgNames {
		symbols.Set(name, args[i])
	}

	callCtx := NewCallContext(displayName(fn.Name), definingCtx, callSite, symbols)
	in.logger.Debug("call", "function", fn.Name, "args", len(args))

	result := in.Eval(fn.Body, callCtx)
	if result.Err != nil {
		return result
	}
	if fn.AutoReturn {
		return Ok(result.Value)
	}
	if result.Signal == SignalReturn {
		return Ok(result.Value)
	}
	return Ok(value.NewNull())
}

func displayName(name string) string {
	if name == "" {
		return "<anonymous function>"
	}
	return name
}

// trace walks ctx outward via ParentEntrySpan, building the stack-trace
// frames an RTError raised "here" should carry.
func (in *Interpreter) trace(ctx *Context) []perror.TraceFrame {
	var frames []perror.TraceFrame
	for cur := ctx; cur != nil; cur = cur.Parent {
		if cur.ParentEntrySpan == nil {
			frames = append(frames, perror.TraceFrame{DisplayName: cur.DisplayName})
			break
		}
		frames = append(frames, perror.TraceFrame{DisplayName: cur.DisplayName, Span: *cur.ParentEntrySpan})
	}
	return frames
}
