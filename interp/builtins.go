package interp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/opal-lang/parseflow/lexer"
	"github.com/opal-lang/parseflow/parser"
	"github.com/opal-lang/parseflow/perror"
	"github.com/opal-lang/parseflow/position"
	"github.com/opal-lang/parseflow/value"
)

// builtinSpec is one entry of the fixed built-in registry: its arity and
// its implementation. Registered once into every root symbol table.
type builtinSpec struct {
	arity int
	fn    func(in *Interpreter, args []value.Value, span position.Span, ctx *Context) RTResult
}

// IO groups the built-ins' external effects so callers (the CLI, tests)
// can redirect PRINT/INPUT without touching the process's real stdio.
type IO struct {
	Out io.Writer
	In  *bufio.Reader
}

// DefaultIO wires PRINT/INPUT/INPUT_INT/CLEAR to the process's real stdio.
func DefaultIO() *IO {
	return &IO{Out: os.Stdout, In: bufio.NewReader(os.Stdin)}
}

var builtins map[string]builtinSpec

func init() {
	builtins = map[string]builtinSpec{
		"PRINT":     {1, builtinPrint},
		"PRINT_RET": {1, builtinPrintRet},
		"INPUT":     {0, builtinInput},
		"INPUT_INT": {0, builtinInputInt},
		"CLEAR":     {0, builtinClear},
		"IS_NUM":    {1, isTypeBuiltin(func(v value.Value) bool { _, ok := v.(*value.Number); return ok })},
		"IS_STR":    {1, isTypeBuiltin(func(v value.Value) bool { _, ok := v.(*value.String); return ok })},
		"IS_LIST":   {1, isTypeBuiltin(func(v value.Value) bool { _, ok := v.(*value.List); return ok })},
		"IS_FUN": {1, isTypeBuiltin(func(v value.Value) bool {
			switch v.(type) {
			case *value.Function, *value.BuiltIn:
				return true
			default:
				return false
			}
		})},
		"APPEND": {2, builtinAppend},
		"POP":    {2, builtinPop},
		"EXTEND": {2, builtinExtend},
		"LEN":    {1, builtinLen},
		"RUN":    {1, builtinRun},
		"STR":    {1, builtinStr},
		"TYPE":   {1, builtinType},
	}
}

// BuiltinNames returns every registered built-in name, sorted, used for
// "did you mean" suggestions and for populating the global symbol table.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewGlobals builds a root symbol table pre-populated with every built-in,
// as spec.md §2's "fixed registry... pre-populated in the root environment"
// requires.
func NewGlobals() *SymbolTable {
	table := NewSymbolTable(nil)
	for _, name := range BuiltinNames() {
		table.Set(name, value.NewBuiltIn(name))
	}
	return table
}

func (in *Interpreter) callBuiltin(b *value.BuiltIn, args []value.Value, callSite position.Span, ctx *Context) RTResult {
	spec, ok := builtins[b.Name]
	if !ok {
		return in.typeErr(callSite, ctx, "unknown built-in function '%s'", b.Name)
	}
	if len(args) != spec.arity {
		return in.typeErr(callSite, ctx, "%s expected %d argument(s), got %d", b.Name, spec.arity, len(args))
	}
	return spec.fn(in, args, callSite, ctx)
}

func builtinPrint(in *Interpreter, args []value.Value, span position.Span, ctx *Context) RTResult {
	fmt.Fprintln(in.ioOrDefault().Out, args[0].Repr())
	return Ok(value.NewNull())
}

func builtinPrintRet(in *Interpreter, args []value.Value, span position.Span, ctx *Context) RTResult {
	return Ok(value.NewString(args[0].Repr()))
}

func builtinInput(in *Interpreter, args []value.Value, span position.Span, ctx *Context) RTResult {
	line, _ := in.ioOrDefault().In.ReadString('\n')
	return Ok(value.NewString(strings.TrimRight(line, "\r\n")))
}

func builtinInputInt(in *Interpreter, args []value.Value, span position.Span, ctx *Context) RTResult {
	for {
		line, err := in.ioOrDefault().In.ReadString('\n')
		line = strings.TrimSpace(line)
		n, parseErr := strconv.ParseInt(line, 10, 64)
		if parseErr == nil {
			return Ok(value.NewNumber(float64(n)))
		}
		if err != nil {
			return Fail(perror.NewRuntime("INPUT_INT reached end of input without a valid integer", span, in.trace(ctx)))
		}
		fmt.Fprintln(in.ioOrDefault().Out, "invalid integer, try again")
	}
}

func builtinClear(in *Interpreter, args []value.Value, span position.Span, ctx *Context) RTResult {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", "cls")
	} else {
		cmd = exec.Command("clear")
	}
	cmd.Stdout = in.ioOrDefault().Out
	_ = cmd.Run()
	return Ok(value.NewNull())
}

func isTypeBuiltin(check func(value.Value) bool) func(*Interpreter, []value.Value, position.Span, *Context) RTResult {
	return func(in *Interpreter, args []value.Value, span position.Span, ctx *Context) RTResult {
		return Ok(value.Bool(check(args[0])))
	}
}

func builtinAppend(in *Interpreter, args []value.Value, span position.Span, ctx *Context) RTResult {
	list, ok := args[0].(*value.List)
	if !ok {
		return in.typeErr(span, ctx, "APPEND's first argument must be a list, got %s", args[0].TypeName())
	}
	list.Elements = append(list.Elements, args[1])
	return Ok(value.NewNull())
}

func builtinPop(in *Interpreter, args []value.Value, span position.Span, ctx *Context) RTResult {
	list, ok := args[0].(*value.List)
	if !ok {
		return in.typeErr(span, ctx, "POP's first argument must be a list, got %s", args[0].TypeName())
	}
	idxNum, ok := args[1].(*value.Number)
	if !ok {
		return in.typeErr(span, ctx, "POP's index must be a number, got %s", args[1].TypeName())
	}
	idx := int(math.Floor(idxNum.Val))
	if idx < 0 || idx >= len(list.Elements) {
		return Fail(perror.NewRuntime(fmt.Sprintf("list index %d out of range", idx), span, in.trace(ctx)))
	}
	removed := list.Elements[idx]
	list.Elements = append(list.Elements[:idx], list.Elements[idx+1:]...)
	return Ok(removed)
}

func builtinExtend(in *Interpreter, args []value.Value, span position.Span, ctx *Context) RTResult {
	a, ok := args[0].(*value.List)
	if !ok {
		return in.typeErr(span, ctx, "EXTEND's first argument must be a list, got %s", args[0].TypeName())
	}
	b, ok := args[1].(*value.List)
	if !ok {
		return in.typeErr(span, ctx, "EXTEND's second argument must be a list, got %s", args[1].TypeName())
	}
	a.Elements = append(a.Elements, b.Elements...)
	return Ok(value.NewNull())
}

func builtinLen(in *Interpreter, args []value.Value, span position.Span, ctx *Context) RTResult {
	switch v := args[0].(type) {
	case *value.List:
		return Ok(value.NewNumber(float64(len(v.Elements))))
	case *value.String:
		return Ok(value.NewNumber(float64(len(v.Val))))
	default:
		return in.typeErr(span, ctx, "LEN requires a list or string, got %s", args[0].TypeName())
	}
}

func builtinStr(in *Interpreter, args []value.Value, span position.Span, ctx *Context) RTResult {
	return Ok(value.NewString(args[0].Repr()))
}

func builtinType(in *Interpreter, args []value.Value, span position.Span, ctx *Context) RTResult {
	return Ok(value.NewString(args[0].TypeName()))
}

func builtinRun(in *Interpreter, args []value.Value, span position.Span, ctx *Context) RTResult {
	pathStr, ok := args[0].(*value.String)
	if !ok {
		return in.typeErr(span, ctx, "RUN requires a string path, got %s", args[0].TypeName())
	}
	source, err := os.ReadFile(pathStr.Val)
	if err != nil {
		return Fail(perror.NewRuntime(fmt.Sprintf("failed to load script \"%s\"", pathStr.Val), span, in.trace(ctx)))
	}

	lx := lexer.New(pathStr.Val, string(source))
	tokens, lexErr := lx.Tokenize()
	if lexErr != nil {
		return Fail(lexErr)
	}
	p := parser.New(pathStr.Val, string(source), tokens)
	root, parseErr := p.ParseProgram()
	if parseErr != nil {
		return Fail(parseErr)
	}

	rootCtx := rootOf(ctx)
	result := in.Eval(root, rootCtx)
	if result.Err != nil {
		return result
	}
	return Ok(value.NewNull())
}

func rootOf(ctx *Context) *Context {
	cur := ctx
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}
