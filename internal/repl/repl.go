// Package repl implements ParseFlow's interactive read-eval-print loop.
// It is a thin external collaborator over the driver package, not part of
// the interpreter core.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/opal-lang/parseflow"
	"github.com/opal-lang/parseflow/interp"
	"github.com/opal-lang/parseflow/value"
)

// Run reads lines from in until the user types "exit" or in reaches EOF,
// evaluating each non-empty line against one persistent session and
// printing its result (or rendered error) to out.
func Run(in io.Reader, out io.Writer) {
	shared := bufio.NewReader(in)
	session := parseflow.NewSession(interp.NewWithIO(&interp.IO{Out: out, In: shared}))
	scanner := bufio.NewScanner(shared)

	for {
		fmt.Fprint(out, "parseflow> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "exit" {
			return
		}
		if trimmed == "" {
			continue
		}

		result, err := session.Eval("<stdin>", line)
		if err != nil {
			fmt.Fprintln(out, err.Error())
			continue
		}
		fmt.Fprintln(out, reprOf(result))
	}
}

// reprOf renders a REPL result: a single-element list prints as its lone
// element, per spec.md §6; everything else prints as its own repr.
func reprOf(v value.Value) string {
	if list, ok := v.(*value.List); ok && len(list.Elements) == 1 {
		return list.Elements[0].Repr()
	}
	return v.Repr()
}
