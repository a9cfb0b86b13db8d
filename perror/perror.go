// Package perror defines ParseFlow's closed set of error kinds and the
// caret-highlighted snippet renderer shared by the lexer, parser, and
// interpreter.
package perror

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/opal-lang/parseflow/position"
)

// Kind is the closed set of error categories.
type Kind int

const (
	IllegalChar Kind = iota
	ExpectedChar
	InvalidSyntax
	Runtime
)

func (k Kind) String() string {
	switch k {
	case IllegalChar:
		return "IllegalCharError"
	case ExpectedChar:
		return "ExpectedCharError"
	case InvalidSyntax:
		return "InvalidSyntaxError"
	case Runtime:
		return "RTError"
	default:
		return "Error"
	}
}

// TraceFrame is one entry of an RTError's call-context chain, innermost
// first, rendered beneath the header line.
type TraceFrame struct {
	DisplayName string
	Span        position.Span
}

// Error is ParseFlow's single error type for all four closed kinds. Lexer
// and parser errors never populate Trace; only RTError does.
type Error struct {
	Kind    Kind
	Message string
	Span    position.Span
	Trace   []TraceFrame
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", e.Kind, e.Message)
	fmt.Fprintf(&b, "File %s, line %d", e.Span.Start.FileLabel, e.Span.Line())
	if len(e.Trace) > 0 {
		b.WriteString(", in ")
		b.WriteString(contextChain(e.Trace))
	}
	b.WriteString("\n\n")
	b.WriteString(snippet(e.Span))
	return b.String()
}

func contextChain(trace []TraceFrame) string {
	names := make([]string, len(trace))
	for i, f := range trace {
		names[i] = f.DisplayName
	}
	return strings.Join(names, " -> ")
}

// snippet renders the offending source lines with '^' carets under the
// span, in the style of the teacher's ParseError.createCodeSnippet.
func snippet(span position.Span) string {
	source := span.Start.SourceText
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	startLine := span.Start.Line
	endLine := span.End.Line
	if startLine < 0 || startLine >= len(lines) {
		return ""
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	var b strings.Builder
	for ln := startLine; ln <= endLine; ln++ {
		line := lines[ln]
		b.WriteString(line)
		b.WriteByte('\n')

		colStart := 0
		if ln == startLine {
			colStart = span.Start.Column
		}
		colEnd := len(line)
		if ln == endLine {
			colEnd = span.End.Column
		}
		if colEnd <= colStart {
			colEnd = colStart + 1
		}
		b.WriteString(strings.Repeat(" ", colStart))
		b.WriteString(strings.Repeat("^", colEnd-colStart))
		if ln != endLine {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// NewIllegalChar builds an IllegalCharError for an unrecognized character.
func NewIllegalChar(ch byte, span position.Span) *Error {
	return &Error{Kind: IllegalChar, Message: fmt.Sprintf("'%c'", ch), Span: span}
}

// NewExpectedChar builds an ExpectedCharError naming what the lexer wanted.
func NewExpectedChar(expected string, span position.Span) *Error {
	return &Error{Kind: ExpectedChar, Message: expected, Span: span}
}

// NewInvalidSyntax builds an InvalidSyntaxError naming the expected
// construct.
func NewInvalidSyntax(message string, span position.Span) *Error {
	return &Error{Kind: InvalidSyntax, Message: message, Span: span}
}

// NewRuntime builds an RTError with an optional call-context trace.
func NewRuntime(message string, span position.Span, trace []TraceFrame) *Error {
	return &Error{Kind: Runtime, Message: message, Span: span, Trace: trace}
}

// WithSuggestion appends a "did you mean 'X'?" hint to message when
// candidates contains a close fuzzy match for name. Purely cosmetic: it
// never changes which error is raised, only its rendered text.
func WithSuggestion(message, name string, candidates []string) string {
	best := closestMatch(name, candidates)
	if best == "" {
		return message
	}
	return fmt.Sprintf("%s (did you mean '%s'?)", message, best)
}

func closestMatch(name string, candidates []string) string {
	pool := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != name {
			pool = append(pool, c)
		}
	}
	best, bestDist := "", 0
	for _, c := range pool {
		d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(c))
		if best == "" || d < bestDist || (d == bestDist && c < best) {
			best, bestDist = c, d
		}
	}
	// Only suggest genuinely close names; otherwise every typo would
	// surface an unrelated top-of-list suggestion.
	if best == "" || bestDist > maxSuggestDistance(name) {
		return ""
	}
	return best
}

func maxSuggestDistance(name string) int {
	switch {
	case len(name) <= 3:
		return 1
	case len(name) <= 6:
		return 2
	default:
		return 3
	}
}
