package perror

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/parseflow/position"
)

func spanIn(source string, fromCh, toCh int) position.Span {
	p := position.New("<test>", source)
	for i := 0; i < fromCh; i++ {
		p = p.Advance(source[i])
	}
	start := p
	for i := fromCh; i < toCh; i++ {
		p = p.Advance(source[i])
	}
	return position.NewSpan(start, p)
}

func TestErrorRenderIncludesKindAndFile(t *testing.T) {
	t.Parallel()

	source := "1 + @"
	err := NewIllegalChar('@', spanIn(source, 4, 5))
	rendered := err.Error()
	assert.True(t, strings.HasPrefix(rendered, "IllegalCharError: '@'\n"))
	assert.Contains(t, rendered, "File <test>, line 1")
}

func TestErrorRenderIncludesCaretSnippet(t *testing.T) {
	t.Parallel()

	source := "1 + @"
	err := NewIllegalChar('@', spanIn(source, 4, 5))
	rendered := err.Error()
	lines := strings.Split(rendered, "\n")
	require.True(t, len(lines) >= 2)
	assert.Contains(t, rendered, source)
	assert.Contains(t, rendered, "^")
}

func TestErrorRenderIncludesContextChain(t *testing.T) {
	t.Parallel()

	source := "x"
	err := NewRuntime("boom", spanIn(source, 0, 1), []TraceFrame{
		{DisplayName: "inner"},
		{DisplayName: "<program>"},
	})
	assert.Contains(t, err.Error(), "in inner -> <program>")
}

func TestWithSuggestionFindsCloseMatch(t *testing.T) {
	t.Parallel()

	msg := WithSuggestion("'lenn' is not defined", "lenn", []string{"LEN", "TYPE"})
	assert.Contains(t, msg, "did you mean 'LEN'?")
}

func TestWithSuggestionNoMatchLeavesMessageAlone(t *testing.T) {
	t.Parallel()

	msg := WithSuggestion("'zzz' is not defined", "zzz", []string{"PRINT", "APPEND"})
	assert.Equal(t, "'zzz' is not defined", msg)
}

func TestWithSuggestionIgnoresExactMatchInPool(t *testing.T) {
	t.Parallel()

	// name itself should never be suggested as a correction for itself
	msg := WithSuggestion("oops", "PRINT", []string{"PRINT"})
	assert.Equal(t, "oops", msg)
}
