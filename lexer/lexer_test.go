package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/parseflow/token"
)

func kinds(t []token.Token) []token.Kind {
	out := make([]token.Kind, len(t))
	for i, tok := range t {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeArithmeticExpression(t *testing.T) {
	t.Parallel()

	toks, err := New("<test>", "1 + 2 * 3").Tokenize()
	require.Nil(t, err)
	assert.Equal(t, []token.Kind{token.INT, token.PLUS, token.INT, token.MUL, token.INT, token.EOF}, kinds(toks))
}

func TestTokenizeFloatHasSingleDot(t *testing.T) {
	t.Parallel()

	toks, err := New("<test>", "3.14").Tokenize()
	require.Nil(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.FLOAT, toks[0].Kind)
	assert.Equal(t, "3.14", toks[0].Value)
}

func TestTokenizeStringEscapes(t *testing.T) {
	t.Parallel()

	toks, err := New("<test>", `"a\nb\t\"c\""`).Tokenize()
	require.Nil(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "a\nb\t\"c\"", toks[0].Value)
}

func TestTokenizeUnterminatedStringErrors(t *testing.T) {
	t.Parallel()

	_, err := New("<test>", `"unterminated`).Tokenize()
	require.NotNil(t, err)
	assert.Equal(t, "ExpectedCharError", err.Kind.String())
}

func TestTokenizeIdentifierVsKeyword(t *testing.T) {
	t.Parallel()

	toks, err := New("<test>", "VAR x = IF").Tokenize()
	require.Nil(t, err)
	assert.Equal(t, token.KEYWORD, toks[0].Kind)
	assert.Equal(t, token.IDENTIFIER, toks[1].Kind)
	assert.Equal(t, token.EQ, toks[2].Kind)
	assert.Equal(t, token.KEYWORD, toks[3].Kind)
}

func TestTokenizeCommaIsARealToken(t *testing.T) {
	t.Parallel()

	toks, err := New("<test>", "f(1, 2)").Tokenize()
	require.Nil(t, err)
	assert.Contains(t, kinds(toks), token.COMMA)
}

func TestTokenizeCommentSkippedNotNewline(t *testing.T) {
	t.Parallel()

	toks, err := New("<test>", "1 # a comment\n2").Tokenize()
	require.Nil(t, err)
	assert.Equal(t, []token.Kind{token.INT, token.NEWLINE, token.INT, token.EOF}, kinds(toks))
}

func TestTokenizeOperators(t *testing.T) {
	t.Parallel()

	toks, err := New("<test>", "== != <= >= < > ->").Tokenize()
	require.Nil(t, err)
	assert.Equal(t, []token.Kind{
		token.EE, token.NE, token.LTE, token.GTE, token.LT, token.GT, token.ARROW, token.EOF,
	}, kinds(toks))
}

func TestTokenizeBareBangErrors(t *testing.T) {
	t.Parallel()

	_, err := New("<test>", "!x").Tokenize()
	require.NotNil(t, err)
	assert.Equal(t, "ExpectedCharError", err.Kind.String())
}

func TestTokenizeIllegalCharacter(t *testing.T) {
	t.Parallel()

	_, err := New("<test>", "@").Tokenize()
	require.NotNil(t, err)
	assert.Equal(t, "IllegalCharError", err.Kind.String())
}

func TestTokenizeIsDeterministic(t *testing.T) {
	t.Parallel()

	source := `VAR total = 0
FOR i = 1 TO 10 THEN total = total + i
PRINT(total)`
	first, err := New("<test>", source).Tokenize()
	require.Nil(t, err)
	second, err := New("<test>", source).Tokenize()
	require.Nil(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("two tokenizations of the same source diverged (-first +second):\n%s", diff)
	}
}
