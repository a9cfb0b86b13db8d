package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/parseflow/lexer"
	"github.com/opal-lang/parseflow/parser"
)

func TestWritingTheSameSourceTwiceIsByteIdentical(t *testing.T) {
	t.Parallel()

	source := "VAR x = 1 + 2\nx * x"
	tokens, lexErr := lexer.New("<test>", source).Tokenize()
	require.Nil(t, lexErr)
	root, parseErr := parser.New("<test>", source, tokens).ParseProgram()
	require.Nil(t, parseErr)

	var first, second bytes.Buffer
	require.NoError(t, NewCBORWriter(&first).Write("<test>", root))
	require.NoError(t, NewCBORWriter(&second).Write("<test>", root))

	assert.Equal(t, first.Bytes(), second.Bytes())
	assert.NotEmpty(t, first.Bytes())
}

func TestDifferentSourceProducesDifferentDump(t *testing.T) {
	t.Parallel()

	tokensA, lexErrA := lexer.New("<test>", "1 + 2").Tokenize()
	require.Nil(t, lexErrA)
	rootA, parseErrA := parser.New("<test>", "1 + 2", tokensA).ParseProgram()
	require.Nil(t, parseErrA)

	tokensB, lexErrB := lexer.New("<test>", "1 + 3").Tokenize()
	require.Nil(t, lexErrB)
	rootB, parseErrB := parser.New("<test>", "1 + 3", tokensB).ParseProgram()
	require.Nil(t, parseErrB)

	var a, b bytes.Buffer
	require.NoError(t, NewCBORWriter(&a).Write("<test>", rootA))
	require.NoError(t, NewCBORWriter(&b).Write("<test>", rootB))

	assert.NotEqual(t, a.Bytes(), b.Bytes())
}

func TestDifferentFileLabelProducesDifferentDump(t *testing.T) {
	t.Parallel()

	tokens, lexErr := lexer.New("<test>", "1").Tokenize()
	require.Nil(t, lexErr)
	root, parseErr := parser.New("<test>", "1", tokens).ParseProgram()
	require.Nil(t, parseErr)

	var a, b bytes.Buffer
	require.NoError(t, NewCBORWriter(&a).Write("a.pf", root))
	require.NoError(t, NewCBORWriter(&b).Write("b.pf", root))

	assert.NotEqual(t, a.Bytes(), b.Bytes())
}

