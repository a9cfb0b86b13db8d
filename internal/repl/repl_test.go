package repl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opal-lang/parseflow/value"
)

func TestRunEvaluatesEachLineAndPrintsItsRepr(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	Run(strings.NewReader("1 + 1\nexit\n"), &out)
	assert.Contains(t, out.String(), "2\n")
}

func TestRunPersistsVariablesAcrossLines(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	Run(strings.NewReader("VAR x = 5\nx + 1\nexit\n"), &out)
	assert.Contains(t, out.String(), "6\n")
}

func TestRunSkipsBlankLines(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	Run(strings.NewReader("\n\n1\nexit\n"), &out)
	assert.Contains(t, out.String(), "1\n")
}

func TestRunPrintsRenderedErrorAndContinues(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	Run(strings.NewReader("VAR x = 1 +\n2 + 2\nexit\n"), &out)
	assert.Contains(t, out.String(), "InvalidSyntaxError")
	assert.Contains(t, out.String(), "4\n")
}

func TestRunStopsAtEOFWithoutExitKeyword(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	Run(strings.NewReader("1 + 2\n"), &out)
	assert.Contains(t, out.String(), "3\n")
}

func TestReprOfUnwrapsSingleElementList(t *testing.T) {
	t.Parallel()

	list := value.NewList([]value.Value{value.NewNumber(7)})
	assert.Equal(t, "7", reprOf(list))
}

func TestReprOfPrintsMultiElementListAsIs(t *testing.T) {
	t.Parallel()

	list := value.NewList([]value.Value{value.NewNumber(1), value.NewNumber(2)})
	assert.Equal(t, "[1, 2]", reprOf(list))
}

func TestReprOfNonListUsesOwnRepr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"hi"`, reprOf(value.NewString("hi")))
}
