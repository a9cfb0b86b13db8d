package parseflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/parseflow/interp"
	"github.com/opal-lang/parseflow/value"
)

func TestRunEvaluatesSource(t *testing.T) {
	t.Parallel()

	v, err := Run("<test>", "1 + 2 * 3")
	require.Nil(t, err)
	assert.Equal(t, float64(7), v.(*value.Number).Val)
}

func TestRunPropagatesParseErrors(t *testing.T) {
	t.Parallel()

	_, err := Run("<test>", "1 +")
	require.NotNil(t, err)
}

func TestRunDoesNotPersistAcrossCalls(t *testing.T) {
	t.Parallel()

	_, err := Run("<test>", "VAR x = 1")
	require.Nil(t, err)

	_, err2 := Run("<test>", "x")
	require.NotNil(t, err2)
	assert.Contains(t, err2.Message, "not defined")
}

func TestSessionPersistsVariablesAcrossEvalCalls(t *testing.T) {
	t.Parallel()

	session := NewSession(interp.New())

	_, err := session.Eval("<test>", "VAR x = 10")
	require.Nil(t, err)

	v, err := session.Eval("<test>", "x + 5")
	require.Nil(t, err)
	assert.Equal(t, float64(15), v.(*value.Number).Val)
}

func TestParseReturnsRootWithoutEvaluating(t *testing.T) {
	t.Parallel()

	root, err := Parse("<test>", "1 + 2")
	require.Nil(t, err)
	assert.Equal(t, "(1 PLUS 2)", root.String())
}
