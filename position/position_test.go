package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceTracksLineAndColumn(t *testing.T) {
	t.Parallel()

	p := New("<test>", "ab\ncd")
	p = p.Advance('a')
	assert.Equal(t, 1, p.Index)
	assert.Equal(t, 0, p.Line)
	assert.Equal(t, 1, p.Column)

	p = p.Advance('b')
	assert.Equal(t, 2, p.Column)

	p = p.Advance('\n')
	assert.Equal(t, 1, p.Line)
	assert.Equal(t, 0, p.Column)
}

func TestSpanLineIsOneBased(t *testing.T) {
	t.Parallel()

	start := New("<test>", "x\ny")
	start = start.Advance('x').Advance('\n')
	span := NewSpan(start, start.Advance('y'))
	assert.Equal(t, 2, span.Line())
}
