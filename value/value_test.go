package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberReprDropsTrailingZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "3", NewNumber(3).Repr())
	assert.Equal(t, "3.5", NewNumber(3.5).Repr())
	assert.Equal(t, "-2", NewNumber(-2).Repr())
}

func TestBoolHelper(t *testing.T) {
	t.Parallel()

	assert.True(t, Bool(true).Truthy())
	assert.False(t, Bool(false).Truthy())
}

func TestStringRepr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"hi"`, NewString("hi").Repr())
	assert.False(t, NewString("").Truthy())
}

func TestListRepr(t *testing.T) {
	t.Parallel()

	l := NewList([]Value{NewNumber(1), NewString("a")})
	assert.Equal(t, `[1, "a"]`, l.Repr())
}

func TestListCopyIsIndependent(t *testing.T) {
	t.Parallel()

	original := NewList([]Value{NewNumber(1)})
	copied := original.Copy()
	copied.Elements = append(copied.Elements, NewNumber(2))

	assert.Len(t, original.Elements, 1)
	assert.Len(t, copied.Elements, 2)
}

func TestFunctionRepr(t *testing.T) {
	t.Parallel()

	named := NewFunction("add", []string{"a", "b"}, nil, true, nil)
	assert.Equal(t, "<function add>", named.Repr())

	anon := NewFunction("", nil, nil, true, nil)
	assert.Equal(t, "<function <anonymous>>", anon.Repr())
}

func TestBuiltInRepr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<built-in function PRINT>", NewBuiltIn("PRINT").Repr())
}

func TestNullReprAndTruthy(t *testing.T) {
	t.Parallel()

	n := NewNull()
	assert.Equal(t, "null", n.Repr())
	assert.False(t, n.Truthy())
}

func TestEqualAcrossTypes(t *testing.T) {
	t.Parallel()

	assert.True(t, Equal(NewNumber(1), NewNumber(1)))
	assert.False(t, Equal(NewNumber(1), NewString("1")))
	assert.True(t, Equal(NewString("a"), NewString("a")))
	assert.True(t, Equal(
		NewList([]Value{NewNumber(1), NewNumber(2)}),
		NewList([]Value{NewNumber(1), NewNumber(2)}),
	))
	assert.False(t, Equal(
		NewList([]Value{NewNumber(1)}),
		NewList([]Value{NewNumber(1), NewNumber(2)}),
	))
	assert.True(t, Equal(NewNull(), NewNull()))
}

func TestWithSpanReturnsNewValue(t *testing.T) {
	t.Parallel()

	n := NewNumber(1)
	withSpan := n.WithSpan(n.Span())
	assert.NotSame(t, n, withSpan)
	assert.Equal(t, n.Val, withSpan.(*Number).Val)
}
