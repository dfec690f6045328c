package lang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposite_String(t *testing.T) {
	n0 := Call{Name: "n", Args: []Literal{Int(0)}}
	m1 := Call{Name: "m", Args: []Literal{Int(1), Int(2)}}

	assert.Equal(t, "n(0)", NewComposite(n0).String())
	assert.Equal(t, "tuple(n(0), m(1, 2))", NewComposite(n0, m1).String())
	assert.Equal(t, "tuple(n(0))", NewTuple(n0).String())
	assert.Equal(t, "o()", NewComposite(Call{Name: "o"}).String())
}

func TestComposite_Accessors(t *testing.T) {
	calls := []Call{{Name: "a"}, {Name: "b", Args: []Literal{Int(1)}}}
	c := NewComposite(calls...)

	// The composite keeps its own copy
	calls[0].Name = "z"

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "a", c.At(0).Name)
	assert.False(t, c.Framed())

	got := c.Calls()
	got[1].Name = "y"
	assert.Equal(t, "b", c.At(1).Name)

	var names []string
	for call := range c.All() {
		names = append(names, call.Name)
	}

	assert.Equal(t, []string{"a", "b"}, names)
}

func TestComposite_Equal(t *testing.T) {
	n0 := Call{Name: "n", Args: []Literal{Int(0)}}
	n1 := Call{Name: "n", Args: []Literal{Int(1)}}

	assert.True(t, NewComposite(n0, n1).Equal(NewTuple(n0, n1)))
	assert.False(t, NewComposite(n0).Equal(NewTuple(n0)))
	assert.False(t, NewComposite(n0, n1).Equal(NewComposite(n1, n0)))
	assert.True(t, n0.Equal(Call{Name: "n", Args: []Literal{Int(0)}}))
	assert.False(t, n0.Equal(Call{Name: "n", Args: []Literal{{Kind: LiteralFloat, Text: "0"}}}))
}

func TestProgram(t *testing.T) {
	p, err := Compile(context.Background(), "n(0), m(1) o poly(1, n)", testResolver)
	require.NoError(t, err)

	assert.Equal(t, 3, p.Len())
	assert.Equal(t, "tuple(n(0), m(1)) o() tuple(n())", p.String())
	assert.Equal(t, []string{"tuple(n(0), m(1))", "o()", "tuple(n())"}, p.Strings())

	var idx []int
	for i, c := range p.All() {
		idx = append(idx, i)
		assert.Equal(t, p.Instances[i].String(), c.String())
	}

	assert.Equal(t, []int{0, 1, 2}, idx)
}

func TestProgram_Hash(t *testing.T) {
	a, err := Compile(context.Background(), "n(0) m(0)", testResolver)
	require.NoError(t, err)

	b, err := Compile(context.Background(), "n(0)  m(0) # same", testResolver)
	require.NoError(t, err)

	c, err := Compile(context.Background(), "m(0) n(0)", testResolver)
	require.NoError(t, err)

	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())
	assert.False(t, a.Equal(c))
}

func TestAssemble(t *testing.T) {
	b := NewBuilder()

	p, err := Assemble(b.AST(
		b.Call("n", Int(0)),
		b.Tuple(b.Call("m"), b.Call("o", b.String("x"))),
	))
	require.NoError(t, err)
	assert.Equal(t, `n(0) tuple(m(), o("x"))`, p.String())

	for _, ast := range []*AST{
		b.AST(b.Seq(b.Call("n"))),
		b.AST(b.Scope(b.Call("n"), b.Call("m"))),
		b.AST(b.Tuple(b.Call("n"), b.Tuple(b.Call("m")))),
		b.AST(b.Poly(1, false, "n")),
		b.AST(b.Tuple()),
	} {
		p, err := Assemble(ast)
		assert.ErrorIs(t, err, ErrInvalidNode, ast.String())
		assert.Zero(t, p.Len())
	}
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()

	built := b.AST(
		b.Scope(b.Call("n", Int(0)),
			b.Call("m", Int(1)),
			b.Tuple(b.Call("m", Int(2)), b.Call("o", b.Float(1.5), b.Identifier("x"))),
		),
		b.Poly(2, true, "m", "n"),
		b.Seq(b.Call("a"), b.Call("b")),
	)

	parsed, err := ParseString(context.Background(),
		"n(0){m(1) <m(2), o(1.5, x)>} poly#(2, m, n) seq(a(), b())")
	require.NoError(t, err)

	assert.True(t, built.Equal(parsed), "built %s, parsed %s", built, parsed)
}
