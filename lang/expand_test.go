package lang

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinations(t *testing.T) {
	tests := []struct {
		n, k int
		want [][]int
	}{
		{3, 2, [][]int{{0, 1}, {0, 2}, {1, 2}}},
		{4, 2, [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}},
		{3, 3, [][]int{{0, 1, 2}}},
		{3, 1, [][]int{{0}, {1}, {2}}},
		{3, 0, nil},
		{2, 3, nil},
		{0, 1, nil},
	}

	for _, tt := range tests {
		var got [][]int
		for idx := range Combinations(tt.n, tt.k) {
			got = append(got, slices.Clone(idx))
		}

		assert.Equal(t, tt.want, got, "C(%d, %d)", tt.n, tt.k)
	}
}

func TestCombinations_Count(t *testing.T) {
	for n := 1; n <= 10; n++ {
		for k := 1; k <= n; k++ {
			var c uint64
			for range Combinations(n, k) {
				c++
			}

			assert.Equal(t, PolySize(n, k, false), c, "C(%d, %d)", n, k)
		}
	}
}

func TestCombinations_Break(t *testing.T) {
	var seen int

	for range Combinations(5, 2) {
		seen++
		if seen == 3 {
			break
		}
	}

	assert.Equal(t, 3, seen)
}

func TestPolySize(t *testing.T) {
	tests := []struct {
		n, k       int
		cumulative bool
		want       uint64
	}{
		{3, 2, false, 3},
		{3, 2, true, 6},
		{5, 2, false, 10},
		{5, 2, true, 15},
		{5, 5, true, 31},
		{3, 0, false, 0},
		{3, 4, true, 0},
		{64, 32, false, 1832624140942590534},
		{100, 50, false, math.MaxUint64},
		{100, 50, true, math.MaxUint64},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PolySize(tt.n, tt.k, tt.cumulative),
			"n=%d k=%d cumulative=%t", tt.n, tt.k, tt.cumulative)
	}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		input string
		want  uint64
	}{
		{"n", 1},
		{"n m o", 3},
		{"p(1, 2, 3)", 1},
		{"poly(2, m, n, o) n{a b}", 5},
		{"seq(a, b){c d{m n}}", 6},
		{"seq(a, b), seq(c, d, m)", 6},
		{"a{}", 0},
	}

	for _, tt := range tests {
		ast, err := ParseString(context.Background(), tt.input)
		require.NoError(t, err)

		got, err := Estimate(context.Background(), ast, testResolver)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.input)

		p, err := Compile(context.Background(), tt.input, testResolver)
		require.NoError(t, err)
		assert.Equal(t, int(tt.want), p.Len(), tt.input)
	}
}

func TestEstimate_Errors(t *testing.T) {
	ast, err := ParseString(context.Background(), "poly(2, m, zz)")
	require.NoError(t, err)

	_, err = Estimate(context.Background(), ast, testResolver)
	assert.ErrorIs(t, err, ErrUnknownFeature)
}

func TestEstimate_Saturates(t *testing.T) {
	b := NewBuilder()

	names := make([]string, 100)
	for i := range names {
		names[i] = "m"
	}

	ast := b.AST(b.Tuple(b.Poly(50, false, names...), b.Poly(50, true, names...)))

	got, err := Estimate(context.Background(), ast, testResolver)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got)
	assert.Equal(t, ">=18446744073709551615", FormatCount(got))

	_, err = ast.Rewrite(context.Background(), testResolver)
	assert.ErrorIs(t, err, ErrExpansionLimit)
}

func TestExpand_EmptyTuple(t *testing.T) {
	b := NewBuilder()

	_, err := b.AST(b.Tuple()).Rewrite(context.Background(), testResolver)
	assert.ErrorIs(t, err, ErrInvalidNode)
}

func TestExpand_EmptyAlternatives(t *testing.T) {
	anyName := ResolverFunc(func(name string) (Feature, bool) {
		return Feature{Name: name}, true
	})

	names := make([]string, 22)
	for i := range names {
		names[i] = fmt.Sprintf("f%d", i)
	}

	poly := "poly#(22, " + strings.Join(names, ", ") + ")"

	tests := []struct {
		name string
		text string
	}{
		{"scope", poly + "{}"},
		{"tuple", poly + ", n{}"},
		{"nested", "n(0){" + poly + ", m{}}"},
		{"seq", "seq(" + poly + ", m){}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before, after runtime.MemStats

			runtime.ReadMemStats(&before)

			p, err := Compile(context.Background(), tt.text, anyName,
				WithMaxInstances(10), WithCache(false))
			require.NoError(t, err)

			runtime.ReadMemStats(&after)

			assert.Zero(t, p.Len())
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(64<<20))
		})
	}
}

func TestExpand_EmptyBase(t *testing.T) {
	b := NewBuilder()

	names := make([]string, 22)
	for i := range names {
		names[i] = fmt.Sprintf("f%d", i)
	}

	empty := b.Scope(b.Call("n"))
	ast := b.AST(b.Scope(b.Seq(empty), b.Poly(22, true, names...)))

	anyName := ResolverFunc(func(name string) (Feature, bool) {
		return Feature{Name: name}, true
	})

	out, err := ast.Rewrite(context.Background(), anyName, WithMaxInstances(10))
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}
