package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/ftmpl/lang"
	"github.com/ardnew/ftmpl/registry"
)

var sentence = []Token{
	{"word": "The", "tag": "DT"},
	{"word": "Dog", "tag": "NN"},
	{"word": "barks", "tag": "VBZ"},
}

func newExtractor(t *testing.T, template string) Extractor {
	t.Helper()

	tbl := registry.Demo()

	prog, err := lang.Compile(context.Background(), template, tbl)
	require.NoError(t, err)

	ev, err := NewExprEvaluator(tbl)
	require.NoError(t, err)

	return Extractor{Program: prog, Evaluator: ev}
}

func TestExtract_Demo(t *testing.T) {
	x := newExtractor(t, "n(0) m(0) <n(0), m(0)> p(1) o")

	keys, err := x.Extract(context.Background(), Input{Seq: sentence, Pos: 1})
	require.NoError(t, err)

	assert.Equal(t, []Key{
		"n(0)=Dog",
		"m(0)=NN",
		"tuple(n(0)=Dog, m(0)=NN)",
		"p(1)=barks",
		"o()=3",
	}, keys)
}

func TestExtract_AbsentComposites(t *testing.T) {
	x := newExtractor(t, "n(-1) tuple(n(0), n(1)) p(1)")

	keys, err := x.Extract(context.Background(), Input{Seq: sentence, Pos: 2})
	require.NoError(t, err)

	assert.Equal(t, []Key{"n(-1)=Dog"}, keys)
}

func TestExtract_FramedSingleton(t *testing.T) {
	x := newExtractor(t, "poly(1, n, m)")

	keys, err := x.Extract(context.Background(), Input{Seq: sentence, Pos: 0})
	require.NoError(t, err)

	assert.Equal(t, []Key{"tuple(n()=The)", "tuple(m()=DT)"}, keys)
}

func TestExtractAll(t *testing.T) {
	x := newExtractor(t, "n(-1) n")

	all, err := x.ExtractAll(context.Background(), sentence)
	require.NoError(t, err)

	assert.Equal(t, [][]Key{
		{"n()=The"},
		{"n(-1)=The", "n()=Dog"},
		{"n(-1)=Dog", "n()=barks"},
	}, all)
}

func TestExtract_Deterministic(t *testing.T) {
	x := newExtractor(t, "poly#(2, n, m, o)")

	first, err := x.ExtractAll(context.Background(), sentence)
	require.NoError(t, err)

	for range 5 {
		again, err := x.ExtractAll(context.Background(), sentence)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestExtract_EvaluatorError(t *testing.T) {
	prog, err := lang.Compile(context.Background(), "n m", registry.Demo())
	require.NoError(t, err)

	x := Extractor{
		Program: prog,
		Evaluator: EvaluatorFunc(func(_ context.Context, call lang.Call, _ Input) (any, error) {
			if call.Name == "m" {
				return nil, ErrEvaluate
			}

			return "v", nil
		}),
	}

	_, err = x.Extract(context.Background(), Input{Seq: sentence})
	require.ErrorIs(t, err, ErrEvaluate)

	v, ok := lang.WrapError(err).Attr("instance")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.Int64())
}

func TestExprEvaluator_Errors(t *testing.T) {
	tbl, err := registry.New(
		registry.Definition{Name: "bare"},
		registry.Definition{Name: "bad", Expr: "1 +"},
	)
	require.NoError(t, err)

	_, err = NewExprEvaluator(tbl)
	require.ErrorIs(t, err, ErrEvaluate)

	tbl, err = registry.New(registry.Definition{Name: "bare"})
	require.NoError(t, err)

	ev, err := NewExprEvaluator(tbl)
	require.NoError(t, err)

	_, err = ev.Evaluate(context.Background(), lang.Call{Name: "bare"}, Input{})
	require.ErrorIs(t, err, ErrEvaluate)
}

func TestExprEvaluator_Canceled(t *testing.T) {
	ev, err := NewExprEvaluator(registry.Demo())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = ev.Evaluate(ctx, lang.Call{Name: "n"}, Input{Seq: sentence})
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadInput(t *testing.T) {
	src := `
- {word: The, tag: DT}
- word: Dog
  tag: NN
`

	seq, err := LoadInput(context.Background(), strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, seq, 2)
	assert.Equal(t, "Dog", seq[1]["word"])

	seq, err = LoadInput(context.Background(), strings.NewReader(`[{"word": "x"}]`))
	require.NoError(t, err)
	assert.Equal(t, "x", seq[0]["word"])

	_, err = LoadInput(context.Background(), strings.NewReader("- [unclosed"))
	require.ErrorIs(t, err, lang.ErrReadInput)
}

func TestInput_At(t *testing.T) {
	in := Input{Seq: sentence, Pos: 0}

	assert.Nil(t, in.At(-1))
	assert.Equal(t, "Dog", in.At(1)["word"])
	assert.Nil(t, in.At(3))
}
