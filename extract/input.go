package extract

import (
	"context"
	"errors"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/ftmpl/lang"
)

// Token is one element of an input sequence.
type Token = map[string]any

// Input is a position within a token sequence.
type Input struct {
	Seq []Token
	Pos int
}

// At returns the token at offset positions from Pos, or nil when that falls
// outside the sequence.
func (in Input) At(offset int) Token {
	i := in.Pos + offset
	if i < 0 || i >= len(in.Seq) {
		return nil
	}

	return in.Seq[i]
}

// LoadInput reads a token sequence from r: a YAML (or JSON) list of
// mappings.
func LoadInput(ctx context.Context, r io.Reader) ([]Token, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	var seq []Token

	err := yaml.NewDecoder(ra).DecodeContext(ctx, &seq)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, lang.ErrReadInput.Wrap(err)
	}

	return seq, nil
}
