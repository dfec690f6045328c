package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/ftmpl/lang"
)

// document is the on-disk form of a registry.
type document struct {
	Features []Definition `yaml:"features"`
}

// Load reads a registry document from r. JSON documents are accepted, being
// valid YAML. Unknown fields are rejected.
func Load(ctx context.Context, r io.Reader) (*Table, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	var doc document

	err := yaml.NewDecoder(ra, yaml.DisallowUnknownField()).DecodeContext(ctx, &doc)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, ErrInvalidRegistry.Wrap(err)
	}

	return New(doc.Features...)
}

// LoadFile reads a registry document from the file at path.
func LoadFile(ctx context.Context, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, lang.ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	t, err := Load(ctx, f)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("path", path))
	}

	return t, nil
}

// Encode writes t to w as a registry document that [Load] reads back.
func (t *Table) Encode(ctx context.Context, w io.Writer) error {
	doc := document{Features: slices.Collect(t.All())}

	return yaml.NewEncoder(w).EncodeContext(ctx, doc)
}
