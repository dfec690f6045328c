package lang

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "sentinel",
			err:  ErrUnknownFeature,
			want: "unknown feature",
		},
		{
			name: "position and attrs",
			err: ErrUnknownFeature.
				WithPosition(Position{Offset: 2, Line: 1, Column: 3}).
				With(slog.String("name", "x")),
			want: "unknown feature at 1:3 (name=x)",
		},
		{
			name: "wrapped",
			err:  ErrReadInput.Wrap(io.ErrUnexpectedEOF),
			want: "failed to read input: unexpected EOF",
		},
		{
			name: "foreign",
			err:  WrapError(errors.New("boom")),
			want: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	derived := ErrInvalidArity.With(slog.Int("k", 0)).WithPosition(Position{Line: 1, Column: 1})

	if !errors.Is(derived, ErrInvalidArity) {
		t.Error("derived error should match its sentinel")
	}

	if errors.Is(derived, ErrParse) {
		t.Error("derived error should not match another sentinel")
	}

	wrapped := ErrReadInput.Wrap(io.EOF)
	if !errors.Is(wrapped, io.EOF) {
		t.Error("wrapped cause should be reachable")
	}

	if errors.Is(WrapError(io.EOF), ErrReadInput) {
		t.Error("foreign error should not match a sentinel")
	}
}

func TestError_WithDoesNotAlias(t *testing.T) {
	base := ErrParse.With(slog.String("a", "1"))
	x := base.With(slog.String("b", "2"))
	y := base.With(slog.String("c", "3"))

	if _, ok := x.Attr("c"); ok {
		t.Error("attributes leaked between derived errors")
	}

	if _, ok := y.Attr("b"); ok {
		t.Error("attributes leaked between derived errors")
	}

	if _, ok := ErrParse.Attr("a"); ok {
		t.Error("sentinel was modified")
	}
}

func TestError_WrapErrorKeepsError(t *testing.T) {
	orig := ErrParse.With(slog.String("expected", ")"))

	if got := WrapError(orig); got != orig {
		t.Errorf("expected the same *Error back, got %v", got)
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrParse.
		WithPosition(Position{Offset: 4, Line: 1, Column: 5}).
		With(slog.String("expected", "literal"))

	v := err.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("expected group, got %s", v.Kind())
	}

	keys := map[string]bool{}
	for _, a := range v.Group() {
		keys[a.Key] = true
	}

	for _, k := range []string{"error", "position", "expected"} {
		if !keys[k] {
			t.Errorf("missing %q in %v", k, v)
		}
	}
}

func TestError_SnippetOutOfRange(t *testing.T) {
	err := ErrParse.WithPosition(Position{Line: 3, Column: 1})

	if got := err.Snippet("one line"); got != "" {
		t.Errorf("expected empty snippet, got %q", got)
	}

	if got := ErrParse.Snippet("x"); got != "" {
		t.Errorf("expected empty snippet without position, got %q", got)
	}
}
