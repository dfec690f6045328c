package lang

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"
)

// FuzzParseString checks that the parser never panics, that every failure
// is a positioned parse error, and that successful parses re-render to
// source that parses to the same AST.
func FuzzParseString(f *testing.F) {
	f.Add("n")
	f.Add("n(0,1)")
	f.Add("n(0) m(0)")
	f.Add("<n(0),m(0)>")
	f.Add("p(1,2)")
	f.Add("poly(1,m,n)")
	f.Add("poly#(2, m, n, o)")
	f.Add("n(0){m(1) m(2) {p(0) p(1)}}")
	f.Add("seq(n(0), n(1)){m(1) m(2)}")
	f.Add(`n("a\"b", -1.5e3, id) // comment`)
	f.Add("/* block */ a{}")
	f.Add("<<<")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		ctx := context.Background()

		ast, err := ParseString(ctx, input, WithCache(false))
		if err != nil {
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("non-package error %T: %v", err, err)
			}

			if !errors.Is(err, ErrParse) && !errors.Is(err, ErrMaxDepthExceeded) {
				t.Fatalf("unexpected error class: %v", err)
			}

			if _, ok := e.Position(); !ok {
				t.Fatalf("error without position: %v", err)
			}

			return
		}

		// Rendering may add one level of nesting, so reparse without a limit
		again, err := ParseString(ctx, ast.String(), WithCache(false), WithMaxDepth(0))
		if err != nil {
			t.Fatalf("reparse of %q failed: %v", ast.String(), err)
		}

		if !ast.Equal(again) {
			t.Fatalf("reparse of %q changed the AST: %q", input, again.String())
		}
	})
}
