package repl

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/ftmpl/lang"
	"github.com/ardnew/ftmpl/registry"
)

func testSession() session {
	return session{registry: registry.Demo()}
}

func TestSession_Compile(t *testing.T) {
	s := testSession()

	got, err := s.compile(context.Background(), "n(0) p(0, 1)")
	if err != nil {
		t.Fatal(err)
	}

	if want := "n(0)\ntuple(p(0), p(1))"; got != want {
		t.Errorf("compile = %q, want %q", got, want)
	}

	got, err = s.compile(context.Background(), "// nothing")
	if err != nil || got != "(empty program)" {
		t.Errorf("compile of empty template = %q, %v", got, err)
	}
}

func TestSession_CompileErrors(t *testing.T) {
	s := testSession()

	_, err := s.compile(context.Background(), "zz")
	if !errors.Is(err, lang.ErrUnknownFeature) {
		t.Errorf("unknown feature error = %v", err)
	}

	_, err = s.compile(context.Background(), "n(0")
	if !errors.Is(err, lang.ErrParse) {
		t.Fatalf("parse error = %v", err)
	}

	var rerr *replError
	if !errors.As(err, &rerr) || rerr.snippet == "" {
		t.Fatalf("parse error carries no snippet: %v", err)
	}

	if got := renderError(err); !strings.Contains(got, "1 | n(0") {
		t.Errorf("renderError = %q", got)
	}
}

func TestSession_Command(t *testing.T) {
	tests := []struct {
		input string
		want  string
		quit  bool
		clear bool
	}{
		{input: "count poly(2, m, n, o)", want: "3"},
		{input: "count n(0){m(1) m(2)}", want: "2"},
		{input: "ast n(0),m(0)", want: "tuple(n(0), m(0))"},
		{input: "rewrite p(0, 1)", want: "tuple(p(0), p(1))"},
		{input: "quit", quit: true},
		{input: "q", quit: true},
		{input: "clear", clear: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out, err := testSession().command(context.Background(), tt.input)
			if err != nil {
				t.Fatal(err)
			}

			if out.output != tt.want || out.quit != tt.quit || out.clear != tt.clear {
				t.Errorf("command(%q) = %+v", tt.input, out)
			}
		})
	}
}

func TestSession_CommandOutput(t *testing.T) {
	s := testSession()
	ctx := context.Background()

	out, err := s.command(ctx, "help")
	if err != nil || !strings.Contains(out.output, "Commands") {
		t.Errorf("help = %q, %v", out.output, err)
	}

	out, err = s.command(ctx, "list")
	if err != nil {
		t.Fatal(err)
	}

	for _, sig := range []string{"n(...args)", "m(...args)", "o(...args)", "p(...index)"} {
		if !strings.Contains(out.output, sig) {
			t.Errorf("list is missing %q:\n%s", sig, out.output)
		}
	}

	out, err = s.command(ctx, "list p")
	if err != nil || !strings.Contains(out.output, "p(...index)") ||
		strings.Contains(out.output, "n(...args)") {
		t.Errorf("filtered list = %q, %v", out.output, err)
	}

	out, err = s.command(ctx, "info")
	if err != nil || !strings.Contains(out.output, "features    4") {
		t.Errorf("info = %q, %v", out.output, err)
	}
}

func TestSession_CommandErrors(t *testing.T) {
	s := testSession()
	ctx := context.Background()

	if _, err := s.command(ctx, "frobnicate"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown command error = %v", err)
	}

	for _, cmd := range []string{"ast", "rewrite  ", "count"} {
		if _, err := s.command(ctx, cmd); !errors.Is(err, ErrMissingArg) {
			t.Errorf("%q error = %v, want ErrMissingArg", cmd, err)
		}
	}

	if _, err := s.command(ctx, "count zz"); !errors.Is(err, lang.ErrUnknownFeature) {
		t.Errorf("count of unknown feature error = %v", err)
	}
}
