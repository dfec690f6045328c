package cli

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

type resolverCLI struct {
	LogLevel     string   `name:"log-level"`
	MaxInstances uint64   `default:"7"`
	Ratio        float64  `default:"0"`
	Files        []string `name:"files"`
	Pretty       bool     `default:"true"`
}

func loadConfig(t *testing.T, text string) kong.Resolver {
	t.Helper()

	r, err := resolve(context.Background())(strings.NewReader(text))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	return r
}

func parseWith(t *testing.T, r kong.Resolver, args ...string) resolverCLI {
	t.Helper()

	var c resolverCLI

	parser, err := kong.New(&c, kong.Resolvers(r))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}

	return c
}

func TestResolve(t *testing.T) {
	r := loadConfig(t, `
log:
  level: debug
max_instances: 42
ratio: 0.5
files: [a.tmpl, b.tmpl]
pretty: false
`)

	c := parseWith(t, r)

	if c.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", c.LogLevel, "debug")
	}

	if c.MaxInstances != 42 {
		t.Errorf("MaxInstances = %d, want 42", c.MaxInstances)
	}

	if c.Ratio != 0.5 {
		t.Errorf("Ratio = %v, want 0.5", c.Ratio)
	}

	if !slices.Equal(c.Files, []string{"a.tmpl", "b.tmpl"}) {
		t.Errorf("Files = %v", c.Files)
	}

	if c.Pretty {
		t.Error("Pretty = true, want false")
	}
}

func TestResolve_FlagsOverride(t *testing.T) {
	r := loadConfig(t, "log-level: debug\nmax-instances: 42\n")

	c := parseWith(t, r, "--log-level=warn")
	if c.LogLevel != "warn" || c.MaxInstances != 42 {
		t.Errorf("got LogLevel=%q MaxInstances=%d", c.LogLevel, c.MaxInstances)
	}
}

func TestResolve_Empty(t *testing.T) {
	c := parseWith(t, loadConfig(t, ""))
	if c.MaxInstances != 7 || !c.Pretty {
		t.Errorf("defaults not kept: %+v", c)
	}
}

func TestResolve_Invalid(t *testing.T) {
	_, err := resolve(context.Background())(strings.NewReader("log: [\n"))
	if !errors.Is(err, ErrConfig) {
		t.Errorf("error = %v, want ErrConfig", err)
	}
}

func TestConfigFlatten(t *testing.T) {
	c := make(config)
	c.flatten("", map[string]any{
		"a": map[string]any{
			"b_c": map[any]any{"d": uint64(1)},
		},
		"e": []any{int64(-2), "x"},
	})

	if got := c["a-b-c-d"]; got != "1" {
		t.Errorf("a-b-c-d = %#v", got)
	}

	if got, ok := c["e"].([]any); !ok || !slices.Equal(got, []any{"-2", "x"}) {
		t.Errorf("e = %#v", c["e"])
	}
}
