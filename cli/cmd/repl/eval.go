package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ftmpl/lang"
	"github.com/ardnew/ftmpl/registry"
)

// session holds what every evaluation needs.
type session struct {
	registry *registry.Table
	options  []lang.Option
}

// outcome is the result of a control command.
type outcome struct {
	output string
	clear  bool
	quit   bool
}

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help             Print this cruft
  list [filter]    List registered features
  ast <template>   Print the parsed template
  rewrite <tmpl>   Print the template after all rewriting passes
  count <template> Count composites without compiling
  info             Print registry size and fingerprint
  clear            Clear screen
  quit             Exit REPL

Usage:
  Type a template to compile it (one composite per line)
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to switch to command mode and navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// compile compiles text and renders one composite per line.
func (s session) compile(ctx context.Context, text string) (string, error) {
	p, err := lang.Compile(ctx, text, s.registry, s.options...)
	if err != nil {
		return "", describe(text, err)
	}

	if p.Len() == 0 {
		return "(empty program)", nil
	}

	return strings.Join(p.Strings(), "\n"), nil
}

// command runs a control command line.
func (s session) command(ctx context.Context, input string) (outcome, error) {
	name, rest, _ := strings.Cut(strings.TrimSpace(input), " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "q", "quit", "exit":
		return outcome{quit: true}, nil

	case "h", "help":
		return outcome{output: helpMessage()}, nil

	case "l", "list":
		return outcome{output: s.list(rest)}, nil

	case "c", "clear":
		return outcome{clear: true}, nil

	case "i", "info":
		return outcome{output: s.info()}, nil

	case "ast", "rewrite":
		if rest == "" {
			return outcome{}, ErrMissingArg.With(slog.String("command", name))
		}

		out, err := s.tree(ctx, rest, name == "rewrite")

		return outcome{output: out}, err

	case "count":
		if rest == "" {
			return outcome{}, ErrMissingArg.With(slog.String("command", name))
		}

		out, err := s.count(ctx, rest)

		return outcome{output: out}, err

	default:
		return outcome{}, ErrUnknownCommand.With(slog.String("command", name))
	}
}

// list renders the features whose names fuzzy-match filter, or all
// features if filter is empty.
func (s session) list(filter string) string {
	var names []string

	if filter == "" {
		names = s.registry.Names()
	} else {
		for _, m := range fuzzy.Find(filter, s.registry.Names()) {
			names = append(names, m.Str)
		}
	}

	var b strings.Builder

	for _, name := range names {
		d, _ := s.registry.Definition(name)
		fmt.Fprintf(&b, "  %s %s\n", d.Signature(), hintStyle.Render(d.Doc))
	}

	return b.String()
}

func (s session) info() string {
	return fmt.Sprintf("  features    %d\n  fingerprint %s\n",
		s.registry.Len(),
		strconv.FormatUint(s.registry.Fingerprint(), 16))
}

// tree renders the parsed template, optionally after all rewriting passes.
func (s session) tree(
	ctx context.Context,
	text string,
	rewrite bool,
) (string, error) {
	ast, err := lang.ParseString(ctx, text, s.options...)
	if err != nil {
		return "", describe(text, err)
	}

	if rewrite {
		ast, err = ast.Rewrite(ctx, s.registry, s.options...)
		if err != nil {
			return "", describe(text, err)
		}
	}

	return ast.String(), nil
}

func (s session) count(ctx context.Context, text string) (string, error) {
	ast, err := lang.ParseString(ctx, text, s.options...)
	if err != nil {
		return "", describe(text, err)
	}

	n, err := lang.Estimate(ctx, ast, s.registry)
	if err != nil {
		return "", describe(text, err)
	}

	return lang.FormatCount(n), nil
}

// replError is an error with the source snippet it refers to.
type replError struct {
	err     error
	snippet string
}

func (e *replError) Error() string { return e.err.Error() }

func (e *replError) Unwrap() error { return e.err }

// describe attaches a snippet of text marking the error position, if any.
func describe(text string, err error) error {
	var lerr *lang.Error
	if !errors.As(err, &lerr) {
		return err
	}

	return &replError{err: err, snippet: lerr.Snippet(text)}
}

// renderError formats err for display below the echoed input.
func renderError(err error) string {
	msg := errorStyle.Render("error: " + err.Error())

	var rerr *replError
	if errors.As(err, &rerr) && rerr.snippet != "" {
		msg += "\n" + hintStyle.Render(strings.TrimRight(rerr.snippet, "\n"))
	}

	return msg
}
