package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ftmpl/registry"
)

// Features lists the features of the registry.
type Features struct {
	Filter string `arg:"" help:"Fuzzy filter on feature names." name:"filter" optional:""`

	Format string `default:"native" enum:"native,json,yaml" help:"Output format." short:"o"`
}

// Run executes the features command.
func (f *Features) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env := envFrom(ctx)
	defs := selectFeatures(env.Registry, f.Filter)

	var out string

	switch f.Format {
	case "json":
		data, err := json.MarshalIndent(defs, "", "  ")
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		out = string(data) + "\n"

	case "yaml":
		data, err := yaml.MarshalContext(ctx, defs)
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		out = string(data)

	default:
		out = renderFeatures(lipgloss.NewRenderer(env.Stdout), defs)
	}

	if _, err := fmt.Fprint(env.Stdout, out); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// selectFeatures returns the definitions whose names fuzzy-match filter,
// best first, or all definitions sorted by name if filter is empty.
func selectFeatures(t *registry.Table, filter string) []registry.Definition {
	if filter == "" {
		return slices.Collect(t.All())
	}

	matches := fuzzy.Find(filter, t.Names())
	defs := make([]registry.Definition, 0, len(matches))

	for _, m := range matches {
		if d, ok := t.Definition(m.Str); ok {
			defs = append(defs, d)
		}
	}

	return defs
}

// renderFeatures renders one aligned line per definition.
func renderFeatures(r *lipgloss.Renderer, defs []registry.Definition) string {
	nameStyle := r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	docStyle := r.NewStyle().Foreground(lipgloss.Color("8"))

	width := 0
	for _, d := range defs {
		width = max(width, len(d.Signature()))
	}

	var b strings.Builder

	for _, d := range defs {
		sig := d.Signature()

		b.WriteString(nameStyle.Render(sig))

		if d.Doc != "" {
			b.WriteString(strings.Repeat(" ", width-len(sig)+2))
			b.WriteString(docStyle.Render(d.Doc))
		}

		b.WriteByte('\n')
	}

	return b.String()
}
