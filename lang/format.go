package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format selects the output encoding of [FormatProgram].
type Format int

const (
	// FormatNative renders composites in template syntax.
	FormatNative Format = iota

	// FormatJSON renders a list of composites as JSON.
	FormatJSON

	// FormatYAML renders a list of composites as YAML.
	FormatYAML
)

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatNative:
		return "native"

	case FormatJSON:
		return "json"

	case FormatYAML:
		return "yaml"

	default:
		return "unknown"
	}
}

// ParseFormat returns the [Format] named s.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "native", "":
		return FormatNative, nil

	case "json":
		return FormatJSON, nil

	case "yaml", "yml":
		return FormatYAML, nil

	default:
		return FormatNative, ErrInvalidFormat.With(slog.String("format", s))
	}
}

// FormatProgram writes p to w in the given format.
//
// With indent > 0, native output puts each composite on its own line and
// JSON/YAML output is indented by that many spaces; otherwise output is a
// single line.
func FormatProgram(
	ctx context.Context,
	w io.Writer,
	p Program,
	format Format,
	indent int,
) error {
	switch format {
	case FormatNative:
		if indent > 0 {
			for _, c := range p.Instances {
				if _, err := fmt.Fprintln(w, c.String()); err != nil {
					return err
				}
			}

			return nil
		}

		_, err := fmt.Fprintln(w, p.String())

		return err

	case FormatJSON:
		var (
			data []byte
			err  error
		)

		if indent > 0 {
			data, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
		} else {
			data, err = json.Marshal(p)
		}

		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case FormatYAML:
		var opts []yaml.EncodeOption
		if indent > 0 {
			opts = append(opts, yaml.Indent(indent))
		} else {
			opts = append(opts, yaml.Flow(true))
		}

		data, err := yaml.MarshalContext(ctx, p, opts...)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(w, string(data))

		return err

	default:
		return ErrInvalidFormat.With(slog.String("format", format.String()))
	}
}
