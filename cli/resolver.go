package cli

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ftmpl/lang"
)

// ErrConfig indicates a configuration file that could not be decoded.
var ErrConfig = lang.NewError("invalid configuration file")

// resolve returns a [kong.ConfigurationLoader] for YAML configuration files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Keys are flag names. Nested mappings are joined to their parent key with
// a hyphen, so these are equivalent:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Underscores may stand in for hyphens. Command-line flags override config
// file values.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, ErrConfig.Wrap(err)
		}

		c := make(config)
		c.flatten("", doc)

		return c, nil
	}
}

// config implements [kong.Resolver] over flattened configuration values.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	// Not found: kong uses the default
	return nil, nil //nolint:nilnil
}

// flatten copies m into c, joining nested keys with '-'.
func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := asMap(v); ok {
			c.flatten(key, sub)

			continue
		}

		c[key] = scalar(v)
	}
}

// asMap converts the mapping types produced by the YAML decoder.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true

	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[toString(k)] = v
		}

		return out, true
	}

	return nil, false
}

// scalar converts a decoded value to the form kong's mappers accept.
// Kong parses numbers from strings.
func scalar(v any) any {
	switch v := v.(type) {
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out

	case int, int64, uint64, float64:
		return toString(v)
	}

	return v
}

func toString(v any) string {
	switch v := v.(type) {
	case string:
		return v

	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case bool:
		return strconv.FormatBool(v)

	default:
		return ""
	}
}
