package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ftmpl/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// registryFile is the name of the registry written by init --write-registry,
// relative to the configuration directory.
const registryFile = "registry.yaml"

// Init generates a default configuration file with current flag values.
type Init struct {
	Force    bool `help:"Overwrite existing files." short:"F"`
	Registry bool `help:"Also write the active feature registry next to the configuration file." name:"write-registry"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	env := envFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	values := configValues(ktx)

	if i.Registry {
		regPath := filepath.Join(filepath.Dir(confPath), registryFile)

		err := i.create(regPath, func(f *os.File) error {
			return env.Registry.Encode(ctx, f)
		})
		if err != nil {
			return err
		}

		values["registry"] = regPath

		env.Logger.DebugContext(ctx, "wrote registry",
			slog.String("path", regPath),
			slog.Int("features", env.Registry.Len()),
		)
	}

	err = i.create(confPath, func(f *os.File) error {
		return yaml.NewEncoder(f, yaml.Indent(defaultConfigIndent)).
			EncodeContext(ctx, values)
	})
	if err != nil {
		return err
	}

	env.Logger.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// create writes the file at path with write, refusing to replace an existing
// file unless forced.
func (i *Init) create(path string, write func(*os.File) error) error {
	if _, err := os.Stat(path); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", path), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(path)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}
	defer file.Close()

	if err := write(file); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	return nil
}

// configValues returns the current value of every top-level flag, keyed by
// flag name. Flags with empty values are omitted.
func configValues(ktx *kong.Context) map[string]any {
	ignore := []string{"help", "version", profile.Tag}
	values := make(map[string]any)

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		switch v := ktx.FlagValue(flag).(type) {
		case nil:
			continue

		case string:
			if v != "" {
				values[flag.Name] = v
			}

		case []string:
			if len(v) > 0 {
				values[flag.Name] = v
			}

		default:
			values[flag.Name] = v
		}
	}

	return values
}
