package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ftmpl/lang"
	"github.com/ardnew/ftmpl/log"
	"github.com/ardnew/ftmpl/registry"
)

// Env is the state shared by all commands.
type Env struct {
	Registry *registry.Table
	Options  []lang.Option
	Logger   log.Logger
	Stdout   io.Writer
	Stdin    io.Reader
}

type (
	contextKey struct{}
	envKey     struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithEnv returns a new context.Context carrying env. Unset fields of env
// are filled with defaults: the demo registry, the default logger, and the
// process's standard streams.
func WithEnv(ctx context.Context, env Env) context.Context {
	if env.Registry == nil {
		env.Registry = registry.Demo()
	}

	if env.Logger.Logger == nil {
		env.Logger = log.Default()
	}

	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}

	if env.Stdin == nil {
		env.Stdin = os.Stdin
	}

	return context.WithValue(ctx, envKey{}, env)
}

func envFrom(ctx context.Context) Env {
	env, ok := ctx.Value(envKey{}).(Env)
	if !ok {
		return envFrom(WithEnv(ctx, Env{}))
	}

	return env
}

// Template is one template text and the place it was read from.
type Template struct {
	Name string
	Text string
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks and relative paths.
type fileKey struct {
	dev uint64
	ino uint64
}

// readTemplates collects templates given inline followed by those read from
// files. A file named more than once (through any path) is read once, and
// stdin, if named, is read last.
func readTemplates(stdin io.Reader, inline, files []string) ([]Template, error) {
	out := make([]Template, 0, len(inline)+len(files))

	for i, text := range inline {
		out = append(out, Template{Name: "arg" + strconv.Itoa(i), Text: text})
	}

	seen := make(map[fileKey]struct{})
	hasStdin := false

	for _, path := range files {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		text, ok, err := readUniqueFile(path, seen)
		if err != nil {
			return nil, ErrReadSource.Wrap(err).With(slog.String("file", path))
		}

		if ok {
			out = append(out, Template{Name: path, Text: text})
		}
	}

	if hasStdin {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, ErrReadSource.Wrap(err).With(slog.String("file", stdinSource))
		}

		out = append(out, Template{Name: "stdin", Text: string(data)})
	}

	if len(out) == 0 {
		return nil, ErrNoTemplate
	}

	return out, nil
}

// readUniqueFile reads the file at path unless it was seen before.
func readUniqueFile(path string, seen map[fileKey]struct{}) (string, bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, dup := seen[key]; dup {
			return "", false, nil
		}

		seen[key] = struct{}{}
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", false, err
	}

	return string(data), true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// templateError annotates err with the template it came from and, when the
// error has a source position, a snippet marking it.
func templateError(t Template, err error) error {
	var lerr *lang.Error
	if !errors.As(err, &lerr) {
		return err
	}

	lerr = lerr.With(slog.String("template", t.Name))

	if snippet := lerr.Snippet(t.Text); snippet != "" {
		lerr = lerr.With(slog.String("snippet", snippet))
	}

	return lerr
}
