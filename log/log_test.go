package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func decode(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any

	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}

		out = append(out, m)
	}

	return out
}

func TestMake_Defaults(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf)

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", logger.Format(), DefaultFormat)
	}

	if logger.Output() != &buf {
		t.Error("Output() does not return the configured writer")
	}

	if logger.caller {
		t.Error("caller enabled by default")
	}
}

func TestMake_NilWriterDiscards(t *testing.T) {
	logger := Make(nil)
	logger.Info("nowhere")
}

func TestLogger_ZeroValue(t *testing.T) {
	var logger Logger

	logger.Error("dropped")
	logger.ErrorContext(context.Background(), "dropped")

	if logger.Enabled(context.Background(), LevelError) {
		t.Error("zero Logger reports enabled")
	}

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.With(slog.String("k", "v")).Logger != nil {
		t.Error("With on zero Logger returned a live logger")
	}
}

func TestLogger_LevelFilters(t *testing.T) {
	tests := []struct {
		level Level
		log   func(Logger)
		want  bool
	}{
		{LevelInfo, func(l Logger) { l.Debug("m") }, false},
		{LevelInfo, func(l Logger) { l.Info("m") }, true},
		{LevelTrace, func(l Logger) { l.Trace("m") }, true},
		{LevelDebug, func(l Logger) { l.Trace("m") }, false},
		{LevelError, func(l Logger) { l.Warn("m") }, false},
		{LevelError, func(l Logger) { l.Error("m") }, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		tt.log(Make(&buf, WithLevel(tt.level), WithPretty(false)))

		if got := buf.Len() > 0; got != tt.want {
			t.Errorf("level %v: logged = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false), WithLevel(LevelTrace))
	logger.Trace("hello", slog.Int("n", 3), slog.String("s", "x"))

	recs := decode(t, &buf)
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}

	r := recs[0]

	if r["msg"] != "hello" {
		t.Errorf("msg = %v", r["msg"])
	}

	if r["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", r["level"])
	}

	if r["n"] != float64(3) || r["s"] != "x" {
		t.Errorf("attrs = %v", r)
	}

	if _, ok := r["time"]; !ok {
		t.Error("missing time")
	}
}

func TestLogger_TimeLayoutNone(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithPretty(false), WithTimeLayout("none")).Info("m")

	if _, ok := decode(t, &buf)[0]["time"]; ok {
		t.Error("time present with layout none")
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithPretty(false), WithCaller(true)).Info("m")

	src, ok := decode(t, &buf)[0]["source"].(map[string]any)
	if !ok {
		t.Fatal("missing source")
	}

	if file, _ := src["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source file = %q, want log_test.go", file)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithPretty(false))
	child := base.With(slog.String("component", "parse"))

	child.Info("a")
	base.Info("b")

	recs := decode(t, &buf)

	if recs[0]["component"] != "parse" {
		t.Errorf("child missing attribute: %v", recs[0])
	}

	if _, ok := recs[1]["component"]; ok {
		t.Errorf("With mutated base logger: %v", recs[1])
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelError), WithPretty(false))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	if base.Level() != LevelError {
		t.Errorf("Wrap mutated base level: %v", base.Level())
	}

	if wrapped.Level() != LevelDebug || wrapped.Output() != &buf {
		t.Errorf("wrapped config = %v %v", wrapped.Level(), wrapped.Output())
	}

	var zero Logger
	if zero.Wrap().Logger == nil {
		t.Error("Wrap on zero Logger returned nil slog.Logger")
	}
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatText), WithPretty(false), WithTimeLayout("none")).
		Warn("careful", slog.String("k", "v"))

	got := strings.TrimSpace(buf.String())
	if got != "level=WARN msg=careful k=v" {
		t.Errorf("got %q", got)
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(true), WithFormat(FormatText))

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Go(func() { logger.Info("m", slog.Int("i", i)) })
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 16 {
		t.Errorf("got %d lines, want 16", n)
	}
}
