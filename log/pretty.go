package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles are bound to
// a renderer for the handler's writer, so color is dropped automatically
// when the writer is not a terminal.
type palette struct {
	key, str, num, yes, no, dur, tim, null lipgloss.Style

	levelError, levelWarn, levelInfo, levelDebug lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:        fg("8"),
		str:        fg("6"),
		num:        fg("3"),
		yes:        fg("2"),
		no:         fg("1"),
		dur:        fg("5"),
		tim:        fg("4"),
		null:       fg("8"),
		levelError: fg("1").Bold(true),
		levelWarn:  fg("3").Bold(true),
		levelInfo:  fg("2"),
		levelDebug: fg("4"),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.levelError

	case l >= slog.LevelWarn:
		return p.levelWarn

	case l >= slog.LevelInfo:
		return p.levelInfo

	default:
		return p.levelDebug
	}
}

// value renders a resolved, non-group value.
func (p palette) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())

	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")

	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())

	case slog.KindTime:
		return p.tim.Render(v.Time().Format(time.RFC3339))

	default:
		a := v.Any()
		if a == nil {
			return p.null.Render("null")
		}

		if err, ok := a.(error); ok {
			return p.str.Render(err.Error())
		}

		return p.str.Render(fmt.Sprint(a))
	}
}

// runtimeFrame returns "file:line" of the record's call site, or the empty
// string if the record carries no program counter.
func runtimeFrame(r slog.Record) string {
	if r.PC == 0 {
		return ""
	}

	f, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
	if f.File == "" {
		return ""
	}

	return filepath.Base(f.File) + ":" + strconv.Itoa(f.Line)
}

// builtins renders the time, level, source and message of r with the
// handler's ReplaceAttr applied, calling emit for each that survives.
func builtins(
	opts *slog.HandlerOptions,
	r slog.Record,
	emit func(key string, rendered func(palette) string),
) {
	replace := func(a slog.Attr) slog.Attr {
		if opts.ReplaceAttr != nil {
			return opts.ReplaceAttr(nil, a)
		}

		return a
	}

	if !r.Time.IsZero() {
		if a := replace(slog.Time(slog.TimeKey, r.Time)); a.Key != "" {
			emit(a.Key, func(p palette) string { return p.value(a.Value.Resolve()) })
		}
	}

	if a := replace(slog.Any(slog.LevelKey, r.Level)); a.Key != "" {
		emit(a.Key, func(p palette) string {
			return p.level(r.Level).Render(a.Value.Resolve().String())
		})
	}

	if opts.AddSource {
		fs := runtimeFrame(r)
		if fs != "" {
			emit(slog.SourceKey, func(p palette) string { return p.str.Render(fs) })
		}
	}

	emit(slog.MessageKey, func(p palette) string { return p.str.Render(r.Message) })
}

// prettyTextHandler writes one line per record: key=value pairs with keys
// dimmed, values colored by kind, and no quoting. Group members are
// prefixed with their dotted group path.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	pal    palette
	prefix string // dotted path of open groups, with trailing '.'
	attrs  []byte // preformatted attributes from WithAttrs
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
		pal:  newPalette(w),
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	builtins(&h.opts, r, func(key string, rendered func(palette) string) {
		h.writeKey(buf, key)
		buf.WriteString(rendered(h.pal))
	})

	if len(h.attrs) > 0 {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.Write(h.attrs)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	buf := bytes.NewBuffer(slices.Clone(h.attrs))

	for _, a := range attrs {
		h.writeAttr(buf, h.prefix, a)
	}

	c := *h
	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyTextHandler) writeKey(buf *bytes.Buffer, key string) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.pal.key.Render(key))
	buf.WriteByte('=')
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			h.writeAttr(buf, prefix, g)
		}

		return
	}

	if a.Key == "" {
		return
	}

	h.writeKey(buf, prefix+a.Key)
	buf.WriteString(h.pal.value(a.Value))
}

// prettyJSONHandler writes each record as an indented, colored JSON-like
// object. Groups become nested objects.
type prettyJSONHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	pal    palette
	frames []frame
}

// frame holds the attributes added at one level of group nesting.
type frame struct {
	group string
	attrs []slog.Attr
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		pal:    newPalette(w),
		frames: []frame{{}},
	}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	first := true

	buf.WriteString("{")

	builtins(&h.opts, r, func(key string, rendered func(palette) string) {
		h.writeKey(buf, key, 1, &first)
		buf.WriteString(rendered(h.pal))
	})

	depth := 1

	for i, f := range h.frames {
		if i > 0 {
			h.writeKey(buf, f.group, depth, &first)
			buf.WriteString("{")

			depth++
			first = true
		}

		for _, a := range f.attrs {
			h.writeAttr(buf, a, depth, &first)
		}
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, a, depth, &first)

		return true
	})

	for ; depth > 1; depth-- {
		buf.WriteString("\n" + strings.Repeat("  ", depth-1) + "}")
	}

	buf.WriteString("\n}\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.frames = slices.Clone(h.frames)

	last := &c.frames[len(c.frames)-1]
	last.attrs = append(slices.Clone(last.attrs), attrs...)

	return &c
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.frames = append(slices.Clone(h.frames), frame{group: name})

	return &c
}

func (h *prettyJSONHandler) writeKey(
	buf *bytes.Buffer,
	key string,
	depth int,
	first *bool,
) {
	if !*first {
		buf.WriteString(",")
	}

	*first = false

	buf.WriteString("\n" + strings.Repeat("  ", depth))
	buf.WriteString(h.pal.key.Render(key))
	buf.WriteString(": ")
}

func (h *prettyJSONHandler) writeAttr(
	buf *bytes.Buffer,
	a slog.Attr,
	depth int,
	first *bool,
) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() != slog.KindGroup {
		if a.Key != "" {
			h.writeKey(buf, a.Key, depth, first)
			buf.WriteString(h.pal.value(a.Value))
		}

		return
	}

	members := a.Value.Group()
	if len(members) == 0 {
		return
	}

	// Inline the members of an anonymous group
	if a.Key == "" {
		for _, m := range members {
			h.writeAttr(buf, m, depth, first)
		}

		return
	}

	h.writeKey(buf, a.Key, depth, first)
	buf.WriteString("{")

	inner := true
	for _, m := range members {
		h.writeAttr(buf, m, depth+1, &inner)
	}

	buf.WriteString("\n" + strings.Repeat("  ", depth) + "}")
}
