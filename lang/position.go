package lang

import (
	"log/slog"
	"strconv"
)

// Position represents a location in template source.
type Position struct {
	Offset int // 0-based byte offset
	Line   int // 1-based line number
	Column int // 1-based column number, in runes
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool { return p.Line > 0 }

// String returns the position formatted as line:column.
func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// LogValue implements slog.LogValuer.
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
		slog.Int("offset", p.Offset),
	)
}
