package lang

import (
	"strconv"
	"strings"
)

// Literal is one argument of an elementary call, kept as written in source.
type Literal struct {
	Kind LiteralKind
	Text string
}

// LiteralKind classifies a [Literal].
type LiteralKind int

const (
	// LiteralInteger is a decimal integer, optionally signed.
	LiteralInteger LiteralKind = iota

	// LiteralFloat is a decimal number with a fraction or exponent.
	LiteralFloat

	// LiteralString is a double-, single- or back-quoted string.
	LiteralString

	// LiteralIdentifier is a bare word.
	LiteralIdentifier
)

// String returns a string representation of the literal kind.
func (k LiteralKind) String() string {
	switch k {
	case LiteralInteger:
		return "Integer"

	case LiteralFloat:
		return "Float"

	case LiteralString:
		return "String"

	case LiteralIdentifier:
		return "Identifier"

	default:
		return "Unknown"
	}
}

// Int returns an integer [Literal].
func Int(v int64) Literal {
	return Literal{Kind: LiteralInteger, Text: strconv.FormatInt(v, 10)}
}

// String returns the literal as written in source.
func (l Literal) String() string { return l.Text }

// Value converts the literal to its native Go value: int64 for integers,
// float64 for floats, the unquoted text for strings, and the bare text for
// identifiers.
func (l Literal) Value() any {
	switch l.Kind {
	case LiteralInteger:
		if i, err := strconv.ParseInt(l.Text, 10, 64); err == nil {
			return i
		}

		// Out of int64 range: fall back to float
		if f, err := strconv.ParseFloat(l.Text, 64); err == nil {
			return f
		}

	case LiteralFloat:
		if f, err := strconv.ParseFloat(l.Text, 64); err == nil {
			return f
		}

	case LiteralString:
		if s, err := unquote(l.Text); err == nil {
			return s
		}
	}

	return l.Text
}

// unquote interprets a quoted string literal. Single-quoted strings take the
// escapes of double-quoted ones, plus \' for a single quote.
func unquote(text string) (string, error) {
	if len(text) < 2 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return strconv.Unquote(text)
	}

	body := text[1 : len(text)-1]

	var sb strings.Builder

	sb.WriteByte('"')

	for i := 0; i < len(body); i++ {
		switch c := body[i]; {
		case c == '\\' && i+1 < len(body):
			i++

			if body[i] == '\'' {
				sb.WriteByte('\'')
			} else {
				sb.WriteByte(c)
				sb.WriteByte(body[i])
			}

		case c == '"':
			sb.WriteString(`\"`)

		default:
			sb.WriteByte(c)
		}
	}

	sb.WriteByte('"')

	return strconv.Unquote(sb.String())
}
