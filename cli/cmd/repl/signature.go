package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/ftmpl/registry"
)

// keywordParams are the parameters of the template operators.
var keywordParams = map[string][]string{
	"tuple": {"...members"},
	"seq":   {"...members"},
	"poly":  {"k", "...names"},
	"poly#": {"k", "...names"},
}

func isKeywordCall(name string) bool {
	_, ok := keywordParams[name]

	return ok
}

// Styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// callSite represents a detected call in the input.
type callSite struct {
	name     string // feature or operator name (e.g., "p", "poly#")
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// isNameRune reports whether r may appear in a feature name or operator.
func isNameRune(r rune) bool {
	switch r {
	case '_', '-', '.', '#':
		return true
	}

	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// detectCall analyzes the input to determine if the cursor is inside a
// call's parameter list. It returns the name, current argument index, and
// whether we're inside a call.
func detectCall(input string, cursor int) callSite {
	cursor = min(max(cursor, 0), len(input))

	// Scan backward from cursor for the unmatched opening paren
	depth := 0
	open := -1

	for i := cursor; i > 0 && open < 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++

		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return callSite{}
	}

	nameStart := open

	for nameStart > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:nameStart])
		if !isNameRune(r) {
			break
		}

		nameStart -= size
	}

	name := input[nameStart:open]
	if name == "" {
		return callSite{}
	}

	// Count commas at depth 0 in the parameter list
	argIndex := 0
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(':
			depth++

		case ')':
			depth--

		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return callSite{name: name, argIndex: argIndex, inCall: true}
}

// lookupSignature returns the call signature, its parameters, and the doc
// string of the named operator or feature. It returns an empty signature if
// the name is unknown.
func lookupSignature(
	reg *registry.Table,
	name string,
) (signature string, params []string, doc string) {
	if params, ok := keywordParams[name]; ok {
		return name + "(" + strings.Join(params, ", ") + ")", params, ""
	}

	if reg == nil {
		return "", nil, ""
	}

	d, ok := reg.Definition(name)
	if !ok {
		return "", nil, ""
	}

	return d.Signature(), d.Params(), d.Doc
}

// renderSignatureHint renders the signature with the current parameter
// highlighted, followed by the doc string if any.
func renderSignatureHint(
	signature string,
	params []string,
	doc string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	open := strings.Index(signature, "(")
	if open == -1 {
		return signatureStyle.Render(signature)
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(signature[:open]))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		// A variadic parameter stays highlighted for every later argument
		variadic := strings.HasPrefix(param, "...")
		if (variadic && currentArgIdx >= i) || (!variadic && currentArgIdx == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	if doc != "" {
		b.WriteString("  ")
		b.WriteString(hintStyle.Render(doc))
	}

	return b.String()
}
