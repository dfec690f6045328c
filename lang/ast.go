package lang

import (
	"context"
	"io"
	"iter"
	"strconv"
	"strings"
)

// AST represents a parsed (or rewritten) feature template: an ordered list of
// top-level alternatives.
type AST struct {
	Items []*Node
}

// Node is one expression of a feature template.
// Exactly the fields relevant to Kind are set.
type Node struct {
	Kind Kind
	Pos  Position

	Name string    // KindCall
	Args []Literal // KindCall

	Base     *Node   // KindScope
	Children []*Node // KindTuple, KindSeq, KindScope

	K          int      // KindPoly
	Names      []string // KindPoly
	Cumulative bool     // KindPoly (poly#)
}

// Kind indicates the kind of expression a [Node] represents.
type Kind int

const (
	// KindCall is an elementary call: name or name(arg, ...).
	KindCall Kind = iota

	// KindTuple is an AND-combination: a,b or <a,b> or tuple(a, b).
	KindTuple

	// KindSeq is an ordered list of alternatives: seq(a, b).
	KindSeq

	// KindScope combines a base with each child: base{c1 c2}.
	KindScope

	// KindPoly enumerates k-combinations of names: poly(k, ...) or poly#(k, ...).
	KindPoly
)

// String returns a string representation of the node kind.
func (k Kind) String() string {
	switch k {
	case KindCall:
		return "Call"

	case KindTuple:
		return "Tuple"

	case KindSeq:
		return "Seq"

	case KindScope:
		return "Scope"

	case KindPoly:
		return "Poly"

	default:
		return "Unknown"
	}
}

// All returns an iterator over every node of the AST in depth-first
// pre-order, scope bases before scope children.
func (ast *AST) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, n := range ast.Items {
			if !n.walk(yield) {
				return
			}
		}
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if n == nil {
		return true
	}

	if !yield(n) {
		return false
	}

	if n.Base != nil && !n.Base.walk(yield) {
		return false
	}

	for _, c := range n.Children {
		if !c.walk(yield) {
			return false
		}
	}

	return true
}

// Equal reports whether two ASTs are structurally identical, ignoring
// source positions.
func (ast *AST) Equal(other *AST) bool {
	if ast == nil || other == nil {
		return ast == other
	}

	if len(ast.Items) != len(other.Items) {
		return false
	}

	for i := range ast.Items {
		if !ast.Items[i].Equal(other.Items[i]) {
			return false
		}
	}

	return true
}

// Equal reports whether two nodes are structurally identical, ignoring
// source positions.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}

	if n.Kind != other.Kind || n.Name != other.Name || n.K != other.K ||
		n.Cumulative != other.Cumulative ||
		len(n.Args) != len(other.Args) ||
		len(n.Names) != len(other.Names) ||
		len(n.Children) != len(other.Children) {
		return false
	}

	for i := range n.Args {
		if n.Args[i] != other.Args[i] {
			return false
		}
	}

	for i := range n.Names {
		if n.Names[i] != other.Names[i] {
			return false
		}
	}

	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}

	return n.Base.Equal(other.Base)
}

// String renders the AST as template source. Parsing the result yields an
// AST equal to the receiver.
func (ast *AST) String() string {
	part := make([]string, len(ast.Items))
	for i, n := range ast.Items {
		part[i] = n.String()
	}

	return strings.Join(part, " ")
}

// String renders the node as template source.
func (n *Node) String() string {
	var sb strings.Builder

	n.format(&sb)

	return sb.String()
}

func (n *Node) format(sb *strings.Builder) {
	list := func(nodes []*Node) {
		for i, c := range nodes {
			if i > 0 {
				sb.WriteString(", ")
			}

			c.format(sb)
		}
	}

	switch n.Kind {
	case KindCall:
		sb.WriteString(n.Name)

		// A keyword followed by '(' would reparse as an operator
		if len(n.Args) == 0 && isKeyword(n.Name) {
			return
		}

		sb.WriteByte('(')

		for i, a := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(a.Text)
		}

		sb.WriteByte(')')

	case KindTuple:
		sb.WriteString(keywordTuple + "(")
		list(n.Children)
		sb.WriteByte(')')

	case KindSeq:
		sb.WriteString(keywordSeq + "(")
		list(n.Children)
		sb.WriteByte(')')

	case KindScope:
		n.Base.format(sb)
		sb.WriteByte('{')

		for i, c := range n.Children {
			if i > 0 {
				sb.WriteByte(' ')
			}

			c.format(sb)
		}

		sb.WriteByte('}')

	case KindPoly:
		sb.WriteString(keywordPoly)

		if n.Cumulative {
			sb.WriteByte('#')
		}

		sb.WriteByte('(')
		sb.WriteString(strconv.Itoa(n.K))

		for _, name := range n.Names {
			sb.WriteString(", ")
			sb.WriteString(name)
		}

		sb.WriteByte(')')
	}
}

func isKeyword(name string) bool {
	return name == keywordTuple || name == keywordSeq || name == keywordPoly
}

func writer(w io.Writer) func(eol string, item ...string) {
	return func(eol string, item ...string) {
		_, err := io.WriteString(w, strings.Join(item, ": ")+eol)
		if err != nil {
			panic(err)
		}
	}
}

// Print writes a formatted, indented representation of the AST to the writer.
func (ast *AST) Print(ctx context.Context, w io.Writer) {
	for _, n := range ast.Items {
		n.Print(ctx, w, 0)
	}
}

// Print writes a formatted representation of the node.
func (n *Node) Print(ctx context.Context, w io.Writer, indent int) {
	prefix := strings.Repeat("  ", indent)
	put := writer(w)

	switch n.Kind {
	case KindCall:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = a.Kind.String() + " " + a.Text
		}

		if len(args) == 0 {
			put("\n", prefix+"Call", n.Name)
		} else {
			put("\n", prefix+"Call", n.Name, "["+strings.Join(args, ", ")+"]")
		}

	case KindTuple, KindSeq:
		put(":\n", prefix+n.Kind.String())

		for _, c := range n.Children {
			c.Print(ctx, w, indent+1)
		}

	case KindScope:
		put(":\n", prefix+"Scope")
		put(":\n", prefix+"  Base")
		n.Base.Print(ctx, w, indent+2)
		put(":\n", prefix+"  Children")

		for _, c := range n.Children {
			c.Print(ctx, w, indent+2)
		}

	case KindPoly:
		label := "Poly"
		if n.Cumulative {
			label = "Poly#"
		}

		put("\n", prefix+label, strconv.Itoa(n.K), strings.Join(n.Names, ", "))
	}
}
