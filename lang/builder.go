package lang

import "strconv"

// Builder provides a programmatic API for constructing template ASTs without
// parsing source text. Built nodes carry no source position.
//
// Example:
//
//	b := lang.NewBuilder()
//	ast := b.AST(
//	    b.Scope(b.Call("n", lang.Int(0)),
//	        b.Call("m", lang.Int(1)),
//	        b.Tuple(b.Call("m", lang.Int(2)), b.Call("o")),
//	    ),
//	    b.Poly(2, false, "m", "n", "o"),
//	)
type Builder struct{}

// NewBuilder creates a new AST builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AST creates an [AST] with the given top-level items.
func (b *Builder) AST(items ...*Node) *AST {
	return &AST{Items: items}
}

// Call creates an elementary call node.
func (b *Builder) Call(name string, args ...Literal) *Node {
	if args == nil {
		args = []Literal{}
	}

	return &Node{Kind: KindCall, Name: name, Args: args}
}

// Tuple creates a tuple node.
func (b *Builder) Tuple(members ...*Node) *Node {
	return &Node{Kind: KindTuple, Children: members}
}

// Seq creates a sequence node.
func (b *Builder) Seq(members ...*Node) *Node {
	return &Node{Kind: KindSeq, Children: members}
}

// Scope creates a scope node combining base with each child.
func (b *Builder) Scope(base *Node, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}

	return &Node{Kind: KindScope, Base: base, Children: children}
}

// Poly creates a poly node, or a poly# node if cumulative is set.
func (b *Builder) Poly(k int, cumulative bool, names ...string) *Node {
	if names == nil {
		names = []string{}
	}

	return &Node{Kind: KindPoly, K: k, Names: names, Cumulative: cumulative}
}

// String creates a quoted string literal.
func (b *Builder) String(s string) Literal {
	return Literal{Kind: LiteralString, Text: strconv.Quote(s)}
}

// Float creates a floating-point literal.
func (b *Builder) Float(f float64) Literal {
	return Literal{Kind: LiteralFloat, Text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Identifier creates a bare-word literal.
func (b *Builder) Identifier(name string) Literal {
	return Literal{Kind: LiteralIdentifier, Text: name}
}
