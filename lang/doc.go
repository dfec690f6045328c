// Package lang compiles feature templates into ordered programs of composite
// feature instances.
//
// A template is a compact description of feature combinations used by
// structured-prediction systems. Compilation runs in three stages:
//
//	text --ParseString--> AST --Rewrite--> AST --Assemble--> Program
//
// [Compile] performs all three. Compilation is deterministic: the same text
// and the same registry always yield the same [Program], in the same order.
//
// # Grammar
//
// Informal EBNF:
//
//	Template  → Expr* EOF
//	Expr      → Primary (',' Primary)*
//	Primary   → Atom Scope*
//	Scope     → '{' Expr* '}'
//	Atom      → '<' Expr '>'
//	          | 'tuple' '(' Primary (',' Primary)* ')'
//	          | 'seq' '(' Primary (',' Primary)* ')'
//	          | 'poly' '#'? '(' Integer (',' Identifier)* ')'
//	          | Identifier ('(' (Literal (',' Literal)*)? ')')?
//	Literal   → Integer | Float | String | Identifier
//
// Whitespace separates top-level alternatives and the children of a scope.
// Comments run from '#' or '//' to end of line, or between '/*' and '*/'.
//
// # Example
//
//	n(0)                 # one composite: n(0)
//	n(0),m(0)            # one composite: tuple(n(0), m(0))
//	p(1,2)               # p indexed: tuple(p(1), p(2))
//	n(0){m(1) m(2)}      # tuple(n(0), m(1)) tuple(n(0), m(2))
//	seq(a, b){c d}       # a×c, a×d, b×c, b×d
//	poly(2, m, n, o)     # tuple(m(), n()) tuple(m(), o()) tuple(n(), o())
//	poly#(2, m, n)       # m() n() tuple(m(), n())
//
// # Rewriting
//
// [AST.Rewrite] applies the passes returned by [Passes]: name resolution,
// indexed-call expansion, tuple flattening, singleton simplification and
// enumeration. Feature names are resolved through a [Resolver]; the package
// owns no registry.
//
// # Resource bounds
//
// A poly over n names produces C(n, k) composites. [PolySize] and [Estimate]
// compute output size without enumerating, and [WithMaxInstances] rejects
// templates whose output would exceed a bound with [ErrExpansionLimit].
package lang
