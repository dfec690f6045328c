// Package registry holds the features a template may reference.
//
// A [Table] maps feature names to their [Definition]: whether the feature is
// indexed, how many arguments a single call accepts, and an optional
// evaluation expression used by the extract package. A Table implements
// [lang.Resolver] and [lang.Suggester], so it plugs directly into
// [lang.Compile].
//
// Tables are usually loaded from a YAML (or JSON) document:
//
//	features:
//	  - name: n
//	    max-args: 1
//	    expr: at(arg ?? 0)?.word
//	    doc: Word at a relative offset.
//	  - name: p
//	    indexed: true
//	    expr: >-
//	      at(arg) == nil ? nil : lower(at(arg).word)
package registry
