// Package extract evaluates a compiled [lang.Program] against input data.
//
// Each composite of the program is evaluated at one position of a token
// sequence. Every call of the composite is computed by an [Evaluator]; if
// any call yields nil the composite is absent at that position, otherwise
// it contributes a [Key] naming the composite and its values:
//
//	n(0)=dog
//	tuple(n(0)=dog, m(0)=NN)
//
// [ExprEvaluator] computes calls with the expr-lang expressions of a
// [registry.Table].
package extract
