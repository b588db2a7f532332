/*
Package evaluator ties lexer, parser, compiler and stack machine together.

A Calculator is created for one expression and evaluated as often as
needed, typically with variables re-set between evaluations:

	calc, err := evaluator.New("notional * EXP(-rate * t)")
	...
	for _, scenario := range scenarios {
		calc.SetScalar("rate", scenario.Rate)
		...
		x, err := calc.CalculateScalar()
	}

Compilation is deferred until the first calculation, as the types of
variables have to be known by then. A compiled expression reads variables
by reference, so re-setting a value does not require re-compilation, unless
a vector or date-list changes its length. The Calculator detects this and
re-compiles transparently. Stacks are sized from the compiler's report, so
repeated calculations do not allocate (with the exception of
CalculateVector, which returns a fresh slice; use CalculateVectorInto
instead).

A Calculator is not safe for concurrent use.
*/
package evaluator

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'flexcalc.evaluator'.
func tracer() tracing.Trace {
	return tracing.Select("flexcalc.evaluator")
}
