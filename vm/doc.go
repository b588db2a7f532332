/*
Package vm is the run-time part of the expression engine: a stack machine
operating on four typed value stacks.

Compiled expressions are flat lists of operations (type Op). Every
operation knows exactly which typed values it pops and pushes; the compiler
in package corelang has proven this statically. Consequently the machine
does not check types at run time, and a violation of the stack discipline is
a bug which will panic.

Vectors and date-lists are kept flattened in one contiguous slice each,
together with a stack of their lengths. Binary vector operations and
element-wise functions work in place on the topmost vector. Given stacks
sized from the compiler's report, repeated evaluation of an expression does
not allocate.

An Expression is read-only after construction and may be shared between
goroutines, as long as each goroutine uses its own CalcStacks.
*/
package vm

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'flexcalc.vm'
func tracer() tracing.Trace {
	return tracing.Select("flexcalc.vm")
}
