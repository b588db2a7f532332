/*
Package flexcalc is a small expression engine for financial and Monte Carlo
style calculations.

An expression like

	2 * SUM(ABS([-2, -3, -4, -3, 4])) + 1

is tokenized (package grammar), converted to postfix order by a shunting-yard
parser, type-checked and compiled into a flat list of operations (package
corelang) and finally evaluated on a set of typed value stacks (package vm).
Variables are held by package variables, package evaluator ties everything
together.

Values are of one of four types: scalars, vectors of scalars, dates and
lists of dates. Binary operators broadcast between scalars and vectors.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package flexcalc

import (
	"context"
	"io"
	"os"

	"github.com/knadh/koanf"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'flexcalc'.
func tracer() tracing.Trace {
	return tracing.Select("flexcalc")
}

// Configuration holds global configuration values. We use koanf.
// Library packages do not read it; it is populated by the command line
// interface.
var Configuration *koanf.Koanf

// Tracefile is the file we write our log output, if not nil.
var Tracefile io.WriteCloser

// SignalContext is a global context for terminating the application by an interrupt
// signal.
var SignalContext context.Context = context.Background()

// Exit exits the application. It gracefully shuts down all resources.
func Exit(errcode int) {
	if Tracefile != nil {
		Tracefile.Close()
	}
	os.Exit(errcode)
}

// DefaultMaxLineLength is the default ceiling for the length of a line of input.
const DefaultMaxLineLength = 1000
