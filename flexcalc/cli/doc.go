/*
Package cli implements the flexcalc command line interface.

	flexcalc eval "2 * SUM(v)" --set v=[1,2,3]    evaluate an expression
	flexcalc postfix "a + b * c"                   print the postfix form
	flexcalc                                       start a REPL

If standard input is not a terminal, flexcalc reads statements from it, one
per line, and writes results to standard output.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cli

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'flexcalc.cli'
func tracer() tracing.Trace {
	return tracing.Select("flexcalc.cli")
}
