/*
Package grammar implements the front end of the expression language: a
lexer, which turns a line of text into tokens, and a shunting-yard parser,
which converts infix token sequences into postfix order.

Tokens

Identifiers start with a lower case letter or an underscore. Functions
(SUM, ABS, ...) and keywords (IF, PAY, ...) are upper case. Operators carry
a precedence and possible fixity, assigned by the lexer:

	**           9  right associative
	* /          7
	+ -          6  (8 if used as a prefix operator)
	< > <= >=    5  non associative
	NOT AND OR   4, 3, 2

Postfix

The parser emits tokens in evaluation order. Function calls, array literals
and subscripts are made explicit by synthetic tokens carrying their number of
arguments:

	2 * SUM([1, 2], 3)   ⟹   2 SUM 1 2 APPEND_(2) 3 CALL_(2) *

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'flexcalc.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("flexcalc.grammar")
}
