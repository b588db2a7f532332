/*
Package corelang compiles expressions in postfix order into code for the
stack machine of package vm.

Compilation is a single pass over the postfix tokens. An operand tracker
(type Operands) mirrors the shape of the run-time stacks: for every value
the machine will push, the tracker pushes its type, and for vectors and
date-lists their length. This is enough to type-check every operator and
function call, to select the operation matching the shapes of its operands,
and to compute the stack capacity an evaluation will need.

Operators and functions

Binary operators + - * / ** accept scalars and vectors. Scalars broadcast
over vectors, vectors must agree in length:

	[2, 2] + [3, 2]    ⟹  [5, 4]
	[2, 1] * (3 + 4)   ⟹  [14, 7]
	[1, 2] + [1, 2, 3] ⟹  error

Unary minus negates scalars and vectors, unary plus is dropped.
Real functions EXP, LOG, ABS, SQRT and SQUARE take one scalar or vector
argument and work element-wise. Reducing functions SUM, PROD, MAX, MIN,
ARGMAX and ARGMIN take either one vector or at least two scalars, LEN takes
one vector. They always result in a scalar. ARGMAX and ARGMIN return the
zero-based index of the first extremal element.

Dates and date-lists may be loaded from variables and collected into
date-lists, but no operator or function accepts them.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package corelang

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'flexcalc.corelang'.
func tracer() tracing.Trace {
	return tracing.Select("flexcalc.corelang")
}
