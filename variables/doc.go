/*
Package variables implements named variables for the expression language.

Variables are typed. A name is bound to one of the four value types (scalar,
vector, date, date-list) when it is first set, and re-binding it to a value
of a different type is an error:

   store.Set("x", flexcalc.Scalar(1))      // ok
   store.Set("x", flexcalc.Scalar(2))      // ok, new value
   store.Set("x", flexcalc.Vector{1, 2})   // error: x is a scalar

Compiled expressions do not copy variable values, they hold a reference to
the variable's cell (type Var) and read it whenever they are evaluated. Thus
re-setting a value between two evaluations does not require re-compilation,
with one exception: the length of vectors and date-lists is part of an
expression's static type. Changing it advances the store's layout epoch,
and clients holding compiled expressions have to re-compile (package
evaluator does this automatically).

The store keeps track of variables which have been set, but never been
referenced by a compiled expression (see Unused). This helps to detect
misspelled names.

A Store is not safe for concurrent use.


BSD License

Copyright (c) 2017–2021, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package variables

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'flexcalc.variables'.
func tracer() tracing.Trace {
	return tracing.Select("flexcalc.variables")
}
