package vm

import (
	"fmt"
	"math"

	"github.com/npillmayer/flexcalc"
	"github.com/npillmayer/flexcalc/variables"
)

// OpCode identifies the kind of an operation.
type OpCode uint8

const (
	OpNop OpCode = iota

	OpConst         // push the scalar constant Value
	OpLoadScalar    // push the value of scalar variable Ref
	OpLoadVector    // push the value of vector variable Ref
	OpLoadDate      // push the value of date variable Ref
	OpLoadDateList  // push the value of date-list variable Ref
	OpCollectVector // pop N scalars, push them as one vector
	OpCollectDates  // pop N dates, push them as one date-list

	OpNegScalar // negate TOS
	OpNegVector // negate every element of TOS

	OpBinarySS // scalar ⊙ scalar
	OpBinarySV // scalar ⊙ vector, scalar is the left operand
	OpBinaryVS // vector ⊙ scalar, scalar is the right operand
	OpBinaryVV // vector ⊙ vector, element by element

	OpMathScalar // f(scalar)
	OpMathVector // f(vector), element-wise

	OpReduceArgs   // reduce N scalars to one scalar
	OpReduceVector // reduce a vector to one scalar
)

var opCodeNames = [...]string{
	OpNop:           "NOP",
	OpConst:         "CONST",
	OpLoadScalar:    "LOAD",
	OpLoadVector:    "LOAD_V",
	OpLoadDate:      "LOAD_D",
	OpLoadDateList:  "LOAD_DL",
	OpCollectVector: "COLLECT",
	OpCollectDates:  "COLLECT_D",
	OpNegScalar:     "NEG",
	OpNegVector:     "NEG_V",
	OpBinarySS:      "SS",
	OpBinarySV:      "SV",
	OpBinaryVS:      "VS",
	OpBinaryVV:      "VV",
	OpMathScalar:    "MATH",
	OpMathVector:    "MATH_V",
	OpReduceArgs:    "REDUCE",
	OpReduceVector:  "REDUCE_V",
}

func (c OpCode) String() string {
	if int(c) >= len(opCodeNames) {
		return fmt.Sprintf("OpCode(%d)", c)
	}
	return opCodeNames[c]
}

// --- Arithmetic ------------------------------------------------------------

// Arith is a binary arithmetic operator.
type Arith uint8

// Binary operators
const (
	Add Arith = iota
	Sub
	Mul
	Div
	Pow
)

var arithNames = [...]string{"ADD", "SUB", "MUL", "DIV", "POW"}

func (a Arith) String() string {
	if int(a) >= len(arithNames) {
		return "?"
	}
	return arithNames[a]
}

func (a Arith) apply(x, y float64) float64 {
	switch a {
	case Add:
		return x + y
	case Sub:
		return x - y
	case Mul:
		return x * y
	case Div:
		return x / y
	case Pow:
		return math.Pow(x, y)
	}
	panic(fmt.Sprintf("illegal arithmetic operator %d", a))
}

// Math is an element-wise real function.
type Math uint8

// Real functions
const (
	Exp Math = iota
	Log
	Abs
	Sqrt
	Square
)

var mathNames = [...]string{"EXP", "LOG", "ABS", "SQRT", "SQUARE"}

func (m Math) String() string {
	if int(m) >= len(mathNames) {
		return "?"
	}
	return mathNames[m]
}

func (m Math) apply(x float64) float64 {
	switch m {
	case Exp:
		return math.Exp(x)
	case Log:
		return math.Log(x)
	case Abs:
		return math.Abs(x)
	case Sqrt:
		return math.Sqrt(x)
	case Square:
		return x * x
	}
	panic(fmt.Sprintf("illegal math function %d", m))
}

// Reduction is a function collapsing a list of scalars into one scalar.
type Reduction uint8

// Reducing functions
const (
	Sum Reduction = iota
	Prod
	Max
	Min
	ArgMax
	ArgMin
	Len
)

var reductionNames = [...]string{"SUM", "PROD", "MAX", "MIN", "ARGMAX", "ARGMIN", "LEN"}

func (r Reduction) String() string {
	if int(r) >= len(reductionNames) {
		return "?"
	}
	return reductionNames[r]
}

// apply folds xs from left to right.
// Extremal indices are those of the first extremal element.
func (r Reduction) apply(xs []float64) float64 {
	if len(xs) == 0 {
		switch r {
		case Sum, Len:
			return 0
		case Prod:
			return 1
		}
		return math.NaN()
	}
	switch r {
	case Sum:
		acc := 0.0
		for _, x := range xs {
			acc += x
		}
		return acc
	case Prod:
		acc := 1.0
		for _, x := range xs {
			acc *= x
		}
		return acc
	case Max:
		best := xs[0]
		for _, x := range xs[1:] {
			if x > best {
				best = x
			}
		}
		return best
	case Min:
		best := xs[0]
		for _, x := range xs[1:] {
			if x < best {
				best = x
			}
		}
		return best
	case ArgMax:
		at := 0
		for i, x := range xs {
			if x > xs[at] {
				at = i
			}
		}
		return float64(at)
	case ArgMin:
		at := 0
		for i, x := range xs {
			if x < xs[at] {
				at = i
			}
		}
		return float64(at)
	case Len:
		return float64(len(xs))
	}
	panic(fmt.Sprintf("illegal reduction %d", r))
}

// --- Operations ------------------------------------------------------------

// Op is a compiled operation. Only the fields relevant for Code are set.
type Op struct {
	Code   OpCode
	Arith  Arith          // for binary operations
	Math   Math           // for element-wise functions
	Reduce Reduction      // for reductions
	N      int            // number of operands for collect and reduce
	Value  float64        // constant
	Ref    *variables.Var // variable to load
}

// Const creates an operation pushing a constant scalar.
func Const(x float64) Op {
	return Op{Code: OpConst, Value: x}
}

// Load creates an operation pushing the current value of a variable.
func Load(v *variables.Var) Op {
	op := Op{Ref: v}
	switch v.Type() {
	case flexcalc.ScalarType:
		op.Code = OpLoadScalar
	case flexcalc.VectorType:
		op.Code = OpLoadVector
	case flexcalc.DateType:
		op.Code = OpLoadDate
	case flexcalc.DateListType:
		op.Code = OpLoadDateList
	}
	return op
}

// Binary creates a broadcasting binary operation.
func Binary(code OpCode, a Arith) Op {
	return Op{Code: code, Arith: a}
}

func (op Op) String() string {
	switch op.Code {
	case OpConst:
		return fmt.Sprintf("CONST %g", op.Value)
	case OpLoadScalar, OpLoadVector, OpLoadDate, OpLoadDateList:
		return fmt.Sprintf("%s %s", op.Code, op.Ref.Name())
	case OpCollectVector, OpCollectDates:
		return fmt.Sprintf("%s(%d)", op.Code, op.N)
	case OpBinarySS, OpBinarySV, OpBinaryVS, OpBinaryVV:
		return fmt.Sprintf("%s_%s", op.Arith, op.Code)
	case OpMathScalar:
		return op.Math.String()
	case OpMathVector:
		return op.Math.String() + "_V"
	case OpReduceArgs:
		return fmt.Sprintf("%s(%d)", op.Reduce, op.N)
	case OpReduceVector:
		return op.Reduce.String() + "_V"
	}
	return op.Code.String()
}
