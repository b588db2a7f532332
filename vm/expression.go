package vm

import (
	"strings"

	"github.com/npillmayer/flexcalc"
)

// Expression is a compiled expression: a list of operations, executed in
// order, plus the type of the single value it leaves on the stacks.
type Expression struct {
	ops    []Op
	result flexcalc.CType
}

// NewExpression creates an expression from a list of operations, which is
// expected to leave exactly one value of type result on the stacks.
func NewExpression(ops []Op, result flexcalc.CType) *Expression {
	return &Expression{ops: ops, result: result}
}

// Type returns the type of the expression's result.
func (e *Expression) Type() flexcalc.CType {
	return e.result
}

// Len returns the number of operations.
func (e *Expression) Len() int {
	return len(e.ops)
}

// Ops returns the operations of the expression. Clients must not modify them.
func (e *Expression) Ops() []Op {
	return e.ops
}

func (e *Expression) String() string {
	var b strings.Builder
	for i, op := range e.ops {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(op.String())
	}
	return b.String()
}

// Evaluate executes all operations against cs. After return, cs holds the
// result on top of whatever it held before.
func (e *Expression) Evaluate(cs *CalcStacks) {
	for i := range e.ops {
		cs.execute(&e.ops[i])
	}
}

func (cs *CalcStacks) execute(op *Op) {
	switch op.Code {
	case OpNop:
	case OpConst:
		cs.scalars = append(cs.scalars, op.Value)
	case OpLoadScalar:
		cs.scalars = append(cs.scalars, op.Ref.Scalar())
	case OpLoadVector:
		cs.PushVector(op.Ref.Vector())
	case OpLoadDate:
		cs.dates = append(cs.dates, op.Ref.Date())
	case OpLoadDateList:
		cs.PushDateList(op.Ref.DateList())
	case OpCollectVector:
		top := len(cs.scalars) - op.N
		cs.PushVector(cs.scalars[top:])
		cs.scalars = cs.scalars[:top]
	case OpCollectDates:
		top := len(cs.dates) - op.N
		cs.PushDateList(cs.dates[top:])
		cs.dates = cs.dates[:top]
	case OpNegScalar:
		top := len(cs.scalars) - 1
		cs.scalars[top] = -cs.scalars[top]
	case OpNegVector:
		v := cs.topVector()
		for i := range v {
			v[i] = -v[i]
		}
	case OpBinarySS:
		y := cs.PopScalar()
		top := len(cs.scalars) - 1
		cs.scalars[top] = op.Arith.apply(cs.scalars[top], y)
	case OpBinarySV:
		x := cs.PopScalar()
		v := cs.topVector()
		for i := range v {
			v[i] = op.Arith.apply(x, v[i])
		}
	case OpBinaryVS:
		y := cs.PopScalar()
		v := cs.topVector()
		for i := range v {
			v[i] = op.Arith.apply(v[i], y)
		}
	case OpBinaryVV:
		right := cs.PopVector()
		left := cs.topVector()
		if len(left) != len(right) {
			panic("vector operation on vectors of different lengths")
		}
		for i := range left {
			left[i] = op.Arith.apply(left[i], right[i])
		}
	case OpMathScalar:
		top := len(cs.scalars) - 1
		cs.scalars[top] = op.Math.apply(cs.scalars[top])
	case OpMathVector:
		v := cs.topVector()
		for i := range v {
			v[i] = op.Math.apply(v[i])
		}
	case OpReduceArgs:
		top := len(cs.scalars) - op.N
		r := op.Reduce.apply(cs.scalars[top:])
		cs.scalars = append(cs.scalars[:top], r)
	case OpReduceVector:
		r := op.Reduce.apply(cs.PopVector())
		cs.scalars = append(cs.scalars, r)
	default:
		panic("illegal operation " + op.Code.String())
	}
}
