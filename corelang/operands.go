package corelang

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/flexcalc"
	"github.com/npillmayer/flexcalc/grammar"
	"github.com/npillmayer/flexcalc/vm"
)

// Operand is the compile-time stand-in for a value on the stacks of the
// virtual machine. Only the shape of the value is known: its type and, for
// vectors and date-lists, its length.
type Operand struct {
	Type   flexcalc.CType
	Length int // number of elements, 1 for scalars and dates
}

func (o Operand) String() string {
	if o.Type.IsArray() {
		return fmt.Sprintf("%s[%d]", o.Type, o.Length)
	}
	return o.Type.String()
}

// Operands tracks the shape of the run-time stacks during compilation.
// Besides the stack of operand types, it holds a stack of pending function
// names (for nested calls) and records the maximum number of values of each
// type present at any time, which is the capacity run-time stacks need.
type Operands struct {
	types     *arraystack.Stack // of Operand
	functions *arraystack.Stack // of grammar.Token
	depth     vm.Capacity
	max       vm.Capacity
}

// NewOperands creates an empty operand tracker.
func NewOperands() *Operands {
	return &Operands{
		types:     arraystack.New(),
		functions: arraystack.New(),
	}
}

// Push pushes a scalar or a date.
func (ops *Operands) Push(t flexcalc.CType) {
	ops.push(Operand{Type: t, Length: 1})
}

// PushArray pushes a vector or date-list of n elements.
func (ops *Operands) PushArray(t flexcalc.CType, n int) {
	ops.push(Operand{Type: t, Length: n})
}

func (ops *Operands) push(o Operand) {
	ops.types.Push(o)
	ops.count(o, 1)
	ops.max = ops.max.Max(ops.depth)
}

// Pop removes the topmost operand. It returns false if there is none.
func (ops *Operands) Pop() (Operand, bool) {
	v, ok := ops.types.Pop()
	if !ok {
		return Operand{}, false
	}
	o := v.(Operand)
	ops.count(o, -1)
	return o, true
}

func (ops *Operands) count(o Operand, sign int) {
	switch o.Type {
	case flexcalc.ScalarType:
		ops.depth.Scalars += sign
	case flexcalc.VectorType:
		ops.depth.Vectors += sign
		ops.depth.VectorElems += sign * o.Length
	case flexcalc.DateType:
		ops.depth.Dates += sign
	case flexcalc.DateListType:
		ops.depth.DateLists += sign
		ops.depth.DateListElems += sign * o.Length
	}
}

// Top returns the type of the topmost operand, or flexcalc.Undefined.
func (ops *Operands) Top() flexcalc.CType {
	v, ok := ops.types.Peek()
	if !ok {
		return flexcalc.Undefined
	}
	return v.(Operand).Type
}

// TopLength returns the number of elements of the topmost operand.
func (ops *Operands) TopLength() int {
	v, ok := ops.types.Peek()
	if !ok {
		return 0
	}
	return v.(Operand).Length
}

// Size returns the number of operands.
func (ops *Operands) Size() int {
	return ops.types.Size()
}

// PushFunction remembers a function name until its call token is read.
func (ops *Operands) PushFunction(fn grammar.Token) {
	ops.functions.Push(fn)
}

// PopFunction returns the innermost pending function name.
func (ops *Operands) PopFunction() (grammar.Token, bool) {
	v, ok := ops.functions.Pop()
	if !ok {
		return grammar.Token{}, false
	}
	return v.(grammar.Token), true
}

// Finished is a predicate: is there exactly one operand left and no
// function waiting for its arguments?
func (ops *Operands) Finished() bool {
	return ops.types.Size() == 1 && ops.functions.Empty()
}

// Depth returns the number of values of each type currently on the stacks.
func (ops *Operands) Depth() vm.Capacity {
	return ops.depth
}

// MaxDepth returns the maximum number of values of each type which have
// been on the stacks at the same time.
func (ops *Operands) MaxDepth() vm.Capacity {
	return ops.max
}
