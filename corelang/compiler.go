package corelang

import (
	"fmt"
	"strconv"

	"github.com/npillmayer/flexcalc"
	"github.com/npillmayer/flexcalc/grammar"
	"github.com/npillmayer/flexcalc/variables"
	"github.com/npillmayer/flexcalc/vm"
)

// VariableStore is where the compiler looks up variables.
// *variables.Store implements it.
type VariableStore interface {
	Use(name string) (*variables.Var, error) // get a variable cell and mark it used
	Suggest(name string) []string            // names similar to name
	Epoch() uint64                           // layout epoch, see variables.Store
}

// Report describes the result of a compilation.
type Report struct {
	Type     flexcalc.CType // type of the result
	Length   int            // number of elements of a vector or date-list result
	Capacity vm.Capacity    // stack capacity an evaluation needs
	Epoch    uint64         // layout epoch of the variable store at compile time
}

func (r Report) String() string {
	if r.Type.IsArray() {
		return fmt.Sprintf("%s[%d] %s", r.Type, r.Length, r.Capacity)
	}
	return fmt.Sprintf("%s %s", r.Type, r.Capacity)
}

type compiler struct {
	operands *Operands
	code     []vm.Op
	store    VariableStore
}

// Compile translates a sequence of tokens in postfix order, as produced by
// grammar.ParseInfixToPostfix, into an expression for the stack machine.
// It type-checks the expression and reports the type of the result and the
// stack capacity needed for evaluation.
//
// Variables are bound by reference: the expression will read the values the
// variables hold at evaluation time. Vector and date-list lengths are fixed at
// compile time, however. The expression may be evaluated only as long as
// store.Epoch() equals Report.Epoch; after that it has to be re-compiled.
// store may be nil for expressions without variables.
//
// Compilation stops at the first error, which is a *flexcalc.Error.
func Compile(postfix []grammar.Token, store VariableStore) (*vm.Expression, Report, error) {
	c := &compiler{
		operands: NewOperands(),
		code:     make([]vm.Op, 0, len(postfix)),
		store:    store,
	}
	for _, tok := range postfix {
		if err := c.compile(tok); err != nil {
			tracer().Errorf("compile error: %s", err)
			return nil, Report{}, err
		}
	}
	if !c.operands.Finished() {
		err := flexcalc.Errorf(0, 0, "could not compile expression to a single return type")
		tracer().Errorf("compile error: %s", err.Msg)
		return nil, Report{}, err
	}
	report := Report{
		Type:     c.operands.Top(),
		Length:   c.operands.TopLength(),
		Capacity: c.operands.MaxDepth(),
	}
	if store != nil {
		report.Epoch = store.Epoch()
	}
	expr := vm.NewExpression(c.code, report.Type)
	tracer().Debugf("compiled %d operations, result %s", expr.Len(), report)
	return expr, report, nil
}

func (c *compiler) emit(op vm.Op) {
	c.code = append(c.code, op)
}

func (c *compiler) compile(tok grammar.Token) error {
	switch tok.Kind {
	case grammar.Whitespace, grammar.Tab, grammar.EOF:
		return nil
	case grammar.Number:
		return c.number(tok)
	case grammar.Identifier:
		return c.variable(tok)
	case grammar.Function:
		c.operands.PushFunction(tok)
		return nil
	case grammar.Call:
		return c.call(tok)
	case grammar.Append:
		return c.array(tok)
	case grammar.Index:
		return flexcalc.Errorf(tok.At, tok.Len, `Indexing "[...]" is not supported`)
	case grammar.Operator:
		if tok.Ctx.IsPrefix {
			return c.unary(tok)
		}
		return c.binary(tok)
	}
	return flexcalc.Errorf(tok.At, tok.Len, `Unexpected token "%s" (%s)`, tok.Text, tok.Kind)
}

func (c *compiler) number(tok grammar.Token) error {
	x, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		return flexcalc.Errorf(tok.At, tok.Len, `Cannot read number "%s"`, tok.Text)
	}
	c.operands.Push(flexcalc.ScalarType)
	c.emit(vm.Const(x))
	return nil
}

func (c *compiler) variable(tok grammar.Token) error {
	if c.store == nil {
		return flexcalc.Errorf(tok.At, tok.Len, `Unknown variable "%s"`, tok.Text)
	}
	v, err := c.store.Use(tok.Text)
	if err != nil {
		if s := c.store.Suggest(tok.Text); len(s) > 0 {
			return flexcalc.Errorf(tok.At, tok.Len, `Unknown variable "%s" (did you mean "%s"?)`,
				tok.Text, s[0])
		}
		return flexcalc.Errorf(tok.At, tok.Len, `Unknown variable "%s"`, tok.Text)
	}
	if v.Type().IsArray() {
		c.operands.PushArray(v.Type(), v.Len())
	} else {
		c.operands.Push(v.Type())
	}
	c.emit(vm.Load(v))
	return nil
}

// popArgs pops n operands, returning them in source order.
func (c *compiler) popArgs(tok grammar.Token, n int) ([]Operand, error) {
	args := make([]Operand, n)
	for i := n - 1; i >= 0; i-- {
		o, ok := c.operands.Pop()
		if !ok {
			return nil, flexcalc.Errorf(tok.At, tok.Len, "Missing operand for \"%s\"", tok.Text)
		}
		args[i] = o
	}
	return args, nil
}

// call compiles a function call. The pending function name is the innermost
// one on the operand tracker.
func (c *compiler) call(tok grammar.Token) error {
	fn, ok := c.operands.PopFunction()
	if !ok {
		return flexcalc.Errorf(tok.At, tok.Len, `Expected a function name before "("`)
	}
	f, ok := functions[fn.Text]
	if !ok {
		return flexcalc.Errorf(fn.At, fn.Len, `Unknown function "%s"`, fn.Text)
	}
	n := tok.Ctx.NumArgs
	if n == 0 {
		return flexcalc.Errorf(fn.At, fn.Len, `Function "%s" takes at least 1 argument(s), got 0`, fn.Text)
	}
	args, err := c.popArgs(fn, n)
	if err != nil {
		return err
	}
	var scalars, vectors int
	for _, arg := range args {
		switch arg.Type {
		case flexcalc.ScalarType:
			scalars++
		case flexcalc.VectorType:
			vectors++
		default:
			return flexcalc.Errorf(fn.At, fn.Len, `Function "%s" expects argument type Scalar or Vector, got %s`,
				fn.Text, arg.Type)
		}
	}
	if scalars > 0 && vectors > 0 {
		return flexcalc.Errorf(fn.At, fn.Len, `Function "%s" cannot take both array and scalar arguments`, fn.Text)
	}
	arg := args[0]
	switch f.family {
	case elementwise:
		if n != 1 {
			return flexcalc.Errorf(fn.At, fn.Len, `Function "%s" with argument type %s takes exactly 1 argument(s), got %d`,
				fn.Text, arg.Type, n)
		}
		c.operands.push(arg)
		c.emit(vm.Op{Code: elementwiseCode[shapeOf(arg.Type)], Math: f.math})
	case reducing:
		if arg.Type == flexcalc.VectorType {
			if n != 1 {
				return flexcalc.Errorf(fn.At, fn.Len, `Function "%s" with argument type %s takes exactly 1 argument(s), got %d`,
					fn.Text, arg.Type, n)
			}
			c.emit(vm.Op{Code: vm.OpReduceVector, Reduce: f.reduce})
		} else {
			if f.vectorOnly {
				return flexcalc.Errorf(fn.At, fn.Len, `Function "%s" expects argument type Vector, got %s`,
					fn.Text, arg.Type)
			}
			if n < 2 {
				return flexcalc.Errorf(fn.At, fn.Len, `Function "%s" with argument type %s takes at least 2 argument(s), got %d`,
					fn.Text, arg.Type, n)
			}
			c.emit(vm.Op{Code: vm.OpReduceArgs, Reduce: f.reduce, N: n})
		}
		c.operands.Push(flexcalc.ScalarType)
	}
	return nil
}

// array compiles an array literal [a, b, ...].
func (c *compiler) array(tok grammar.Token) error {
	n := tok.Ctx.NumArgs
	if n == 0 {
		return flexcalc.Errorf(tok.At, tok.Len, `Empty list not allowed: "[]"`)
	}
	elems, err := c.popArgs(tok, n)
	if err != nil {
		return err
	}
	t := elems[0].Type
	for _, e := range elems {
		if e.Type.IsArray() {
			return flexcalc.Errorf(tok.At, tok.Len, "Array cannot contain another array")
		}
		if e.Type != t {
			return flexcalc.Errorf(tok.At, tok.Len, "All elements of an array must be of the same type")
		}
	}
	switch t {
	case flexcalc.ScalarType:
		c.emit(vm.Op{Code: vm.OpCollectVector, N: n})
	case flexcalc.DateType:
		c.emit(vm.Op{Code: vm.OpCollectDates, N: n})
	default:
		return flexcalc.Errorf(tok.At, tok.Len, "Array cannot contain values of type %s", t)
	}
	c.operands.PushArray(t.ArrayOf(), n)
	return nil
}

// unary compiles a prefix operator. Unary plus does not produce code.
func (c *compiler) unary(tok grammar.Token) error {
	switch tok.Text {
	case "+":
		if c.operands.Size() == 0 {
			return flexcalc.Errorf(tok.At, tok.Len, "Missing operand for \"+\"")
		}
		return nil
	case "-":
		t := c.operands.Top()
		s := shapeOf(t)
		if s == noShape {
			return flexcalc.Errorf(tok.At, tok.Len, `Unary operator "%s" does not support operand type: "%s"`,
				tok.Text, t)
		}
		c.emit(vm.Op{Code: negate[s]})
		return nil
	}
	return flexcalc.Errorf(tok.At, tok.Len, `Operator "%s" is not supported in expressions`, tok.Text)
}

// binary compiles an infix operator, broadcasting scalars over vectors.
func (c *compiler) binary(tok grammar.Token) error {
	a, ok := arithmetic[tok.Text]
	if !ok {
		return flexcalc.Errorf(tok.At, tok.Len, `Operator "%s" is not supported in expressions`, tok.Text)
	}
	args, err := c.popArgs(tok, 2)
	if err != nil {
		return err
	}
	left, right := args[0], args[1]
	ls, rs := shapeOf(left.Type), shapeOf(right.Type)
	if ls == noShape {
		return flexcalc.Errorf(tok.At, tok.Len, `Binary operator "%s" does not support left operand type: "%s"`,
			tok.Text, left.Type)
	}
	if rs == noShape {
		return flexcalc.Errorf(tok.At, tok.Len, `Binary operator "%s" does not support right operand type: "%s"`,
			tok.Text, right.Type)
	}
	switch {
	case ls == vectorShape && rs == vectorShape:
		if left.Length != right.Length {
			return flexcalc.Errorf(tok.At, tok.Len, `Binary operator "%s" got vectors of different lengths: %d and %d`,
				tok.Text, left.Length, right.Length)
		}
		c.operands.PushArray(flexcalc.VectorType, left.Length)
	case ls == vectorShape:
		c.operands.PushArray(flexcalc.VectorType, left.Length)
	case rs == vectorShape:
		c.operands.PushArray(flexcalc.VectorType, right.Length)
	default:
		c.operands.Push(flexcalc.ScalarType)
	}
	c.emit(vm.Binary(broadcast[ls][rs], a))
	return nil
}
