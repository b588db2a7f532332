package evaluator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/flexcalc"
	"github.com/npillmayer/flexcalc/corelang"
	"github.com/npillmayer/flexcalc/grammar"
	"github.com/npillmayer/flexcalc/variables"
	"github.com/npillmayer/flexcalc/vm"
)

// ErrEmptyExpression flags an attempt to create a calculator for an empty
// expression.
var ErrEmptyExpression error = errors.New("Empty string not allowed")

// ErrResultType flags a request for a result of the wrong type.
var ErrResultType error = errors.New("wrong result type")

// ResultTypeError is returned when the type of an expression does not match
// the requested result type. It wraps ErrResultType.
type ResultTypeError struct {
	Infix string
	Have  flexcalc.CType
	Want  flexcalc.CType
}

func (e *ResultTypeError) Error() string {
	return fmt.Sprintf(`Expression "%s" evaluates to %s, not %s`, e.Infix, e.Have, e.Want)
}

// Unwrap returns ErrResultType.
func (e *ResultTypeError) Unwrap() error {
	return ErrResultType
}

// Calculator evaluates one expression, repeatedly.
type Calculator struct {
	infix   string
	lexer   *grammar.Lexer
	postfix []grammar.Token
	store   *variables.Store
	expr    *vm.Expression
	report  corelang.Report
	stacks  *vm.CalcStacks
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLexer sets the lexer to tokenize the expression, e.g. one with a
// non-default maximum line length.
func WithLexer(lx *grammar.Lexer) Option {
	return func(c *Calculator) {
		c.lexer = lx
	}
}

// WithStore lets the calculator use an existing variable store, which may
// be shared between calculators.
func WithStore(store *variables.Store) Option {
	return func(c *Calculator) {
		c.store = store
	}
}

// New creates a calculator for an expression. The expression is parsed
// immediately, syntax errors are reported as *flexcalc.Error.
func New(infix string, opts ...Option) (*Calculator, error) {
	if strings.TrimSpace(infix) == "" {
		return nil, ErrEmptyExpression
	}
	c := &Calculator{infix: infix}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = variables.NewStore()
	}
	var tokens []grammar.Token
	if c.lexer != nil {
		tokens = c.lexer.Tokenize(infix)
	} else {
		tokens = grammar.Tokenize(infix)
	}
	postfix, err := grammar.ParseInfixToPostfix(tokens)
	if err != nil {
		return nil, err
	}
	c.postfix = postfix
	tracer().Debugf("new calculator for %q", infix)
	return c, nil
}

// Infix returns the expression as given to New.
func (c *Calculator) Infix() string {
	return c.infix
}

// Postfix returns the expression in postfix order.
func (c *Calculator) Postfix() string {
	return grammar.PostfixString(c.postfix)
}

// Store returns the variable store of the calculator.
func (c *Calculator) Store() *variables.Store {
	return c.store
}

// Set sets a variable. A variable keeps its type for its lifetime.
func (c *Calculator) Set(name string, value flexcalc.Value) error {
	return c.store.Set(name, value)
}

// SetScalar sets a scalar variable.
func (c *Calculator) SetScalar(name string, x float64) error {
	return c.store.Set(name, flexcalc.Scalar(x))
}

// SetVector sets a vector variable. The values are copied.
func (c *Calculator) SetVector(name string, v []float64) error {
	return c.store.Set(name, flexcalc.Vector(v))
}

// SetDate sets a date variable.
func (c *Calculator) SetDate(name string, d flexcalc.Date) error {
	return c.store.Set(name, d)
}

// SetDateList sets a date-list variable. The values are copied.
func (c *Calculator) SetDateList(name string, dl []int64) error {
	return c.store.Set(name, flexcalc.DateList(dl))
}

// Compile compiles the expression, if it has not been compiled yet or if
// the layout of variables has changed since, and returns the compiler's
// report. Calculations call it implicitly.
func (c *Calculator) Compile() (corelang.Report, error) {
	if c.expr != nil && c.report.Epoch == c.store.Epoch() {
		return c.report, nil
	}
	expr, report, err := corelang.Compile(c.postfix, c.store)
	if err != nil {
		c.expr = nil
		return corelang.Report{}, err
	}
	c.expr, c.report = expr, report
	if c.stacks == nil {
		c.stacks = vm.NewCalcStacks(report.Capacity)
	} else {
		c.stacks.Reserve(report.Capacity)
	}
	tracer().Debugf("compiled %q: %s", c.infix, c.expr)
	return report, nil
}

// Expression returns the compiled expression, or nil if the expression has
// not been compiled successfully.
func (c *Calculator) Expression() *vm.Expression {
	return c.expr
}

// Type returns the type of the expression's result.
func (c *Calculator) Type() (flexcalc.CType, error) {
	report, err := c.Compile()
	return report.Type, err
}

func (c *Calculator) evaluate(want flexcalc.CType) error {
	report, err := c.Compile()
	if err != nil {
		return err
	}
	if report.Type != want {
		return &ResultTypeError{Infix: c.infix, Have: report.Type, Want: want}
	}
	c.expr.Evaluate(c.stacks)
	return nil
}

// done checks that the stacks are empty after the result has been popped.
func (c *Calculator) done() error {
	if err := c.stacks.CheckReady(); err != nil {
		tracer().Errorf("%s after evaluating %q", err, c.infix)
		c.stacks.Clear()
		return err
	}
	return nil
}

// CalculateScalar evaluates an expression of type Scalar.
func (c *Calculator) CalculateScalar() (float64, error) {
	if err := c.evaluate(flexcalc.ScalarType); err != nil {
		return 0, err
	}
	x := c.stacks.PopScalar()
	return x, c.done()
}

// CalculateVector evaluates an expression of type Vector.
// The result is a newly allocated slice.
func (c *Calculator) CalculateVector() ([]float64, error) {
	return c.CalculateVectorInto(nil)
}

// CalculateVectorInto evaluates an expression of type Vector. The result is
// written to dst, which is grown if needed, and returned.
func (c *Calculator) CalculateVectorInto(dst []float64) ([]float64, error) {
	if err := c.evaluate(flexcalc.VectorType); err != nil {
		return dst, err
	}
	dst = append(dst[:0], c.stacks.PopVector()...)
	return dst, c.done()
}

// Calculate evaluates the expression, whatever its type.
func (c *Calculator) Calculate() (flexcalc.Value, error) {
	report, err := c.Compile()
	if err != nil {
		return nil, err
	}
	if err = c.evaluate(report.Type); err != nil {
		return nil, err
	}
	var v flexcalc.Value
	switch report.Type {
	case flexcalc.ScalarType:
		v = flexcalc.Scalar(c.stacks.PopScalar())
	case flexcalc.VectorType:
		v = flexcalc.Vector(append([]float64(nil), c.stacks.PopVector()...))
	case flexcalc.DateType:
		v = flexcalc.Date(c.stacks.PopDate())
	case flexcalc.DateListType:
		v = flexcalc.DateList(append([]int64(nil), c.stacks.PopDateList()...))
	}
	return v, c.done()
}
