package corelang

import "github.com/npillmayer/flexcalc/vm"

type functionFamily int8

const (
	elementwise functionFamily = iota // f(x) applied to a scalar or to each element of a vector
	reducing                          // f(x, y, ...) or f(vector) yielding a scalar
)

// function describes a built-in function for the compiler.
type function struct {
	family     functionFamily
	math       vm.Math
	reduce     vm.Reduction
	vectorOnly bool // does not accept scalar arguments
}

// functions is the dispatch table for built-in functions, keyed by name.
// It has to cover grammar.Functions().
var functions = map[string]function{
	"EXP":    {family: elementwise, math: vm.Exp},
	"LOG":    {family: elementwise, math: vm.Log},
	"ABS":    {family: elementwise, math: vm.Abs},
	"SQRT":   {family: elementwise, math: vm.Sqrt},
	"SQUARE": {family: elementwise, math: vm.Square},
	"SUM":    {family: reducing, reduce: vm.Sum},
	"PROD":   {family: reducing, reduce: vm.Prod},
	"MAX":    {family: reducing, reduce: vm.Max},
	"MIN":    {family: reducing, reduce: vm.Min},
	"ARGMAX": {family: reducing, reduce: vm.ArgMax},
	"ARGMIN": {family: reducing, reduce: vm.ArgMin},
	"LEN":    {family: reducing, reduce: vm.Len, vectorOnly: true},
}
