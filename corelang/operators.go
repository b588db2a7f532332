package corelang

import (
	"github.com/npillmayer/flexcalc"
	"github.com/npillmayer/flexcalc/vm"
)

// arithmetic maps binary operator symbols to arithmetic operations.
var arithmetic = map[string]vm.Arith{
	"+":  vm.Add,
	"-":  vm.Sub,
	"*":  vm.Mul,
	"/":  vm.Div,
	"**": vm.Pow,
}

// shape of an arithmetic operand, used as an index into broadcast
type shape int8

const (
	scalarShape shape = iota
	vectorShape
	noShape shape = -1
)

func shapeOf(t flexcalc.CType) shape {
	switch t {
	case flexcalc.ScalarType:
		return scalarShape
	case flexcalc.VectorType:
		return vectorShape
	}
	return noShape
}

// broadcast selects the operation for a binary operator, indexed by the
// shapes of the left and right operand.
var broadcast = [2][2]vm.OpCode{
	scalarShape: {scalarShape: vm.OpBinarySS, vectorShape: vm.OpBinarySV},
	vectorShape: {scalarShape: vm.OpBinaryVS, vectorShape: vm.OpBinaryVV},
}

// negate selects the operation for unary minus, indexed by operand shape.
var negate = [2]vm.OpCode{
	scalarShape: vm.OpNegScalar,
	vectorShape: vm.OpNegVector,
}

// elementwiseCode selects the operation for real functions, indexed by
// operand shape.
var elementwiseCode = [2]vm.OpCode{
	scalarShape: vm.OpMathScalar,
	vectorShape: vm.OpMathVector,
}
