package evaluator_test

import (
	"math"
	"strings"
	"testing"

	"github.com/npillmayer/flexcalc/evaluator"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	lua "github.com/yuin/gopher-lua"
)

// Lua serves as reference evaluator for scalar expressions. Its operators
// have the same precedence as ours, with the exception of unary plus, which
// Lua does not know.
const luaPrelude = `
EXP = math.exp
LOG = math.log
ABS = math.abs
SQRT = math.sqrt
MAX = math.max
MIN = math.min
function SQUARE(x) return x * x end
function SUM(...)
	local s = 0
	for _, x in ipairs({...}) do s = s + x end
	return s
end
function PROD(...)
	local p = 1
	for _, x in ipairs({...}) do p = p * x end
	return p
end
`

func luaEval(t *testing.T, L *lua.LState, expr string) float64 {
	t.Helper()
	src := "return " + strings.ReplaceAll(expr, "**", "^")
	if err := L.DoString(src); err != nil {
		t.Fatalf("lua cannot evaluate %q: %v", src, err)
	}
	v := L.Get(-1)
	L.Pop(1)
	n, ok := v.(lua.LNumber)
	if !ok {
		t.Fatalf("lua result of %q is not a number: %v", src, v)
	}
	return float64(n)
}

func TestReferenceEvaluator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.evaluator")
	defer teardown()
	//
	L := lua.NewState()
	defer L.Close()
	if err := L.DoString(luaPrelude); err != nil {
		t.Fatal(err)
	}
	vars := map[string]float64{"a": 1.5, "b": -2, "c": 7, "rate": 0.035}
	for name, x := range vars {
		L.SetGlobal(name, lua.LNumber(x))
	}
	for i, expr := range []string{
		"2 + 3",
		"2**3 + 4**5",
		"(8**2)/((5-2)*(3+1))-7+2",
		"2**-3 - -5 * (4 - 2) + 8 / 4",
		"-(3 + 4) * (5 - 2) / 2**3",
		"10 * -((5 - 2)**2 - 4) / 3",
		"(2 * 3**LOG(EXP(-2))) / -(5 - 2) + 10",
		"-3**2",
		"2**3**2",
		"a - b - c",
		"a / b / c * 3",
		"a * (b + c) ** 2 / SQRT(c)",
		"SUM(a, b, c) * PROD(a, b, c)",
		"MAX(a, b, c) - MIN(a, b, c)",
		"100 * EXP(-rate * 5) + SQUARE(ABS(b))",
		"LOG(1 + rate) * (1 + rate) ** -c",
	} {
		calc, err := evaluator.New(expr)
		if err != nil {
			t.Errorf("test %d: cannot parse %q: %v", i, expr, err)
			continue
		}
		for name, x := range vars {
			calc.SetScalar(name, x)
		}
		got, err := calc.CalculateScalar()
		if err != nil {
			t.Errorf("test %d: cannot evaluate %q: %v", i, expr, err)
			continue
		}
		want := luaEval(t, L, expr)
		tolerance := 1e-9 * math.Max(1, math.Abs(want))
		if math.Abs(got-want) > tolerance {
			t.Errorf("test %d: %q evaluates to %.15g, reference says %.15g", i, expr, got, want)
		}
	}
}
