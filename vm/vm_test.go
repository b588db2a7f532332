package vm

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/flexcalc"
	"github.com/npillmayer/flexcalc/variables"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestStacksPushPop(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.vm")
	defer teardown()
	//
	cs := NewCalcStacks(Capacity{})
	if !cs.Ready() {
		t.Fatalf("expected new stacks to be ready")
	}
	cs.PushScalar(1)
	cs.PushVector([]float64{1, 2})
	cs.PushVector([]float64{3, 4, 5})
	cs.PushDate(18000)
	cs.PushDateList([]int64{1, 2})
	if cs.Size(flexcalc.VectorType) != 2 || cs.Size(flexcalc.ScalarType) != 1 {
		t.Errorf("unexpected stack sizes: %s", cs)
	}
	if err := cs.CheckReady(); err == nil {
		t.Errorf("expected stacks not to be ready")
	}
	if diff := cmp.Diff([]float64{3, 4, 5}, cs.PopVector()); diff != "" {
		t.Errorf("top vector differs (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1, 2}, cs.PopVector()); diff != "" {
		t.Errorf("second vector differs (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{1, 2}, cs.PopDateList()); diff != "" {
		t.Errorf("date-list differs (-want +got):\n%s", diff)
	}
	if cs.PopDate() != 18000 || cs.PopScalar() != 1 {
		t.Errorf("unexpected scalar or date values")
	}
	if err := cs.CheckReady(); err != nil {
		t.Errorf("expected stacks to be ready, got %v", err)
	}
}

func TestEvaluateBroadcast(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.vm")
	defer teardown()
	//
	for i, x := range []struct {
		ops  []Op
		want []float64
	}{
		{ // [2,2] + [3,2]
			[]Op{Const(2), Const(2), {Code: OpCollectVector, N: 2},
				Const(3), Const(2), {Code: OpCollectVector, N: 2},
				Binary(OpBinaryVV, Add)},
			[]float64{5, 4},
		},
		{ // [2,1] * (3+4)
			[]Op{Const(2), Const(1), {Code: OpCollectVector, N: 2},
				Const(3), Const(4), Binary(OpBinarySS, Add), Binary(OpBinaryVS, Mul)},
			[]float64{14, 7},
		},
		{ // 1 - [1,2]
			[]Op{Const(1), Const(1), Const(2), {Code: OpCollectVector, N: 2},
				Binary(OpBinarySV, Sub)},
			[]float64{0, -1},
		},
		{ // [1,2] - 1
			[]Op{Const(1), Const(2), {Code: OpCollectVector, N: 2}, Const(1),
				Binary(OpBinaryVS, Sub)},
			[]float64{0, 1},
		},
		{ // -SQRT([4,9])
			[]Op{Const(4), Const(9), {Code: OpCollectVector, N: 2},
				{Code: OpMathVector, Math: Sqrt}, {Code: OpNegVector}},
			[]float64{-2, -3},
		},
	} {
		cs := NewCalcStacks(Capacity{})
		NewExpression(x.ops, flexcalc.VectorType).Evaluate(cs)
		got := append([]float64(nil), cs.PopVector()...)
		if diff := cmp.Diff(x.want, got); diff != "" {
			t.Errorf("test %d: result differs (-want +got):\n%s", i, diff)
		}
		if !cs.Ready() {
			t.Errorf("test %d: expected stacks to be ready, are %s", i, cs)
		}
	}
}

func TestReductions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.vm")
	defer teardown()
	//
	for i, x := range []struct {
		r    Reduction
		args []float64
		want float64
	}{
		{Sum, []float64{-2, -3, -4, -3, 4}, -8},
		{Prod, []float64{-2, -3, 4, -3, 4}, -288},
		{Max, []float64{2, 3, 4, 3, 4}, 4},
		{Min, []float64{2, 3, 1, 1, 4}, 1},
		{ArgMax, []float64{-2, -3, -4, -3, 4}, 4},
		{ArgMax, []float64{2, 3, 4, 3, 4}, 2},
		{ArgMin, []float64{2, 3, 1, 1, 4, 1, 3, 4}, 2},
		{Len, []float64{7, 7, 7}, 3},
	} {
		ops := make([]Op, 0, len(x.args)+1)
		for _, a := range x.args {
			ops = append(ops, Const(a))
		}
		args := append(ops, Op{Code: OpReduceArgs, Reduce: x.r, N: len(x.args)})
		vec := append(ops, Op{Code: OpCollectVector, N: len(x.args)},
			Op{Code: OpReduceVector, Reduce: x.r})
		for _, e := range [][]Op{args, vec} {
			cs := NewCalcStacks(Capacity{})
			NewExpression(e, flexcalc.ScalarType).Evaluate(cs)
			if got := cs.PopScalar(); got != x.want {
				t.Errorf("test %d: expected %s to be %g, got %g", i, x.r, x.want, got)
			}
			if !cs.Ready() {
				t.Errorf("test %d: stacks not ready: %s", i, cs)
			}
		}
	}
	if !math.IsNaN(Max.apply(nil)) || Sum.apply(nil) != 0 {
		t.Errorf("unexpected reduction of empty list")
	}
}

func TestEvaluateLoads(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.vm")
	defer teardown()
	//
	store := variables.NewStore()
	store.Set("a", flexcalc.Scalar(2))
	store.Set("v", flexcalc.Vector{1, 2, 3})
	store.Set("d", flexcalc.Date(100))
	store.Set("dl", flexcalc.DateList{1, 2})
	a, _ := store.Use("a")
	v, _ := store.Use("v")
	d, _ := store.Use("d")
	dl, _ := store.Use("dl")
	// v ** a
	e := NewExpression([]Op{Load(v), Load(a), Binary(OpBinaryVS, Pow)}, flexcalc.VectorType)
	cs := NewCalcStacks(Capacity{})
	e.Evaluate(cs)
	if diff := cmp.Diff([]float64{1, 4, 9}, cs.PopVector()); diff != "" {
		t.Errorf("v ** a differs (-want +got):\n%s", diff)
	}
	store.Set("a", flexcalc.Scalar(3))
	e.Evaluate(cs)
	if diff := cmp.Diff([]float64{1, 8, 27}, cs.PopVector()); diff != "" {
		t.Errorf("expected load to see the new value of a (-want +got):\n%s", diff)
	}
	// [d, d]
	e = NewExpression([]Op{Load(d), Load(d), {Code: OpCollectDates, N: 2}}, flexcalc.DateListType)
	e.Evaluate(cs)
	if diff := cmp.Diff([]int64{100, 100}, cs.PopDateList()); diff != "" {
		t.Errorf("date collection differs (-want +got):\n%s", diff)
	}
	NewExpression([]Op{Load(dl)}, flexcalc.DateListType).Evaluate(cs)
	if diff := cmp.Diff([]int64{1, 2}, cs.PopDateList()); diff != "" {
		t.Errorf("date-list load differs (-want +got):\n%s", diff)
	}
	if store.TypeOf("v") != flexcalc.VectorType || Load(v).Code != OpLoadVector {
		t.Errorf("expected vector load for vector variable")
	}
	if !cs.Ready() {
		t.Errorf("stacks not ready: %s", cs)
	}
}

func TestRepeatedEvaluationDoesNotGrowStacks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.vm")
	defer teardown()
	//
	// SUM([1,2,3] * [4,5,6]) + 1
	ops := []Op{
		Const(1), Const(2), Const(3), {Code: OpCollectVector, N: 3},
		Const(4), Const(5), Const(6), {Code: OpCollectVector, N: 3},
		Binary(OpBinaryVV, Mul), {Code: OpReduceVector, Reduce: Sum},
		Const(1), Binary(OpBinarySS, Add),
	}
	e := NewExpression(ops, flexcalc.ScalarType)
	c := Capacity{Scalars: 3, Vectors: 2, VectorElems: 6}
	cs := NewCalcStacks(c)
	before := cs.Capacity()
	for i := 0; i < 1000; i++ {
		e.Evaluate(cs)
		if got := cs.PopScalar(); got != 33 {
			t.Fatalf("run %d: expected 33, got %g", i, got)
		}
		if !cs.Ready() {
			t.Fatalf("run %d: stacks not ready: %s", i, cs)
		}
	}
	if cs.Capacity() != before {
		t.Errorf("expected stacks not to grow, capacity %s -> %s", before, cs.Capacity())
	}
	if e.String() != "CONST 1; CONST 2; CONST 3; COLLECT(3); CONST 4; CONST 5; CONST 6; COLLECT(3); MUL_VV; SUM_V; CONST 1; ADD_SS" {
		t.Errorf("unexpected listing %q", e.String())
	}
}
