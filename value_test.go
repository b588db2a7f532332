package flexcalc

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestParseValue(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc")
	defer teardown()
	//
	for i, x := range []struct {
		input string
		value Value
	}{
		{"1.5", Scalar(1.5)},
		{" -2 ", Scalar(-2)},
		{"1e3", Scalar(1000)},
		{"[1, 2, 3]", Vector{1, 2, 3}},
		{"[7]", Vector{7}},
		{"1970-01-02", Date(1)},
		{"2021-12-24", Date(18985)},
		{"[1970-01-01, 1970-01-03]", DateList{0, 2}},
	} {
		v, err := ParseValue(x.input)
		if err != nil {
			t.Errorf("test %d: cannot parse %q: %v", i, x.input, err)
			continue
		}
		if diff := cmp.Diff(x.value, v); diff != "" {
			t.Errorf("test %d: value differs (-want +got):\n%s", i, diff)
		}
	}
}

func TestParseValueErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc")
	defer teardown()
	//
	for i, input := range []string{"", "abc", "[]", "[1, 2", "[1, 2021-12-24]", "[1, x]", "[[1],2]", "[2021-12-24, [1]]"} {
		if v, err := ParseValue(input); err == nil {
			t.Errorf("test %d: expected %q to fail, got %v", i, input, v)
		}
	}
}

func TestDates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc")
	defer teardown()
	//
	d := DateOf(time.Date(2021, time.December, 24, 17, 30, 0, 0, time.UTC))
	if d != 18985 {
		t.Errorf("expected day 18985, got %d", d)
	}
	if d.String() != "2021-12-24" {
		t.Errorf("expected 2021-12-24, got %s", d)
	}
	if s := (DateList{0, 18985}).String(); s != "[1970-01-01, 2021-12-24]" {
		t.Errorf("unexpected date list rendering %s", s)
	}
	if s := (Vector{1, 2.5}).String(); s != "[1, 2.5]" {
		t.Errorf("unexpected vector rendering %s", s)
	}
}

func TestTypes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc")
	defer teardown()
	//
	if VectorType.ElementType() != ScalarType || DateType.ArrayOf() != DateListType {
		t.Errorf("element/array types mixed up")
	}
	if !DateListType.IsArray() || ScalarType.IsArray() {
		t.Errorf("IsArray is wrong")
	}
	if TypeFromString("Vector") != VectorType {
		t.Errorf("expected TypeFromString to read Vector, got %s", TypeFromString("Vector"))
	}
}
