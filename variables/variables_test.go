package variables_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/flexcalc"
	"github.com/npillmayer/flexcalc/variables"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestStoreSetGet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.variables")
	defer teardown()
	//
	store := variables.NewStore()
	for i, x := range []struct {
		name  string
		value flexcalc.Value
	}{
		{"a", flexcalc.Scalar(1.5)},
		{"v", flexcalc.Vector{1, 2, 3}},
		{"d", flexcalc.Date(18000)},
		{"dl", flexcalc.DateList{18000, 18031}},
	} {
		if err := store.Set(x.name, x.value); err != nil {
			t.Fatalf("test %d: cannot set %s: %v", i, x.name, err)
		}
		if !store.Contains(x.name) {
			t.Errorf("test %d: expected store to contain %s", i, x.name)
		}
		if store.TypeOf(x.name) != x.value.Type() {
			t.Errorf("test %d: expected %s to be of type %s, is %s", i, x.name,
				x.value.Type(), store.TypeOf(x.name))
		}
		v, err := store.Get(x.name)
		if err != nil {
			t.Fatalf("test %d: cannot get %s: %v", i, x.name, err)
		}
		if diff := cmp.Diff(x.value, v); diff != "" {
			t.Errorf("test %d: value differs (-want +got):\n%s", i, diff)
		}
	}
	if store.TypeOf("nope") != flexcalc.Undefined {
		t.Errorf("expected unknown variable to be of undefined type")
	}
	if _, err := store.Get("nope"); !errors.Is(err, variables.ErrUnknownVariable) {
		t.Errorf("expected ErrUnknownVariable, got %v", err)
	}
}

func TestStoreTypeConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.variables")
	defer teardown()
	//
	store := variables.NewStore()
	if err := store.Set("x", flexcalc.Scalar(1)); err != nil {
		t.Fatal(err)
	}
	if err := store.Set("x", flexcalc.Scalar(2)); err != nil {
		t.Errorf("expected re-setting a scalar to succeed, got %v", err)
	}
	err := store.Set("x", flexcalc.Vector{1, 2})
	if !errors.Is(err, variables.ErrTypeConflict) {
		t.Fatalf("expected type conflict, got %v", err)
	}
	want := "Variable Error (already defined): Cannot set x from type Scalar to Vector"
	if got := err.Error(); len(got) < len(want) || got[:len(want)] != want {
		t.Errorf("unexpected error message %q", got)
	}
	store.Delete("x")
	if err := store.Set("x", flexcalc.Vector{1, 2}); err != nil {
		t.Errorf("expected re-typing after delete to succeed, got %v", err)
	}
}

func TestStoreValuesAreCopied(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.variables")
	defer teardown()
	//
	store := variables.NewStore()
	v := flexcalc.Vector{1, 2, 3}
	store.Set("v", v)
	v[0] = 99
	got, _ := store.Get("v")
	if got.(flexcalc.Vector)[0] != 1 {
		t.Errorf("expected store to hold its own copy of a vector")
	}
}

func TestStoreEpoch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.variables")
	defer teardown()
	//
	store := variables.NewStore()
	store.Set("v", flexcalc.Vector{1, 2, 3})
	store.Set("a", flexcalc.Scalar(1))
	e := store.Epoch()
	store.Set("v", flexcalc.Vector{4, 5, 6})
	store.Set("a", flexcalc.Scalar(7))
	if store.Epoch() != e {
		t.Errorf("expected epoch to stay unchanged for same-shape updates")
	}
	store.Set("v", flexcalc.Vector{4, 5})
	if store.Epoch() == e {
		t.Errorf("expected epoch to advance when a vector changes its length")
	}
	e = store.Epoch()
	store.Delete("a")
	if store.Epoch() == e {
		t.Errorf("expected epoch to advance when a variable is deleted")
	}
}

func TestStoreUnused(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.variables")
	defer teardown()
	//
	store := variables.NewStore()
	store.Set("b", flexcalc.Scalar(1))
	store.Set("a", flexcalc.Scalar(2))
	store.Set("c", flexcalc.Scalar(3))
	if _, err := store.Use("b"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, store.Unused()); diff != "" {
		t.Errorf("unused variables differ (-want +got):\n%s", diff)
	}
	store.Set("b", flexcalc.Scalar(4))
	if diff := cmp.Diff([]string{"a", "b", "c"}, store.Unused()); diff != "" {
		t.Errorf("expected re-set variable to be unused again (-want +got):\n%s", diff)
	}
	if _, err := store.Use("zzz"); !errors.Is(err, variables.ErrUnknownVariable) {
		t.Errorf("expected ErrUnknownVariable, got %v", err)
	}
}

func TestStoreSuggest(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.variables")
	defer teardown()
	//
	store := variables.NewStore()
	store.Set("interest_rate", flexcalc.Scalar(0.05))
	store.Set("notional", flexcalc.Scalar(100))
	s := store.Suggest("rate")
	if len(s) == 0 || s[0] != "interest_rate" {
		t.Errorf("expected suggestion 'interest_rate', got %v", s)
	}
	s = store.Suggest("notionals")
	if len(s) == 0 || s[0] != "notional" {
		t.Errorf("expected suggestion 'notional', got %v", s)
	}
}
