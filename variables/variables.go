package variables

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/npillmayer/flexcalc"
)

// ErrTypeConflict flags an attempt to re-bind a variable to a different type.
var ErrTypeConflict error = errors.New("variable type conflict")

// ErrUnknownVariable flags a reference to a variable which has never been set.
var ErrUnknownVariable error = errors.New("unknown variable")

// === Variables =============================================================

// Var is the storage cell of a named variable. Its type never changes.
type Var struct {
	name   string
	typ    flexcalc.CType
	scalar float64
	vector []float64
	date   int64
	dates  []int64
}

// Name returns the variable's name.
func (v *Var) Name() string {
	return v.name
}

// Type returns the variable's type.
func (v *Var) Type() flexcalc.CType {
	return v.typ
}

// Scalar returns the value of a scalar variable.
func (v *Var) Scalar() float64 {
	return v.scalar
}

// Vector returns the value of a vector variable. The slice is owned by the
// variable and must not be modified.
func (v *Var) Vector() []float64 {
	return v.vector
}

// Date returns the value of a date variable.
func (v *Var) Date() int64 {
	return v.date
}

// DateList returns the value of a date-list variable. The slice is owned by
// the variable and must not be modified.
func (v *Var) DateList() []int64 {
	return v.dates
}

// Len returns the number of elements of a vector or date-list variable, and
// 1 for other types.
func (v *Var) Len() int {
	switch v.typ {
	case flexcalc.VectorType:
		return len(v.vector)
	case flexcalc.DateListType:
		return len(v.dates)
	}
	return 1
}

// Value returns a copy of the variable's value.
func (v *Var) Value() flexcalc.Value {
	switch v.typ {
	case flexcalc.ScalarType:
		return flexcalc.Scalar(v.scalar)
	case flexcalc.VectorType:
		return flexcalc.Vector(append([]float64(nil), v.vector...))
	case flexcalc.DateType:
		return flexcalc.Date(v.date)
	case flexcalc.DateListType:
		return flexcalc.DateList(append([]int64(nil), v.dates...))
	}
	return nil
}

func (v *Var) String() string {
	return fmt.Sprintf("<var %s/%s = %v>", v.name, v.typ, v.Value())
}

// assign sets a new value of the variable's type. It returns true if the
// number of elements changed.
func (v *Var) assign(value flexcalc.Value) (resized bool) {
	n := v.Len()
	switch x := value.(type) {
	case flexcalc.Scalar:
		v.scalar = float64(x)
	case flexcalc.Vector:
		v.vector = append(v.vector[:0], x...)
	case flexcalc.Date:
		v.date = int64(x)
	case flexcalc.DateList:
		v.dates = append(v.dates[:0], x...)
	}
	return n != v.Len()
}

// === Store =================================================================

// Store maps variable names to typed variables.
type Store struct {
	vars   map[string]*Var
	unused map[string]struct{}
	epoch  uint64
}

// NewStore creates an empty variable store.
func NewStore() *Store {
	return &Store{
		vars:   make(map[string]*Var),
		unused: make(map[string]struct{}),
	}
}

// Contains is a predicate: is a variable with this name set?
func (s *Store) Contains(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// TypeOf returns the type of a variable, or flexcalc.Undefined.
func (s *Store) TypeOf(name string) flexcalc.CType {
	if v, ok := s.vars[name]; ok {
		return v.typ
	}
	return flexcalc.Undefined
}

// Set binds a value to a name. If the name is already bound to a value of a
// different type, Set fails with an error wrapping ErrTypeConflict.
// Setting a variable marks it as unused until an expression references it.
func (s *Store) Set(name string, value flexcalc.Value) error {
	if value == nil || value.Type() == flexcalc.Undefined {
		return fmt.Errorf("Variable Error: Cannot set %s to an undefined value", name)
	}
	v, ok := s.vars[name]
	if ok && v.typ != value.Type() {
		err := fmt.Errorf("Variable Error (already defined): Cannot set %s from type %s to %s: %w",
			name, v.typ, value.Type(), ErrTypeConflict)
		tracer().P("var", name).Errorf(err.Error())
		return err
	}
	if !ok {
		v = &Var{name: name, typ: value.Type()}
		s.vars[name] = v
		tracer().P("var", name).Debugf("new variable of type %s", v.typ)
	}
	if resized := v.assign(value); resized && ok {
		s.epoch++
		tracer().P("var", name).Debugf("variable resized to %d elements", v.Len())
	}
	s.unused[name] = struct{}{}
	return nil
}

// Get returns a copy of a variable's value.
func (s *Store) Get(name string) (flexcalc.Value, error) {
	v, ok := s.vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariable, name)
	}
	return v.Value(), nil
}

// Use returns the cell of a variable and marks the variable as used.
// It is called by the compiler when it emits a load operation.
func (s *Store) Use(name string) (*Var, error) {
	v, ok := s.vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariable, name)
	}
	delete(s.unused, name)
	return v, nil
}

// Delete removes a variable. Expressions compiled with a reference to it
// have to be re-compiled.
func (s *Store) Delete(name string) {
	if _, ok := s.vars[name]; ok {
		delete(s.vars, name)
		delete(s.unused, name)
		s.epoch++
	}
}

// Epoch returns a counter which advances whenever a compiled expression
// may have become invalid, i.e. when a vector or date-list changed its length
// or a variable has been deleted.
func (s *Store) Epoch() uint64 {
	return s.epoch
}

// Names returns the names of all variables in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unused returns the names of all variables which have been set, but not
// been used by any compiled expression since then, in sorted order.
func (s *Store) Unused() []string {
	names := make([]string, 0, len(s.unused))
	for name := range s.unused {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Each calls f for every variable, in sorted order of names.
func (s *Store) Each(f func(v *Var)) {
	for _, name := range s.Names() {
		f(s.vars[name])
	}
}

// Suggest returns names of variables similar to name, best matches first.
// It is used to decorate error messages for misspelled variables.
func (s *Store) Suggest(name string) []string {
	ranks := fuzzy.RankFindFold(name, s.Names())
	if len(ranks) == 0 { // try the other way round: a name which is a prefix of the input
		for _, candidate := range s.Names() {
			if fuzzy.MatchFold(candidate, name) {
				ranks = append(ranks, fuzzy.Rank{Source: candidate, Target: candidate,
					Distance: len(name) - len(candidate)})
			}
		}
	}
	sort.Sort(ranks)
	suggestions := make([]string, len(ranks))
	for i, r := range ranks {
		suggestions[i] = r.Target
	}
	return suggestions
}
