package vm

import (
	"errors"
	"fmt"

	"github.com/npillmayer/flexcalc"
)

// ErrStacksNotReady flags stacks which are not empty when they should be.
var ErrStacksNotReady error = errors.New("calculation stacks not empty")

// Capacity holds the number of values each of the stacks of a CalcStacks
// has to hold simultaneously.
type Capacity struct {
	Scalars       int
	Vectors       int // number of vectors
	VectorElems   int // number of scalars in all vectors
	Dates         int
	DateLists     int // number of date-lists
	DateListElems int // number of dates in all date-lists
}

func (c Capacity) String() string {
	return fmt.Sprintf("{S:%d V:%d/%d D:%d DL:%d/%d}", c.Scalars, c.Vectors, c.VectorElems,
		c.Dates, c.DateLists, c.DateListElems)
}

// Max returns the element-wise maximum of c and other.
func (c Capacity) Max(other Capacity) Capacity {
	return Capacity{
		Scalars:       max(c.Scalars, other.Scalars),
		Vectors:       max(c.Vectors, other.Vectors),
		VectorElems:   max(c.VectorElems, other.VectorElems),
		Dates:         max(c.Dates, other.Dates),
		DateLists:     max(c.DateLists, other.DateLists),
		DateListElems: max(c.DateListElems, other.DateListElems),
	}
}

// CalcStacks is the memory of the stack machine. It holds four typed stacks:
// scalars, vectors, dates and date-lists. Vectors and date-lists are stored
// flattened, with an extra stack of lengths.
//
// CalcStacks is owned by a single evaluation at a time; it is not safe for
// concurrent use.
type CalcStacks struct {
	scalars   []float64
	vectors   []float64
	vecLens   []int
	dates     []int64
	dateLists []int64
	dlLens    []int
}

// NewCalcStacks creates empty stacks, pre-sized to capacity c.
func NewCalcStacks(c Capacity) *CalcStacks {
	cs := &CalcStacks{}
	cs.Reserve(c)
	return cs
}

// Reserve grows the stacks to hold at least capacity c without re-allocation.
// Stack contents are preserved.
func (cs *CalcStacks) Reserve(c Capacity) {
	cs.scalars = grow(cs.scalars, c.Scalars)
	cs.vectors = grow(cs.vectors, c.VectorElems)
	cs.vecLens = grow(cs.vecLens, c.Vectors)
	cs.dates = grow(cs.dates, c.Dates)
	cs.dateLists = grow(cs.dateLists, c.DateListElems)
	cs.dlLens = grow(cs.dlLens, c.DateLists)
}

func grow[T any](s []T, n int) []T {
	if cap(s) >= n {
		return s
	}
	t := make([]T, len(s), n)
	copy(t, s)
	return t
}

// Capacity reports the current capacity of the stacks.
func (cs *CalcStacks) Capacity() Capacity {
	return Capacity{
		Scalars:       cap(cs.scalars),
		Vectors:       cap(cs.vecLens),
		VectorElems:   cap(cs.vectors),
		Dates:         cap(cs.dates),
		DateLists:     cap(cs.dlLens),
		DateListElems: cap(cs.dateLists),
	}
}

// Ready is a predicate: are all stacks empty?
func (cs *CalcStacks) Ready() bool {
	return len(cs.scalars) == 0 && len(cs.vecLens) == 0 &&
		len(cs.dates) == 0 && len(cs.dlLens) == 0
}

// CheckReady returns an error wrapping ErrStacksNotReady if any of the
// stacks holds a value.
func (cs *CalcStacks) CheckReady() error {
	if cs.Ready() {
		return nil
	}
	return fmt.Errorf("%w: %d scalars, %d vectors, %d dates, %d date-lists left",
		ErrStacksNotReady, len(cs.scalars), len(cs.vecLens), len(cs.dates), len(cs.dlLens))
}

// Clear empties all stacks, keeping their storage.
func (cs *CalcStacks) Clear() {
	cs.scalars = cs.scalars[:0]
	cs.vectors = cs.vectors[:0]
	cs.vecLens = cs.vecLens[:0]
	cs.dates = cs.dates[:0]
	cs.dateLists = cs.dateLists[:0]
	cs.dlLens = cs.dlLens[:0]
}

// Size returns the number of values of type t on the stacks.
func (cs *CalcStacks) Size(t flexcalc.CType) int {
	switch t {
	case flexcalc.ScalarType:
		return len(cs.scalars)
	case flexcalc.VectorType:
		return len(cs.vecLens)
	case flexcalc.DateType:
		return len(cs.dates)
	case flexcalc.DateListType:
		return len(cs.dlLens)
	}
	return 0
}

func (cs *CalcStacks) String() string {
	return fmt.Sprintf("stacks{S:%v V:%v%v D:%v DL:%v%v}", cs.scalars, cs.vectors, cs.vecLens,
		cs.dates, cs.dateLists, cs.dlLens)
}

// --- Scalars ---------------------------------------------------------------

// PushScalar pushes a scalar.
func (cs *CalcStacks) PushScalar(x float64) {
	cs.scalars = append(cs.scalars, x)
}

// PopScalar pops the topmost scalar.
func (cs *CalcStacks) PopScalar() float64 {
	n := len(cs.scalars) - 1
	x := cs.scalars[n]
	cs.scalars = cs.scalars[:n]
	return x
}

// --- Vectors ---------------------------------------------------------------

// PushVector pushes a copy of v.
func (cs *CalcStacks) PushVector(v []float64) {
	cs.vectors = append(cs.vectors, v...)
	cs.vecLens = append(cs.vecLens, len(v))
}

// PopVector pops the topmost vector. The result shares storage with the
// stacks and is valid only until the next push.
func (cs *CalcStacks) PopVector() []float64 {
	v := cs.topVector()
	cs.vectors = cs.vectors[:len(cs.vectors)-len(v)]
	cs.vecLens = cs.vecLens[:len(cs.vecLens)-1]
	return v
}

func (cs *CalcStacks) topVector() []float64 {
	n := cs.vecLens[len(cs.vecLens)-1]
	return cs.vectors[len(cs.vectors)-n:]
}

// --- Dates -----------------------------------------------------------------

// PushDate pushes a date.
func (cs *CalcStacks) PushDate(d int64) {
	cs.dates = append(cs.dates, d)
}

// PopDate pops the topmost date.
func (cs *CalcStacks) PopDate() int64 {
	n := len(cs.dates) - 1
	d := cs.dates[n]
	cs.dates = cs.dates[:n]
	return d
}

// PushDateList pushes a copy of dl.
func (cs *CalcStacks) PushDateList(dl []int64) {
	cs.dateLists = append(cs.dateLists, dl...)
	cs.dlLens = append(cs.dlLens, len(dl))
}

// PopDateList pops the topmost date-list. The result shares storage with the
// stacks and is valid only until the next push.
func (cs *CalcStacks) PopDateList() []int64 {
	n := cs.dlLens[len(cs.dlLens)-1]
	dl := cs.dateLists[len(cs.dateLists)-n:]
	cs.dateLists = cs.dateLists[:len(cs.dateLists)-n]
	cs.dlLens = cs.dlLens[:len(cs.dlLens)-1]
	return dl
}
