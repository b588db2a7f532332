package flexcalc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CType represents the type of a value. It drives every dispatch decision
// during compilation.
type CType int8

// Value types
const (
	Undefined CType = iota
	ScalarType
	VectorType
	DateType
	DateListType
)

func (ct CType) String() string {
	switch ct {
	case Undefined:
		return "undefined"
	case ScalarType:
		return "Scalar"
	case VectorType:
		return "Vector"
	case DateType:
		return "Date"
	case DateListType:
		return "DateList"
	}
	return fmt.Sprintf("<illegal type: %d>", ct)
}

// IsArray is a predicate: is ct a vector or a date-list?
func (ct CType) IsArray() bool {
	return ct == VectorType || ct == DateListType
}

// ElementType returns the type of an array's elements, or ct itself.
func (ct CType) ElementType() CType {
	switch ct {
	case VectorType:
		return ScalarType
	case DateListType:
		return DateType
	}
	return ct
}

// ArrayOf returns the array type for an element type, or Undefined.
func (ct CType) ArrayOf() CType {
	switch ct {
	case ScalarType:
		return VectorType
	case DateType:
		return DateListType
	}
	return Undefined
}

// TypeFromString gets a type from a string.
func TypeFromString(str string) CType {
	switch strings.ToLower(str) {
	case "scalar":
		return ScalarType
	case "vector":
		return VectorType
	case "date":
		return DateType
	case "datelist":
		return DateListType
	}
	return Undefined
}

// --- Values ----------------------------------------------------------------

// Value is an interface for all values an expression can handle.
type Value interface {
	Type() CType // type of the value
}

// Scalar is a floating point value.
type Scalar float64

// Vector is a list of scalars.
type Vector []float64

// Date is a date, counted in days since 1970-01-01.
type Date int64

// DateList is a list of dates.
type DateList []int64

// Type returns ScalarType.
func (s Scalar) Type() CType { return ScalarType }

// Type returns VectorType.
func (v Vector) Type() CType { return VectorType }

// Type returns DateType.
func (d Date) Type() CType { return DateType }

// Type returns DateListType.
func (dl DateList) Type() CType { return DateListType }

func (s Scalar) String() string {
	return strconv.FormatFloat(float64(s), 'g', -1, 64)
}

func (v Vector) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, x := range v {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	}
	b.WriteByte(']')
	return b.String()
}

const dateLayout = "2006-01-02"

// DateOf converts a point in time to a Date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	u := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return Date(u.Unix() / 86400)
}

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

func (dl DateList) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, x := range dl {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Date(x).String())
	}
	b.WriteByte(']')
	return b.String()
}

// ParseValue reads a value from its textual representation. Numbers become
// scalars, ISO dates (2021-12-24) become dates, and comma separated lists in
// brackets become vectors or date-lists.
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return nil, fmt.Errorf("malformed list: %q", s)
		}
		items := strings.Split(s[1:len(s)-1], ",")
		if len(items) == 1 && strings.TrimSpace(items[0]) == "" {
			return nil, fmt.Errorf("empty list not allowed: %q", s)
		}
		var vec Vector
		var dates DateList
		for _, item := range items {
			v, err := ParseValue(item)
			if err != nil {
				return nil, err
			}
			switch x := v.(type) {
			case Scalar:
				vec = append(vec, float64(x))
			case Date:
				dates = append(dates, int64(x))
			default:
				return nil, fmt.Errorf("nested lists not allowed: %q", s)
			}
		}
		if len(vec) > 0 && len(dates) > 0 {
			return nil, fmt.Errorf("list mixes numbers and dates: %q", s)
		}
		if len(dates) > 0 {
			return dates, nil
		}
		return vec, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number or date: %q", s)
	}
	return Scalar(f), nil
}
