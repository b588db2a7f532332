package flexcalc

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a syntax or compile error, positioned on the source line of an
// expression.
type Error struct {
	Msg string // human readable message
	At  int    // byte offset into the source line
	Len int    // length of the offending span

	// Consumed renders the input consumed before the error occurred, in
	// postfix order. It is set by the parser only.
	Consumed string
}

func (e *Error) Error() string {
	return e.Msg
}

// Errorf creates a positioned error.
func Errorf(at, length int, format string, args ...interface{}) *Error {
	return &Error{
		Msg: fmt.Sprintf(format, args...),
		At:  at,
		Len: length,
	}
}

// ErrorAt returns the source position of err, if err is (or wraps) an *Error.
func ErrorAt(err error) (at int, length int, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.At, e.Len, true
	}
	return 0, 0, false
}

// RenderError formats an error as a caret diagram under the offending span:
//
//	Syntax / Parsing Error in line:
//	"2 + "
//	     ^
//	Expected a variable, value, function name or a prefix operator, got end of line.
//
func RenderError(prefix string, line string, err error) string {
	if err == nil {
		return ""
	}
	at, length, _ := ErrorAt(err)
	if at < 0 {
		at = 0
	}
	if length < 1 {
		length = 1
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s Error in line:\n", prefix)
	fmt.Fprintf(&b, "\"%s\"\n", line)
	b.WriteString(" ")
	b.WriteString(strings.Repeat(" ", at))
	b.WriteString(strings.Repeat("^", length))
	b.WriteString("\n")
	b.WriteString(err.Error())
	b.WriteString(".")
	tracer().Debugf("rendered error at %d+%d: %s", at, length, err.Error())
	return b.String()
}
