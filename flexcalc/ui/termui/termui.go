// Package termui provides objects and methods for interactive UI in terminal windows.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
// Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
//
package termui

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	prtxt "github.com/jedib0t/go-pretty/v6/text"
	"github.com/npillmayer/schuko/tracing"
)

// trace traces with key 'flexcalc.termui'.
func trace() tracing.Trace {
	return tracing.Select("flexcalc.termui")
}

// Formatter writes items to a terminal. It returns false if it does not know
// how to format an item.
type Formatter interface {
	Format(interface{}, io.Writer) (bool, error)
}

// DefaultFormatter formats strings, tables and errors.
type DefaultFormatter struct{}

// Format writes item to w.
func (df DefaultFormatter) Format(item interface{}, w io.Writer) (bool, error) {
	switch t := item.(type) {
	case string:
		_, err := fmt.Fprintf(w, "▶ %s\n", t)
		return err == nil, err
	case table.Writer:
		if t == nil {
			_, err := io.WriteString(w, "▶ (empty table)\n")
			return err == nil, err
		}
		_, err := fmt.Fprintf(w, "%s\n", t.Render())
		return err == nil, err
	case error:
		_, err := fmt.Fprintf(w, "%s\n", prtxt.FgRed.Sprint(t.Error()))
		return err == nil, err
	default:
		_, err := fmt.Fprintf(w, "▶ object of type %T\n", t)
		return err == nil, err
	}
}
