package cli

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/npillmayer/flexcalc"
	"github.com/npillmayer/flexcalc/flexcalc/ui/termui"
	"github.com/npillmayer/flexcalc/variables"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter formats calculation results for output on a terminal.
// Numbers are rounded to a fixed number of decimal places and grouped
// according to a locale.
type Formatter struct {
	termui.DefaultFormatter
	precision int
	printer   *message.Printer
}

// NewFormatter creates a formatter rounding to precision decimal places.
// Unknown locales fall back to English.
func NewFormatter(precision int, locale string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tracer().Errorf("unknown locale %q, using en", locale)
		tag = language.English
	}
	if precision < 0 {
		precision = 0
	}
	return Formatter{
		precision: precision,
		printer:   message.NewPrinter(tag),
	}
}

// Number formats a scalar.
func (f Formatter) Number(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	d := decimal.NewFromFloat(x).Round(int32(f.precision))
	r, _ := d.Float64()
	return f.printer.Sprint(number.Decimal(r, number.MaxFractionDigits(f.precision)))
}

// Value formats a value of any type.
func (f Formatter) Value(v flexcalc.Value) string {
	switch t := v.(type) {
	case flexcalc.Scalar:
		return f.Number(float64(t))
	case flexcalc.Vector:
		items := make([]string, len(t))
		for i, x := range t {
			items[i] = f.Number(x)
		}
		return "[" + strings.Join(items, "; ") + "]"
	case flexcalc.Date:
		return t.String()
	case flexcalc.DateList:
		return t.String()
	}
	return "<undefined>"
}

// Format implements termui.Formatter.
func (f Formatter) Format(item interface{}, w io.Writer) (bool, error) {
	switch t := item.(type) {
	case flexcalc.Value:
		return f.DefaultFormatter.Format(f.Value(t), w)
	case *variables.Store:
		return f.DefaultFormatter.Format(f.variablesTable(t), w)
	}
	return f.DefaultFormatter.Format(item, w)
}

func (f Formatter) variablesTable(store *variables.Store) table.Writer {
	unused := make(map[string]bool)
	for _, name := range store.Unused() {
		unused[name] = true
	}
	tw := table.NewWriter()
	tw.SetTitle("Variables")
	tw.AppendHeader(table.Row{"name", "type", "value", "used"})
	store.Each(func(v *variables.Var) {
		used := "yes"
		if unused[v.Name()] {
			used = "–"
		}
		tw.AppendRow(table.Row{v.Name(), v.Type(), f.Value(v.Value()), used})
	})
	tw.SetStyle(table.StyleLight)
	return tw
}
