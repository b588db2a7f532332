package cli

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/npillmayer/flexcalc"
	"github.com/npillmayer/flexcalc/evaluator"
	"github.com/npillmayer/flexcalc/grammar"
	"github.com/npillmayer/flexcalc/variables"
)

// session holds the state of a sequence of statements, entered in a REPL or
// read from standard input.
type session struct {
	store  *variables.Store
	lexer  *grammar.Lexer
	format Formatter
}

func newSession(s settings) (*session, error) {
	lx, err := grammar.NewLexer(s.maxLineLength)
	if err != nil {
		return nil, err
	}
	return &session{
		store:  variables.NewStore(),
		lexer:  lx,
		format: NewFormatter(s.precision, s.locale),
	}, nil
}

var letStatement = regexp.MustCompile(`^let\s+([_a-z][_a-zA-Z0-9]*)\s*=(.*)$`)

const statementHelp = `
flexcalc will interpret the following statements:

  <expression>              : evaluate an expression, e.g. 2 * SUM([1, 2], 3)
  let <name> = <expression> : set a variable to the value of an expression
  let <name> = <date>       : set a variable to a date, e.g. 2021-12-24
  unset <name>              : remove a variable
  vars                      : list variables
  postfix <expression>      : show the postfix form of an expression

`

// statementWords are offered for tab-completion.
func statementWords() []string {
	return append([]string{"let", "unset", "vars", "postfix"}, grammar.Functions()...)
}

// execute interprets one statement. Results go to stdout, errors to stderr.
// The error is returned, too, already reported.
func (s *session) execute(line string, stdout, stderr io.Writer) error {
	line = strings.TrimSpace(strings.Trim(line, "\x00"))
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}
	var err error
	switch {
	case words[0] == "vars":
		_, err = s.format.Format(s.store, stdout)
	case words[0] == "unset" && len(words) == 2:
		if !s.store.Contains(words[1]) {
			err = fmt.Errorf("%w: %s", variables.ErrUnknownVariable, words[1])
			break
		}
		s.store.Delete(words[1])
	case words[0] == "postfix":
		expr := strings.TrimSpace(strings.TrimPrefix(line, "postfix"))
		var calc *evaluator.Calculator
		if calc, err = s.calculator(expr); err != nil {
			return s.report(syntaxError, expr, err, stderr)
		}
		_, err = s.format.Format(calc.Postfix(), stdout)
	case letStatement.MatchString(line):
		m := letStatement.FindStringSubmatch(line)
		return s.let(m[1], strings.TrimSpace(m[2]), stdout, stderr)
	default:
		var v flexcalc.Value
		var stage string
		if v, stage, err = s.evaluate(line); err != nil {
			return s.report(stage, line, err, stderr)
		}
		_, err = s.format.Format(v, stdout)
	}
	if err != nil {
		s.format.Format(err, stderr)
	}
	return err
}

func (s *session) calculator(expr string) (*evaluator.Calculator, error) {
	return evaluator.New(expr, evaluator.WithLexer(s.lexer), evaluator.WithStore(s.store))
}

// Prefixes for error messages, naming the stage where an error occurred
const (
	syntaxError  = "Syntax / Parsing"
	compileError = "Compile"
)

func (s *session) evaluate(expr string) (flexcalc.Value, string, error) {
	calc, err := s.calculator(expr)
	if err != nil {
		return nil, syntaxError, err
	}
	v, err := calc.Calculate()
	if err != nil {
		return nil, compileError, err
	}
	return v, "", nil
}

// let sets a variable. Dates cannot be written as expressions, so a value
// which reads as a date or list of dates is taken literally.
func (s *session) let(name, expr string, stdout, stderr io.Writer) error {
	var v flexcalc.Value
	var stage string
	var err error
	if lit, perr := flexcalc.ParseValue(expr); perr == nil && lit.Type().ElementType() == flexcalc.DateType {
		v = lit
	} else if v, stage, err = s.evaluate(expr); err != nil {
		return s.report(stage, expr, err, stderr)
	}
	if err = s.store.Set(name, v); err != nil {
		s.format.Format(err, stderr)
		return err
	}
	_, err = s.format.Format(fmt.Sprintf("%s = %s", name, s.format.Value(v)), stdout)
	return err
}

// report writes an error, rendering positioned errors as a caret diagram
// under expr.
func (s *session) report(prefix, expr string, err error, stderr io.Writer) error {
	var perr *flexcalc.Error
	if !errors.As(err, &perr) {
		s.format.Format(err, stderr)
		return err
	}
	io.WriteString(stderr, flexcalc.RenderError(prefix, expr, err))
	io.WriteString(stderr, "\n")
	return err
}

// setAll sets variables from assignments of the form name=value, with values
// as read by flexcalc.ParseValue.
func (s *session) setAll(assignments []string) error {
	for _, a := range assignments {
		name, value, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("malformed variable assignment %q, expected name=value", a)
		}
		v, err := flexcalc.ParseValue(value)
		if err != nil {
			return fmt.Errorf("variable %s: %w", name, err)
		}
		if err = s.store.Set(name, v); err != nil {
			return err
		}
		tracer().Debugf("set %s = %v", name, v)
	}
	return nil
}
