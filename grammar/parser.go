package grammar

import (
	"github.com/emirpasic/gods/stacks/linkedliststack"
	"github.com/npillmayer/flexcalc"
)

// The parser is a two-state machine: either it waits for an operand (a
// value, a variable, a function name or a prefix operator) or it has just
// read one and waits for an operator, a comma or a closing parenthesis.
//
// See https://stackoverflow.com/questions/16380234/handling-extra-operators-in-shunting-yard/16392115#16392115
type parserState int8

const (
	wantOperand parserState = iota
	haveOperand
	finished
	failed
)

type parser struct {
	infix     []Token
	pos       int                    // next token to read
	postfix   []Token                // output in evaluation order
	operators *linkedliststack.Stack // pending operators and openers, as *Token
	err       *flexcalc.Error
}

// ParseInfixToPostfix converts a sequence of tokens, as produced by the lexer,
// into postfix order. Blanks are dropped. Function calls, array literals and
// subscripts are made explicit by synthetic tokens of kind Call, Append and
// Index, which follow their arguments.
//
// On failure the error is a *flexcalc.Error, positioned on the offending token.
func ParseInfixToPostfix(infix []Token) ([]Token, error) {
	p := &parser{
		infix:     infix,
		postfix:   make([]Token, 0, len(infix)),
		operators: linkedliststack.New(),
	}
	state := wantOperand
	for state != finished && state != failed {
		if state == wantOperand {
			state = p.wantOperand()
		} else {
			state = p.haveOperand()
		}
	}
	if state == failed {
		tracer().Debugf("parse error after %q: %s", PostfixString(p.postfix), p.err.Msg)
		return nil, p.err
	}
	tracer().Debugf("postfix: %s", PostfixString(p.postfix))
	return p.postfix, nil
}

// Parse tokenizes a line with the default lexer and converts it to postfix.
func Parse(line string) ([]Token, error) {
	return ParseInfixToPostfix(Tokenize(line))
}

func (p *parser) next() Token {
	if p.pos >= len(p.infix) {
		at := 0
		if len(p.infix) > 0 {
			last := p.infix[len(p.infix)-1]
			at = last.At + last.Len
		}
		return Token{Kind: EOF, At: at, Ctx: DefaultContext()}
	}
	return p.infix[p.pos]
}

func (p *parser) fail(at, length int, format string, args ...interface{}) parserState {
	p.err = flexcalc.Errorf(at, length, format, args...)
	p.err.Consumed = PostfixString(p.postfix)
	tracer().Errorf(p.err.Msg)
	return failed
}

func (p *parser) failOn(tok Token, format string, args ...interface{}) parserState {
	return p.fail(tok.At, tok.Len, format, args...)
}

func (p *parser) push(tok Token) {
	p.operators.Push(&tok)
}

func (p *parser) top() *Token {
	t, ok := p.operators.Peek()
	if !ok {
		return nil
	}
	return t.(*Token)
}

func (p *parser) pop() *Token {
	t, ok := p.operators.Pop()
	if !ok {
		return nil
	}
	return t.(*Token)
}

func (p *parser) emit(tok Token) {
	p.postfix = append(p.postfix, tok)
}

func isOpener(tok *Token) bool {
	return tok.Kind == LParen || tok.Kind == LBracket
}

func isPrefixOp(tok Token) bool {
	return (tok.Kind == Operator && tok.Ctx.MaybePrefix) || tok.Kind == LParen || tok.Kind == LBracket
}

// --- Want operand ----------------------------------------------------------

func (p *parser) wantOperand() parserState {
	next := p.next()
	switch {
	case next.Kind == Undefined:
		return p.failOn(next, "Does not start with a valid language token")
	case next.Kind == EOF:
		return p.fail(next.At, 0,
			"Expected a variable, value, function name or a prefix operator, got end of line")
	case next.Kind.IsSpace():
		p.pos++
		return wantOperand
	case next.Kind.IsOperand():
		p.emit(next)
		p.pos++
		if next.Kind == Function {
			return p.checkParenthesisAfterFunction(next)
		}
		return haveOperand
	case isPrefixOp(next):
		next.Ctx.IsPrefix = true
		next.Ctx.IsInfix = false
		if next.Kind == Operator && (next.Text == "+" || next.Text == "-") {
			next.Ctx.Precedence += 2 // bind tighter than * and /
		}
		p.push(next)
		p.pos++
		return wantOperand
	case next.Kind == RParen || next.Kind == RBracket:
		if p.noArgsOrError(next) == failed {
			return failed
		}
		p.pop()
		p.push(MakeCall(0, next.At))
		p.pos++
		return haveOperand
	}
	return p.failOn(next,
		`Expected a variable, value, function name or a prefix operator, got "%s" (%s)`,
		next.Text, next.Kind)
}

// checkParenthesisAfterFunction makes sure a function name is followed by an
// argument list.
func (p *parser) checkParenthesisAfterFunction(function Token) parserState {
	for i := p.pos; i < len(p.infix); i++ {
		if p.infix[i].Kind.IsSpace() {
			continue
		}
		if p.infix[i].Kind == LParen {
			return haveOperand
		}
		break
	}
	return p.failOn(function, `Expected opening parenthesis "(" after function`)
}

// noArgsOrError checks a closing parenthesis directly following its opener,
// which is legal for function calls only.
func (p *parser) noArgsOrError(closer Token) parserState {
	top := p.top()
	switch {
	case top == nil:
		return p.failOn(closer, `Expected parenthesis or bracket, got "%s" (%s)`, closer.Text, closer.Kind)
	case top.Ctx.NumArgs > 0:
		return p.failOn(closer, "Unexpected comma encountered within parentheses or brackets")
	case top.Kind == LBracket:
		return p.failOn(closer, `Empty list not allowed: "[]"`)
	case top.Kind != LParen:
		return p.failOn(closer, `Expected empty argument list "()", got "%s" (%s)`, closer.Text, closer.Kind)
	case closer.Kind != RParen:
		return p.failOn(closer, `Unmatched parenthesis or bracket: "%s"`, closer.Text)
	case top.Ctx.IsPrefix:
		return p.failOn(closer, `Expected an expression within parentheses "()"`)
	}
	return haveOperand
}

// --- Have operand ----------------------------------------------------------

func (p *parser) haveOperand() parserState {
	next := p.next()
	switch {
	case next.Kind == Undefined:
		return p.failOn(next, "Does not start with a valid language token")
	case next.Kind.IsSpace():
		p.pos++
		return haveOperand
	case next.Kind == EOF:
		return p.terminate()
	case next.Kind == LParen && !p.afterFunction():
		return p.failOn(next, `Parenthesis "(" must follow a function name`)
	case next.Kind == LParen || next.Kind == LBracket:
		// function call or subscript
		next.Ctx.IsInfix = true
		next.Ctx.IsPrefix = false
		p.push(next)
		p.pos++
		return wantOperand
	case next.Is(Operator, ","):
		if p.incrementArgsCount(next) == failed {
			return failed
		}
		p.pos++
		return wantOperand
	case next.Kind == RParen || next.Kind == RBracket:
		if p.makeReduceOperator(next) == failed {
			return failed
		}
		p.pos++
		return haveOperand
	case next.Kind == Operator && next.Ctx.MaybeInfix:
		p.pushOperator(next)
		p.pos++
		return wantOperand
	}
	return p.failOn(next, `Expected an operator, got "%s" of type %s`, next.Text, next.Kind)
}

// afterFunction is a predicate: is the last operand a function name?
func (p *parser) afterFunction() bool {
	return len(p.postfix) > 0 && p.postfix[len(p.postfix)-1].Kind == Function
}

// terminate drains the operator stack at end of input.
func (p *parser) terminate() parserState {
	for top := p.pop(); top != nil; top = p.pop() {
		if isOpener(top) {
			return p.failOn(*top, `Unmatched parenthesis or bracket: "%s"`, top.Text)
		}
		p.emit(*top)
	}
	return finished
}

// incrementArgsCount moves operators to the output up to the enclosing
// opener and counts one more argument for it.
func (p *parser) incrementArgsCount(comma Token) parserState {
	const msg = `Unmatched parenthesis or bracket: ")" or "]" or badly placed comma ","`
	for {
		top := p.top()
		if top == nil {
			return p.failOn(comma, msg)
		}
		if top.Kind == LParen && top.Ctx.IsPrefix {
			return p.failOn(comma, `Unexpected comma "," within parentheses, lists are written as "[...]"`)
		}
		if isOpener(top) {
			top.Ctx.NumArgs++
			return wantOperand
		}
		p.emit(*p.pop())
	}
}

// makeReduceOperator moves operators to the output up to the matching opener
// and emits a synthetic token for function calls, array literals and
// subscripts.
func (p *parser) makeReduceOperator(closer Token) parserState {
	want := LParen
	if closer.Kind == RBracket {
		want = LBracket
	}
	var opener *Token
	for {
		top := p.top()
		if top == nil || (isOpener(top) && top.Kind != want) {
			return p.failOn(closer, `Unmatched parenthesis or bracket: "%s"`, closer.Text)
		}
		if top.Kind == want {
			opener = p.pop()
			break
		}
		p.emit(*p.pop())
	}
	n := opener.Ctx.NumArgs + 1
	switch {
	case opener.Kind == LParen && opener.Ctx.IsInfix:
		p.emit(MakeCall(n, closer.At))
	case opener.Kind == LBracket && opener.Ctx.IsPrefix:
		p.emit(MakeAppend(n, closer.At))
	case opener.Kind == LBracket && opener.Ctx.IsInfix:
		p.emit(MakeIndex(n, closer.At))
	}
	return haveOperand
}

// pushOperator pushes an infix operator, after moving every stacked operator
// binding tighter to the output.
func (p *parser) pushOperator(op Token) {
	for top := p.top(); top != nil; top = p.top() {
		higher := top.Ctx.Precedence > op.Ctx.Precedence
		barelyHigher := top.Ctx.Precedence == op.Ctx.Precedence && op.Ctx.LeftAssoc
		if !higher && !barelyHigher {
			break
		}
		p.emit(*p.pop())
	}
	op.Ctx.IsInfix = true
	p.push(op)
}
