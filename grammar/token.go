package grammar

import (
	"fmt"
	"strings"
)

// Kind is the lexical category of a token.
type Kind int8

// Token kinds. Call, Append and Index are synthesized by the parser and never
// produced by the lexer.
const (
	EOF Kind = iota
	Whitespace
	Tab
	Operator
	Function
	Number
	Keyword
	Identifier
	LParen
	RParen
	LBracket
	RBracket
	Undefined
	Call
	Append
	Index
)

var kindNames = [...]string{
	EOF:        "eof",
	Whitespace: "wsp",
	Tab:        "tab",
	Operator:   "op",
	Function:   "fun",
	Number:     "num",
	Keyword:    "keyW",
	Identifier: "id",
	LParen:     "lparen",
	RParen:     "rparen",
	LBracket:   "lbracket",
	RBracket:   "rbracket",
	Undefined:  "undefined",
	Call:       "call_",
	Append:     "append_",
	Index:      "index_",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "undefinedType"
	}
	return kindNames[k]
}

// IsSpace is a predicate: is k a blank or an indentation?
func (k Kind) IsSpace() bool {
	return k == Whitespace || k == Tab
}

// IsOperand is a predicate: does k start an operand?
func (k Kind) IsOperand() bool {
	return k == Number || k == Identifier || k == Function
}

// Context carries the parse-time annotations of a token. The lexer assigns
// precedence and possible fixity, the parser decides the actual fixity of
// an occurrence.
type Context struct {
	Precedence  int  // higher binds tighter
	LeftAssoc   bool // left associative?
	MaybePrefix bool // may be used as a prefix operator
	MaybeInfix  bool // may be used as an infix operator
	IsPrefix    bool // used as a prefix operator
	IsInfix     bool // used as an infix operator
	NumArgs     int  // for openers and synthetic tokens: number of arguments
}

// DefaultContext is the context of identifiers, numbers and other tokens
// without operator semantics.
func DefaultContext() Context {
	return Context{Precedence: 1, LeftAssoc: true}
}

// Token is a lexical unit of an expression, positioned on its source line.
type Token struct {
	Kind Kind
	Text string
	At   int // byte offset
	Len  int // byte length
	Ctx  Context
}

func (t Token) String() string {
	switch t.Kind {
	case Whitespace, Tab, EOF:
		return fmt.Sprintf("Tok(t=%s, v=%s)", t.Kind, t.Kind)
	}
	return fmt.Sprintf("Tok(t=%s, v=%s)", t.Kind, t.Text)
}

// Is checks for a token with a given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// Synthetic call/append/index tokens bind tighter than every operator.
const syntheticPrecedence = 10

func synthetic(kind Kind, text string, numArgs int, at int) Token {
	ctx := DefaultContext()
	ctx.Precedence = syntheticPrecedence
	ctx.NumArgs = numArgs
	return Token{Kind: kind, Text: text, At: at, Len: 1, Ctx: ctx}
}

// MakeCall creates a synthetic function call token for n arguments.
func MakeCall(n int, at int) Token {
	return synthetic(Call, "CALL_", n, at)
}

// MakeAppend creates a synthetic array-literal token for n elements.
func MakeAppend(n int, at int) Token {
	return synthetic(Append, "APPEND_", n, at)
}

// MakeIndex creates a synthetic indexing token for n subscripts.
func MakeIndex(n int, at int) Token {
	return synthetic(Index, "INDEX_", n, at)
}

// PostfixString renders a token sequence in readable form. Blanks are
// dropped, synthetic tokens show their argument count, e.g.
//
//	a b c * +
//	SUM 3 4 CALL_(2) 2 *
//
func PostfixString(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.Kind.IsSpace() || t.Kind == EOF {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		switch t.Kind {
		case Call, Append, Index:
			fmt.Fprintf(&b, "%s(%d)", t.Text, t.Ctx.NumArgs)
		default:
			b.WriteString(t.Text)
		}
	}
	return b.String()
}
