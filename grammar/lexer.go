package grammar

import (
	"sort"
	"strings"
	"sync"

	"github.com/npillmayer/flexcalc"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// --- Symbols ---------------------------------------------------------------

// Keywords of the statement language. They are recognized by the lexer but
// never accepted inside an expression.
var keywords = []string{
	"IF", "THEN", "ELSE", "PAY", "STOP",
	":=", "+=", "-=", "*=", "/=", "**=",
}

// Real functions: elementwise ones first, then the reducing ones.
var functions = []string{
	"EXP", "LOG", "ABS", "SQRT", "SQUARE",
	"MIN", "MAX", "SUM", "PROD", "ARGMIN", "ARGMAX", "LEN",
}

// symbol is the static lexical information for a literal symbol.
type symbol struct {
	kind Kind
	ctx  Context
}

var symbolTable map[string]symbol
var symbolsOnce sync.Once

func initSymbols() {
	symbolsOnce.Do(func() {
		symbolTable = make(map[string]symbol)
		for _, k := range keywords {
			symbolTable[k] = symbol{kind: Keyword, ctx: DefaultContext()}
		}
		for _, f := range functions {
			symbolTable[f] = symbol{kind: Function, ctx: DefaultContext()}
		}
		infix := func(prec int, leftAssoc bool) Context {
			c := DefaultContext()
			c.Precedence = prec
			c.LeftAssoc = leftAssoc
			c.MaybeInfix = true
			c.IsInfix = true
			return c
		}
		symbolTable["**"] = symbol{kind: Operator, ctx: infix(9, false)}
		symbolTable["*"] = symbol{kind: Operator, ctx: infix(7, true)}
		symbolTable["/"] = symbol{kind: Operator, ctx: infix(7, true)}
		for _, op := range []string{"+", "-"} {
			c := DefaultContext()
			c.Precedence = 6 // prefix use adds 2, jumping over * and /
			c.MaybeInfix = true
			c.MaybePrefix = true
			symbolTable[op] = symbol{kind: Operator, ctx: c}
		}
		for _, op := range []string{"<", ">", "<=", ">=", "<<", ">>"} {
			symbolTable[op] = symbol{kind: Operator, ctx: infix(5, false)}
		}
		symbolTable["NOT"] = symbol{kind: Operator, ctx: infix(4, false)}
		symbolTable["AND"] = symbol{kind: Operator, ctx: infix(3, false)}
		symbolTable["OR"] = symbol{kind: Operator, ctx: infix(2, false)}
		symbolTable[","] = symbol{kind: Operator, ctx: infix(1, true)}
		paren := DefaultContext()
		paren.Precedence = 0
		paren.MaybeInfix = true
		paren.MaybePrefix = true
		symbolTable["("] = symbol{kind: LParen, ctx: paren}
		bracket := DefaultContext()
		bracket.Precedence = 0
		bracket.MaybePrefix = true
		symbolTable["["] = symbol{kind: LBracket, ctx: bracket}
		symbolTable[")"] = symbol{kind: RParen, ctx: DefaultContext()}
		symbolTable["]"] = symbol{kind: RBracket, ctx: DefaultContext()}
		symbolTable[" "] = symbol{kind: Whitespace, ctx: DefaultContext()}
		symbolTable["\t"] = symbol{kind: Tab, ctx: DefaultContext()}
	})
}

// IsFunction is a predicate: is name a built-in function?
func IsFunction(name string) bool {
	initSymbols()
	s, ok := symbolTable[name]
	return ok && s.kind == Function
}

// Functions returns the names of all built-in functions.
func Functions() []string {
	return append([]string(nil), functions...)
}

// --- Lexer -----------------------------------------------------------------

// Lexer splits a line of text into tokens. A Lexer is safe for concurrent use.
type Lexer struct {
	lm     *lexmachine.Lexer
	maxlen int
}

// NewLexer creates a lexer. Lines longer than maxLineLength are not tokenized
// beyond the limit; the rest of the line becomes a single undefined token.
// A limit <= 0 selects flexcalc.DefaultMaxLineLength.
func NewLexer(maxLineLength int) (*Lexer, error) {
	initSymbols()
	if maxLineLength <= 0 {
		maxLineLength = flexcalc.DefaultMaxLineLength
	}
	lm := lexmachine.NewLexer()
	lm.Add([]byte(`[_a-z][_a-zA-Z0-9]*`), makeToken(Identifier))
	lm.Add([]byte(`([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][\+\-]?[0-9]+)?`), makeToken(Number))
	lm.Add([]byte("[ \t][ \t][ \t][ \t]"), makeToken(Tab)) // indentation
	lits := make([]string, 0, len(symbolTable))
	for lit := range symbolTable {
		lits = append(lits, lit)
	}
	sort.Strings(lits)
	for _, lit := range lits {
		lm.Add([]byte(quoteLiteral(lit)), makeToken(symbolTable[lit].kind))
	}
	if err := lm.CompileDFA(); err != nil {
		tracer().Errorf("cannot compile lexer: %v", err)
		return nil, err
	}
	return &Lexer{lm: lm, maxlen: maxLineLength}, nil
}

var defaultLexer *Lexer
var lexerOnce sync.Once

// Tokenize splits a line into tokens, using a lexer with default settings.
// See (*Lexer).Tokenize.
func Tokenize(line string) []Token {
	lexerOnce.Do(func() {
		var err error
		tracer().Infof("creating default lexer")
		if defaultLexer, err = NewLexer(flexcalc.DefaultMaxLineLength); err != nil {
			panic("cannot create lexer")
		}
	})
	return defaultLexer.Tokenize(line)
}

// Tokenize splits a line into tokens. It never fails: input which does not
// start a valid token is returned as one token of kind Undefined, spanning
// the remainder of the line, and it is up to the parser to report it. Unless
// the line is cut short by an undefined token, the last token is of kind EOF.
// Empty input results in a single EOF token.
func (lx *Lexer) Tokenize(line string) []Token {
	tokens := make([]Token, 0, len(line)/2+1)
	scanner, err := lx.lm.Scanner([]byte(line))
	if err != nil {
		tracer().Errorf("cannot create scanner: %v", err)
		return append(tokens, undefinedFrom(line, 0))
	}
	for tok, err, eos := scanner.Next(); !eos; tok, err, eos = scanner.Next() {
		if ui, is := err.(*machines.UnconsumedInput); is {
			tracer().Debugf("unconsumed input at %d", ui.StartTC)
			return append(tokens, undefinedFrom(line, ui.StartTC))
		} else if err != nil {
			tracer().Errorf("scanner error: %v", err)
			return append(tokens, undefinedFrom(line, scanner.TC))
		}
		lmtok := tok.(*lexmachine.Token)
		if lmtok.TC >= lx.maxlen {
			tracer().Infof("line exceeds %d characters, tokenization stopped", lx.maxlen)
			return append(tokens, undefinedFrom(line, lmtok.TC))
		}
		tokens = append(tokens, convertToken(lmtok))
	}
	tokens = append(tokens, Token{Kind: EOF, At: len(line), Ctx: DefaultContext()})
	return tokens
}

func convertToken(lmtok *lexmachine.Token) Token {
	text := string(lmtok.Lexeme)
	t := Token{
		Kind: Kind(lmtok.Type),
		Text: text,
		At:   lmtok.TC,
		Len:  len(lmtok.Lexeme),
		Ctx:  DefaultContext(),
	}
	if s, ok := symbolTable[text]; ok {
		t.Ctx = s.ctx
	}
	return t
}

func undefinedFrom(line string, at int) Token {
	if at > len(line) {
		at = len(line)
	}
	return Token{
		Kind: Undefined,
		Text: line[at:],
		At:   at,
		Len:  len(line) - at,
		Ctx:  DefaultContext(),
	}
}

func makeToken(kind Kind) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(kind), string(m.Bytes), m), nil
	}
}

// quoteLiteral escapes regex operators in a literal symbol.
func quoteLiteral(lit string) string {
	var b strings.Builder
	for _, r := range lit {
		if strings.ContainsRune(`\+*?()[]|.^$/`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
