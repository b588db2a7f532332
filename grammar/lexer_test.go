package grammar

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

type kt struct { // kind and text of a token
	k Kind
	s string
}

func kindsAndTexts(tokens []Token) []kt {
	r := make([]kt, len(tokens))
	for i, t := range tokens {
		r[i] = kt{t.Kind, t.Text}
	}
	return r
}

func TestLexerEmptyInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.grammar")
	defer teardown()
	//
	tokens := Tokenize("")
	if len(tokens) != 1 || tokens[0].Kind != EOF {
		t.Errorf("expected single EOF token for empty input, got %v", tokens)
	}
}

func TestLexerKeywordsAndFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.grammar")
	defer teardown()
	//
	input := "IFTHENELSEANDORNOTPAYSTOPEXPLOGABSSQRTSQUAREMINMAXSUMPRODARGMINARGMAXLEN"
	expected := []kt{
		{Keyword, "IF"}, {Keyword, "THEN"}, {Keyword, "ELSE"},
		{Operator, "AND"}, {Operator, "OR"}, {Operator, "NOT"},
		{Keyword, "PAY"}, {Keyword, "STOP"},
		{Function, "EXP"}, {Function, "LOG"}, {Function, "ABS"}, {Function, "SQRT"},
		{Function, "SQUARE"}, {Function, "MIN"}, {Function, "MAX"}, {Function, "SUM"},
		{Function, "PROD"}, {Function, "ARGMIN"}, {Function, "ARGMAX"}, {Function, "LEN"},
		{EOF, ""},
	}
	if diff := cmp.Diff(expected, kindsAndTexts(Tokenize(input)), cmp.AllowUnexported(kt{})); diff != "" {
		t.Errorf("keyword tokens differ (-want +got):\n%s", diff)
	}
}

func TestLexerOperators(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.grammar")
	defer teardown()
	//
	input := "**=**:=+=+-=-*=*/=/<<<=<>>>=>,()[]"
	expected := []kt{
		{Keyword, "**="}, {Operator, "**"}, {Keyword, ":="}, {Keyword, "+="}, {Operator, "+"},
		{Keyword, "-="}, {Operator, "-"}, {Keyword, "*="}, {Operator, "*"}, {Keyword, "/="},
		{Operator, "/"}, {Operator, "<<"}, {Operator, "<="}, {Operator, "<"}, {Operator, ">>"},
		{Operator, ">="}, {Operator, ">"}, {Operator, ","}, {LParen, "("}, {RParen, ")"},
		{LBracket, "["}, {RBracket, "]"}, {EOF, ""},
	}
	if diff := cmp.Diff(expected, kindsAndTexts(Tokenize(input)), cmp.AllowUnexported(kt{})); diff != "" {
		t.Errorf("operator tokens differ (-want +got):\n%s", diff)
	}
}

func TestLexerNumbersAndIdentifiers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.grammar")
	defer teardown()
	//
	for i, x := range []struct {
		input string
		want  []kt
	}{
		{"12", []kt{{Number, "12"}, {EOF, ""}}},
		{"1.5e-3", []kt{{Number, "1.5e-3"}, {EOF, ""}}},
		{".5", []kt{{Number, ".5"}, {EOF, ""}}},
		{"2.", []kt{{Number, "2."}, {EOF, ""}}},
		{"3E+10", []kt{{Number, "3E+10"}, {EOF, ""}}},
		{"2e", []kt{{Number, "2"}, {Identifier, "e"}, {EOF, ""}}},
		{"_x1", []kt{{Identifier, "_x1"}, {EOF, ""}}},
		{"rate_Of_2", []kt{{Identifier, "rate_Of_2"}, {EOF, ""}}},
		{"a+b", []kt{{Identifier, "a"}, {Operator, "+"}, {Identifier, "b"}, {EOF, ""}}},
	} {
		got := kindsAndTexts(Tokenize(x.input))
		if diff := cmp.Diff(x.want, got, cmp.AllowUnexported(kt{})); diff != "" {
			t.Errorf("test %d failed for %q (-want +got):\n%s", i, x.input, diff)
		}
	}
}

func TestLexerWhitespace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.grammar")
	defer teardown()
	//
	tokens := Tokenize("    a \tb")
	want := []Kind{Tab, Identifier, Whitespace, Tab, Identifier, EOF}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %v", len(want), tokens)
	}
	for i, k := range want {
		if tokens[i].Kind != k {
			t.Errorf("token %d: expected kind %s, got %s", i, k, tokens[i].Kind)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.grammar")
	defer teardown()
	//
	tokens := Tokenize("ab ** 12.5")
	for i, x := range []struct{ at, length int }{{0, 2}, {2, 1}, {3, 2}, {5, 1}, {6, 4}, {10, 0}} {
		if tokens[i].At != x.at || tokens[i].Len != x.length {
			t.Errorf("token %d: expected position %d+%d, got %d+%d", i, x.at, x.length,
				tokens[i].At, tokens[i].Len)
		}
	}
}

func TestLexerUndefined(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.grammar")
	defer teardown()
	//
	tokens := Tokenize("2 + Xyz * 3")
	last := tokens[len(tokens)-1]
	if last.Kind != Undefined {
		t.Fatalf("expected last token to be undefined, got %v", last)
	}
	if last.At != 4 || last.Text != "Xyz * 3" {
		t.Errorf("expected undefined token to span the rest of the line, got %q at %d", last.Text, last.At)
	}
}

func TestLexerContexts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.grammar")
	defer teardown()
	//
	for i, x := range []struct {
		sym       string
		prec      int
		leftAssoc bool
		prefix    bool
	}{
		{"**", 9, false, false},
		{"*", 7, true, false},
		{"/", 7, true, false},
		{"+", 6, true, true},
		{"-", 6, true, true},
		{"<=", 5, false, false},
		{"NOT", 4, false, false},
		{"AND", 3, false, false},
		{"OR", 2, false, false},
		{"(", 0, true, true},
		{"[", 0, true, true},
	} {
		tok := Tokenize(x.sym)[0]
		if tok.Ctx.Precedence != x.prec || tok.Ctx.LeftAssoc != x.leftAssoc || tok.Ctx.MaybePrefix != x.prefix {
			t.Errorf("test %d: unexpected context for %q: %+v", i, x.sym, tok.Ctx)
		}
	}
}

func TestLexerMaxLineLength(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "flexcalc.grammar")
	defer teardown()
	//
	lx, err := NewLexer(10)
	if err != nil {
		t.Fatal(err)
	}
	line := strings.Repeat("1 + ", 5) + "1"
	tokens := lx.Tokenize(line)
	last := tokens[len(tokens)-1]
	if last.Kind != Undefined || last.At < 10 {
		t.Errorf("expected tokenization to stop at the line length limit, got %v at %d", last, last.At)
	}
}
