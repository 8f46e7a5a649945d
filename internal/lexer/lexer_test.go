package lexer

import (
	"testing"

	"github.com/cwbudde/kya/internal/errors"
)

func collect(t *testing.T, src string) []Token {
	t.Helper()
	l := New(src)
	var toks []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected lexer error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func TestIdentifiersAndKeywords(t *testing.T) {
	toks := collect(t, "foo def end while")
	want := []TokenType{Identifier, Def, End, While, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
	if toks[0].Literal != "foo" {
		t.Errorf("expected identifier literal 'foo', got %q", toks[0].Literal)
	}
}

func TestOperators(t *testing.T) {
	toks := collect(t, "==!=<<=>>==")
	want := []TokenType{EqualEqual, NotEqual, Less, LessEqual, Greater, GreaterEqual, Equal, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestStringLiteral(t *testing.T) {
	toks := collect(t, `"hello" 'world'`)
	if toks[0].Type != StringLiteral || toks[0].Literal != "hello" {
		t.Errorf("got %+v, want StringLiteral(hello)", toks[0])
	}
	if toks[1].Type != StringLiteral || toks[1].Literal != "world" {
		t.Errorf("got %+v, want StringLiteral(world)", toks[1])
	}
}

func TestLiteralRoundTrip(t *testing.T) {
	// A lone identifier or number lexes to a single token whose literal is
	// the input text itself.
	for _, src := range []string{"foo_bar", "x9", "42", "3.25", "-7", "+1.5"} {
		toks := collect(t, src)
		if len(toks) != 2 {
			t.Errorf("%q: expected one token plus EOF, got %v", src, toks)
			continue
		}
		if toks[0].Literal != src {
			t.Errorf("%q: literal round-trip produced %q", src, toks[0].Literal)
		}
	}
}

func TestUnterminatedStringReportsOpeningColumn(t *testing.T) {
	l := New(`x = "abc`)
	var lastErr *errors.KyaError
	for {
		tok, err := l.NextToken()
		if err != nil {
			lastErr = err
			break
		}
		if tok.Type == EOF {
			break
		}
	}
	if lastErr == nil {
		t.Fatal("expected a LexerError for the unterminated string")
	}
	if lastErr.Kind != errors.Lexer {
		t.Errorf("expected Lexer error kind, got %v", lastErr.Kind)
	}
	if lastErr.Pos.Column != 5 {
		t.Errorf("expected error at the opening quote's column (5), got %d", lastErr.Pos.Column)
	}
}

func TestNumberLiteralSecondDotIsError(t *testing.T) {
	l := New("1.2.3")
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected a LexerError for a second decimal point")
	}
	if err.Kind != errors.Lexer {
		t.Errorf("expected Lexer error kind, got %v", err.Kind)
	}
}

func TestNewlineTokensAndPositions(t *testing.T) {
	toks := collect(t, "x\ny")
	if toks[0].Pos.Line != 1 || toks[0].Pos.Column != 1 {
		t.Errorf("expected x at 1:1, got %+v", toks[0].Pos)
	}
	if toks[1].Type != Newline {
		t.Errorf("expected Newline token, got %s", toks[1].Type)
	}
	if toks[2].Pos.Line != 2 || toks[2].Pos.Column != 1 {
		t.Errorf("expected y at 2:1, got %+v", toks[2].Pos)
	}
}

func TestCRLFCollapsesToSingleNewline(t *testing.T) {
	toks := collect(t, "x\r\ny")
	want := []TokenType{Identifier, Newline, Identifier, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
}

func TestUnexpectedCharacterIsLexerError(t *testing.T) {
	l := New("@")
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected a LexerError for an unrecognized character")
	}
	if err.Kind != errors.Lexer {
		t.Errorf("expected Lexer error kind, got %v", err.Kind)
	}
}

func TestTotalFunctionNeverDiverges(t *testing.T) {
	// Every Token produced carries a 1-based line and column (property test
	// surrogate: a handful of representative inputs).
	for _, src := range []string{"", "x = 1\nwhile x\n  x\nend", "def f(a)\n a\nend"} {
		toks := collect(t, src)
		for _, tok := range toks {
			if tok.Pos.Line < 1 || (tok.Type != EOF && tok.Pos.Column < 1) {
				t.Errorf("token %+v violates line>=1/column>=1 invariant", tok)
			}
		}
	}
}
