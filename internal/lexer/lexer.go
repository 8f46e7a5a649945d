package lexer

import (
	"strings"

	"github.com/cwbudde/kya/internal/errors"
)

// Lexer scans a UTF-8 source string into Tokens with a single-character
// lookahead. It tracks 1-based line and column positions, resetting column
// on every newline.
type Lexer struct {
	src     string
	pos     int // byte offset of ch
	readPos int // byte offset of the next rune
	ch      byte
	line    int
	column  int
}

// New creates a Lexer over src, primed to read the first character.
func New(src string) *Lexer {
	l := &Lexer{src: src, line: 1, column: 0}
	l.advance()
	return l
}

func (l *Lexer) advance() {
	if l.readPos >= len(l.src) {
		l.ch = 0
	} else {
		l.ch = l.src[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.src) {
		return 0
	}
	return l.src[l.readPos]
}

func (l *Lexer) position() errors.Position {
	return errors.Position{Line: l.line, Column: l.column}
}

func (l *Lexer) newlineAdvance() {
	l.line++
	l.column = 0
	l.advance()
}

// NextToken returns the next Token, or a LexerError if the input is
// malformed. It never diverges: every call either advances at least one
// byte or returns the terminal EOF token.
func (l *Lexer) NextToken() (Token, *errors.KyaError) {
	l.skipWhitespace()

	pos := l.position()

	switch {
	case l.ch == 0:
		return Token{Type: EOF, Pos: pos}, nil

	case l.ch == '\n':
		l.newlineAdvance()
		return Token{Type: Newline, Literal: "\n", Pos: pos}, nil

	case l.ch == '\r':
		// A lone CR (not followed by LF) is itself a statement separator.
		l.newlineAdvance()
		return Token{Type: Newline, Literal: "\r", Pos: pos}, nil

	case l.ch == '\'' || l.ch == '"':
		return l.readString(pos)

	case l.ch == '=' || l.ch == '!' || l.ch == '<' || l.ch == '>':
		return l.readOperator(pos), nil

	case isDigit(l.ch) || (isSign(l.ch) && isDigit(l.peekChar())):
		return l.readNumber(pos)

	case isIdentStart(l.ch):
		return l.readIdentifier(pos), nil
	}

	if sym, ok := singleCharSymbols[l.ch]; ok {
		lit := string(l.ch)
		l.advance()
		return Token{Type: sym, Literal: lit, Pos: pos}, nil
	}

	bad := l.ch
	l.advance()
	return Token{}, errors.Newf(errors.Lexer, pos, "unexpected character %q", bad)
}

// skipWhitespace consumes spaces, tabs, and a CR that is immediately
// followed by an LF (collapsing CRLF into the single Newline the LF emits).
func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t':
			l.advance()
		case '\r':
			if l.peekChar() == '\n' {
				l.advance()
				continue
			}
			return
		default:
			return
		}
	}
}

func (l *Lexer) readString(pos errors.Position) (Token, *errors.KyaError) {
	quote := l.ch
	l.advance()

	var sb strings.Builder
	for l.ch != quote {
		if l.ch == 0 {
			return Token{}, errors.Newf(errors.Lexer, pos, "unterminated string literal")
		}
		sb.WriteByte(l.ch)
		l.advance()
	}
	l.advance() // consume closing quote

	return Token{Type: StringLiteral, Literal: sb.String(), Pos: pos}, nil
}

func (l *Lexer) readNumber(pos errors.Position) (Token, *errors.KyaError) {
	var sb strings.Builder

	if isSign(l.ch) {
		sb.WriteByte(l.ch)
		l.advance()
	}

	seenDot := false
	for isDigit(l.ch) || l.ch == '.' {
		if l.ch == '.' {
			if seenDot {
				return Token{}, errors.Newf(errors.Lexer, pos, "malformed number literal: multiple decimal points")
			}
			seenDot = true
		}
		sb.WriteByte(l.ch)
		l.advance()
	}

	return Token{Type: NumberLiteral, Literal: sb.String(), Pos: pos}, nil
}

func (l *Lexer) readIdentifier(pos errors.Position) Token {
	var sb strings.Builder
	for isIdentPart(l.ch) {
		sb.WriteByte(l.ch)
		l.advance()
	}

	lit := sb.String()
	if kw, ok := keywords[lit]; ok {
		return Token{Type: kw, Literal: lit, Pos: pos}
	}
	return Token{Type: Identifier, Literal: lit, Pos: pos}
}

func (l *Lexer) readOperator(pos errors.Position) Token {
	first := l.ch
	l.advance()

	if l.ch == '=' {
		l.advance()
		switch first {
		case '=':
			return Token{Type: EqualEqual, Literal: "==", Pos: pos}
		case '!':
			return Token{Type: NotEqual, Literal: "!=", Pos: pos}
		case '<':
			return Token{Type: LessEqual, Literal: "<=", Pos: pos}
		case '>':
			return Token{Type: GreaterEqual, Literal: ">=", Pos: pos}
		}
	}

	switch first {
	case '=':
		return Token{Type: Equal, Literal: "=", Pos: pos}
	case '<':
		return Token{Type: Less, Literal: "<", Pos: pos}
	case '>':
		return Token{Type: Greater, Literal: ">", Pos: pos}
	}
	// '!' with no following '=' has no meaning at this surface; treat as
	// NotEqual's lexeme anyway so the parser reports an unambiguous error.
	return Token{Type: NotEqual, Literal: "!", Pos: pos}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }
func isSign(ch byte) bool  { return ch == '+' || ch == '-' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
