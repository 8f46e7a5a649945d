// Package lexer turns Kya source text into a stream of Tokens.
package lexer

import (
	"fmt"

	"github.com/cwbudde/kya/internal/errors"
)

// TokenType classifies a Token.
type TokenType int

const (
	EOF TokenType = iota
	Newline

	Identifier
	StringLiteral
	NumberLiteral

	LeftParen
	RightParen
	Comma
	Dot
	Equal

	Plus
	Minus
	Star
	Slash

	EqualEqual
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual

	Def
	End
	Class
	While
	If
	Else
	Import
	Break
)

var tokenNames = map[TokenType]string{
	EOF:           "EOF",
	Newline:       "Newline",
	Identifier:    "Identifier",
	StringLiteral: "StringLiteral",
	NumberLiteral: "NumberLiteral",
	LeftParen:     "(",
	RightParen:    ")",
	Comma:         ",",
	Dot:           ".",
	Equal:         "=",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	EqualEqual:    "==",
	NotEqual:      "!=",
	Less:          "<",
	LessEqual:     "<=",
	Greater:       ">",
	GreaterEqual:  ">=",
	Def:           "def",
	End:           "end",
	Class:         "class",
	While:         "while",
	If:            "if",
	Else:          "else",
	Import:        "import",
	Break:         "break",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "Unknown"
}

// keywords maps reserved identifier spellings to their keyword TokenType.
// Identifiers are reclassified against this table once fully accumulated.
var keywords = map[string]TokenType{
	"def":    Def,
	"end":    End,
	"class":  Class,
	"while":  While,
	"if":     If,
	"else":   Else,
	"import": Import,
	"break":  Break,
}

// singleCharSymbols maps recognized single-character symbols to their
// TokenType, consulted by the lexer only after the string, operator, number
// and identifier checks have not matched.
var singleCharSymbols = map[byte]TokenType{
	'(': LeftParen,
	')': RightParen,
	',': Comma,
	'.': Dot,
	'+': Plus,
	'-': Minus,
	'*': Star,
	'/': Slash,
}

// Token is an immutable lexical unit produced by the Lexer.
type Token struct {
	Type    TokenType
	Literal string
	Pos     errors.Position
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%s %q @%d:%d}", t.Type, t.Literal, t.Pos.Line, t.Pos.Column)
}
