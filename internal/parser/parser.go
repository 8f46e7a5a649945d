// Package parser implements a recursive-descent, one-token-lookahead parser
// producing an ast.Module from a lexer.Lexer's token stream.
package parser

import (
	"strconv"

	"github.com/cwbudde/kya/internal/ast"
	"github.com/cwbudde/kya/internal/errors"
	"github.com/cwbudde/kya/internal/lexer"
)

// Parser consumes a Lexer's tokens lazily, one token of lookahead ahead of
// the token currently being examined.
type Parser struct {
	lex  *lexer.Lexer
	cur  lexer.Token
	peek lexer.Token

	errs []*errors.KyaError
}

// New creates a Parser over src, priming both the current and lookahead
// tokens.
func New(src string) *Parser {
	p := &Parser{lex: lexer.New(src)}
	p.next()
	p.next()
	return p
}

// Errors returns every error accumulated while parsing.
func (p *Parser) Errors() []*errors.KyaError { return p.errs }

func (p *Parser) next() {
	p.cur = p.peek
	tok, err := p.lex.NextToken()
	if err != nil {
		p.errs = append(p.errs, err)
		tok = lexer.Token{Type: lexer.EOF, Pos: err.Pos}
	}
	p.peek = tok
}

func (p *Parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, errors.Newf(errors.Parser, p.cur.Pos, format, args...))
}

// expect consumes the current token if it matches kind, recording a
// ParserError and returning false otherwise.
func (p *Parser) expect(kind lexer.TokenType) bool {
	if p.cur.Type != kind {
		p.errorf("expected %s, got %s %q", kind, p.cur.Type, p.cur.Literal)
		return false
	}
	p.next()
	return true
}

func (p *Parser) skipNewlines() {
	for p.cur.Type == lexer.Newline {
		p.next()
	}
}

// Parse produces the Module for the entire token stream.
func Parse(src string) (*ast.Module, []*errors.KyaError) {
	p := New(src)
	block := p.parseBlockUntil(lexer.EOF)
	return &ast.Module{Block: block}, p.errs
}

// parseBlockUntil parses statements separated by one-or-more Newlines until
// the current token matches one of terminators (not consumed) or EOF.
func (p *Parser) parseBlockUntil(terminators ...lexer.TokenType) *ast.Block {
	pos := p.cur.Pos
	block := &ast.Block{Position: pos}

	atTerminator := func() bool {
		for _, t := range terminators {
			if p.cur.Type == t {
				return true
			}
		}
		return false
	}

	p.skipNewlines()
	for !atTerminator() && p.cur.Type != lexer.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		if !atTerminator() && p.cur.Type != lexer.EOF {
			if p.cur.Type != lexer.Newline {
				p.errorf("expected newline after statement, got %s", p.cur.Type)
				p.next()
			}
			p.skipNewlines()
		}
	}
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case lexer.While:
		return p.parseWhile()
	case lexer.Import:
		return p.parseImport()
	case lexer.Break:
		pos := p.cur.Pos
		p.next()
		return &ast.Break{Position: pos}
	default:
		expr := p.parseExpression()
		if expr == nil {
			p.next()
			return nil
		}
		return &ast.ExpressionStatement{Expr: expr}
	}
}

func (p *Parser) parseWhile() *ast.While {
	pos := p.cur.Pos
	p.next() // consume 'while'
	cond := p.parseExpression()
	p.skipNewlines()
	body := p.parseBlockUntil(lexer.End)
	p.expect(lexer.End)
	return &ast.While{Cond: cond, Body: body, Position: pos}
}

func (p *Parser) parseImport() *ast.Import {
	pos := p.cur.Pos
	p.next() // consume 'import'
	name := p.cur.Literal
	p.expect(lexer.Identifier)
	return &ast.Import{Name: name, Position: pos}
}

// parseExpression is the entry point for the precedence ladder:
// assignment > comparison > additive > multiplicative > unary > call > primary.
func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.Expression {
	left := p.parseComparison()
	if left == nil {
		return nil
	}
	if p.cur.Type != lexer.Equal {
		return left
	}

	pos := p.cur.Pos
	switch left.(type) {
	case *ast.Identifier, *ast.Attribute:
		// valid assignment target
	default:
		p.errs = append(p.errs, errors.Newf(errors.Compilation, pos,
			"invalid assignment target: %s", left.String()))
	}

	p.next() // consume '='
	value := p.parseAssignment()
	return &ast.Assignment{Target: left, Value: value, Position: pos}
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAdditive()
	if left == nil {
		return nil
	}

	op, ok := compareOps[p.cur.Type]
	if !ok {
		return left
	}
	pos := p.cur.Pos
	p.next()
	right := p.parseAdditive()
	return &ast.Compare{Left: left, Right: right, Op: op, Position: pos}
}

var compareOps = map[lexer.TokenType]ast.CompareOp{
	lexer.EqualEqual:   ast.CompareEqual,
	lexer.NotEqual:     ast.CompareNotEqual,
	lexer.Less:         ast.CompareLess,
	lexer.LessEqual:    ast.CompareLessEqual,
	lexer.Greater:      ast.CompareGreater,
	lexer.GreaterEqual: ast.CompareGreaterEqual,
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for left != nil && (p.cur.Type == lexer.Plus || p.cur.Type == lexer.Minus) {
		op := byte('+')
		if p.cur.Type == lexer.Minus {
			op = '-'
		}
		pos := p.cur.Pos
		p.next()
		right := p.parseMultiplicative()
		left = &ast.BinOp{Left: left, Right: right, Op: op, Position: pos}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parseUnary()
	for left != nil && (p.cur.Type == lexer.Star || p.cur.Type == lexer.Slash) {
		op := byte('*')
		if p.cur.Type == lexer.Slash {
			op = '/'
		}
		pos := p.cur.Pos
		p.next()
		right := p.parseUnary()
		left = &ast.BinOp{Left: left, Right: right, Op: op, Position: pos}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.cur.Type == lexer.Minus {
		pos := p.cur.Pos
		p.next()
		operand := p.parseUnary()
		return &ast.UnaryOp{Operand: operand, Op: '-', Position: pos}
	}
	return p.parseCall()
}

// parseCall handles postfix call and attribute chains: `a(b)(c).d(e)`.
func (p *Parser) parseCall() ast.Expression {
	expr := p.parsePrimary()
	for expr != nil {
		switch p.cur.Type {
		case lexer.LeftParen:
			expr = p.finishCall(expr)
		case lexer.Dot:
			pos := p.cur.Pos
			p.next()
			name := p.cur.Literal
			p.expect(lexer.Identifier)
			expr = &ast.Attribute{Receiver: expr, Name: name, Position: pos}
		default:
			return expr
		}
	}
	return expr
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	pos := p.cur.Pos
	p.next() // consume '('
	var args []ast.Expression
	for p.cur.Type != lexer.RightParen && p.cur.Type != lexer.EOF {
		args = append(args, p.parseExpression())
		if p.cur.Type == lexer.Comma {
			p.next()
		} else {
			break
		}
	}
	p.expect(lexer.RightParen)
	return &ast.MethodCall{Callee: callee, Args: args, Position: pos}
}

func (p *Parser) parsePrimary() ast.Expression {
	switch p.cur.Type {
	case lexer.Identifier:
		tok := p.cur
		p.next()
		return &ast.Identifier{Name: tok.Literal, Position: tok.Pos}

	case lexer.StringLiteral:
		tok := p.cur
		p.next()
		return &ast.StringLiteral{Value: tok.Literal, Position: tok.Pos}

	case lexer.NumberLiteral:
		tok := p.cur
		p.next()
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.errorf("malformed number literal %q", tok.Literal)
			f = 0
		}
		return &ast.NumberLiteral{Value: f, Position: tok.Pos}

	case lexer.LeftParen:
		p.next()
		expr := p.parseExpression()
		p.expect(lexer.RightParen)
		return expr

	case lexer.Def:
		return p.parseMethodDef()

	case lexer.Class:
		return p.parseClassDef()

	case lexer.While:
		// `while` is a statement, not an expression; surface as a clear error
		// rather than silently misparsing.
		p.errorf("unexpected 'while' in expression position")
		return nil

	case lexer.If:
		return p.parseIf()

	default:
		p.errorf("unexpected token %s %q", p.cur.Type, p.cur.Literal)
		p.next()
		return nil
	}
}

func (p *Parser) parseMethodDef() *ast.MethodDef {
	pos := p.cur.Pos
	p.next() // consume 'def'
	name := p.cur.Literal
	p.expect(lexer.Identifier)

	var params []string
	p.expect(lexer.LeftParen)
	for p.cur.Type != lexer.RightParen && p.cur.Type != lexer.EOF {
		params = append(params, p.cur.Literal)
		p.expect(lexer.Identifier)
		if p.cur.Type == lexer.Comma {
			p.next()
		} else {
			break
		}
	}
	p.expect(lexer.RightParen)
	p.skipNewlines()

	body := p.parseBlockUntil(lexer.End)
	p.expect(lexer.End)

	return &ast.MethodDef{Name: name, Params: params, Body: body, Position: pos}
}

func (p *Parser) parseClassDef() *ast.ClassDef {
	pos := p.cur.Pos
	p.next() // consume 'class'
	name := p.cur.Literal
	p.expect(lexer.Identifier)
	p.skipNewlines()

	body := p.parseBlockUntil(lexer.End)
	p.expect(lexer.End)

	return &ast.ClassDef{Name: name, Body: body, Position: pos}
}

func (p *Parser) parseIf() *ast.If {
	pos := p.cur.Pos
	p.next() // consume 'if'
	cond := p.parseExpression()
	p.skipNewlines()

	thenBlock := p.parseBlockUntil(lexer.End, lexer.Else)
	var elseBlock *ast.Block
	if p.cur.Type == lexer.Else {
		p.next()
		p.skipNewlines()
		elseBlock = p.parseBlockUntil(lexer.End)
	}
	p.expect(lexer.End)

	return &ast.If{Cond: cond, Then: thenBlock, Else: elseBlock, Position: pos}
}
