// Package tdx implements the recursive-descent, precedence-climbing parser
// for the Hithink/TDX dialect, per spec sections 4.2 and 4.3.
package tdx

import (
	"fmt"

	ast "tacalc/internal/ast/tdx"
	"tacalc/internal/token"
)

// scanner is the minimal lexer surface the parser depends on, satisfied by
// *tdx.Lexer (internal/lexer/tdx). Keeping it as an interface here lets the
// parser be tested against a canned token source if ever needed, without
// pulling in the lexer package.
type scanner interface {
	NextToken() token.Token
	PeekToken() token.Token
}

// Parser is a recursive-descent parser with one-token lookahead, obtained
// from the lexer's save/restore PeekToken rather than a buffered array —
// following the teacher's peek/previous/advance discipline
// (informatter-nilan/parser/parser.go) adapted to a streaming lexer.
type Parser struct {
	lex     scanner
	current token.Token
	errors  []error
}

// New creates a Parser reading tokens from lex.
func New(lex scanner) *Parser {
	p := &Parser{lex: lex}
	p.advance()
	return p
}

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) advance() {
	p.current = p.lex.NextToken()
}

func (p *Parser) peekNext() token.Token {
	return p.lex.PeekToken()
}

func (p *Parser) check(k token.Kind) bool { return p.current.Kind == k }

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind, context string) (token.Token, bool) {
	if p.check(k) {
		tok := p.current
		p.advance()
		return tok, true
	}
	p.errorf("expected %s %s, got %q", k, context, p.current.Lexeme)
	return token.Token{}, false
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Errorf("line %d: "+format, append([]any{p.current.Line}, args...)...))
}

// synchronize advances to just past the next ';' (or EOF), per spec
// section 4.2's single-diagnostic synchronization rule.
func (p *Parser) synchronize() {
	for !p.check(token.EOF) {
		if p.check(token.SEMICOLON) {
			p.advance()
			return
		}
		p.advance()
	}
}

// Parse parses the whole program as a sequence of statements. Per spec
// section 7, a program with any parse error still returns the statements
// parsed so far; the caller (the compiler entry point) is responsible for
// producing empty bytecode when Errors() is non-empty.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.EOF) {
		stmt, ok := p.statement()
		if !ok {
			p.synchronize()
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

func (p *Parser) statement() (ast.Stmt, bool) {
	if p.check(token.SELECT) {
		line := p.current.Line
		p.advance()
		expr, ok := p.expression()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.SEMICOLON, "after select statement"); !ok {
			return nil, false
		}
		return ast.SelectStmt{Expr: expr, Line: line}, true
	}

	if p.check(token.IDENTIFIER) {
		next := p.peekNext()
		if next.Kind == token.COLON {
			name := p.current.Lexeme
			line := p.current.Line
			p.advance() // identifier
			p.advance() // ':'
			expr, ok := p.expression()
			if !ok {
				return nil, false
			}
			if _, ok := p.expect(token.SEMICOLON, "after output binding"); !ok {
				return nil, false
			}
			return ast.OutputStmt{Name: name, Expr: expr, Line: line}, true
		}
		if next.Kind == token.COLON_EQ {
			name := p.current.Lexeme
			line := p.current.Line
			p.advance()
			p.advance()
			expr, ok := p.expression()
			if !ok {
				return nil, false
			}
			if _, ok := p.expect(token.SEMICOLON, "after internal binding"); !ok {
				return nil, false
			}
			return ast.InternalStmt{Name: name, Expr: expr, Line: line}, true
		}
	}

	line := p.current.Line
	expr, ok := p.expression()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.SEMICOLON, "after expression statement"); !ok {
		return nil, false
	}
	return ast.ExprStmt{Expr: expr, Line: line}, true
}

func (p *Parser) expression() (ast.Expr, bool) { return p.orExpr() }

func (p *Parser) orExpr() (ast.Expr, bool) {
	left, ok := p.andExpr()
	if !ok {
		return nil, false
	}
	for p.check(token.OR) {
		line := p.current.Line
		p.advance()
		right, ok := p.andExpr()
		if !ok {
			return nil, false
		}
		left = ast.Binary{Op: token.OR, Left: left, Right: right, Line: line}
	}
	return left, true
}

func (p *Parser) andExpr() (ast.Expr, bool) {
	left, ok := p.comparison()
	if !ok {
		return nil, false
	}
	for p.check(token.AND) {
		line := p.current.Line
		p.advance()
		right, ok := p.comparison()
		if !ok {
			return nil, false
		}
		left = ast.Binary{Op: token.AND, Left: left, Right: right, Line: line}
	}
	return left, true
}

var comparisonOps = map[token.Kind]bool{
	token.LESS: true, token.LESS_EQ: true, token.GREATER: true,
	token.GREATER_EQ: true, token.EQ_EQ: true, token.BANG_EQ: true,
}

func (p *Parser) comparison() (ast.Expr, bool) {
	left, ok := p.term()
	if !ok {
		return nil, false
	}
	for comparisonOps[p.current.Kind] {
		op := p.current.Kind
		line := p.current.Line
		p.advance()
		right, ok := p.term()
		if !ok {
			return nil, false
		}
		left = ast.Binary{Op: op, Left: left, Right: right, Line: line}
	}
	return left, true
}

func (p *Parser) term() (ast.Expr, bool) {
	left, ok := p.factor()
	if !ok {
		return nil, false
	}
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := p.current.Kind
		line := p.current.Line
		p.advance()
		right, ok := p.factor()
		if !ok {
			return nil, false
		}
		left = ast.Binary{Op: op, Left: left, Right: right, Line: line}
	}
	return left, true
}

func (p *Parser) factor() (ast.Expr, bool) {
	left, ok := p.unary()
	if !ok {
		return nil, false
	}
	for p.check(token.STAR) || p.check(token.SLASH) {
		op := p.current.Kind
		line := p.current.Line
		p.advance()
		right, ok := p.unary()
		if !ok {
			return nil, false
		}
		left = ast.Binary{Op: op, Left: left, Right: right, Line: line}
	}
	return left, true
}

func (p *Parser) unary() (ast.Expr, bool) {
	if p.check(token.MINUS) {
		line := p.current.Line
		p.advance()
		right, ok := p.unary()
		if !ok {
			return nil, false
		}
		return ast.Unary{Op: token.MINUS, Right: right, Line: line}, true
	}
	if p.check(token.NOT) {
		line := p.current.Line
		p.advance()
		right, ok := p.unary()
		if !ok {
			return nil, false
		}
		return ast.Unary{Op: token.NOT, Right: right, Line: line}, true
	}
	return p.callOrPrimary()
}

func (p *Parser) callOrPrimary() (ast.Expr, bool) {
	if p.check(token.IDENTIFIER) {
		name := p.current.Lexeme
		line := p.current.Line
		if p.peekNext().Kind == token.LPAREN {
			p.advance() // identifier
			p.advance() // '('
			args, ok := p.argumentList()
			if !ok {
				return nil, false
			}
			return ast.Call{Name: name, Args: args, Line: line}, true
		}
		p.advance()
		return ast.Ident{Name: name, Line: line}, true
	}
	return p.primary()
}

func (p *Parser) argumentList() ([]ast.Expr, bool) {
	var args []ast.Expr
	if p.check(token.RPAREN) {
		p.advance()
		return args, true
	}
	for {
		arg, ok := p.expression()
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		if p.match(token.COMMA) {
			continue
		}
		break
	}
	if _, ok := p.expect(token.RPAREN, "to close call arguments"); !ok {
		return nil, false
	}
	return args, true
}

func (p *Parser) primary() (ast.Expr, bool) {
	tok := p.current
	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		return ast.NumberLit{Value: tok.Literal.(float64), Line: tok.Line}, true
	case token.STRING:
		p.advance()
		return ast.StringLit{Value: tok.Literal.(string), Line: tok.Line}, true
	case token.TRUE:
		p.advance()
		return ast.BoolLit{Value: true, Line: tok.Line}, true
	case token.FALSE:
		p.advance()
		return ast.BoolLit{Value: false, Line: tok.Line}, true
	case token.LPAREN:
		p.advance()
		expr, ok := p.expression()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.RPAREN, "to close grouping"); !ok {
			return nil, false
		}
		return expr, true
	}
	p.errorf("unexpected token %q", tok.Lexeme)
	return nil, false
}
