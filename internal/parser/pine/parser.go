// Package pine implements the recursive-descent, precedence-climbing
// parser for the Pine-like dialect, per spec sections 4.2 and 4.3.
package pine

import (
	"fmt"

	ast "tacalc/internal/ast/pine"
	"tacalc/internal/token"
)

// scanner is the minimal lexer surface the parser depends on, satisfied by
// *pine.Lexer (internal/lexer/pine).
type scanner interface {
	NextToken() token.Token
	PeekToken() token.Token
}

// Parser is a recursive-descent parser with one-token lookahead, obtained
// from the lexer's save/restore PeekToken rather than a buffered array.
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

// synchronize advances to just past the next ';', or up to (not past) the
// next '}' so an enclosing block can still close, or to EOF.
func (p *Parser) synchronize() {
	for !p.check(token.EOF) {
		if p.check(token.SEMICOLON) {
			p.advance()
			return
		}
		if p.check(token.RBRACE) {
			return
		}
		p.advance()
	}
}

// Parse parses the whole program as a sequence of statements.
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
	if p.check(token.IF) {
		return p.ifStatement()
	}

	if p.check(token.IDENTIFIER) && p.peekNext().Kind == token.ASSIGN {
		name := p.current.Lexeme
		line := p.current.Line
		p.advance() // identifier
		p.advance() // '='
		expr, ok := p.expression()
		if !ok {
			return nil, false
		}
		p.match(token.SEMICOLON)
		return ast.AssignStmt{Name: name, Expr: expr, Line: line}, true
	}

	line := p.current.Line
	expr, ok := p.expression()
	if !ok {
		return nil, false
	}
	p.match(token.SEMICOLON)
	return ast.ExprStmt{Expr: expr, Line: line}, true
}

func (p *Parser) ifStatement() (ast.Stmt, bool) {
	line := p.current.Line
	p.advance() // 'if'
	if _, ok := p.expect(token.LPAREN, "after if"); !ok {
		return nil, false
	}
	cond, ok := p.expression()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.RPAREN, "to close if condition"); !ok {
		return nil, false
	}
	thenStmts, ok := p.block()
	if !ok {
		return nil, false
	}
	var elseStmts []ast.Stmt
	if p.match(token.ELSE) {
		elseStmts, ok = p.block()
		if !ok {
			return nil, false
		}
	}
	return ast.IfStmt{Cond: cond, Then: thenStmts, Else: elseStmts, Line: line}, true
}

func (p *Parser) block() ([]ast.Stmt, bool) {
	if _, ok := p.expect(token.LBRACE, "to open block"); !ok {
		return nil, false
	}
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		stmt, ok := p.statement()
		if !ok {
			p.synchronize()
			continue
		}
		stmts = append(stmts, stmt)
	}
	if _, ok := p.expect(token.RBRACE, "to close block"); !ok {
		return nil, false
	}
	return stmts, true
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

// callOrPrimary resolves a (possibly dot-qualified) name into a Call or an
// Ident/QualifiedName, per spec section 4.2's "member access becomes a
// qualified name at call sites" rule.
func (p *Parser) callOrPrimary() (ast.Expr, bool) {
	if p.check(token.IDENTIFIER) {
		line := p.current.Line
		parts := []string{p.current.Lexeme}
		p.advance()
		for p.check(token.DOT) {
			p.advance()
			part, ok := p.expect(token.IDENTIFIER, "after '.' in qualified name")
			if !ok {
				return nil, false
			}
			parts = append(parts, part.Lexeme)
		}

		name := joinDotted(parts)
		if p.check(token.LPAREN) {
			p.advance()
			args, ok := p.argumentList()
			if !ok {
				return nil, false
			}
			return ast.Call{Name: name, Args: args, Line: line}, true
		}
		if len(parts) > 1 {
			return ast.QualifiedName{Parts: parts, Line: line}, true
		}
		return ast.Ident{Name: name, Line: line}, true
	}
	return p.primary()
}

func joinDotted(parts []string) string {
	name := parts[0]
	for _, p := range parts[1:] {
		name += "." + p
	}
	return name
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
