// Package el implements the recursive-descent, precedence-climbing parser
// for the EasyLanguage-like dialect, per spec sections 4.2 and 4.3.
package el

import (
	"fmt"
	"strconv"
	"strings"

	ast "tacalc/internal/ast/el"
	"tacalc/internal/token"
)

// scanner is the minimal lexer surface the parser depends on, satisfied by
// *el.Lexer (internal/lexer/el).
type scanner interface {
	NextToken() token.Token
	PeekToken() token.Token
}

// Parser is a recursive-descent parser with one-token lookahead.
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

// synchronize advances to just past the next ';' (or EOF).
func (p *Parser) synchronize() {
	for !p.check(token.EOF) {
		if p.check(token.SEMICOLON) {
			p.advance()
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

// plotIndex recognizes EasyLanguage's PlotN family of built-in plot
// statements (Plot1, Plot2, …) by identifier shape rather than a
// dedicated keyword — EasyLanguage has no fixed upper bound on N.
func plotIndex(name string) (int, bool) {
	lower := strings.ToLower(name)
	if !strings.HasPrefix(lower, "plot") {
		return 0, false
	}
	digits := lower[len("plot"):]
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (p *Parser) statement() (ast.Stmt, bool) {
	switch {
	case p.check(token.INPUTS):
		return p.inputsStatement()
	case p.check(token.VARIABLES):
		return p.variablesStatement()
	case p.check(token.IF):
		return p.ifStatement()
	}

	if p.check(token.IDENTIFIER) {
		if n, ok := plotIndex(p.current.Lexeme); ok && p.peekNext().Kind == token.LPAREN {
			return p.plotStatement(n)
		}
		if p.peekNext().Kind == token.ASSIGN {
			name := p.current.Lexeme
			line := p.current.Line
			p.advance() // identifier
			p.advance() // '='
			expr, ok := p.expression()
			if !ok {
				return nil, false
			}
			if _, ok := p.expect(token.SEMICOLON, "after assignment"); !ok {
				return nil, false
			}
			return ast.AssignStmt{Name: name, Expr: expr, Line: line}, true
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

func (p *Parser) plotStatement(n int) (ast.Stmt, bool) {
	line := p.current.Line
	p.advance() // 'PlotN'
	p.advance() // '('
	value, ok := p.expression()
	if !ok {
		return nil, false
	}
	var color ast.Expr
	if p.match(token.COMMA) {
		color, ok = p.expression()
		if !ok {
			return nil, false
		}
	}
	if _, ok := p.expect(token.RPAREN, "to close PlotN arguments"); !ok {
		return nil, false
	}
	if _, ok := p.expect(token.SEMICOLON, "after PlotN statement"); !ok {
		return nil, false
	}
	return ast.PlotStmt{N: n, Value: value, Color: color, Line: line}, true
}

func (p *Parser) inputsStatement() (ast.Stmt, bool) {
	line := p.current.Line
	p.advance() // 'Inputs'
	if _, ok := p.expect(token.COLON, "after Inputs"); !ok {
		return nil, false
	}
	var decls []ast.InputDecl
	for {
		name, ok := p.expect(token.IDENTIFIER, "as input name")
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.LPAREN, "after input name"); !ok {
			return nil, false
		}
		def, ok := p.expression()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.RPAREN, "to close input default"); !ok {
			return nil, false
		}
		decls = append(decls, ast.InputDecl{Name: name.Lexeme, Default: def, Line: name.Line})
		if p.match(token.COMMA) {
			continue
		}
		break
	}
	if _, ok := p.expect(token.SEMICOLON, "after Inputs declaration"); !ok {
		return nil, false
	}
	return ast.InputsStmt{Decls: decls, Line: line}, true
}

func (p *Parser) variablesStatement() (ast.Stmt, bool) {
	line := p.current.Line
	p.advance() // 'Variables'
	if _, ok := p.expect(token.COLON, "after Variables"); !ok {
		return nil, false
	}
	var decls []ast.VarDecl
	for {
		name, ok := p.expect(token.IDENTIFIER, "as variable name")
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.LPAREN, "after variable name"); !ok {
			return nil, false
		}
		init, ok := p.expression()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.RPAREN, "to close variable init"); !ok {
			return nil, false
		}
		decls = append(decls, ast.VarDecl{Name: name.Lexeme, Init: init, Line: name.Line})
		if p.match(token.COMMA) {
			continue
		}
		break
	}
	if _, ok := p.expect(token.SEMICOLON, "after Variables declaration"); !ok {
		return nil, false
	}
	return ast.VariablesStmt{Decls: decls, Line: line}, true
}

func (p *Parser) ifStatement() (ast.Stmt, bool) {
	line := p.current.Line
	p.advance() // 'If'
	cond, ok := p.expression()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.THEN, "after if condition"); !ok {
		return nil, false
	}
	thenStmts, ok := p.thenElseBody()
	if !ok {
		return nil, false
	}
	var elseStmts []ast.Stmt
	if p.match(token.ELSE) {
		elseStmts, ok = p.thenElseBody()
		if !ok {
			return nil, false
		}
	}
	return ast.IfStmt{Cond: cond, Then: thenStmts, Else: elseStmts, Line: line}, true
}

// thenElseBody parses either a `Begin ... End` block or a single statement,
// per spec section 4.2's `<stmt|Begin…End>` alternative.
func (p *Parser) thenElseBody() ([]ast.Stmt, bool) {
	if p.match(token.BEGIN) {
		var stmts []ast.Stmt
		for !p.check(token.END) && !p.check(token.EOF) {
			stmt, ok := p.statement()
			if !ok {
				p.synchronize()
				continue
			}
			stmts = append(stmts, stmt)
		}
		if _, ok := p.expect(token.END, "to close Begin block"); !ok {
			return nil, false
		}
		p.match(token.SEMICOLON)
		return stmts, true
	}
	stmt, ok := p.statement()
	if !ok {
		return nil, false
	}
	return []ast.Stmt{stmt}, true
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

// comparisonOps includes ASSIGN ("=") — per spec section 4.1, EasyLanguage
// reuses "=" for comparison in expression position (disambiguated from the
// assignment-statement use by the parser's grammar context, not the
// lexer).
var comparisonOps = map[token.Kind]bool{
	token.LESS: true, token.LESS_EQ: true, token.GREATER: true,
	token.GREATER_EQ: true, token.ASSIGN: true, token.BANG_EQ: true,
}

func (p *Parser) comparison() (ast.Expr, bool) {
	left, ok := p.term()
	if !ok {
		return nil, false
	}
	for comparisonOps[p.current.Kind] {
		op := p.current.Kind
		if op == token.ASSIGN {
			op = token.EQ_EQ
		}
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
