// Package tdx implements the lexer for the Hithink/TDX-like dialect: the
// most developed frontend, per spec sections 4.1 and 4.2. Block comments
// ({ ... }), single-quoted strings, ':' vs ':=' as distinct tokens, and
// both '=' and '==' mapping to equality are its distinguishing rules.
package tdx

import (
	"fmt"
	"strconv"
	"strings"

	"tacalc/internal/lexer/scanbase"
	"tacalc/internal/token"
)

var keywords = map[string]token.Kind{
	"and":    token.AND,
	"or":     token.OR,
	"not":    token.NOT,
	"true":   token.TRUE,
	"false":  token.FALSE,
	"select": token.SELECT,
}

// Lexer is a single forward-scan state machine over Hithink source text.
type Lexer struct {
	scanbase.Base
	errors []error

	// saved holds a snapshot of the scan position for PeekToken's
	// save/restore one-token lookahead.
	saved scanbase.Base
}

// New creates a Lexer over the given source text.
func New(input string) *Lexer {
	return &Lexer{Base: scanbase.New(input)}
}

// Errors returns every lexing error accumulated so far.
func (l *Lexer) Errors() []error { return l.errors }

func (l *Lexer) isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\r':
		return true
	case '\n':
		l.NewLine()
		return true
	default:
		return false
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.isWhitespace(l.Current) {
			l.ReadChar()
		}
		switch l.Current {
		case '{':
			for l.Current != '}' && l.Current != 0 {
				if l.Current == '\n' {
					l.NewLine()
				}
				l.ReadChar()
			}
			l.ReadChar() // consume closing '}'
			continue
		case '/':
			if l.Peek() == '/' {
				for l.Current != '\n' && l.Current != 0 {
					l.ReadChar()
				}
				continue
			}
		}
		return
	}
}

// PeekToken returns the next token without consuming it, by saving and
// restoring the scanner position around a call to NextToken. This is the
// stateful one-token lookahead spec section 4.1 requires of the parser.
func (l *Lexer) PeekToken() token.Token {
	l.saved = l.Base
	savedErrCount := len(l.errors)
	tok := l.NextToken()
	l.Base = l.saved
	l.errors = l.errors[:savedErrCount]
	return tok
}

// NextToken scans and returns the next token, advancing the cursor.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	line, col := l.Line, l.Column

	switch l.Current {
	case 0:
		return l.tok(token.EOF, "", line, col)
	case '(':
		l.ReadChar()
		return l.tok(token.LPAREN, "(", line, col)
	case ')':
		l.ReadChar()
		return l.tok(token.RPAREN, ")", line, col)
	case ',':
		l.ReadChar()
		return l.tok(token.COMMA, ",", line, col)
	case ';':
		l.ReadChar()
		return l.tok(token.SEMICOLON, ";", line, col)
	case '+':
		l.ReadChar()
		return l.tok(token.PLUS, "+", line, col)
	case '-':
		l.ReadChar()
		return l.tok(token.MINUS, "-", line, col)
	case '*':
		l.ReadChar()
		return l.tok(token.STAR, "*", line, col)
	case '/':
		l.ReadChar()
		return l.tok(token.SLASH, "/", line, col)
	case ':':
		if l.IsMatch('=') {
			l.ReadChar()
			return l.tok(token.COLON_EQ, ":=", line, col)
		}
		l.ReadChar()
		return l.tok(token.COLON, ":", line, col)
	case '=':
		// Hithink maps both '=' and '==' to equality (spec section 9's
		// EQUAL ambiguity note) — this lexer's own operator table, kept
		// independent of Pine/EL's, is what makes that safe.
		l.IsMatch('=')
		l.ReadChar()
		return l.tok(token.EQ_EQ, "=", line, col)
	case '<':
		if l.IsMatch('>') {
			l.ReadChar()
			return l.tok(token.BANG_EQ, "<>", line, col)
		}
		if l.IsMatch('=') {
			l.ReadChar()
			return l.tok(token.LESS_EQ, "<=", line, col)
		}
		l.ReadChar()
		return l.tok(token.LESS, "<", line, col)
	case '>':
		if l.IsMatch('=') {
			l.ReadChar()
			return l.tok(token.GREATER_EQ, ">=", line, col)
		}
		l.ReadChar()
		return l.tok(token.GREATER, ">", line, col)
	case '\'':
		return l.readString(line, col)
	}

	if scanbase.IsIdentStart(l.Current) {
		return l.readIdentifier(line, col)
	}
	if scanbase.IsDigit(l.Current) {
		return l.readNumber(line, col)
	}

	illegal := string(l.Current)
	l.errors = append(l.errors, fmt.Errorf("unexpected character %q, line %d", illegal, line))
	l.ReadChar()
	return l.tok(token.ERROR, illegal, line, col)
}

func (l *Lexer) tok(kind token.Kind, lexeme string, line, col int) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Line: line, Column: col}
}

func (l *Lexer) readString(line, col int) token.Token {
	l.ReadChar() // consume opening quote
	var sb strings.Builder
	for l.Current != '\'' && l.Current != 0 {
		sb.WriteRune(l.Current)
		l.ReadChar()
	}
	if l.Current == 0 {
		l.errors = append(l.errors, fmt.Errorf("unterminated string literal, line %d", line))
		return token.Token{Kind: token.ERROR, Lexeme: sb.String(), Line: line, Column: col}
	}
	l.ReadChar() // consume closing quote
	lit := sb.String()
	return token.Token{Kind: token.STRING, Lexeme: lit, Literal: lit, Line: line, Column: col}
}

func (l *Lexer) readIdentifier(line, col int) token.Token {
	var sb strings.Builder
	for scanbase.IsIdentContinue(l.Current) {
		sb.WriteRune(l.Current)
		l.ReadChar()
	}
	lexeme := sb.String()
	if kind, ok := keywords[strings.ToLower(lexeme)]; ok {
		return token.Token{Kind: kind, Lexeme: lexeme, Line: line, Column: col}
	}
	return token.Token{Kind: token.IDENTIFIER, Lexeme: lexeme, Line: line, Column: col}
}

func (l *Lexer) readNumber(line, col int) token.Token {
	var sb strings.Builder
	sawDot := false
	for scanbase.IsDigit(l.Current) || (l.Current == '.' && !sawDot && scanbase.IsDigit(l.Peek())) {
		if l.Current == '.' {
			sawDot = true
		}
		sb.WriteRune(l.Current)
		l.ReadChar()
	}
	lexeme := sb.String()
	n, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		l.errors = append(l.errors, fmt.Errorf("invalid number %q, line %d", lexeme, line))
		return token.Token{Kind: token.ERROR, Lexeme: lexeme, Line: line, Column: col}
	}
	return token.Token{Kind: token.NUMBER, Lexeme: lexeme, Literal: n, Line: line, Column: col}
}
