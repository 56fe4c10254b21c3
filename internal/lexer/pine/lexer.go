// Package pine implements the lexer for the Pine-like dialect: "==", "!=",
// ">=", "<=" comparisons, a single "=" for assignment, dot-qualified names
// (ta.sma, color.red) and double-quoted strings, per spec section 4.1.
package pine

import (
	"fmt"
	"strconv"
	"strings"

	"tacalc/internal/lexer/scanbase"
	"tacalc/internal/token"
)

var keywords = map[string]token.Kind{
	"if":    token.IF,
	"else":  token.ELSE,
	"and":   token.AND,
	"or":    token.OR,
	"not":   token.NOT,
	"true":  token.TRUE,
	"false": token.FALSE,
}

// Lexer is a single forward-scan state machine over Pine source text.
type Lexer struct {
	scanbase.Base
	errors []error
	saved  scanbase.Base
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

// skipWhitespaceAndComments skips whitespace and "//" line comments only —
// unlike the Hithink/TDX dialect, Pine uses "{"/"}" as real block-delimiter
// tokens (see the 'if (cond) { ... }' grammar), not as comment brackets.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.isWhitespace(l.Current) {
			l.ReadChar()
		}
		if l.Current == '/' && l.Peek() == '/' {
			for l.Current != '\n' && l.Current != 0 {
				l.ReadChar()
			}
			continue
		}
		return
	}
}

// PeekToken returns the next token without consuming it.
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
	case '{':
		l.ReadChar()
		return l.tok(token.LBRACE, "{", line, col)
	case '}':
		l.ReadChar()
		return l.tok(token.RBRACE, "}", line, col)
	case ',':
		l.ReadChar()
		return l.tok(token.COMMA, ",", line, col)
	case ';':
		l.ReadChar()
		return l.tok(token.SEMICOLON, ";", line, col)
	case '.':
		l.ReadChar()
		return l.tok(token.DOT, ".", line, col)
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
	case '=':
		if l.IsMatch('=') {
			l.ReadChar()
			return l.tok(token.EQ_EQ, "==", line, col)
		}
		l.ReadChar()
		return l.tok(token.ASSIGN, "=", line, col)
	case '!':
		if l.IsMatch('=') {
			l.ReadChar()
			return l.tok(token.BANG_EQ, "!=", line, col)
		}
		l.ReadChar()
		return l.tok(token.BANG, "!", line, col)
	case '<':
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
	case '"':
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
	l.ReadChar()
	var sb strings.Builder
	for l.Current != '"' && l.Current != 0 {
		sb.WriteRune(l.Current)
		l.ReadChar()
	}
	if l.Current == 0 {
		l.errors = append(l.errors, fmt.Errorf("unterminated string literal, line %d", line))
		return token.Token{Kind: token.ERROR, Lexeme: sb.String(), Line: line, Column: col}
	}
	l.ReadChar()
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
	if kind, ok := keywords[lexeme]; ok {
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
