package el_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tacalc/internal/lexer/el"
	"tacalc/internal/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := el.New(src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	require.Empty(t, l.Errors())
	return toks
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	toks := scanAll(t, "Inputs: Length(14);")
	require.Equal(t, token.INPUTS, toks[0].Kind)
	require.Equal(t, "Inputs", toks[0].Lexeme)
}

func TestNotEqualToken(t *testing.T) {
	toks := scanAll(t, "Close <> 0")
	kinds := kindsOf(toks)
	require.Equal(t, []token.Kind{
		token.IDENTIFIER, token.BANG_EQ, token.NUMBER, token.EOF,
	}, kinds)
}

func TestBlockCommentIsSkipped(t *testing.T) {
	toks := scanAll(t, "{ this is a comment }\nVariables: X(0);")
	kinds := kindsOf(toks)
	require.Equal(t, []token.Kind{
		token.VARIABLES, token.COLON, token.IDENTIFIER, token.LPAREN,
		token.NUMBER, token.RPAREN, token.SEMICOLON, token.EOF,
	}, kinds)
}

func TestSingleAndDoubleQuotedStrings(t *testing.T) {
	toks := scanAll(t, `'abc' "def"`)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, "abc", toks[0].Literal)
	require.Equal(t, token.STRING, toks[1].Kind)
	require.Equal(t, "def", toks[1].Literal)
}

func TestBeginEndKeywords(t *testing.T) {
	toks := scanAll(t, "If Close > Open Then Begin X = 1; End")
	kinds := kindsOf(toks)
	require.Equal(t, []token.Kind{
		token.IF, token.IDENTIFIER, token.GREATER, token.IDENTIFIER, token.THEN,
		token.BEGIN, token.IDENTIFIER, token.ASSIGN, token.NUMBER, token.SEMICOLON,
		token.END, token.EOF,
	}, kinds)
}

func TestPeekTokenDoesNotConsume(t *testing.T) {
	l := el.New("X = 1;")
	peeked := l.PeekToken()
	first := l.NextToken()
	require.Equal(t, peeked.Kind, first.Kind)
	require.Equal(t, peeked.Lexeme, first.Lexeme)
}

func kindsOf(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}
