package tdx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tacalc/internal/lexer/tdx"
	"tacalc/internal/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := tdx.New(src)
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

func TestBindingTokens(t *testing.T) {
	toks := scanAll(t, "RESULT: ma(close, 3);")
	kinds := kindsOf(toks)
	require.Equal(t, []token.Kind{
		token.IDENTIFIER, token.COLON, token.IDENTIFIER, token.LPAREN,
		token.IDENTIFIER, token.COMMA, token.NUMBER, token.RPAREN,
		token.SEMICOLON, token.EOF,
	}, kinds)
}

func TestInternalBindingAndEquality(t *testing.T) {
	toks := scanAll(t, "cond := close > 12;")
	kinds := kindsOf(toks)
	require.Equal(t, []token.Kind{
		token.IDENTIFIER, token.COLON_EQ, token.IDENTIFIER, token.GREATER,
		token.NUMBER, token.SEMICOLON, token.EOF,
	}, kinds)
}

func TestEqualsMapsToEquality(t *testing.T) {
	toks := scanAll(t, "a = b;")
	require.Equal(t, token.EQ_EQ, toks[1].Kind)
	toks2 := scanAll(t, "a == b;")
	require.Equal(t, token.EQ_EQ, toks2[1].Kind)
}

func TestBlockAndLineComments(t *testing.T) {
	toks := scanAll(t, "{ this is ignored }\nRESULT: 1; // trailing")
	kinds := kindsOf(toks)
	require.Equal(t, []token.Kind{
		token.IDENTIFIER, token.COLON, token.NUMBER, token.SEMICOLON, token.EOF,
	}, kinds)
}

func TestStringLiteral(t *testing.T) {
	toks := scanAll(t, "drawtext(v, low, 'UP');")
	require.Equal(t, token.STRING, toks[6].Kind)
	require.Equal(t, "UP", toks[6].Literal)
}

func TestCJKIdentifier(t *testing.T) {
	toks := scanAll(t, "均线: ma(close, 5);")
	require.Equal(t, token.IDENTIFIER, toks[0].Kind)
	require.Equal(t, "均线", toks[0].Lexeme)
}

func TestPeekTokenDoesNotConsume(t *testing.T) {
	l := tdx.New("a := 1;")
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
