package tdx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	ast "tacalc/internal/ast/tdx"
	lexer "tacalc/internal/lexer/tdx"
	parser "tacalc/internal/parser/tdx"
	"tacalc/internal/token"
)

func parse(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	stmts := p.Parse()
	require.Empty(t, p.Errors())
	return stmts
}

func TestParseOutputBindingWithCall(t *testing.T) {
	stmts := parse(t, "MA5: ma(close, 5);")
	require.Len(t, stmts, 1)
	out, ok := stmts[0].(ast.OutputStmt)
	require.True(t, ok)
	require.Equal(t, "MA5", out.Name)
	call, ok := out.Expr.(ast.Call)
	require.True(t, ok)
	require.Equal(t, "ma", call.Name)
	require.Len(t, call.Args, 2)
}

func TestParseInternalBindingPrecedence(t *testing.T) {
	stmts := parse(t, "cond := close > 12 and open < 10;")
	require.Len(t, stmts, 1)
	in, ok := stmts[0].(ast.InternalStmt)
	require.True(t, ok)
	top, ok := in.Expr.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.AND, top.Op)
	require.IsType(t, ast.Binary{}, top.Left)
	require.IsType(t, ast.Binary{}, top.Right)
}

func TestParseArithmeticPrecedence(t *testing.T) {
	stmts := parse(t, "RESULT: close + ma(close, 5) * 2;")
	out := stmts[0].(ast.OutputStmt)
	add, ok := out.Expr.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.PLUS, add.Op)
	mul, ok := add.Right.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.STAR, mul.Op)
}

func TestParseSelectStatement(t *testing.T) {
	stmts := parse(t, "select close > ref(close, 1);")
	require.Len(t, stmts, 1)
	sel, ok := stmts[0].(ast.SelectStmt)
	require.True(t, ok)
	require.IsType(t, ast.Binary{}, sel.Expr)
}

func TestParseUnaryMinus(t *testing.T) {
	stmts := parse(t, "RESULT: -close;")
	out := stmts[0].(ast.OutputStmt)
	u, ok := out.Expr.(ast.Unary)
	require.True(t, ok)
	require.Equal(t, token.MINUS, u.Op)
}

func TestParseExprStatement(t *testing.T) {
	stmts := parse(t, "drawtext(close > open, close, 'UP');")
	require.Len(t, stmts, 1)
	es, ok := stmts[0].(ast.ExprStmt)
	require.True(t, ok)
	call, ok := es.Expr.(ast.Call)
	require.True(t, ok)
	require.Equal(t, "drawtext", call.Name)
	require.Len(t, call.Args, 3)
}

func TestParseErrorRecoverySynchronizes(t *testing.T) {
	l := lexer.New("RESULT: ;\nOK: 1;")
	p := parser.New(l)
	stmts := p.Parse()
	require.NotEmpty(t, p.Errors())
	require.Len(t, stmts, 1)
	out, ok := stmts[0].(ast.OutputStmt)
	require.True(t, ok)
	require.Equal(t, "OK", out.Name)
}
