package pine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	ast "tacalc/internal/ast/pine"
	lexer "tacalc/internal/lexer/pine"
	parser "tacalc/internal/parser/pine"
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

func TestParseAssignWithQualifiedCall(t *testing.T) {
	stmts := parse(t, `fast = ta.sma(close, 5)`)
	require.Len(t, stmts, 1)
	a, ok := stmts[0].(ast.AssignStmt)
	require.True(t, ok)
	require.Equal(t, "fast", a.Name)
	call, ok := a.Expr.(ast.Call)
	require.True(t, ok)
	require.Equal(t, "ta.sma", call.Name)
	require.Len(t, call.Args, 2)
}

func TestParseQualifiedNameWithoutCall(t *testing.T) {
	stmts := parse(t, `c = color.red`)
	a := stmts[0].(ast.AssignStmt)
	q, ok := a.Expr.(ast.QualifiedName)
	require.True(t, ok)
	require.Equal(t, []string{"color", "red"}, q.Parts)
}

func TestParseIfElseBlocks(t *testing.T) {
	stmts := parse(t, `
if (close > open) {
	trend = 1
} else {
	trend = -1
}
`)
	require.Len(t, stmts, 1)
	ifs, ok := stmts[0].(ast.IfStmt)
	require.True(t, ok)
	require.IsType(t, ast.Binary{}, ifs.Cond)
	require.Len(t, ifs.Then, 1)
	require.Len(t, ifs.Else, 1)
}

func TestParseArithmeticPrecedence(t *testing.T) {
	stmts := parse(t, `result = close + ta.sma(close, 5) * 2`)
	a := stmts[0].(ast.AssignStmt)
	add, ok := a.Expr.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.PLUS, add.Op)
	mul, ok := add.Right.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.STAR, mul.Op)
}

func TestParseBareExpressionStatement(t *testing.T) {
	stmts := parse(t, `plot(close)`)
	require.Len(t, stmts, 1)
	es, ok := stmts[0].(ast.ExprStmt)
	require.True(t, ok)
	call, ok := es.Expr.(ast.Call)
	require.True(t, ok)
	require.Equal(t, "plot", call.Name)
}

func TestParseErrorRecoverySynchronizes(t *testing.T) {
	l := lexer.New("bad = ;\nok = 1;")
	p := parser.New(l)
	stmts := p.Parse()
	require.NotEmpty(t, p.Errors())
	require.Len(t, stmts, 1)
	a, ok := stmts[0].(ast.AssignStmt)
	require.True(t, ok)
	require.Equal(t, "ok", a.Name)
}
