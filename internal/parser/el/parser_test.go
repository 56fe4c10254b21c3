package el_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	ast "tacalc/internal/ast/el"
	lexer "tacalc/internal/lexer/el"
	parser "tacalc/internal/parser/el"
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

func TestParseInputsDeclaration(t *testing.T) {
	stmts := parse(t, `Inputs: Length(9), Smooth(3);`)
	require.Len(t, stmts, 1)
	in, ok := stmts[0].(ast.InputsStmt)
	require.True(t, ok)
	require.Len(t, in.Decls, 2)
	require.Equal(t, "Length", in.Decls[0].Name)
	require.Equal(t, "Smooth", in.Decls[1].Name)
}

func TestParseVariablesDeclaration(t *testing.T) {
	stmts := parse(t, `Variables: Fast(0), Slow(0);`)
	v, ok := stmts[0].(ast.VariablesStmt)
	require.True(t, ok)
	require.Len(t, v.Decls, 2)
}

func TestParseAssignment(t *testing.T) {
	stmts := parse(t, `Fast = Average(Close, 9);`)
	a, ok := stmts[0].(ast.AssignStmt)
	require.True(t, ok)
	require.Equal(t, "Fast", a.Name)
	call, ok := a.Expr.(ast.Call)
	require.True(t, ok)
	require.Equal(t, "Average", call.Name)
}

func TestParseIfThenBeginEnd(t *testing.T) {
	stmts := parse(t, `
If Close > Open Then Begin
	Trend = 1;
	Plot1(Close);
End;
`)
	require.Len(t, stmts, 1)
	ifs, ok := stmts[0].(ast.IfStmt)
	require.True(t, ok)
	require.Len(t, ifs.Then, 2)
	_, isPlot := ifs.Then[1].(ast.PlotStmt)
	require.True(t, isPlot)
}

func TestParseIfThenSingleStatementWithElse(t *testing.T) {
	stmts := parse(t, `If Close > Open Then Trend = 1; Else Trend = -1;`)
	ifs := stmts[0].(ast.IfStmt)
	require.Len(t, ifs.Then, 1)
	require.Len(t, ifs.Else, 1)
}

func TestParsePlotNWithColor(t *testing.T) {
	stmts := parse(t, `Plot2(Close, Red);`)
	p, ok := stmts[0].(ast.PlotStmt)
	require.True(t, ok)
	require.Equal(t, 2, p.N)
	require.NotNil(t, p.Color)
}

func TestParseNotEqualOperator(t *testing.T) {
	stmts := parse(t, `Trend = Close <> Open;`)
	a := stmts[0].(ast.AssignStmt)
	bin, ok := a.Expr.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.BANG_EQ, bin.Op)
}

func TestParseEqualsAsComparison(t *testing.T) {
	stmts := parse(t, `Trend = Close = Open;`)
	a := stmts[0].(ast.AssignStmt)
	bin, ok := a.Expr.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.EQ_EQ, bin.Op)
}

func TestParseErrorRecoverySynchronizes(t *testing.T) {
	l := lexer.New("Bad = ;\nOk = 1;")
	p := parser.New(l)
	stmts := p.Parse()
	require.NotEmpty(t, p.Errors())
	require.Len(t, stmts, 1)
	a, ok := stmts[0].(ast.AssignStmt)
	require.True(t, ok)
	require.Equal(t, "Ok", a.Name)
}
