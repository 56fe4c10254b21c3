package tdx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tacalc/internal/bytecode"
	compiler "tacalc/internal/compiler/tdx"
	lexer "tacalc/internal/lexer/tdx"
	parser "tacalc/internal/parser/tdx"
)

func compile(t *testing.T, src string) *bytecode.Bytecode {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	stmts := p.Parse()
	require.Empty(t, p.Errors())
	bc, errs := compiler.New().Compile(stmts)
	require.Empty(t, errs)
	return bc
}

func TestCompileOutputBindingEmitsStoreAndPlot(t *testing.T) {
	bc := compile(t, "MA5: ma(close, 5);")
	require.Equal(t, []string{"MA5"}, bc.Globals)
	last := bc.Instructions[len(bc.Instructions)-2]
	require.Equal(t, bytecode.StoreAndPlotGlobal, last.Op)
	require.Equal(t, bytecode.Halt, bc.Instructions[len(bc.Instructions)-1].Op)
}

func TestCompileCloseUsesBuiltinVar(t *testing.T) {
	bc := compile(t, "RESULT: close;")
	require.Equal(t, bytecode.LoadBuiltinVar, bc.Instructions[0].Op)
	nameConst := bc.Constants[bc.Instructions[0].Operand]
	require.Equal(t, "close", nameConst.Str)
}

func TestCompileHithinkAlias(t *testing.T) {
	bc := compile(t, "RESULT: C;")
	require.Equal(t, bytecode.LoadBuiltinVar, bc.Instructions[0].Op)
	nameConst := bc.Constants[bc.Instructions[0].Operand]
	require.Equal(t, "close", nameConst.Str)
}

func TestCompileInternalBindingUsesStoreGlobal(t *testing.T) {
	bc := compile(t, "cond := close > 1;")
	var sawStore bool
	for _, ins := range bc.Instructions {
		if ins.Op == bytecode.StoreGlobal {
			sawStore = true
		}
		require.NotEqual(t, bytecode.StoreAndPlotGlobal, ins.Op)
	}
	require.True(t, sawStore)
}

func TestCompileArithmeticAllocatesIntermediateSlots(t *testing.T) {
	bc := compile(t, "RESULT: close + open * 2;")
	require.GreaterOrEqual(t, bc.VarCount, 2)
	var mulOperand, addOperand int = -1, -1
	for _, ins := range bc.Instructions {
		if ins.Op == bytecode.Mul {
			mulOperand = ins.Operand
		}
		if ins.Op == bytecode.Add {
			addOperand = ins.Operand
		}
	}
	require.NotEqual(t, -1, mulOperand)
	require.NotEqual(t, -1, addOperand)
	require.NotEqual(t, mulOperand, addOperand)
}

func TestCompileFunctionCallLowersNameToLowercaseFuncRef(t *testing.T) {
	bc := compile(t, "RESULT: MA(close, 5);")
	var found bool
	for _, ins := range bc.Instructions {
		if ins.Op == bytecode.CallBuiltinFunc {
			c := bc.Constants[ins.Operand]
			require.Equal(t, "ma", c.Str)
			require.Equal(t, 2, c.Argc)
			found = true
		}
	}
	require.True(t, found)
}

func TestCompileDrawtextLowersToConditionalCallPlot(t *testing.T) {
	bc := compile(t, "drawtext(close > open, close, 'UP');")
	var sawJumpIfFalse, sawCallPlot, sawJump bool
	for _, ins := range bc.Instructions {
		switch ins.Op {
		case bytecode.JumpIfFalse:
			sawJumpIfFalse = true
		case bytecode.CallPlot:
			require.Equal(t, 3, ins.Operand)
			sawCallPlot = true
		case bytecode.Jump:
			sawJump = true
		}
	}
	require.True(t, sawJumpIfFalse)
	require.True(t, sawCallPlot)
	require.True(t, sawJump)
}

func TestCompileSelectStatementBindsToSelectGlobal(t *testing.T) {
	bc := compile(t, "select close > 1;")
	require.Contains(t, bc.Globals, "SELECT")
}

func TestCompileUnmappedBuiltinFailsAtCompileTime(t *testing.T) {
	l := lexer.New("RESULT: nosuchfunction(close);")
	p := parser.New(l)
	stmts := p.Parse()
	require.Empty(t, p.Errors())
	_, errs := compiler.New().Compile(stmts)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "nosuchfunction")
}

func TestCompileArityMismatchFailsAtCompileTime(t *testing.T) {
	l := lexer.New("RESULT: ma(close);")
	p := parser.New(l)
	stmts := p.Parse()
	require.Empty(t, p.Errors())
	_, errs := compiler.New().Compile(stmts)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "ma")
}
