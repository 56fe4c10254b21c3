package pine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tacalc/internal/bytecode"
	"tacalc/internal/compiler/pine"
	lexer "tacalc/internal/lexer/pine"
	parser "tacalc/internal/parser/pine"
)

func compile(t *testing.T, src string) *bytecode.Bytecode {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	stmts := p.Parse()
	require.Empty(t, p.Errors())
	bc, errs := pine.New().Compile(stmts)
	require.Empty(t, errs)
	return bc
}

func TestCompilePlotLowersToStoreAndPlot(t *testing.T) {
	bc := compile(t, `plot(close)`)
	found := false
	for _, ins := range bc.Instructions {
		if ins.Op == bytecode.StoreAndPlotGlobal {
			found = true
		}
	}
	require.True(t, found)
	require.Contains(t, bc.Globals, "Plot1")
}

func TestCompileQualifiedCallStripsTaNamespace(t *testing.T) {
	bc := compile(t, `fast = ta.sma(close, 5)`)
	var ref *bytecode.Const
	for i := range bc.Constants {
		if bc.Constants[i].Kind == bytecode.ConstFuncRef {
			ref = &bc.Constants[i]
		}
	}
	require.NotNil(t, ref)
	require.Equal(t, "sma", ref.Str)
	require.Equal(t, 2, ref.Argc)
}

func TestCompileQualifiedNameAsStringConstant(t *testing.T) {
	bc := compile(t, `c = color.red`)
	found := false
	for _, c := range bc.Constants {
		if c.Kind == bytecode.ConstString && c.Str == "color.red" {
			found = true
		}
	}
	require.True(t, found)
}

func TestCompileIfElseBranches(t *testing.T) {
	bc := compile(t, `
if (close > open) {
	trend = 1
} else {
	trend = -1
}
`)
	hasJumpIfFalse, hasJump := false, false
	for _, ins := range bc.Instructions {
		if ins.Op == bytecode.JumpIfFalse {
			hasJumpIfFalse = true
		}
		if ins.Op == bytecode.Jump {
			hasJump = true
		}
	}
	require.True(t, hasJumpIfFalse)
	require.True(t, hasJump)
}

func TestCompileAssignUsesStoreGlobalNotPlot(t *testing.T) {
	bc := compile(t, `trend = 1`)
	for _, ins := range bc.Instructions {
		require.NotEqual(t, bytecode.StoreAndPlotGlobal, ins.Op)
	}
}

func TestCompileInputIntLowersToRegisteredBuiltin(t *testing.T) {
	bc := compile(t, `len = input.int(14, "len")`)
	var ref *bytecode.Const
	for i := range bc.Constants {
		if bc.Constants[i].Kind == bytecode.ConstFuncRef {
			ref = &bc.Constants[i]
		}
	}
	require.NotNil(t, ref)
	require.Equal(t, "input.int", ref.Str)
	require.Equal(t, 2, ref.Argc)
}

func TestCompileUnmappedBuiltinFailsAtCompileTime(t *testing.T) {
	l := lexer.New(`x = nosuchfunction(close)`)
	p := parser.New(l)
	stmts := p.Parse()
	require.Empty(t, p.Errors())
	_, errs := pine.New().Compile(stmts)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "nosuchfunction")
}
