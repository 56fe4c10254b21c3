package el_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tacalc/internal/bytecode"
	"tacalc/internal/compiler/el"
	lexer "tacalc/internal/lexer/el"
	parser "tacalc/internal/parser/el"
)

func compile(t *testing.T, src string) *bytecode.Bytecode {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	stmts := p.Parse()
	require.Empty(t, p.Errors())
	bc, errs := el.New().Compile(stmts)
	require.Empty(t, errs)
	return bc
}

func TestCompileAverageRewritesToSMA(t *testing.T) {
	bc := compile(t, `Fast = Average(Close, 9);`)
	var ref *bytecode.Const
	for i := range bc.Constants {
		if bc.Constants[i].Kind == bytecode.ConstFuncRef {
			ref = &bc.Constants[i]
		}
	}
	require.NotNil(t, ref)
	require.Equal(t, "sma", ref.Str)
}

func TestCompileInputsSeedsGlobalDefaults(t *testing.T) {
	bc := compile(t, `Inputs: Length(9);`)
	require.Contains(t, bc.Globals, "Length")
	foundStore := false
	for _, ins := range bc.Instructions {
		if ins.Op == bytecode.StoreGlobal {
			foundStore = true
		}
	}
	require.True(t, foundStore)
}

func TestCompilePlotNLowersToStoreAndPlot(t *testing.T) {
	bc := compile(t, `Plot3(Close);`)
	require.Contains(t, bc.Globals, "Plot3")
	found := false
	for _, ins := range bc.Instructions {
		if ins.Op == bytecode.StoreAndPlotGlobal {
			found = true
		}
	}
	require.True(t, found)
}

func TestCompileIfThenElse(t *testing.T) {
	bc := compile(t, `If Close > Open Then Trend = 1; Else Trend = -1;`)
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

func TestCompileBeginEndBlockCompilesAllStatements(t *testing.T) {
	bc := compile(t, `
If Close > Open Then Begin
	Trend = 1;
	Plot1(Close);
End;
`)
	stores, plots := 0, 0
	for _, ins := range bc.Instructions {
		if ins.Op == bytecode.StoreGlobal {
			stores++
		}
		if ins.Op == bytecode.StoreAndPlotGlobal {
			plots++
		}
	}
	require.Equal(t, 1, stores)
	require.Equal(t, 1, plots)
}

func TestCompileUnmappedBuiltinFailsAtCompileTime(t *testing.T) {
	l := lexer.New(`Fast = NoSuchFunction(Close, 9);`)
	p := parser.New(l)
	stmts := p.Parse()
	require.Empty(t, p.Errors())
	_, errs := el.New().Compile(stmts)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "nosuchfunction")
}
