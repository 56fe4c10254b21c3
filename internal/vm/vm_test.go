package vm_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"tacalc/internal/builtins"
	"tacalc/internal/bytecode"
	tdxcompiler "tacalc/internal/compiler/tdx"
	tdxlexer "tacalc/internal/lexer/tdx"
	tdxparser "tacalc/internal/parser/tdx"
	"tacalc/internal/value"
	"tacalc/internal/vm"
)

func compileTDX(t *testing.T, src string) *bytecode.Bytecode {
	t.Helper()
	l := tdxlexer.New(src)
	p := tdxparser.New(l)
	stmts := p.Parse()
	require.Empty(t, p.Errors())
	bc, errs := tdxcompiler.New().Compile(stmts)
	require.Empty(t, errs)
	return bc
}

func runTDX(t *testing.T, src string, close []float64) *vm.VM {
	t.Helper()
	bc := compileTDX(t, src)
	data := builtins.Dataset(close, close, close, close, close, close, close)
	m := vm.New(bc, data, nil)
	require.NoError(t, m.Execute(len(close)))
	return m
}

func seriesValues(t *testing.T, m *vm.VM, name string) []float64 {
	t.Helper()
	for _, p := range m.Plotted() {
		if p.Name == name {
			return p.Series.Values()
		}
	}
	t.Fatalf("no plotted series named %q", name)
	return nil
}

func requireNaN(t *testing.T, got float64) {
	t.Helper()
	require.True(t, math.IsNaN(got), "expected NaN, got %v", got)
}

func TestSMA3OnClose(t *testing.T) {
	m := runTDX(t, "RESULT: ma(close, 3);", []float64{2, 4, 6, 8})
	got := seriesValues(t, m, "RESULT")
	require.Len(t, got, 4)
	requireNaN(t, got[0])
	requireNaN(t, got[1])
	require.Equal(t, 4.0, got[2])
	require.Equal(t, 6.0, got[3])
}

func TestRefLookback(t *testing.T) {
	m := runTDX(t, "RESULT: ref(close, 2);", []float64{10, 20, 30, 40})
	got := seriesValues(t, m, "RESULT")
	requireNaN(t, got[0])
	requireNaN(t, got[1])
	require.Equal(t, 10.0, got[2])
	require.Equal(t, 20.0, got[3])
}

func TestConditionalCount(t *testing.T) {
	m := runTDX(t, "cond := close > 12; RESULT: count(cond, 5);", []float64{9, 11, 13, 14, 8})
	got := seriesValues(t, m, "RESULT")
	require.Equal(t, 2.0, got[4])
}

func TestDrawtextGatingRegistersNaNPaddedPlotSeries(t *testing.T) {
	bc := compileTDX(t, "v := close > open; drawtext(v, low, 'UP');")
	close := []float64{10, 12}
	open := []float64{11, 10}
	low := []float64{9, 8}
	data := builtins.Dataset(open, open, low, close, close, close, close)
	m := vm.New(bc, data, nil)
	require.NoError(t, m.Execute(len(close)))

	got := seriesValues(t, m, "UP")
	require.Len(t, got, 2)
	requireNaN(t, got[0])
	require.Equal(t, 8.0, got[1])
}

func TestOutputBindingRegistersPlotAndExportsCSV(t *testing.T) {
	m := runTDX(t, "MA5: ma(close, 2);", []float64{1, 2, 3, 4})
	plotted := m.Plotted()
	require.Len(t, plotted, 1)
	require.Equal(t, "MA5", plotted[0].Name)

	csv := m.PlottedResultsCSV(2)
	require.Contains(t, csv, "time,MA5")
}

func TestIncrementalExecutionContinuesFromCurrentBar(t *testing.T) {
	bc := compileTDX(t, "RESULT: ma(close, 2);")
	close := []float64{1, 2, 3, 4}
	data := builtins.Dataset(close, close, close, close, close, close, close)
	m := vm.New(bc, data, nil)

	require.NoError(t, m.Execute(2))
	require.Equal(t, 2, m.BarIndex())
	require.NoError(t, m.Execute(4))

	got := seriesValues(t, m, "RESULT")
	require.Equal(t, 3.5, got[3])
}

func TestStackUnderflowIsARuntimeError(t *testing.T) {
	bc := bytecode.New()
	bc.Emit(bytecode.Add, bc.AllocIntermediate())
	bc.Emit(bytecode.Halt, 0)
	m := vm.New(bc, map[string]*value.Series{}, nil)
	err := m.Execute(1)
	require.Error(t, err)
}
