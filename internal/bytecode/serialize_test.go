package bytecode_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tacalc/internal/bytecode"
)

func sample() *bytecode.Bytecode {
	b := bytecode.New()
	b.Globals = append(b.Globals, "RESULT")
	idx := b.AddConstant(bytecode.NumberConst(3))
	b.Emit(bytecode.LoadBuiltinVar, b.AddConstant(bytecode.StringConst("close")))
	b.Emit(bytecode.PushConst, idx)
	b.Emit(bytecode.CallBuiltinFunc, b.AddConstant(bytecode.FuncRefConst("ma", 2)))
	b.Emit(bytecode.StoreAndPlotGlobal, 0)
	b.Emit(bytecode.Halt, 0)
	return b
}

func TestWriteLoadRoundTrip(t *testing.T) {
	original := sample()
	text := bytecode.Write(original)

	loaded, err := bytecode.Load(text)
	require.NoError(t, err)
	require.Equal(t, original.Instructions, loaded.Instructions)
	require.Equal(t, original.Globals, loaded.Globals)
	require.Equal(t, original.VarCount, loaded.VarCount)
	require.Equal(t, bytecode.Checksum(original), bytecode.Checksum(loaded))
}

func TestLoadRejectsTamperedChecksum(t *testing.T) {
	text := bytecode.Write(sample())
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if strings.HasPrefix(l, "1: ") {
			lines[i] = "1: PUSH_CONST 999"
			break
		}
	}
	tampered := strings.Join(lines, "\n")

	_, err := bytecode.Load(tampered)
	require.Error(t, err)
	var loadErr bytecode.LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestChecksumStableAcrossRuns(t *testing.T) {
	a := bytecode.Checksum(sample())
	b := bytecode.Checksum(sample())
	require.Equal(t, a, b)
}
