package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tacalc/internal/compiler"
)

func recoverInto(fn func()) (errs []error) {
	defer compiler.Recover(&errs)
	fn()
	return nil
}

func TestRecoverCatchesSemanticError(t *testing.T) {
	errs := recoverInto(func() {
		compiler.Fail(7, "unsupported operator %s", "??")
	})
	require.Len(t, errs, 1)
	require.Equal(t, "line 7: unsupported operator ??", errs[0].Error())
	_, ok := errs[0].(compiler.SemanticError)
	require.True(t, ok)
}

func TestRecoverCatchesDeveloperError(t *testing.T) {
	errs := recoverInto(func() {
		compiler.FailDev("jump offset %d exceeds 0xFFFF", 70000)
	})
	require.Len(t, errs, 1)
	require.Equal(t, "internal compiler error: jump offset 70000 exceeds 0xFFFF", errs[0].Error())
	_, ok := errs[0].(compiler.DeveloperError)
	require.True(t, ok)
}

func TestRecoverLeavesErrsEmptyOnSuccess(t *testing.T) {
	errs := recoverInto(func() {})
	require.Empty(t, errs)
}

func TestRecoverRepanicsUnrelatedValues(t *testing.T) {
	require.Panics(t, func() {
		recoverInto(func() {
			panic("not ours")
		})
	})
}
