// Package compiler holds the emission helpers shared by every dialect's
// compiler (internal/compiler/tdx, /pine, /el), per spec section 4.3's
// "compilers share the same emission helpers" design. Each dialect compiler
// owns its own AST walk and name-resolution rules; only the bytecode
// plumbing below is common.
package compiler

import (
	"tacalc/internal/builtins"
	"tacalc/internal/bytecode"
)

// BuiltinVarNames are the canonical lower-case built-in data series every
// dialect recognizes (spec section 4.3's resolve_load rule).
var BuiltinVarNames = map[string]bool{
	"open": true, "high": true, "low": true, "close": true,
	"volume": true, "time": true, "date": true,
}

// EmitConst appends v to the constant pool and emits PUSH_CONST for it.
func EmitConst(bc *bytecode.Bytecode, v bytecode.Const) {
	bc.Emit(bytecode.PushConst, bc.AddConstant(v))
}

// EmitLoadBuiltinVar emits LOAD_BUILTIN_VAR for the canonical series name.
func EmitLoadBuiltinVar(bc *bytecode.Bytecode, canonicalName string) {
	bc.Emit(bytecode.LoadBuiltinVar, bc.AddConstant(bytecode.StringConst(canonicalName)))
}

// EmitLoadGlobal ensures a global slot exists for name and emits LOAD_GLOBAL.
func EmitLoadGlobal(bc *bytecode.Bytecode, name string) {
	bc.Emit(bytecode.LoadGlobal, bc.ResolveGlobal(name))
}

// EmitStoreGlobal ensures a global slot exists for name and emits
// STORE_GLOBAL.
func EmitStoreGlobal(bc *bytecode.Bytecode, name string) {
	bc.Emit(bytecode.StoreGlobal, bc.ResolveGlobal(name))
}

// EmitStoreAndPlotGlobal is resolve_store_and_plot from spec section 4.3:
// like EmitStoreGlobal but emits STORE_AND_PLOT_GLOBAL (Hithink's `:`
// output binding, EasyLanguage's PlotN, Pine's plot()).
func EmitStoreAndPlotGlobal(bc *bytecode.Bytecode, name string) {
	bc.Emit(bytecode.StoreAndPlotGlobal, bc.ResolveGlobal(name))
}

// EmitMath emits an arithmetic/comparison/logical opcode, allocating it a
// fresh intermediate-series slot as its operand (spec section 4.3's
// emit_math rule).
func EmitMath(bc *bytecode.Bytecode, op bytecode.Op) {
	bc.Emit(op, bc.AllocIntermediate())
}

// EmitCall pushes a CALL_BUILTIN_FUNC referencing name with the exact
// argument count this call site pushes. Per spec section 7, "call to
// unmapped name" (and, by the same token, an arity mismatch the compiler
// can already see) is a compile error that aborts compilation — so name
// and arity are validated against the shared builtin table here, at the
// one place every dialect funnels calls through, rather than left for the
// VM to discover at run time.
func EmitCall(bc *bytecode.Bytecode, line int, name string, argc int) {
	fn, ok := builtins.Lookup(name)
	if !ok {
		Fail(line, "call to unmapped built-in function %q", name)
	}
	if argc < fn.MinArgs || argc > fn.MaxArgs {
		Fail(line, "built-in function %q takes [%d,%d] arguments, got %d", name, fn.MinArgs, fn.MaxArgs, argc)
	}
	bc.Emit(bytecode.CallBuiltinFunc, bc.AddConstant(bytecode.FuncRefConst(name, argc)))
}

// EmitJump emits a forward jump (JUMP or JUMP_IF_FALSE) with a placeholder
// operand and returns its patch site, per spec section 4.3's two-pass
// backpatching scheme.
func EmitJump(bc *bytecode.Bytecode, op bytecode.Op) int {
	return bc.Emit(op, 0)
}

// PatchJump closes a jump opened by EmitJump, pointing it at the
// instruction about to be emitted next.
func PatchJump(bc *bytecode.Bytecode, site int) error {
	return bc.PatchJump(site)
}
