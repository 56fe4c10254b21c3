// Package pine compiles the Pine-like dialect's AST into bytecode. Pine has
// no dedicated output-binding statement (unlike Hithink's `:`); its output
// mechanism is the `plot(value)` call, which this compiler lowers into a
// synthesized store-and-plot global the same way Hithink's `:` binding
// does.
package pine

import (
	"fmt"
	"strings"

	ast "tacalc/internal/ast/pine"
	"tacalc/internal/bytecode"
	"tacalc/internal/compiler"
	"tacalc/internal/token"
)

// Compiler walks a parsed Pine program and emits bytecode.
type Compiler struct {
	bc        *bytecode.Bytecode
	plotCount int
}

// New returns a Compiler ready to compile a program.
func New() *Compiler {
	return &Compiler{bc: bytecode.New()}
}

// Compile lowers stmts into a complete Bytecode, terminated by HALT. A
// SemanticError or DeveloperError panicked anywhere during the walk is
// recovered here and returned as the sole element of errs, rather than
// aborting the process.
func (c *Compiler) Compile(stmts []ast.Stmt) (bc *bytecode.Bytecode, errs []error) {
	defer compiler.Recover(&errs)
	c.compileBlock(stmts)
	c.bc.Emit(bytecode.Halt, 0)
	return c.bc, nil
}

func (c *Compiler) compileBlock(stmts []ast.Stmt) {
	for _, s := range stmts {
		c.compileStmt(s)
	}
}

func (c *Compiler) compileStmt(s ast.Stmt) {
	switch st := s.(type) {
	case ast.AssignStmt:
		c.compileExpr(st.Expr)
		compiler.EmitStoreGlobal(c.bc, st.Name)
	case ast.IfStmt:
		c.compileIf(st)
	case ast.ExprStmt:
		if call, ok := st.Expr.(ast.Call); ok && isPlotCall(call.Name) && len(call.Args) >= 1 {
			c.compilePlotCall(call)
			return
		}
		c.compileExpr(st.Expr)
		c.bc.Emit(bytecode.Pop, 0)
	default:
		compiler.Fail(stmtLine(s), "unsupported statement")
	}
}

func isPlotCall(name string) bool {
	switch strings.ToLower(name) {
	case "plot", "plotshape":
		return true
	default:
		return false
	}
}

// compilePlotCall lowers `plot(value[, ...])` into a synthesized output
// binding, named "Plot1", "Plot2", … in call order — Pine's plot() has no
// required name argument, so the compiler mints one the same way
// EasyLanguage's PlotN family is already numbered.
func (c *Compiler) compilePlotCall(call ast.Call) {
	c.plotCount++
	name := fmt.Sprintf("Plot%d", c.plotCount)
	c.compileExpr(call.Args[0])
	compiler.EmitStoreAndPlotGlobal(c.bc, name)
	for _, extra := range call.Args[1:] {
		c.compileExpr(extra)
		c.bc.Emit(bytecode.Pop, 0)
	}
}

// compileIf lowers `if (cond) { then } [else { else }]`.
func (c *Compiler) compileIf(st ast.IfStmt) {
	c.compileExpr(st.Cond)
	l1 := compiler.EmitJump(c.bc, bytecode.JumpIfFalse)
	c.compileBlock(st.Then)
	if len(st.Else) > 0 {
		l2 := compiler.EmitJump(c.bc, bytecode.Jump)
		if err := compiler.PatchJump(c.bc, l1); err != nil {
			compiler.FailDev(err.Error())
		}
		c.compileBlock(st.Else)
		if err := compiler.PatchJump(c.bc, l2); err != nil {
			compiler.FailDev(err.Error())
		}
		return
	}
	if err := compiler.PatchJump(c.bc, l1); err != nil {
		compiler.FailDev(err.Error())
	}
}

func (c *Compiler) compileExpr(e ast.Expr) {
	switch ex := e.(type) {
	case ast.NumberLit:
		compiler.EmitConst(c.bc, bytecode.NumberConst(ex.Value))
	case ast.StringLit:
		compiler.EmitConst(c.bc, bytecode.StringConst(ex.Value))
	case ast.BoolLit:
		compiler.EmitConst(c.bc, bytecode.BoolConst(ex.Value))
	case ast.Ident:
		c.resolveLoad(ex.Name)
	case ast.QualifiedName:
		// A dotted name not used as a call (e.g. `color.red`) has no
		// numeric meaning of its own; it is an opaque symbolic value,
		// pushed as a string constant so it can flow into a color
		// argument unchanged.
		compiler.EmitConst(c.bc, bytecode.StringConst(joinDotted(ex.Parts)))
	case ast.Unary:
		c.compileUnary(ex)
	case ast.Binary:
		c.compileBinary(ex)
	case ast.Call:
		c.compileCall(ex)
	default:
		compiler.Fail(0, "unsupported expression node %T", e)
	}
}

func joinDotted(parts []string) string {
	name := parts[0]
	for _, p := range parts[1:] {
		name += "." + p
	}
	return name
}

func (c *Compiler) compileUnary(u ast.Unary) {
	switch u.Op {
	case token.MINUS:
		compiler.EmitConst(c.bc, bytecode.NumberConst(0))
		c.compileExpr(u.Right)
		compiler.EmitMath(c.bc, bytecode.Sub)
	case token.NOT:
		c.compileExpr(u.Right)
		compiler.EmitCall(c.bc, u.Line, "not", 1)
	default:
		compiler.Fail(u.Line, "unsupported unary operator %s", u.Op)
	}
}

var binaryOps = map[token.Kind]bytecode.Op{
	token.PLUS:       bytecode.Add,
	token.MINUS:      bytecode.Sub,
	token.STAR:       bytecode.Mul,
	token.SLASH:      bytecode.Div,
	token.LESS:       bytecode.Less,
	token.LESS_EQ:    bytecode.LessEqual,
	token.GREATER:    bytecode.Greater,
	token.GREATER_EQ: bytecode.GreaterEqual,
	token.EQ_EQ:      bytecode.EqualEqual,
	token.BANG_EQ:    bytecode.BangEqual,
	token.AND:        bytecode.LogicalAnd,
	token.OR:         bytecode.LogicalOr,
}

func (c *Compiler) compileBinary(b ast.Binary) {
	op, ok := binaryOps[b.Op]
	if !ok {
		compiler.Fail(b.Line, "unsupported binary operator %s", b.Op)
		return
	}
	c.compileExpr(b.Left)
	c.compileExpr(b.Right)
	compiler.EmitMath(c.bc, op)
}

func (c *Compiler) compileCall(call ast.Call) {
	for _, a := range call.Args {
		c.compileExpr(a)
	}
	compiler.EmitCall(c.bc, call.Line, normalizeBuiltinName(call.Name), len(call.Args))
}

// normalizeBuiltinName strips Pine's "ta." namespace prefix so that
// `ta.sma`/`ta.rsi` resolve to the same shared builtin-table entries
// (`sma`/`rsi`) that EasyLanguage's `Average`/`RSI` rewrite to, and
// lower-cases everything else, matching the one shared built-in registry
// every dialect compiles against.
func normalizeBuiltinName(name string) string {
	lower := strings.ToLower(name)
	if rest, ok := strings.CutPrefix(lower, "ta."); ok {
		return rest
	}
	return lower
}

// resolveLoad resolves a bare identifier to either a built-in series load
// or a user global, generalized to Pine's all-lowercase built-in series
// names (no alias table needed here).
func (c *Compiler) resolveLoad(name string) {
	lower := strings.ToLower(name)
	if compiler.BuiltinVarNames[lower] {
		compiler.EmitLoadBuiltinVar(c.bc, lower)
		return
	}
	compiler.EmitLoadGlobal(c.bc, name)
}

func stmtLine(s ast.Stmt) int {
	switch st := s.(type) {
	case ast.AssignStmt:
		return st.Line
	case ast.IfStmt:
		return st.Line
	case ast.ExprStmt:
		return st.Line
	default:
		return 0
	}
}
