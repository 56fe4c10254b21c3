// Package el compiles the EasyLanguage-like dialect's AST into bytecode:
// `Average`/`RSI` rewrite onto the shared builtin table's `sma`/`rsi`
// entries, `PlotN` lowers to a synthesized store-and-plot global,
// `Inputs:`/`Variables:` blocks seed global slots with their
// default/init expressions.
package el

import (
	"fmt"
	"strings"

	ast "tacalc/internal/ast/el"
	"tacalc/internal/bytecode"
	"tacalc/internal/compiler"
	"tacalc/internal/token"
)

// builtinRewrite maps EasyLanguage's historical function names onto the
// shared builtin table's canonical entries.
var builtinRewrite = map[string]string{
	"average": "sma",
	"rsi":     "rsi",
}

// Compiler walks a parsed EasyLanguage program and emits bytecode.
type Compiler struct {
	bc *bytecode.Bytecode
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
	case ast.InputsStmt:
		for _, d := range st.Decls {
			c.compileExpr(d.Default)
			compiler.EmitStoreGlobal(c.bc, d.Name)
		}
	case ast.VariablesStmt:
		for _, d := range st.Decls {
			c.compileExpr(d.Init)
			compiler.EmitStoreGlobal(c.bc, d.Name)
		}
	case ast.AssignStmt:
		c.compileExpr(st.Expr)
		compiler.EmitStoreGlobal(c.bc, st.Name)
	case ast.IfStmt:
		c.compileIf(st)
	case ast.PlotStmt:
		c.compilePlot(st)
	case ast.ExprStmt:
		c.compileExpr(st.Expr)
		c.bc.Emit(bytecode.Pop, 0)
	default:
		compiler.Fail(stmtLine(s), "unsupported statement")
	}
}

// compilePlot lowers `PlotN(value[, color])` into a synthesized output
// binding named "PlotN".
func (c *Compiler) compilePlot(st ast.PlotStmt) {
	name := fmt.Sprintf("Plot%d", st.N)
	c.compileExpr(st.Value)
	compiler.EmitStoreAndPlotGlobal(c.bc, name)
	if st.Color != nil {
		c.compileExpr(st.Color)
		c.bc.Emit(bytecode.Pop, 0)
	}
}

// compileIf lowers `If cond Then thenBody [Else elseBody]`.
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

// normalizeBuiltinName applies the `Average`→`sma`, `RSI`→`rsi` rewrite
// (matched case-insensitively, since EasyLanguage keyword/name matching
// is case-insensitive throughout), then lower-cases anything else before
// it reaches the shared builtin table.
func normalizeBuiltinName(name string) string {
	lower := strings.ToLower(name)
	if rewritten, ok := builtinRewrite[lower]; ok {
		return rewritten
	}
	return lower
}

// resolveLoad resolves a bare identifier to either a built-in series load
// or a user global, matched case-insensitively against the canonical
// lower-case series names.
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
	case ast.InputsStmt:
		return st.Line
	case ast.VariablesStmt:
		return st.Line
	case ast.AssignStmt:
		return st.Line
	case ast.IfStmt:
		return st.Line
	case ast.PlotStmt:
		return st.Line
	case ast.ExprStmt:
		return st.Line
	default:
		return 0
	}
}
