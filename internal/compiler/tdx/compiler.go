// Package tdx compiles the Hithink/TDX dialect's AST into bytecode. This is
// the most developed of the three dialect compilers: load/store/
// store-and-plot name resolution, one intermediate slot per
// arithmetic/comparison/logic site, two-pass jump backpatching, and the
// DRAWTEXT lowering.
package tdx

import (
	"strings"

	ast "tacalc/internal/ast/tdx"
	"tacalc/internal/bytecode"
	"tacalc/internal/compiler"
	"tacalc/internal/token"
)

// hithinkAlias maps Hithink's single-letter OHLCV aliases onto the
// canonical lower-case series names.
var hithinkAlias = map[string]string{
	"O": "open", "H": "high", "L": "low", "C": "close", "V": "volume",
}

// Compiler walks a parsed TDX program and emits bytecode.
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
	for _, s := range stmts {
		c.compileStmt(s)
	}
	c.bc.Emit(bytecode.Halt, 0)
	return c.bc, nil
}

func (c *Compiler) compileStmt(s ast.Stmt) {
	switch st := s.(type) {
	case ast.OutputStmt:
		c.compileExpr(st.Expr)
		compiler.EmitStoreAndPlotGlobal(c.bc, st.Name)
	case ast.InternalStmt:
		c.compileExpr(st.Expr)
		compiler.EmitStoreGlobal(c.bc, st.Name)
	case ast.SelectStmt:
		c.compileExpr(st.Expr)
		compiler.EmitStoreAndPlotGlobal(c.bc, "SELECT")
	case ast.ExprStmt:
		if call, ok := st.Expr.(ast.Call); ok && strings.EqualFold(call.Name, "drawtext") && len(call.Args) == 3 {
			c.compileDrawtext(call)
			return
		}
		c.compileExpr(st.Expr)
		c.bc.Emit(bytecode.Pop, 0)
	default:
		compiler.Fail(stmtLine(s), "unsupported statement")
	}
}

// compileDrawtext lowers Hithink's DRAWTEXT(cond, price, text): the
// condition gates whether the point is plotted, and either branch leaves
// exactly one boolean on the stack so the enclosing expression-statement's
// POP stays balanced regardless of which branch ran.
func (c *Compiler) compileDrawtext(call ast.Call) {
	cond, price, text := call.Args[0], call.Args[1], call.Args[2]

	c.compileExpr(cond)
	skipSite := compiler.EmitJump(c.bc, bytecode.JumpIfFalse)

	compiler.EmitConst(c.bc, bytecode.NumberConst(0)) // color placeholder
	c.compileExpr(price)                              // value
	c.compileExpr(text)                                // name
	c.bc.Emit(bytecode.CallPlot, 3)

	endSite := compiler.EmitJump(c.bc, bytecode.Jump)
	if err := compiler.PatchJump(c.bc, skipSite); err != nil {
		compiler.FailDev(err.Error())
	}
	compiler.EmitConst(c.bc, bytecode.BoolConst(false))
	if err := compiler.PatchJump(c.bc, endSite); err != nil {
		compiler.FailDev(err.Error())
	}
	c.bc.Emit(bytecode.Pop, 0)
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
	token.PLUS:        bytecode.Add,
	token.MINUS:       bytecode.Sub,
	token.STAR:        bytecode.Mul,
	token.SLASH:       bytecode.Div,
	token.LESS:        bytecode.Less,
	token.LESS_EQ:     bytecode.LessEqual,
	token.GREATER:     bytecode.Greater,
	token.GREATER_EQ:  bytecode.GreaterEqual,
	token.EQ_EQ:       bytecode.EqualEqual,
	token.BANG_EQ:     bytecode.BangEqual,
	token.AND:         bytecode.LogicalAnd,
	token.OR:          bytecode.LogicalOr,
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
	compiler.EmitCall(c.bc, call.Line, strings.ToLower(call.Name), len(call.Args))
}

// resolveLoad resolves a bare identifier to a built-in data series (by
// canonical name or Hithink's O/H/L/C/V alias) as LOAD_BUILTIN_VAR, or
// otherwise to a user global.
func (c *Compiler) resolveLoad(name string) {
	lower := strings.ToLower(name)
	if compiler.BuiltinVarNames[lower] {
		compiler.EmitLoadBuiltinVar(c.bc, lower)
		return
	}
	if canon, ok := hithinkAlias[strings.ToUpper(name)]; ok {
		compiler.EmitLoadBuiltinVar(c.bc, canon)
		return
	}
	compiler.EmitLoadGlobal(c.bc, name)
}

func stmtLine(s ast.Stmt) int {
	switch st := s.(type) {
	case ast.OutputStmt:
		return st.Line
	case ast.InternalStmt:
		return st.Line
	case ast.SelectStmt:
		return st.Line
	case ast.ExprStmt:
		return st.Line
	default:
		return 0
	}
}
