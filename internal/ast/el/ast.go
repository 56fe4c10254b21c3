// Package el defines the EasyLanguage-like dialect's abstract syntax tree.
//
// Per spec section 9's redesign note, nodes are a tagged variant (one
// struct per node kind behind a marker interface) rather than the
// teacher's visitor-pattern class hierarchy.
package el

import "tacalc/internal/token"

// Expr is the marker interface implemented by every expression node.
type Expr interface{ exprNode() }

// Stmt is the marker interface implemented by every statement node.
type Stmt interface{ stmtNode() }

// NumberLit is a numeric literal.
type NumberLit struct {
	Value float64
	Line  int
}

// StringLit is a string literal (either quote style).
type StringLit struct {
	Value string
	Line  int
}

// BoolLit is the `true`/`false` literal.
type BoolLit struct {
	Value bool
	Line  int
}

// Ident is an identifier reference — a built-in data series, an input, a
// declared variable, or a user global. EasyLanguage keyword-matches
// case-insensitively, but the lexer preserves the original case in the
// lexeme, so identifier resolution in the compiler lower-cases before
// comparing.
type Ident struct {
	Name string
	Line int
}

// Unary is a leading-minus or `not` unary expression.
type Unary struct {
	Op    token.Kind
	Right Expr
	Line  int
}

// Binary covers arithmetic, comparison and logical (and/or) operators.
type Binary struct {
	Op    token.Kind
	Left  Expr
	Right Expr
	Line  int
}

// Call is a function call: an identifier immediately followed by "(".
type Call struct {
	Name string
	Args []Expr
	Line int
}

func (NumberLit) exprNode() {}
func (StringLit) exprNode() {}
func (BoolLit) exprNode()   {}
func (Ident) exprNode()     {}
func (Unary) exprNode()     {}
func (Binary) exprNode()    {}
func (Call) exprNode()      {}

// InputDecl is one `Name(default)` entry of an `Inputs: ...;` block.
type InputDecl struct {
	Name    string
	Default Expr
	Line    int
}

// InputsStmt is EasyLanguage's `Inputs: Name(default), …;` declaration
// block — each declared input becomes a global slot pre-seeded with its
// default expression.
type InputsStmt struct {
	Decls []InputDecl
	Line  int
}

// VarDecl is one `Name(init)` entry of a `Variables: ...;` block.
type VarDecl struct {
	Name string
	Init Expr
	Line int
}

// VariablesStmt is EasyLanguage's `Variables: Name(init), …;` declaration
// block.
type VariablesStmt struct {
	Decls []VarDecl
	Line  int
}

// AssignStmt is EasyLanguage's `Name = expr;`.
type AssignStmt struct {
	Name string
	Expr Expr
	Line int
}

// IfStmt is EasyLanguage's `If expr Then <stmt|Begin…End>; [Else
// <stmt|Begin…End>;]` — both the single-statement and Begin/End block
// forms collapse to the same Then/Else statement-list shape.
type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
	Line int
}

// PlotStmt is EasyLanguage's `PlotN(value[, color]);` — N is carried
// separately so the compiler can synthesize the plot's name constant
// ("Plot1", "Plot2", …) the way EasyLanguage does when no explicit name
// is supplied.
type PlotStmt struct {
	N     int
	Value Expr
	Color Expr
	Line  int
}

// ExprStmt is a bare call expression used as a statement.
type ExprStmt struct {
	Expr Expr
	Line int
}

func (InputsStmt) stmtNode()    {}
func (VariablesStmt) stmtNode() {}
func (AssignStmt) stmtNode()    {}
func (IfStmt) stmtNode()        {}
func (PlotStmt) stmtNode()      {}
func (ExprStmt) stmtNode()      {}
