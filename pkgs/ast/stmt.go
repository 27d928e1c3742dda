package ast

import "github.com/aledsdavies/lox/pkgs/token"

// Stmt is any statement node. Every Function body and every Block is a slice
// of Stmt (§3.3 invariant): a Block introduces exactly one new scope, and
// `for` is desugared by the parser into a Block/While/Block combination —
// there is no dedicated For node.
type Stmt interface {
	stmtNode()
}

// ExpressionStmt evaluates Expression and discards the result.
type ExpressionStmt struct {
	Expression Expr
}

// PrintStmt evaluates Expression and writes its textual form plus a newline.
type PrintStmt struct {
	Expression Expr
}

// VarStmt declares Name in the current scope, bound to Initializer's value
// (or Nil if Initializer is nil). Re-declaring an existing name rebinds it.
type VarStmt struct {
	Name        token.Token
	Initializer Expr // nil if no initializer was given
}

// BlockStmt executes Statements in a freshly created child scope.
type BlockStmt struct {
	Statements []Stmt
}

// IfStmt executes Then if Condition is truthy, else Else if present.
type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt // nil if there is no else branch
}

// WhileStmt repeatedly executes Body while Condition is truthy.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

// FunctionStmt declares a user function, binding Name to a callable that
// captures the environment live at the point of declaration as its closure.
type FunctionStmt struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

// ReturnStmt raises the non-local return control signal, carrying Value's
// result (or Nil if Value is nil) out to the nearest enclosing call frame.
type ReturnStmt struct {
	Keyword token.Token
	Value   Expr // nil for a bare `return;`
}

func (*ExpressionStmt) stmtNode() {}
func (*PrintStmt) stmtNode()      {}
func (*VarStmt) stmtNode()        {}
func (*BlockStmt) stmtNode()      {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*FunctionStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()     {}
