// Package resolver implements the static name-resolution pass (§4.5) that
// runs between parsing and evaluation. It walks the AST once to compute, for
// every variable reference, the number of enclosing scopes to skip before
// the lookup hits its binding — closing the correctness hole where a
// function's free variable could otherwise be captured by a later binding
// in an enclosing scope (see the "closures capture environment" scenario).
//
// The reference implementation's resolver exists but is never wired into its
// driver; this pass is mandatory here, not optional.
package resolver

import (
	"github.com/aledsdavies/lox/pkgs/ast"
	lerrors "github.com/aledsdavies/lox/pkgs/errors"
	"github.com/aledsdavies/lox/pkgs/token"
)

// scope maps a name to whether its initializer has finished resolving.
type scope map[string]bool

// Resolver walks a parsed statement list and produces a locals table the
// interpreter consults instead of walking the environment chain.
type Resolver struct {
	reporter *lerrors.Reporter
	scopes   []scope
	locals   map[ast.Expr]int
}

// Resolve runs the pass over stmts and returns the expression-to-depth table.
// Every Variable and Assign node resolved to a local scope has an entry;
// nodes absent from the map are treated as references into the global scope.
func Resolve(stmts []ast.Stmt, reporter *lerrors.Reporter) map[ast.Expr]int {
	r := &Resolver{reporter: reporter, locals: make(map[ast.Expr]int)}
	r.resolveStmts(stmts)
	return r.locals
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.BlockStmt:
		r.beginScope()
		r.resolveStmts(n.Statements)
		r.endScope()
	case *ast.VarStmt:
		r.declare(n.Name)
		if n.Initializer != nil {
			r.resolveExpr(n.Initializer)
		}
		r.define(n.Name)
	case *ast.FunctionStmt:
		r.declare(n.Name)
		r.define(n.Name)
		r.resolveFunction(n)
	case *ast.ExpressionStmt:
		r.resolveExpr(n.Expression)
	case *ast.IfStmt:
		r.resolveExpr(n.Condition)
		r.resolveStmt(n.Then)
		if n.Else != nil {
			r.resolveStmt(n.Else)
		}
	case *ast.PrintStmt:
		r.resolveExpr(n.Expression)
	case *ast.ReturnStmt:
		if n.Value != nil {
			r.resolveExpr(n.Value)
		}
	case *ast.WhileStmt:
		r.resolveExpr(n.Condition)
		r.resolveStmt(n.Body)
	}
}

func (r *Resolver) resolveFunction(fn *ast.FunctionStmt) {
	r.beginScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(fn.Body)
	r.endScope()
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][n.Name.Lexeme]; ok && !defined {
				r.errorAt(n.Name, "can't read local variable in its own initializer")
			}
		}
		r.resolveLocal(n, n.Name)
	case *ast.Assign:
		r.resolveExpr(n.Value)
		r.resolveLocal(n, n.Name)
	case *ast.Binary:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)
	case *ast.Logical:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)
	case *ast.Unary:
		r.resolveExpr(n.Right)
	case *ast.Grouping:
		r.resolveExpr(n.Expression)
	case *ast.Call:
		r.resolveExpr(n.Callee)
		for _, a := range n.Arguments {
			r.resolveExpr(a)
		}
	case *ast.Literal:
		// no sub-expressions, no binding
	}
}

// resolveLocal scans scopes innermost-first; the first scope that declared
// name yields the number of hops between it and the current scope. A name
// not found in any tracked scope is left unresolved (a global reference).
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }

func (r *Resolver) endScope() { r.scopes = r.scopes[:len(r.scopes)-1] }

// declare records name in the innermost scope as not-yet-initialized. The
// global scope is never pushed onto r.scopes, so a top-level declare is a no-op.
func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) errorAt(tok token.Token, message string) {
	r.reporter.Report(lerrors.NewParseError(tok.Line, tok.Column, tok.Lexeme, message))
}
