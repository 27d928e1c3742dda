package resolver_test

import (
	"strings"
	"testing"

	"github.com/aledsdavies/lox/pkgs/ast"
	lerrors "github.com/aledsdavies/lox/pkgs/errors"
	"github.com/aledsdavies/lox/pkgs/parser"
	"github.com/aledsdavies/lox/pkgs/resolver"
)

func resolve(t *testing.T, src string) (map[ast.Expr]int, []ast.Stmt, *lerrors.Reporter) {
	t.Helper()
	reporter := lerrors.NewReporterTo(&strings.Builder{})
	stmts := parser.Parse(src, reporter)
	if reporter.HadError() {
		t.Fatalf("unexpected parse error(s) for %q: %s", src, reporter.Summary())
	}
	locals := resolver.Resolve(stmts, reporter)
	return locals, stmts, reporter
}

// findVariable walks a statement tree for the first *ast.Variable with the
// given name, depth-first, to avoid depending on internal node identity.
func findVariable(t *testing.T, stmts []ast.Stmt, name string) ast.Expr {
	t.Helper()
	var found ast.Expr
	var walkStmt func(ast.Stmt)
	var walkExpr func(ast.Expr)

	walkExpr = func(e ast.Expr) {
		if found != nil || e == nil {
			return
		}
		switch n := e.(type) {
		case *ast.Variable:
			if n.Name.Lexeme == name {
				found = n
			}
		case *ast.Assign:
			walkExpr(n.Value)
		case *ast.Binary:
			walkExpr(n.Left)
			walkExpr(n.Right)
		case *ast.Logical:
			walkExpr(n.Left)
			walkExpr(n.Right)
		case *ast.Unary:
			walkExpr(n.Right)
		case *ast.Grouping:
			walkExpr(n.Expression)
		case *ast.Call:
			walkExpr(n.Callee)
			for _, a := range n.Arguments {
				walkExpr(a)
			}
		}
	}
	walkStmt = func(s ast.Stmt) {
		if found != nil || s == nil {
			return
		}
		switch n := s.(type) {
		case *ast.ExpressionStmt:
			walkExpr(n.Expression)
		case *ast.PrintStmt:
			walkExpr(n.Expression)
		case *ast.VarStmt:
			walkExpr(n.Initializer)
		case *ast.BlockStmt:
			for _, inner := range n.Statements {
				walkStmt(inner)
			}
		case *ast.IfStmt:
			walkExpr(n.Condition)
			walkStmt(n.Then)
			walkStmt(n.Else)
		case *ast.WhileStmt:
			walkExpr(n.Condition)
			walkStmt(n.Body)
		case *ast.FunctionStmt:
			for _, inner := range n.Body {
				walkStmt(inner)
			}
		case *ast.ReturnStmt:
			walkExpr(n.Value)
		}
	}
	for _, s := range stmts {
		walkStmt(s)
	}
	if found == nil {
		t.Fatalf("no Variable(%q) found in statement tree", name)
	}
	return found
}

func TestResolve_LocalVariableGetsDepth(t *testing.T) {
	locals, stmts, _ := resolve(t, "{ var a = 1; { var b = 2; print a; } }")
	ref := findVariable(t, stmts, "a")
	depth, ok := locals[ref]
	if !ok {
		t.Fatal("expected a resolved depth for nested reference to 'a'")
	}
	if depth != 1 {
		t.Errorf("got depth %d, want 1 (one block between use and declaration)", depth)
	}
}

func TestResolve_GlobalVariableIsUnresolved(t *testing.T) {
	locals, stmts, _ := resolve(t, "var a = 1; print a;")
	ref := findVariable(t, stmts, "a")
	if _, ok := locals[ref]; ok {
		t.Error("expected a top-level global reference to have no locals entry")
	}
}

func TestResolve_SelfReferenceInInitializerIsAnError(t *testing.T) {
	reporter := lerrors.NewReporterTo(&strings.Builder{})
	stmts := parser.Parse("{ var a = a; }", reporter)
	if reporter.HadError() {
		t.Fatalf("unexpected parse error: %s", reporter.Summary())
	}
	resolver.Resolve(stmts, reporter)
	if !reporter.HadError() {
		t.Fatal("expected resolver to reject reading a local variable in its own initializer")
	}
}

func TestResolve_ClosureSeesLaterShadowAtGlobalScopeOnly(t *testing.T) {
	// fun show() reads global `a`; the later `var a = "block"` redeclares it
	// inside the nested block, but show's free reference to `a` was resolved
	// against the outer block's scope at the point `show` was declared, so it
	// must stay bound to that (global, in this case) depth rather than the
	// later shadow.
	locals, stmts, reporter := resolve(t, `
var a = "global";
{
  fun show() { print a; }
  show();
  var a = "block";
  show();
}`)
	if reporter.HadError() {
		t.Fatalf("unexpected resolver error: %s", reporter.Summary())
	}
	ref := findVariable(t, stmts, "a")
	if _, ok := locals[ref]; ok {
		t.Error("expected show's reference to the outer global 'a' to remain unresolved (global)")
	}
}

func TestResolve_FunctionParametersShadowEnclosingScope(t *testing.T) {
	locals, stmts, reporter := resolve(t, "var a = 0; fun f(a) { print a; }")
	if reporter.HadError() {
		t.Fatalf("unexpected resolver error: %s", reporter.Summary())
	}
	ref := findVariable(t, stmts, "a")
	depth, ok := locals[ref]
	if !ok {
		t.Fatal("expected parameter reference to resolve to the function's own scope")
	}
	if depth != 0 {
		t.Errorf("got depth %d, want 0", depth)
	}
}

func TestResolve_AssignTargetAlsoResolves(t *testing.T) {
	reporter := lerrors.NewReporterTo(&strings.Builder{})
	stmts := parser.Parse("{ var a = 1; { a = 2; } }", reporter)
	if reporter.HadError() {
		t.Fatalf("unexpected parse error: %s", reporter.Summary())
	}
	locals := resolver.Resolve(stmts, reporter)

	outer := stmts[0].(*ast.BlockStmt)
	inner := outer.Statements[1].(*ast.BlockStmt)
	assignStmt := inner.Statements[0].(*ast.ExpressionStmt)
	assign := assignStmt.Expression.(*ast.Assign)

	depth, ok := locals[assign]
	if !ok {
		t.Fatal("expected the assignment target to have a resolved depth")
	}
	if depth != 1 {
		t.Errorf("got depth %d, want 1", depth)
	}
}
