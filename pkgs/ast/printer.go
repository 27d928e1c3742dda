package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aledsdavies/lox/pkgs/token"
)

// Print renders an expression as a parenthesized, Lisp-style string — the
// standard debugging aid for a recursive-descent expression tree, used by the
// CLI's --debug trace and by parser tests that want a readable
// expectation string instead of asserting on raw node pointers.
func Print(e Expr) string {
	var b strings.Builder
	printExpr(&b, e)
	return b.String()
}

func printExpr(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *Literal:
		b.WriteString(printLiteral(n))
	case *Grouping:
		parenthesize(b, "group", n.Expression)
	case *Unary:
		parenthesize(b, n.Operator.Lexeme, n.Right)
	case *Binary:
		parenthesize(b, n.Operator.Lexeme, n.Left, n.Right)
	case *Logical:
		parenthesize(b, n.Operator.Lexeme, n.Left, n.Right)
	case *Variable:
		b.WriteString(n.Name.Lexeme)
	case *Assign:
		parenthesize(b, "= "+n.Name.Lexeme, n.Value)
	case *Call:
		args := make([]Expr, 0, len(n.Arguments)+1)
		args = append(args, n.Callee)
		args = append(args, n.Arguments...)
		parenthesize(b, "call", args...)
	default:
		fmt.Fprintf(b, "<unknown expr %T>", e)
	}
}

func printLiteral(l *Literal) string {
	switch l.Kind {
	case token.BooleanLiteral:
		return strconv.FormatBool(l.Bool)
	case token.NumberLiteral:
		return strconv.FormatFloat(l.Number, 'g', -1, 64)
	case token.StringLiteral:
		return l.Str
	default:
		return "nil"
	}
}

func parenthesize(b *strings.Builder, name string, exprs ...Expr) {
	b.WriteByte('(')
	b.WriteString(name)
	for _, e := range exprs {
		b.WriteByte(' ')
		printExpr(b, e)
	}
	b.WriteByte(')')
}

// PrintStmts renders a statement list one per line, using Print for any
// embedded expressions. Intended for --debug tracing, not for round-tripping.
func PrintStmts(stmts []Stmt) string {
	var b strings.Builder
	for i, s := range stmts {
		if i > 0 {
			b.WriteByte('\n')
		}
		printStmt(&b, s, 0)
	}
	return b.String()
}

func printStmt(b *strings.Builder, s Stmt, indent int) {
	pad := strings.Repeat("  ", indent)
	switch n := s.(type) {
	case *ExpressionStmt:
		fmt.Fprintf(b, "%s%s;", pad, Print(n.Expression))
	case *PrintStmt:
		fmt.Fprintf(b, "%sprint %s;", pad, Print(n.Expression))
	case *VarStmt:
		if n.Initializer != nil {
			fmt.Fprintf(b, "%svar %s = %s;", pad, n.Name.Lexeme, Print(n.Initializer))
		} else {
			fmt.Fprintf(b, "%svar %s;", pad, n.Name.Lexeme)
		}
	case *BlockStmt:
		fmt.Fprintf(b, "%s{\n", pad)
		for i, inner := range n.Statements {
			if i > 0 {
				b.WriteByte('\n')
			}
			printStmt(b, inner, indent+1)
		}
		fmt.Fprintf(b, "\n%s}", pad)
	case *IfStmt:
		fmt.Fprintf(b, "%sif (%s)\n", pad, Print(n.Condition))
		printStmt(b, n.Then, indent+1)
		if n.Else != nil {
			b.WriteString("\n" + pad + "else\n")
			printStmt(b, n.Else, indent+1)
		}
	case *WhileStmt:
		fmt.Fprintf(b, "%swhile (%s)\n", pad, Print(n.Condition))
		printStmt(b, n.Body, indent+1)
	case *FunctionStmt:
		names := make([]string, len(n.Params))
		for i, p := range n.Params {
			names[i] = p.Lexeme
		}
		fmt.Fprintf(b, "%sfun %s(%s) {\n", pad, n.Name.Lexeme, strings.Join(names, ", "))
		for i, inner := range n.Body {
			if i > 0 {
				b.WriteByte('\n')
			}
			printStmt(b, inner, indent+1)
		}
		fmt.Fprintf(b, "\n%s}", pad)
	case *ReturnStmt:
		if n.Value != nil {
			fmt.Fprintf(b, "%sreturn %s;", pad, Print(n.Value))
		} else {
			fmt.Fprintf(b, "%sreturn;", pad)
		}
	default:
		fmt.Fprintf(b, "%s<unknown stmt %T>", pad, s)
	}
}
