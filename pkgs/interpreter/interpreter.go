// Package interpreter walks a resolved AST and executes it against a chain
// of lexical environments, threading non-local `return` out of arbitrarily
// deep call stacks and managing user functions as closures over the
// environment live at their declaration point.
package interpreter

import (
	"fmt"
	"io"
	"os"

	"github.com/aledsdavies/lox/pkgs/ast"
	lerrors "github.com/aledsdavies/lox/pkgs/errors"
	"github.com/aledsdavies/lox/pkgs/token"
)

// runtimeError wraps a *lerrors.LoxError so it can travel through Go's error
// interface alongside returnSignal without the two being confusable — a type
// switch on err tells the caller which one it has.
type runtimeError struct {
	err *lerrors.LoxError
}

func (r runtimeError) Error() string { return r.err.Error() }

// returnSignal is the non-local `return` control-flow value (§4.3, §9): it
// is deliberately NOT an error a user can observe, but Go has no separate
// non-local-exit channel, so it rides the same error return and is stripped
// back out at the one place that's allowed to see it — Call on *UserFunction.
type returnSignal struct {
	value Value
}

func (returnSignal) Error() string { return "return outside of a function call" }

// Interpreter holds the one mutable piece of execution state: which
// environment is "current". Statement and expression evaluation read and
// restore this field around block and call entry/exit.
type Interpreter struct {
	globals  *Environment
	env      *Environment
	locals   map[ast.Expr]int
	reporter *lerrors.Reporter
	out      io.Writer
}

// New constructs an Interpreter with clock pre-defined in the global scope
// and locals set to the resolver's expression-to-depth table (possibly nil,
// in which case every variable read and assignment goes to globals).
// print statements write to os.Stdout; use NewWithOutput to redirect them.
func New(locals map[ast.Expr]int, reporter *lerrors.Reporter) *Interpreter {
	return NewWithOutput(locals, reporter, os.Stdout)
}

// NewWithOutput is New with an explicit destination for `print` output, for
// tests that want to assert on program output without touching os.Stdout.
func NewWithOutput(locals map[ast.Expr]int, reporter *lerrors.Reporter, out io.Writer) *Interpreter {
	globals := NewEnvironment()
	registerNatives(globals)
	return &Interpreter{globals: globals, env: globals, locals: locals, reporter: reporter, out: out}
}

// Interpret executes stmts top to bottom, reporting the first runtime error
// encountered through the reporter and halting (§4.3: runtime errors halt
// the program's effective execution).
func (i *Interpreter) Interpret(stmts []ast.Stmt) {
	for _, s := range stmts {
		if err := i.execute(s); err != nil {
			i.reportRuntimeError(err)
			return
		}
	}
}

func (i *Interpreter) reportRuntimeError(err error) {
	if re, ok := err.(runtimeError); ok {
		i.reporter.Report(re.err)
		return
	}
	i.reporter.Report(lerrors.NewRuntimeError(0, err.Error()))
}

// --- Statements ---

func (i *Interpreter) execute(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.ExpressionStmt:
		_, err := i.evaluate(n.Expression)
		return err
	case *ast.PrintStmt:
		v, err := i.evaluate(n.Expression)
		if err != nil {
			return err
		}
		fmt.Fprintln(i.out, Stringify(v))
		return nil
	case *ast.VarStmt:
		var value Value = Nil{}
		if n.Initializer != nil {
			v, err := i.evaluate(n.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		i.env.Define(n.Name.Lexeme, value)
		return nil
	case *ast.BlockStmt:
		return i.executeBlock(n.Statements, NewChildEnvironment(i.env))
	case *ast.IfStmt:
		cond, err := i.evaluate(n.Condition)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return i.execute(n.Then)
		} else if n.Else != nil {
			return i.execute(n.Else)
		}
		return nil
	case *ast.WhileStmt:
		for {
			cond, err := i.evaluate(n.Condition)
			if err != nil {
				return err
			}
			if !IsTruthy(cond) {
				return nil
			}
			if err := i.execute(n.Body); err != nil {
				return err
			}
		}
	case *ast.FunctionStmt:
		fn := &UserFunction{Declaration: n, Closure: i.env}
		i.env.Define(n.Name.Lexeme, fn)
		return nil
	case *ast.ReturnStmt:
		var value Value = Nil{}
		if n.Value != nil {
			v, err := i.evaluate(n.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return returnSignal{value: value}
	}
	return nil
}

// executeBlock runs statements against environment, restoring the caller's
// current environment on every exit path — normal completion, a runtime
// error, or a `return` unwinding through it (§4.3 Block semantics).
func (i *Interpreter) executeBlock(statements []ast.Stmt, environment *Environment) error {
	previous := i.env
	i.env = environment
	defer func() { i.env = previous }()

	for _, s := range statements {
		if err := i.execute(s); err != nil {
			return err
		}
	}
	return nil
}

// --- Expressions ---

func (i *Interpreter) evaluate(e ast.Expr) (Value, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return literalValue(n), nil
	case *ast.Grouping:
		return i.evaluate(n.Expression)
	case *ast.Unary:
		return i.evalUnary(n)
	case *ast.Binary:
		return i.evalBinary(n)
	case *ast.Logical:
		return i.evalLogical(n)
	case *ast.Variable:
		return i.lookupVariable(n.Name, n)
	case *ast.Assign:
		return i.evalAssign(n)
	case *ast.Call:
		return i.evalCall(n)
	}
	return Nil{}, nil
}

func literalValue(l *ast.Literal) Value {
	switch l.Kind {
	case token.BooleanLiteral:
		return Boolean(l.Bool)
	case token.NumberLiteral:
		return Number(l.Number)
	case token.StringLiteral:
		return String(l.Str)
	default:
		return Nil{}
	}
}

func (i *Interpreter) evalUnary(n *ast.Unary) (Value, error) {
	right, err := i.evaluate(n.Right)
	if err != nil {
		return nil, err
	}
	switch n.Operator.Type {
	case token.BANG:
		return Boolean(!IsTruthy(right)), nil
	case token.MINUS:
		num, ok := right.(Number)
		if !ok {
			return nil, i.runtimeErr(n.Operator, "operand must be a number")
		}
		return -num, nil
	}
	return Nil{}, nil
}

func (i *Interpreter) evalBinary(n *ast.Binary) (Value, error) {
	left, err := i.evaluate(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Operator.Type {
	case token.MINUS:
		return numOp(i, n.Operator, left, right, func(a, b float64) float64 { return a - b })
	case token.SLASH:
		return numOp(i, n.Operator, left, right, func(a, b float64) float64 { return a / b })
	case token.STAR:
		return numOp(i, n.Operator, left, right, func(a, b float64) float64 { return a * b })
	case token.PLUS:
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return ls + rs, nil
			}
		}
		if ln, ok := left.(Number); ok {
			if rn, ok := right.(Number); ok {
				return ln + rn, nil
			}
		}
		return nil, i.runtimeErr(n.Operator, "operands must be two numbers or two strings")
	case token.GREATER:
		return cmpOp(i, n.Operator, left, right, func(a, b float64) bool { return a > b })
	case token.GREATER_EQUAL:
		return cmpOp(i, n.Operator, left, right, func(a, b float64) bool { return a >= b })
	case token.LESS:
		return cmpOp(i, n.Operator, left, right, func(a, b float64) bool { return a < b })
	case token.LESS_EQUAL:
		return cmpOp(i, n.Operator, left, right, func(a, b float64) bool { return a <= b })
	case token.EQUAL_EQUAL:
		return Boolean(Equal(left, right)), nil
	case token.BANG_EQUAL:
		return Boolean(!Equal(left, right)), nil
	}
	return Nil{}, nil
}

func numOp(i *Interpreter, op token.Token, left, right Value, f func(a, b float64) float64) (Value, error) {
	ln, lok := left.(Number)
	rn, rok := right.(Number)
	if !lok || !rok {
		return nil, i.runtimeErr(op, "operands must be numbers")
	}
	return Number(f(float64(ln), float64(rn))), nil
}

func cmpOp(i *Interpreter, op token.Token, left, right Value, f func(a, b float64) bool) (Value, error) {
	ln, lok := left.(Number)
	rn, rok := right.(Number)
	if !lok || !rok {
		return nil, i.runtimeErr(op, "operands must be numbers")
	}
	return Boolean(f(float64(ln), float64(rn))), nil
}

func (i *Interpreter) evalLogical(n *ast.Logical) (Value, error) {
	left, err := i.evaluate(n.Left)
	if err != nil {
		return nil, err
	}
	if n.Operator.Type == token.OR {
		if IsTruthy(left) {
			return left, nil
		}
	} else if !IsTruthy(left) {
		return left, nil
	}
	return i.evaluate(n.Right)
}

func (i *Interpreter) evalAssign(n *ast.Assign) (Value, error) {
	value, err := i.evaluate(n.Value)
	if err != nil {
		return nil, err
	}
	if distance, ok := i.locals[n]; ok {
		i.env.AssignAt(distance, n.Name.Lexeme, value)
		return value, nil
	}
	if i.globals.Assign(n.Name.Lexeme, value) {
		return value, nil
	}
	return nil, i.runtimeErr(n.Name, "undefined variable '"+n.Name.Lexeme+"'")
}

func (i *Interpreter) evalCall(n *ast.Call) (Value, error) {
	callee, err := i.evaluate(n.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]Value, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		v, err := i.evaluate(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, i.runtimeErr(n.Paren, "can only call functions")
	}
	if len(args) != fn.Arity() {
		return nil, i.runtimeErr(n.Paren, fmt.Sprintf("expected %d arguments but got %d", fn.Arity(), len(args)))
	}
	return fn.Call(i, args)
}

// lookupVariable consults the resolver's locals table first; a miss falls
// through to globals directly (§4.5: unresolved names are treated as global).
func (i *Interpreter) lookupVariable(name token.Token, expr ast.Expr) (Value, error) {
	if distance, ok := i.locals[expr]; ok {
		if v, ok := i.env.GetAt(distance, name.Lexeme); ok {
			return v, nil
		}
	} else if v, ok := i.globals.Get(name.Lexeme); ok {
		return v, nil
	}
	return nil, i.runtimeErr(name, "undefined variable '"+name.Lexeme+"'")
}

func (i *Interpreter) runtimeErr(tok token.Token, message string) error {
	return runtimeError{err: lerrors.NewRuntimeError(tok.Line, message)}
}
