package interpreter

import (
	"strconv"

	"github.com/aledsdavies/lox/pkgs/ast"
)

// Value is the runtime sum type: Nil, Boolean, Number, String, or Callable.
// Go has no closed sum type, so the set is represented as an interface with
// a fixed, unexported set of implementations — the same "tagged variant,
// type-switch dispatch" shape used for the AST rather than an open interface
// any type could satisfy.
type Value interface {
	value()
}

// Nil is the language's absence-of-value, distinct from Go's untyped nil so
// that a Value variable can be compared and stringified without a nil check
// at every use site.
type Nil struct{}

// Boolean wraps a bool runtime value.
type Boolean bool

// Number is the language's sole numeric type: a 64-bit IEEE-754 float.
type Number float64

// String wraps a string runtime value.
type String string

// Callable is anything invocable: a native function or a user function
// closing over its declaration environment.
type Callable interface {
	Value
	Arity() int
	Call(i *Interpreter, args []Value) (Value, error)
	String() string
}

func (Nil) value()     {}
func (Boolean) value() {}
func (Number) value()  {}
func (String) value()  {}

// NativeFunction wraps a host-implemented builtin of fixed arity, registered
// in the globals environment ahead of any user code (see natives.go).
type NativeFunction struct {
	Name     string
	ArityN   int
	Function func(i *Interpreter, args []Value) (Value, error)
}

func (*NativeFunction) value()       {}
func (n *NativeFunction) Arity() int { return n.ArityN }
func (n *NativeFunction) String() string {
	return "<native fn>"
}
func (n *NativeFunction) Call(i *Interpreter, args []Value) (Value, error) {
	return n.Function(i, args)
}

// UserFunction is a function declared in source, capturing the environment
// live at its declaration point as its closure (§3.4, §4.4 closure correctness).
type UserFunction struct {
	Declaration *ast.FunctionStmt
	Closure     *Environment
}

func (*UserFunction) value()       {}
func (f *UserFunction) Arity() int { return len(f.Declaration.Params) }
func (f *UserFunction) String() string {
	return "<fn " + f.Declaration.Name.Lexeme + ">"
}

func (f *UserFunction) Call(i *Interpreter, args []Value) (Value, error) {
	env := NewChildEnvironment(f.Closure)
	for idx, param := range f.Declaration.Params {
		env.Define(param.Lexeme, args[idx])
	}

	if err := i.executeBlock(f.Declaration.Body, env); err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	return Nil{}, nil
}

// IsTruthy implements the language's truthiness rule: Nil and Boolean(false)
// are falsy, everything else — including Number(0) and the empty string —
// is truthy.
func IsTruthy(v Value) bool {
	switch n := v.(type) {
	case Nil:
		return false
	case Boolean:
		return bool(n)
	default:
		return true
	}
}

// Equal implements cross-variant-safe equality: identical variants compare
// by payload; any pairing of different variants is false, including Nil
// against anything else.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	default:
		return false
	}
}

// Stringify renders a Value the way `print` does: Nil -> "nil", booleans ->
// "true"/"false", numbers in their shortest decimal form (no trailing ".0"
// for integral values), strings verbatim, callables -> their String().
func Stringify(v Value) string {
	switch n := v.(type) {
	case Nil:
		return "nil"
	case Boolean:
		return strconv.FormatBool(bool(n))
	case Number:
		return strconv.FormatFloat(float64(n), 'g', -1, 64)
	case String:
		return string(n)
	case Callable:
		return n.String()
	default:
		return "nil"
	}
}
