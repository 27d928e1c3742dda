package interpreter_test

import (
	"strings"
	"testing"

	lerrors "github.com/aledsdavies/lox/pkgs/errors"
	"github.com/aledsdavies/lox/pkgs/interpreter"
	"github.com/aledsdavies/lox/pkgs/parser"
	"github.com/aledsdavies/lox/pkgs/resolver"
)

// run parses, resolves, and interprets src, returning everything written by
// `print` and the reporter that accumulated any lexical/parse/runtime errors.
func run(t *testing.T, src string) (string, *lerrors.Reporter) {
	t.Helper()
	reporter := lerrors.NewReporterTo(&strings.Builder{})
	stmts := parser.Parse(src, reporter)
	if reporter.HadError() {
		t.Fatalf("unexpected parse error(s) for %q: %s", src, reporter.Summary())
	}
	locals := resolver.Resolve(stmts, reporter)
	if reporter.HadError() {
		t.Fatalf("unexpected resolver error(s) for %q: %s", src, reporter.Summary())
	}

	var out strings.Builder
	interp := interpreter.NewWithOutput(locals, reporter, &out)
	interp.Interpret(stmts)
	return out.String(), reporter
}

func TestInterpret_ArithmeticPrecedence(t *testing.T) {
	out, reporter := run(t, "print 1 + 2 * 3;")
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %s", reporter.Summary())
	}
	if out != "7\n" {
		t.Errorf("got %q, want %q", out, "7\n")
	}
}

func TestInterpret_ClosuresCaptureEnvironmentNotSnapshot(t *testing.T) {
	src := `
var a = "global";
{
  fun show() { print a; }
  show();
  var a = "block";
  show();
}`
	out, reporter := run(t, src)
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %s", reporter.Summary())
	}
	want := "global\nglobal\n"
	if out != want {
		t.Errorf("got %q, want %q (resolver must prevent the later local 'a' from being seen)", out, want)
	}
}

func TestInterpret_ShortCircuitOrReturnsOperand(t *testing.T) {
	out, _ := run(t, `print "hi" or 2;`)
	if out != "hi\n" {
		t.Errorf("got %q, want %q", out, "hi\n")
	}
}

func TestInterpret_ShortCircuitOrEvaluatesRightWhenLeftFalsy(t *testing.T) {
	out, _ := run(t, `print nil or "yes";`)
	if out != "yes\n" {
		t.Errorf("got %q, want %q", out, "yes\n")
	}
}

func TestInterpret_AndNeverEvaluatesRightOperandWhenLeftFalsy(t *testing.T) {
	src := `
fun boom() { print "should not run"; return true; }
print false and boom();`
	out, _ := run(t, src)
	if out != "false\n" {
		t.Errorf("got %q, want %q (right operand must not have run)", out, "false\n")
	}
}

func TestInterpret_RecursionViaClosure(t *testing.T) {
	src := `
fun fib(n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); }
print fib(10);`
	out, reporter := run(t, src)
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %s", reporter.Summary())
	}
	if out != "55\n" {
		t.Errorf("got %q, want %q", out, "55\n")
	}
}

func TestInterpret_CounterViaClosure(t *testing.T) {
	src := `
fun make() { var i = 0; fun inc() { i = i + 1; return i; } return inc; }
var c = make();
print c();
print c();`
	out, reporter := run(t, src)
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %s", reporter.Summary())
	}
	want := "1\n2\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestInterpret_ForDesugaring(t *testing.T) {
	out, reporter := run(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %s", reporter.Summary())
	}
	want := "0\n1\n2\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestInterpret_PrintGroupingIsTransparent(t *testing.T) {
	withParens, _ := run(t, "print (1 + 2);")
	withoutParens, _ := run(t, "print 1 + 2;")
	if withParens != withoutParens {
		t.Errorf("print(x) output %q differs from print x output %q", withParens, withoutParens)
	}
}

func TestInterpret_StringConcatenationAndNumericAdditionBothUsePlus(t *testing.T) {
	out, reporter := run(t, `print "foo" + "bar";`)
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %s", reporter.Summary())
	}
	if out != "foobar\n" {
		t.Errorf("got %q, want %q", out, "foobar\n")
	}
}

func TestInterpret_MixedPlusOperandsIsRuntimeError(t *testing.T) {
	_, reporter := run(t, `print "foo" + 1;`)
	if !reporter.HadRuntimeError() {
		t.Fatal("expected a runtime error mixing string and number with '+'")
	}
}

func TestInterpret_DivisionByZeroYieldsInfinity(t *testing.T) {
	out, reporter := run(t, "print 1 / 0;")
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %s", reporter.Summary())
	}
	if out != "+Inf\n" {
		t.Errorf("got %q, want %q", out, "+Inf\n")
	}
}

func TestInterpret_UndefinedVariableIsRuntimeError(t *testing.T) {
	_, reporter := run(t, "print notDefined;")
	if !reporter.HadRuntimeError() {
		t.Fatal("expected an undefined-variable runtime error")
	}
}

func TestInterpret_AssignmentNeverAutoDeclares(t *testing.T) {
	_, reporter := run(t, "notDefined = 1;")
	if !reporter.HadRuntimeError() {
		t.Fatal("expected assignment to an undefined variable to be a runtime error")
	}
}

func TestInterpret_GlobalRedeclarationRebinds(t *testing.T) {
	out, reporter := run(t, `var a = 1; print a; var a = 2; print a;`)
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %s", reporter.Summary())
	}
	want := "1\n2\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestInterpret_EqualityNeverCrossesVariants(t *testing.T) {
	out, reporter := run(t, `print 1 == "1"; print nil == false;`)
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %s", reporter.Summary())
	}
	want := "false\nfalse\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestInterpret_TruthinessOfZeroAndEmptyString(t *testing.T) {
	out, reporter := run(t, `if (0) print "zero is truthy"; if ("") print "empty string is truthy";`)
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %s", reporter.Summary())
	}
	want := "zero is truthy\nempty string is truthy\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestInterpret_ClockIsANativeFunctionOfArityZero(t *testing.T) {
	out, reporter := run(t, "print clock() >= 0;")
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %s", reporter.Summary())
	}
	if out != "true\n" {
		t.Errorf("got %q, want %q", out, "true\n")
	}
}

func TestInterpret_CallingNonCallableIsRuntimeError(t *testing.T) {
	_, reporter := run(t, `var a = 1; a();`)
	if !reporter.HadRuntimeError() {
		t.Fatal("expected calling a non-callable to be a runtime error")
	}
}

func TestInterpret_ArityMismatchIsRuntimeError(t *testing.T) {
	_, reporter := run(t, `fun f(a) { return a; } f(1, 2);`)
	if !reporter.HadRuntimeError() {
		t.Fatal("expected an arity mismatch to be a runtime error")
	}
}

func TestInterpret_FunctionWithoutReturnYieldsNil(t *testing.T) {
	out, reporter := run(t, `fun f() { print "ran"; } print f();`)
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %s", reporter.Summary())
	}
	want := "ran\nnil\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}
