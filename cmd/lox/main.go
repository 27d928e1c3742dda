// Command lox is the CLI driver: run a script file, or with no arguments
// drop into a read-eval-print loop. Exit codes follow the conforming choice
// recorded in DESIGN.md rather than the reference source's always-zero exit.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/lox/pkgs/ast"
	lerrors "github.com/aledsdavies/lox/pkgs/errors"
	"github.com/aledsdavies/lox/pkgs/interpreter"
	"github.com/aledsdavies/lox/pkgs/parser"
	"github.com/aledsdavies/lox/pkgs/resolver"
)

// Exit code constants.
const (
	exitSuccess    = 0
	exitUsageError = 1
	exitIOError    = 2
	exitDataError  = 3 // lexical or parse error: the source never ran
	exitFailure    = 4 // runtime error during execution
)

var debug bool

func main() {
	root := &cobra.Command{
		Use:     "lox [script]",
		Short:   "A tree-walking interpreter for the lox language",
		Version: "0.1.0",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runFile(args[0])
			}
			runPrompt()
			return nil
		},
	}
	root.Flags().BoolVar(&debug, "debug", false, "print the parsed statement tree before executing")

	if err := root.Execute(); err != nil {
		os.Exit(exitUsageError)
	}
}

// runFile reads path, runs it once, and exits with a code reflecting
// whether the run failed at parse time or at runtime.
func runFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitIOError)
	}

	reporter := lerrors.NewReporter()
	if !execute(string(content), reporter) {
		if reporter.HadRuntimeError() {
			os.Exit(exitFailure)
		}
		os.Exit(exitDataError)
	}
	os.Exit(exitSuccess)
	return nil
}

// runPrompt implements the REPL: prompt, read a line, execute, repeat. A
// blank line (or EOF) exits. Each iteration gets a fresh Reporter so one
// bad line doesn't poison the next, matching a REPL's line-at-a-time contract.
func runPrompt() {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "" {
			return
		}
		execute(line, lerrors.NewReporter())
	}
}

// execute runs one unit of source (a file's contents or a REPL line)
// through the full pipeline and reports whether it completed without error.
func execute(src string, reporter *lerrors.Reporter) bool {
	stmts := parser.Parse(src, reporter)
	if reporter.HadError() {
		return false
	}

	locals := resolver.Resolve(stmts, reporter)
	if reporter.HadError() {
		return false
	}

	if debug {
		fmt.Fprintln(os.Stderr, ast.PrintStmts(stmts))
	}

	interp := interpreter.New(locals, reporter)
	interp.Interpret(stmts)
	return !reporter.HadRuntimeError()
}
