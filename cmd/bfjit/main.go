// Command bfjit runs a Brainfuck source file, by default through the JIT
// engine.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/bfjit-dev/bfjit"
)

func main() {
	os.Exit(doMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// doMain is the testable body of main: no global state, no os.Exit, so
// tests can drive it with in-memory streams and assert on its return code.
func doMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("bfjit", flag.ContinueOnError)
	flags.SetOutput(stderr)

	useInterpreter := flags.Bool("interpreter", false, "run on the reference interpreter instead of the JIT")
	flags.BoolVar(useInterpreter, "i", false, "shorthand for -interpreter")
	optimize := flags.Bool("optimize", true, "run the peephole optimizer before executing")
	flags.BoolVar(optimize, "o", true, "shorthand for -optimize")

	if err := flags.Parse(args); err != nil {
		return 1
	}

	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: bfjit [flags] FILE")
		flags.PrintDefaults()
		return 1
	}

	src, err := os.ReadFile(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "bfjit: %s: %s\n", category(err), err)
		return 1
	}

	cfg := bfjit.NewConfigJIT()
	if *useInterpreter {
		cfg = bfjit.NewConfigInterpreter()
	}
	cfg = cfg.WithOptimize(*optimize)

	vm := bfjit.NewVM(cfg).WithStdin(stdin).WithStdout(stdout)
	if err := vm.Run(src); err != nil {
		fmt.Fprintf(stderr, "bfjit: %s: %s\n", category(err), err)
		return 1
	}

	return 0
}

// category names the error for the "bfjit: <category>: <detail>" line,
// matching how a reader would expect to triage it: a mistake in the
// program, a fault while running it, or an I/O failure underneath it.
func category(err error) string {
	var ce *bfjit.CompileError
	var re *bfjit.RuntimeError
	var ioe *bfjit.IOError
	switch {
	case errors.As(err, &ce):
		return "syntax error"
	case errors.As(err, &re):
		return "runtime error"
	case errors.As(err, &ioe):
		return "i/o error"
	case errors.Is(err, os.ErrNotExist):
		return "file error"
	default:
		return "error"
	}
}
