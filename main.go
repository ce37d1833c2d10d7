// Command lox is the driver (spec component I): it runs a Lox source
// file to completion, or starts a line-at-a-time REPL when given none,
// wiring the scan → parse → resolve → evaluate pipeline together and
// routing every error through the diagnostics component so file mode and
// the REPL share one rendering path.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/google/uuid"

	"github.com/gregor-rust/loxwalk/config"
	"github.com/gregor-rust/loxwalk/diagnostics"
	"github.com/gregor-rust/loxwalk/interpreter"
	"github.com/gregor-rust/loxwalk/parser"
	"github.com/gregor-rust/loxwalk/resolver"
	"github.com/gregor-rust/loxwalk/scanner"
)

var usage = heredoc.Doc(`
	lox runs a Lox source file, or starts a line-at-a-time REPL if given none.

	Usage:
	  lox [flags] [path]

	Flags:
	  -cpuprofile <file>   write a CPU profile for the run
	  -config <file>       load driver settings from a TOML file (default .loxrc.toml)
	  -no-color            disable colorized diagnostics regardless of terminal detection
`)

func main() {
	cpuProfile := flag.String("cpuprofile", "", "write a CPU profile to this file")
	configPath := flag.String("config", config.DefaultPath, "path to an optional TOML config file")
	noColor := flag.Bool("no-color", false, "disable colorized diagnostics")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *cpuProfile != "" && cfg.AllowProfiling {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot create profile output file %q: %v\n", *cpuProfile, err)
			os.Exit(1)
		}
		defer f.Close()
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	color := diagnostics.UseColor(*noColor || !cfg.Color, os.Stderr)

	switch flag.NArg() {
	case 0:
		runREPL(cfg, color)
	case 1:
		os.Exit(runFile(flag.Arg(0), color))
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runFile(path string, color bool) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open %q: %v\n", path, err)
		return 1
	}
	return run(string(source), color, os.Stdout)
}

// run executes one program end to end and returns the exit code spec §6
// assigns to its outcome: 0 success, 65 a static error, 70 a runtime
// error.
func run(source string, color bool, out io.Writer) int {
	printer := diagnostics.New(os.Stderr, color, source)

	stmts, errs := parser.Parse(source)
	if len(errs) > 0 {
		for _, e := range errs {
			printer.Print(reportFor(e))
		}
		return 65
	}

	if errs := resolver.Resolve(stmts); len(errs) > 0 {
		for _, e := range errs {
			printer.Print(reportFor(e))
		}
		return 65
	}

	interp := interpreter.New(out, time.Now)
	if err := interp.Interpret(stmts); err != nil {
		printer.Print(reportFor(err))
		return 70
	}
	return 0
}

// runREPL reads one line at a time, running each through the full
// pipeline against a single long-lived interpreter so that globals
// persist across lines; per spec §7, an error on one line never ends the
// session. The session identifier exists only so a transcript's
// diagnostics can be correlated with a particular run — Lox source can
// never observe it (spec §3.1).
func runREPL(cfg config.Config, color bool) {
	sessionID := uuid.New().String()
	fmt.Fprintf(os.Stderr, "lox repl [session %s]\n", sessionID)

	interp := interpreter.New(os.Stdout, time.Now)
	input := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprint(os.Stderr, cfg.Prompt)
		if !input.Scan() {
			break
		}
		line := input.Text()

		printer := diagnostics.New(os.Stderr, color, line)

		stmts, errs := parser.Parse(line)
		if len(errs) > 0 {
			for _, e := range errs {
				printer.Print(reportFor(e))
			}
			continue
		}

		if errs := resolver.Resolve(stmts); len(errs) > 0 {
			for _, e := range errs {
				printer.Print(reportFor(e))
			}
			continue
		}

		if err := interp.Interpret(stmts); err != nil {
			printer.Print(reportFor(err))
		}
	}

	if err := input.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error reading input: %v\n", err)
		os.Exit(1)
	}
}

// reportFor adapts any of the four error-producing components' error
// types to the uniform shape Diagnostics renders.
func reportFor(err error) diagnostics.Report {
	switch e := err.(type) {
	case *scanner.Error:
		return diagnostics.Report{Kind: diagnostics.Scan, Line: e.Line, Message: e.Message}
	case *parser.Error:
		return diagnostics.Report{Kind: diagnostics.Parse, Line: e.Line, Lexeme: e.Token.Lexeme, Message: e.Message}
	case *resolver.Error:
		return diagnostics.Report{Kind: diagnostics.Resolve, Line: e.Line, Lexeme: e.Token.Lexeme, Message: e.Message}
	case *interpreter.RuntimeError:
		return diagnostics.Report{Kind: diagnostics.Runtime, Line: e.Token.Line, Lexeme: e.Token.Lexeme, Message: e.Message}
	default:
		return diagnostics.Report{Kind: diagnostics.Runtime, Message: err.Error()}
	}
}
